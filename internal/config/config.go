package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Relay (outbound WhatsApp) service
	RelayPort string
	RelayURL  string

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string
	TwilioContentSID   string
	TwilioBaseURL      string
	OutboundTimeout    time.Duration

	// Local alerts
	AlertsPermissionDefault bool

	// Per-client budget for label scans.
	ScanRateLimit float64
	ScanRateBurst int

	// Drug information
	DrugInfoBaseURL  string
	DrugInfoCacheTTL time.Duration
	RedisAddr        string
	RedisPassword    string

	// Delivery audit
	DatabaseURL string

	// Label scanning
	GeminiAPIKey  string
	GeminiModelID string

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RelayPort: getEnv("RELAY_PORT", "5000"),
		RelayURL:  strings.TrimRight(getEnv("RELAY_URL", ""), "/"),

		TwilioAccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppFrom: getEnv("TWILIO_WHATSAPP_FROM", "whatsapp:+14155238886"),
		TwilioContentSID:   getEnv("TWILIO_CONTENT_SID", ""),
		TwilioBaseURL:      getEnv("TWILIO_BASE_URL", ""),
		OutboundTimeout:    getEnvAsDuration("OUTBOUND_TIMEOUT", 15*time.Second),

		AlertsPermissionDefault: getEnvAsBool("ALERTS_PERMISSION_DEFAULT", true),

		ScanRateLimit: getEnvAsFloat("SCAN_RATE_LIMIT", 0.2),
		ScanRateBurst: getEnvAsInt("SCAN_RATE_BURST", 5),

		DrugInfoBaseURL:  getEnv("DRUGINFO_BASE_URL", "https://api.fda.gov/drug/label.json"),
		DrugInfoCacheTTL: getEnvAsDuration("DRUGINFO_CACHE_TTL", 24*time.Hour),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
