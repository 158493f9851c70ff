package messaging

import (
	"strings"

	"github.com/wolfman30/medreminder/pkg/logging"
)

const (
	// ProviderRelay sends through the relay service.
	ProviderRelay = "relay"
	// ProviderTwilio talks to Twilio directly.
	ProviderTwilio = "twilio"
	// ProviderNone disables outbound messages.
	ProviderNone = "none"
)

// ProviderConfig captures what is needed to build an outbound sender.
type ProviderConfig struct {
	RelayURL           string
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string
	TwilioContentSID   string
	TwilioBaseURL      string
}

// BuildSender picks the outbound sender. The relay wins when configured; direct
// Twilio is used when credentials exist. It returns the sender, the selected
// provider and a reason when nothing could be built.
func BuildSender(cfg ProviderConfig, logger *logging.Logger) (TemplateSender, string, string) {
	if logger == nil {
		logger = logging.Default()
	}
	if relay := strings.TrimSpace(cfg.RelayURL); relay != "" {
		return NewRelayClient(relay, logger), ProviderRelay, ""
	}

	var missing []string
	if cfg.TwilioAccountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID missing")
	}
	if cfg.TwilioAuthToken == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN missing")
	}
	if cfg.TwilioContentSID == "" {
		missing = append(missing, "TWILIO_CONTENT_SID missing")
	}
	if len(missing) > 0 {
		return nil, ProviderNone, strings.Join(missing, ", ")
	}
	sender := NewTwilioWhatsAppSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom, cfg.TwilioContentSID, logger)
	if cfg.TwilioBaseURL != "" {
		sender.WithBaseURL(cfg.TwilioBaseURL)
	}
	return sender, ProviderTwilio, ""
}
