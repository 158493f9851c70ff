package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/medreminder/pkg/logging"
)

var twilioSendTracer = otel.Tracer("medreminder.internal.messaging.twilio_send")

const (
	// DefaultWhatsAppFrom is the Twilio WhatsApp sandbox sender.
	DefaultWhatsAppFrom = "whatsapp:+14155238886"

	defaultTwilioBaseURL = "https://api.twilio.com"
	maxSendAttempts      = 3
)

// TwilioWhatsAppSender posts WhatsApp template messages using Twilio's REST API.
type TwilioWhatsAppSender struct {
	accountSID string
	authToken  string
	from       string
	contentSID string
	baseURL    string
	retryDelay func() time.Duration
	httpClient *http.Client
	logger     *logging.Logger
}

// NewTwilioWhatsAppSender builds a sender with sane defaults.
func NewTwilioWhatsAppSender(accountSID, authToken, from, contentSID string, logger *logging.Logger) *TwilioWhatsAppSender {
	if logger == nil {
		logger = logging.Default()
	}
	if from == "" {
		from = DefaultWhatsAppFrom
	}
	return &TwilioWhatsAppSender{
		accountSID: accountSID,
		authToken:  authToken,
		from:       WhatsAppAddress(from),
		contentSID: contentSID,
		baseURL:    defaultTwilioBaseURL,
		retryDelay: func() time.Duration {
			return time.Duration(200+rand.Intn(300)) * time.Millisecond
		},
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// WithBaseURL points the sender at a different API host.
func (s *TwilioWhatsAppSender) WithBaseURL(baseURL string) *TwilioWhatsAppSender {
	s.baseURL = strings.TrimRight(baseURL, "/")
	return s
}

// WithRetryDelay overrides the pause between attempts.
func (s *TwilioWhatsAppSender) WithRetryDelay(d time.Duration) *TwilioWhatsAppSender {
	s.retryDelay = func() time.Duration { return d }
	return s
}

// SendTemplate sends the configured content template to a recipient and
// returns the Twilio message SID. Transient failures are retried.
func (s *TwilioWhatsAppSender) SendTemplate(ctx context.Context, to string, vars map[string]string) (string, error) {
	if s.accountSID == "" || s.authToken == "" {
		return "", ErrCredentialsMissing
	}
	if s.contentSID == "" {
		return "", ErrContentSIDRequired
	}
	if NormalizeE164(to) == "" {
		return "", ErrRecipientRequired
	}
	contentVars, err := json.Marshal(vars)
	if err != nil {
		return "", fmt.Errorf("messaging: encode template variables: %w", err)
	}

	ctx, span := twilioSendTracer.Start(ctx, "messaging.twilio.whatsapp_send")
	defer span.End()
	span.SetAttributes(
		attribute.String("medreminder.to", NormalizeE164(to)),
		attribute.String("medreminder.content_sid", s.contentSID),
	)

	payload := url.Values{}
	payload.Set("To", WhatsAppAddress(to))
	payload.Set("From", s.from)
	payload.Set("ContentSid", s.contentSID)
	payload.Set("ContentVariables", string(contentVars))

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSID)

	var lastErr error
	for attempt := 1; attempt <= maxSendAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
		if err != nil {
			lastErr = err
			break
		}
		req.SetBasicAuth(s.accountSID, s.authToken)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				var parsed struct {
					SID    string `json:"sid"`
					Status string `json:"status"`
				}
				_ = json.Unmarshal(body, &parsed)
				s.logger.Info("twilio whatsapp sent", "to", NormalizeE164(to), "sid", parsed.SID, "status", parsed.Status)
				return parsed.SID, nil
			}
			lastErr = fmt.Errorf("messaging: twilio send failed: %s", formatTwilioError(resp.StatusCode, body))
			// Don't retry non-rate-limit 4xx errors.
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				break
			}
		}

		if attempt < maxSendAttempts {
			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
				attempt = maxSendAttempts
			case <-time.After(s.retryDelay()):
			}
		}
	}

	span.RecordError(lastErr)
	return "", lastErr
}

type twilioAPIError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func formatTwilioError(status int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return fmt.Sprintf("status %d", status)
	}
	var parsed twilioAPIError
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil && parsed.Message != "" {
		if parsed.Code != 0 {
			return fmt.Sprintf("status %d code %d: %s", status, parsed.Code, parsed.Message)
		}
		return fmt.Sprintf("status %d: %s", status, parsed.Message)
	}
	return fmt.Sprintf("status %d: %s", status, trimmed)
}
