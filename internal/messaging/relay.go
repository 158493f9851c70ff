package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wolfman30/medreminder/pkg/logging"
)

// RelayRequest is the body accepted by the relay's send endpoint.
type RelayRequest struct {
	To                string            `json:"to"`
	TemplateVariables map[string]string `json:"templateVariables"`
}

// RelayResponse is the relay's answer.
type RelayResponse struct {
	Success bool   `json:"success"`
	SID     string `json:"sid,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RelayClient sends template messages through the relay service so the
// provider credentials never leave it.
type RelayClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewRelayClient creates a client for the relay at baseURL.
func NewRelayClient(baseURL string, logger *logging.Logger) *RelayClient {
	if logger == nil {
		logger = logging.Default()
	}
	return &RelayClient{
		endpoint:   strings.TrimRight(baseURL, "/") + "/send-whatsapp",
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// SendTemplate posts one message to the relay and returns the provider SID.
func (c *RelayClient) SendTemplate(ctx context.Context, to string, vars map[string]string) (string, error) {
	if strings.TrimSpace(to) == "" {
		return "", ErrRecipientRequired
	}
	body, err := json.Marshal(RelayRequest{To: to, TemplateVariables: vars})
	if err != nil {
		return "", fmt.Errorf("messaging: encode relay request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("messaging: build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("messaging: relay request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var parsed RelayResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("messaging: relay status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if !parsed.Success {
		return "", fmt.Errorf("%w: %s", ErrRelayRejected, parsed.Error)
	}
	c.logger.Debug("relay accepted message", "sid", parsed.SID)
	return parsed.SID, nil
}
