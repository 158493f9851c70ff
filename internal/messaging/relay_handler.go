package messaging

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/medreminder/pkg/logging"
)

// TemplateSender sends one templated message.
type TemplateSender interface {
	SendTemplate(ctx context.Context, to string, vars map[string]string) (string, error)
}

// RelayHandler exposes the relay endpoints that forward template messages to
// the provider.
type RelayHandler struct {
	sender TemplateSender
	logger *logging.Logger
}

// NewRelayHandler creates a relay handler.
func NewRelayHandler(sender TemplateSender, logger *logging.Logger) *RelayHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if sender == nil {
		panic("messaging: relay sender cannot be nil")
	}
	return &RelayHandler{sender: sender, logger: logger}
}

// RegisterRoutes mounts the relay routes.
func (h *RelayHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)
	r.Post("/send-whatsapp", h.SendWhatsApp)
}

// Root reports liveness.
func (h *RelayHandler) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "Backend server is running!")
}

// SendWhatsApp handles POST /send-whatsapp.
func (h *RelayHandler) SendWhatsApp(w http.ResponseWriter, r *http.Request) {
	var req RelayRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&req); err != nil {
		writeRelay(w, http.StatusBadRequest, RelayResponse{Error: "invalid request body"})
		return
	}

	sid, err := h.sender.SendTemplate(r.Context(), req.To, req.TemplateVariables)
	if err != nil {
		h.logger.Error("relay send failed", "to", NormalizeE164(req.To), "error", err)
		writeRelay(w, http.StatusInternalServerError, RelayResponse{Error: err.Error()})
		return
	}
	writeRelay(w, http.StatusOK, RelayResponse{Success: true, SID: sid})
}

func writeRelay(w http.ResponseWriter, status int, body RelayResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
