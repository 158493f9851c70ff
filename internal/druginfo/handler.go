package druginfo

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Looker resolves label information by medicine name.
type Looker interface {
	Lookup(ctx context.Context, name string) Info
}

// Handler serves drug information.
type Handler struct {
	looker Looker
}

// NewHandler creates a drug information handler.
func NewHandler(looker Looker) *Handler {
	if looker == nil {
		panic("druginfo: looker cannot be nil")
	}
	return &Handler{looker: looker}
}

// RegisterRoutes mounts GET /medicines/{name}/info.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/medicines/{name}/info", h.GetInfo)
}

// GetInfo always answers 200; unknown medicines carry NotAvailable fields.
func (h *Handler) GetInfo(w http.ResponseWriter, r *http.Request) {
	info := h.looker.Lookup(r.Context(), chi.URLParam(r, "name"))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(info)
}
