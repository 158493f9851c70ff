package delivery

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the alert stream and the permission toggle.
type Handler struct {
	hub  *AlertsHub
	gate *PermissionGate
}

// NewHandler creates an alerts handler.
func NewHandler(hub *AlertsHub, gate *PermissionGate) *Handler {
	if hub == nil || gate == nil {
		panic("delivery: hub and permission gate are required")
	}
	return &Handler{hub: hub, gate: gate}
}

// RegisterRoutes mounts the alert routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Handle("/alerts/ws", h.hub)
	r.Get("/alerts/permission", h.GetPermission)
	r.Post("/alerts/permission", h.SetPermission)
}

type permissionBody struct {
	Granted bool `json:"granted"`
}

func (h *Handler) GetPermission(w http.ResponseWriter, _ *http.Request) {
	writePermission(w, h.gate.Granted())
}

// SetPermission grants or revokes local alerts. Armed triggers are kept
// either way.
func (h *Handler) SetPermission(w http.ResponseWriter, r *http.Request) {
	var body permissionBody
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Granted {
		h.gate.Grant()
	} else {
		h.gate.Revoke()
	}
	writePermission(w, h.gate.Granted())
}

func writePermission(w http.ResponseWriter, granted bool) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(permissionBody{Granted: granted})
}
