package reminders

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/medreminder/internal/calendar"
	"github.com/wolfman30/medreminder/internal/views"
	"github.com/wolfman30/medreminder/pkg/logging"
)

// Handler serves reminder projections and the taken mutation.
type Handler struct {
	store  *Store
	now    func() time.Time
	logger *logging.Logger
}

// NewHandler creates a handler. A nil now uses time.Now.
func NewHandler(store *Store, now func() time.Time, logger *logging.Logger) *Handler {
	if store == nil {
		panic("reminders: store cannot be nil")
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, now: now, logger: logger}
}

// RegisterRoutes mounts the reminder and medicine routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/reminders", h.List)
	r.Get("/reminders.ics", h.Calendar)
	r.Get("/reminders/today", h.Today)
	r.Get("/reminders/week", h.Week)
	r.Get("/reminders/upcoming", h.Upcoming)
	r.Post("/reminders/{id}/taken", h.MarkTaken)
	r.Get("/medicines", h.Medicines)
}

func (h *Handler) List(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Snapshot())
}

func (h *Handler) Today(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, views.Today(h.store.Snapshot(), h.now()))
}

func (h *Handler) Upcoming(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, views.Upcoming(h.store.Snapshot(), h.now()))
}

// Week serves the seven-day grid. offset pages whole weeks from the current
// one; negative values go back.
func (h *Handler) Week(w http.ResponseWriter, r *http.Request) {
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "offset must be an integer"})
			return
		}
		offset = n
	}
	now := h.now()
	anchor := views.NewWeekPager(now).Offset(offset)
	writeJSON(w, http.StatusOK, views.Week(h.store.Snapshot(), anchor, now))
}

func (h *Handler) Medicines(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, views.Medicines(h.store.Snapshot()))
}

// MarkTaken answers 204 whether or not the id exists.
func (h *Handler) MarkTaken(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if n := h.store.MarkTaken(id); n > 0 {
		h.logger.Info("dose marked taken", "reminder_id", id, "updated", n)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Calendar(w http.ResponseWriter, _ *http.Request) {
	data, err := calendar.Encode(h.store.Snapshot(), h.now())
	if err != nil {
		h.logger.Error("calendar export failed", "error", err)
		http.Error(w, "calendar export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", calendar.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="reminders.ics"`)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
