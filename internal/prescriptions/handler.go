package prescriptions

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/medreminder/internal/prefill"
	"github.com/wolfman30/medreminder/internal/schedule"
	"github.com/wolfman30/medreminder/pkg/logging"
)

const maxScanBytes = 10 << 20

// Submitter runs a submission.
type Submitter interface {
	Submit(ctx context.Context, sub schedule.Submission) (*Result, error)
}

// Scanner reads a label image.
type Scanner interface {
	Scan(ctx context.Context, image []byte, mimeType string) (prefill.Result, error)
}

// Handler serves the prescription form endpoints.
type Handler struct {
	submitter Submitter
	scanner   Scanner
	scanLimit func(http.Handler) http.Handler
	logger    *logging.Logger
}

// NewHandler creates a handler. scanner may be nil, which disables label
// scanning.
func NewHandler(submitter Submitter, scanner Scanner, logger *logging.Logger) *Handler {
	if submitter == nil {
		panic("prescriptions: submitter cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{submitter: submitter, scanner: scanner, logger: logger}
}

// WithScanLimit wraps only the scan route, which calls the recognizer.
func (h *Handler) WithScanLimit(mw func(http.Handler) http.Handler) *Handler {
	h.scanLimit = mw
	return h
}

// RegisterRoutes mounts the prescription routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/prescriptions", h.Create)
	if h.scanLimit != nil {
		r.With(h.scanLimit).Post("/prescriptions/scan", h.Scan)
		return
	}
	r.Post("/prescriptions/scan", h.Scan)
}

// Create handles POST /prescriptions.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var sub schedule.Submission
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.submitter.Submit(r.Context(), sub)
	if err != nil {
		var fe schedule.FieldErrors
		if errors.As(err, &fe) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fe})
			return
		}
		h.logger.Error("prescription submit failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add prescription"})
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// Scan handles POST /prescriptions/scan with a multipart "image" field.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	if h.scanner == nil {
		writeJSON(w, http.StatusOK, prefill.Result{Status: prefill.StatusFailed, Message: prefill.MessageFailed})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxScanBytes)
	if err := r.ParseMultipartForm(maxScanBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid upload"})
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid upload"})
		return
	}
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	result, err := h.scanner.Scan(r.Context(), data, mimeType)
	if errors.Is(err, prefill.ErrUnsupportedImage) {
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": "Please upload a JPG or PNG image"})
		return
	}
	if err != nil {
		h.logger.Error("prescription scan failed", "error", err)
		writeJSON(w, http.StatusOK, prefill.Result{Status: prefill.StatusFailed, Message: prefill.MessageFailed})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
