// Package prefill turns a photographed prescription label into suggested
// medicine name and dosage values for the submission form.
package prefill

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// Status describes how a scan went.
type Status string

const (
	StatusOK     Status = "ok"
	StatusManual Status = "manual"
	StatusFailed Status = "failed"
)

// User-facing notices.
const (
	MessageOK     = "Prescription processed successfully"
	MessageManual = "Could not extract medicine information. Please fill in manually."
	MessageFailed = "Failed to process prescription. Please try again or fill in manually."
)

// ErrUnsupportedImage is returned for anything other than JPEG or PNG.
var ErrUnsupportedImage = errors.New("prefill: only JPG and PNG images are supported")

var medicineRe = regexp.MustCompile(`([A-Za-z]+)\s*(\d+(?:\.\d+)?(?:\s*mg|\s*ml)?)`)

// Fields are the suggested form values.
type Fields struct {
	Medicine string `json:"medicine"`
	Dosage   string `json:"dosage"`
}

// Result is the outcome of one scan.
type Result struct {
	Prefill Fields `json:"prefill"`
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// Recognizer transcribes the text on a label image.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, mimeType string) (string, error)
}

// Extract finds the first word followed by a number, optionally with an mg or
// ml unit.
func Extract(text string) (Fields, bool) {
	m := medicineRe.FindStringSubmatch(text)
	if m == nil {
		return Fields{}, false
	}
	return Fields{Medicine: m[1], Dosage: strings.TrimSpace(m[2])}, true
}

// SupportedImage reports whether mimeType is JPEG or PNG.
func SupportedImage(mimeType string) bool {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/jpeg", "image/jpg", "image/png":
		return true
	}
	return false
}

// Scanner runs a recognizer and extracts form values from its transcript.
type Scanner struct {
	recognizer Recognizer
}

// NewScanner creates a scanner.
func NewScanner(recognizer Recognizer) *Scanner {
	return &Scanner{recognizer: recognizer}
}

// Scan never fails for a readable label: recognizer errors become
// StatusFailed and unmatched text becomes StatusManual. Only an unsupported
// image type is returned as an error.
func (s *Scanner) Scan(ctx context.Context, image []byte, mimeType string) (Result, error) {
	if !SupportedImage(mimeType) {
		return Result{}, ErrUnsupportedImage
	}
	if s.recognizer == nil {
		return Result{Status: StatusFailed, Message: MessageFailed}, nil
	}
	text, err := s.recognizer.Recognize(ctx, image, mimeType)
	if err != nil {
		return Result{Status: StatusFailed, Message: MessageFailed}, nil
	}
	fields, ok := Extract(text)
	if !ok {
		return Result{Status: StatusManual, Message: MessageManual}, nil
	}
	return Result{Prefill: fields, Status: StatusOK, Message: MessageOK}, nil
}
