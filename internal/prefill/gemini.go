package prefill

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const transcribePrompt = "Transcribe all printed text on this prescription label exactly as written. Return only the text."

// GeminiRecognizer transcribes label images with a Gemini multimodal model.
type GeminiRecognizer struct {
	client  *genai.Client
	modelID string
}

// NewGeminiRecognizer creates a recognizer.
func NewGeminiRecognizer(ctx context.Context, apiKey, modelID string) (*GeminiRecognizer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("prefill: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("prefill: failed to create gemini client: %w", err)
	}
	return &GeminiRecognizer{client: client, modelID: modelID}, nil
}

// Recognize returns the transcribed label text.
func (r *GeminiRecognizer) Recognize(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("prefill: empty image")
	}
	model := r.client.GenerativeModel(r.modelID)
	model.SetTemperature(0)

	resp, err := model.GenerateContent(ctx, genai.ImageData(imageFormat(mimeType), image), genai.Text(transcribePrompt))
	if err != nil {
		return "", fmt.Errorf("prefill: gemini transcription failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("prefill: gemini returned no candidates")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return strings.TrimSpace(text.String()), nil
}

// Close releases the underlying client.
func (r *GeminiRecognizer) Close() error {
	return r.client.Close()
}

func imageFormat(mimeType string) string {
	if strings.EqualFold(strings.TrimSpace(mimeType), "image/png") {
		return "png"
	}
	return "jpeg"
}
