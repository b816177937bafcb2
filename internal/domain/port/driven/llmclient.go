package driven

import (
	"context"
	"errors"
)

// ErrLLMNotConfigured is returned by LLMClient implementations that have no
// API key. Callers fall back to fixed placeholder text.
var ErrLLMNotConfigured = errors.New("llm client not configured: set GEMINI_API_KEY")

// LLMClient defines the driven port for text generation.
type LLMClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
