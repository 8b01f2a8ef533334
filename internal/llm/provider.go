package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Client asks a generative language service for words related to a subject.
type Client interface {
	RelatedWords(ctx context.Context, req RelatedRequest) ([]string, error)
}

// RelatedRequest is one relation query.
type RelatedRequest struct {
	Word        string
	Model       string
	Temperature float64
}

var (
	ErrNoAPIKey        = errors.New("llm: api key not configured")
	ErrUnknownProvider = errors.New("llm: unknown provider")
	ErrEmptyResponse   = errors.New("llm: empty response")
)

// New builds the client for the named provider.
func New(ctx context.Context, provider, apiKey string) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gemini", "":
		return NewGeminiClient(ctx, apiKey)
	case "openai":
		return NewOpenAIClient(apiKey)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}
