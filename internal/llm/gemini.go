package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient asks the Gemini API for related words using a JSON array response schema.
type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &GeminiClient{client: c}, nil
}

func (g *GeminiClient) RelatedWords(ctx context.Context, req RelatedRequest) ([]string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(Prompt(req.Word)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A related word or short phrase",
			},
		},
		Temperature: genai.Ptr(float32(req.Temperature)),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: generate: %w", err)
	}
	words, err := DecodeWordList(resp.Text())
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return words, nil
}
