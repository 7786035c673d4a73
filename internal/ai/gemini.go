package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Gemini calls the Gemini API through the official SDK.
type Gemini struct {
	client *genai.Client
}

func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{client: client}, nil
}

func (g *Gemini) Generate(ctx context.Context, model string, parts []Part, opts *Options) (string, error) {
	gparts := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if len(p.Data) > 0 {
			gparts = append(gparts, genai.NewPartFromBytes(p.Data, p.MIMEType))
			continue
		}
		gparts = append(gparts, genai.NewPartFromText(p.Text))
	}

	contents := []*genai.Content{genai.NewContentFromParts(gparts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, model, contents, generateConfig(opts))
	if err != nil {
		return "", fmt.Errorf("generate content with %s: %w", model, err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from %s", model)
	}
	return text, nil
}

func generateConfig(opts *Options) *genai.GenerateContentConfig {
	if opts == nil {
		return nil
	}

	cfg := &genai.GenerateContentConfig{}
	if opts.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(opts.System, genai.RoleUser)
	}
	if opts.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	if opts.Temperature != nil {
		cfg.Temperature = opts.Temperature
	}
	if opts.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = opts.MaxOutputTokens
	}
	return cfg
}
