// Package ai wraps the generative model provider behind a small interface so
// handlers and services can be exercised without network access.
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/humanosaude/portal/internal/logger"
)

const component = "AI"

var ErrAllModelsFailed = errors.New("all models failed")

// Part is one piece of a prompt: either text or inline binary data.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

func Text(s string) Part { return Part{Text: s} }

func Inline(data []byte, mimeType string) Part { return Part{Data: data, MIMEType: mimeType} }

// Options tune a single generation call. Zero values mean provider defaults.
type Options struct {
	System          string
	JSON            bool
	Temperature     *float32
	MaxOutputTokens int32
}

// Generator produces text from a model identified by name.
type Generator interface {
	Generate(ctx context.Context, model string, parts []Part, opts *Options) (string, error)
}

// GenerateWithFallback tries each model in order and returns the first
// successful response together with the model that produced it.
func GenerateWithFallback(ctx context.Context, g Generator, models []string, parts []Part, opts *Options, log *logger.Logger) (string, string, error) {
	if len(models) == 0 {
		return "", "", fmt.Errorf("%w: no models configured", ErrAllModelsFailed)
	}

	var lastErr error
	for _, model := range models {
		if err := ctx.Err(); err != nil {
			return "", "", err
		}

		text, err := g.Generate(ctx, model, parts, opts)
		if err == nil {
			log.Debug(component, "model answered: model=%s chars=%d", model, len(text))
			return text, model, nil
		}

		lastErr = err
		log.Warn(component, "model failed, trying next: model=%s error=%v", model, err)
	}

	return "", "", fmt.Errorf("%w: %v", ErrAllModelsFailed, lastErr)
}
