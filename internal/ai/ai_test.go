package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/humanosaude/portal/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedGenerator struct {
	answers map[string]string
	calls   []string
}

func (s *scriptedGenerator) Generate(_ context.Context, model string, _ []Part, _ *Options) (string, error) {
	s.calls = append(s.calls, model)
	if text, ok := s.answers[model]; ok {
		return text, nil
	}
	return "", errors.New("quota exceeded for " + model)
}

func TestGenerateWithFallbackUsesNextModel(t *testing.T) {
	g := &scriptedGenerator{answers: map[string]string{"second": "ok"}}

	text, model, err := GenerateWithFallback(context.Background(), g, []string{"first", "second", "third"}, []Part{Text("hi")}, nil, logger.Nop())

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, "second", model)
	assert.Equal(t, []string{"first", "second"}, g.calls)
}

func TestGenerateWithFallbackAllFail(t *testing.T) {
	g := &scriptedGenerator{}

	_, _, err := GenerateWithFallback(context.Background(), g, []string{"a", "b"}, nil, nil, logger.Nop())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllModelsFailed)
	assert.Contains(t, err.Error(), "quota exceeded for b")
	assert.Equal(t, []string{"a", "b"}, g.calls)
}

func TestGenerateWithFallbackStopsOnCancelledContext(t *testing.T) {
	g := &scriptedGenerator{answers: map[string]string{"a": "ok"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := GenerateWithFallback(ctx, g, []string{"a"}, nil, nil, logger.Nop())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, g.calls)
}

func TestGenerateConfig(t *testing.T) {
	assert.Nil(t, generateConfig(nil))

	temp := float32(0.4)
	cfg := generateConfig(&Options{System: "sys", JSON: true, Temperature: &temp, MaxOutputTokens: 256})
	require.NotNil(t, cfg)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	assert.Equal(t, &temp, cfg.Temperature)
	assert.Equal(t, int32(256), cfg.MaxOutputTokens)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "sys", cfg.SystemInstruction.Parts[0].Text)
}
