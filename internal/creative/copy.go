package creative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/humanosaude/portal/internal/ai"
)

const CopyModel = "gemini-2.0-flash"

var ErrPromptRequired = errors.New("prompt obrigatório")

type CopyRequest struct {
	Prompt     string
	Operadora  string
	Plano      string
	Modalidade string
}

// Copywriter writes short banner texts.
type Copywriter struct {
	gen ai.Generator
}

func NewCopywriter(gen ai.Generator) *Copywriter {
	return &Copywriter{gen: gen}
}

func (c *Copywriter) Write(ctx context.Context, req CopyRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", ErrPromptRequired
	}

	system := fmt.Sprintf(copyPrompt,
		orDefault(req.Operadora, "generica"),
		orDefault(req.Plano, "generico"),
		orDefault(req.Modalidade, "PME"),
	)

	text, err := c.gen.Generate(ctx, CopyModel, []ai.Part{
		ai.Text(system),
		ai.Text("Pedido do corretor: " + req.Prompt),
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate copy: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
