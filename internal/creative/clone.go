package creative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/humanosaude/portal/internal/ai"
	"github.com/humanosaude/portal/internal/logger"
)

const component = "BannerClone"

// CloneModels are tried in order for both phases.
var CloneModels = []string{"gemini-2.5-flash", "gemini-2.0-flash"}

var ErrAnalysisRequired = errors.New("análise obrigatória para gerar")

var operatorNames = map[string]string{
	"amil":          "Amil",
	"sulamerica":    "SulAmérica",
	"bradesco":      "Bradesco Saúde",
	"porto":         "Porto Saúde",
	"assim":         "Assim Saúde",
	"levesaude":     "Leve Saúde",
	"unimed":        "Unimed",
	"preventsenior": "Prevent Senior",
	"medsenior":     "MedSenior",
}

// OperatorDisplayName maps a known operator slug to its brand name. Unknown
// values pass through and an empty value defaults to Amil.
func OperatorDisplayName(slug string) string {
	if slug == "" {
		return "Amil"
	}
	if name, ok := operatorNames[slug]; ok {
		return name
	}
	return slug
}

// Personalization holds the broker data placed into a cloned banner.
type Personalization struct {
	Operadora    string
	Plano        string
	Preco        string
	NomeCorretor string
	Whatsapp     string
	Instrucao    string
}

type Cloner struct {
	gen    ai.Generator
	models []string
	log    *logger.Logger
}

func NewCloner(gen ai.Generator, log *logger.Logger) *Cloner {
	return &Cloner{gen: gen, models: CloneModels, log: log}
}

// Analyze asks the model to describe the reference ad and returns the parsed
// analysis plus the model that answered.
func (c *Cloner) Analyze(ctx context.Context, img Image, p Personalization) (Analysis, string, error) {
	c.log.Info(component, "analyzing image: mime=%s sizeKB=%d", img.MIMEType, len(img.Data)/1024)

	parts := []ai.Part{
		ai.Text(analyzePrompt),
		ai.Inline(img.Data, img.MIMEType),
		ai.Text(analysisContext(p)),
	}

	raw, model, err := ai.GenerateWithFallback(ctx, c.gen, c.models, parts, nil, c.log)
	if err != nil {
		return Analysis{}, "", fmt.Errorf("failed to analyze banner: %w", err)
	}

	return ParseAnalysis(raw), model, nil
}

// Generate produces banner HTML cloned from the reference image and analysis.
func (c *Cloner) Generate(ctx context.Context, img Image, analysis *Analysis, p Personalization) (string, string, error) {
	if analysis == nil {
		return "", "", ErrAnalysisRequired
	}

	prompt, err := BuildGeneratePrompt(*analysis, p)
	if err != nil {
		return "", "", err
	}

	parts := []ai.Part{
		ai.Text(prompt),
		ai.Inline(img.Data, img.MIMEType),
		ai.Text(generateInstruction),
	}

	raw, model, err := ai.GenerateWithFallback(ctx, c.gen, c.models, parts, nil, c.log)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate banner: %w", err)
	}

	return CleanGeneratedHTML(raw), model, nil
}

func analysisContext(p Personalization) string {
	operadora := p.Operadora
	if operadora == "" {
		operadora = "Amil"
	}
	plano := p.Plano
	if plano == "" {
		plano = "não especificado"
	}

	s := fmt.Sprintf("Operadora do corretor: %s. Plano: %s.", operadora, plano)
	if p.Instrucao != "" {
		s += " Instrução adicional: " + p.Instrucao
	}
	return s
}

// BuildGeneratePrompt fills the generation template.
func BuildGeneratePrompt(analysis Analysis, p Personalization) (string, error) {
	pretty, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode analysis: %w", err)
	}

	plano := p.Plano
	if plano == "" {
		plano = "Plano Saúde"
	}
	preco := p.Preco
	if preco == "" {
		preco = "Consulte"
	}
	extra := ""
	if p.Instrucao != "" {
		extra = "INSTRUÇÃO EXTRA DO CORRETOR: " + p.Instrucao
	}

	r := strings.NewReplacer(
		"{{ANALYSIS}}", string(pretty),
		"{{OPERADORA}}", OperatorDisplayName(p.Operadora),
		"{{PLANO}}", plano,
		"{{PRECO}}", preco,
		"{{NOME}}", p.NomeCorretor,
		"{{WHATSAPP}}", p.Whatsapp,
		"{{INSTRUCAO_EXTRA}}", extra,
	)
	return r.Replace(generatePrompt), nil
}
