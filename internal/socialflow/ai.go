package socialflow

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/humanosaude/portal/internal/ai"
	"github.com/humanosaude/portal/internal/logger"
)

var AssistantModels = []string{"gemini-2.5-flash", "gemini-2.0-flash"}

const maxRemoteImageBytes = 15 << 20

var (
	ErrTopicRequired   = errors.New("tópico obrigatório")
	ErrContentRequired = errors.New("conteúdo obrigatório")
	ErrImageSource     = errors.New("envie imageUrl ou base64")
	ErrInvalidImage    = errors.New("base64 inválido")
)

var toneDescriptions = map[string]string{
	"professional":  "Profissional, confiável, autoritativo. Ideal para corretora de seguros.",
	"casual":        "Descontraído, próximo, como uma conversa com um amigo.",
	"fun":           "Divertido, com humor leve e emojis.",
	"inspirational": "Inspirador, motivacional, que gera conexão emocional.",
	"educational":   "Educativo, informativo, que ensina algo novo sobre saúde.",
}

// DefaultHashtags is served when the model cannot suggest hashtags.
var DefaultHashtags = []string{
	"#planodeaude",
	"#segurosaude",
	"#humanosaude",
	"#saude",
	"#bemestar",
	"#qualidadedevida",
	"#planodesaudeempresarial",
	"#planodesaudeindividual",
	"#corretordeseguros",
	"#vidasaudavel",
	"#prevencao",
	"#saudemental",
	"#planodesaudefamiliar",
	"#seguro",
	"#protecao",
}

type CaptionRequest struct {
	Topic            string   `json:"topic"`
	Network          string   `json:"network"`
	PostType         string   `json:"postType"`
	Tone             string   `json:"tone"`
	Keywords         []string `json:"keywords"`
	ImageDescription string   `json:"imageDescription"`
	Language         string   `json:"language"`
	MaxLength        int      `json:"maxLength"`
	IncludeEmojis    *bool    `json:"includeEmojis"`
	IncludeHashtags  bool     `json:"includeHashtags"`
}

type CaptionResult struct {
	Caption        string   `json:"caption"`
	Hashtags       []string `json:"hashtags"`
	CharacterCount int      `json:"characterCount"`
	Tone           string   `json:"tone"`
}

type HashtagRequest struct {
	Content     string `json:"content"`
	Network     string `json:"network"`
	Niche       string `json:"niche"`
	Language    string `json:"language"`
	MaxHashtags int    `json:"maxHashtags"`
}

type Hashtag struct {
	Tag            string  `json:"tag"`
	Category       string  `json:"category"`
	Popularity     string  `json:"popularity"`
	RelevanceScore float64 `json:"relevanceScore"`
}

func fallbackHashtags() []Hashtag {
	out := make([]Hashtag, len(DefaultHashtags))
	for i, tag := range DefaultHashtags {
		out[i] = Hashtag{Tag: tag, Category: "niche", Popularity: "medium", RelevanceScore: 0.5}
	}
	return out
}

type ImageAnalysisRequest struct {
	ImageURL string `json:"imageUrl"`
	Base64   string `json:"base64"`
	MIMEType string `json:"mimeType"`
}

type ImageAnalysis struct {
	Objects           []string `json:"objects"`
	Colors            []string `json:"colors"`
	Mood              string   `json:"mood"`
	Description       string   `json:"description"`
	SuggestedCaption  string   `json:"suggestedCaption"`
	SuggestedHashtags []string `json:"suggestedHashtags"`
	IsSafe            bool     `json:"isSafe"`
	AltText           string   `json:"altText"`
}

// Assistant writes captions, suggests hashtags and describes images for
// social posts.
type Assistant struct {
	gen    ai.Generator
	models []string
	client *http.Client
	log    *logger.Logger
}

func NewAssistant(gen ai.Generator, client *http.Client, log *logger.Logger) *Assistant {
	if client == nil {
		client = http.DefaultClient
	}
	return &Assistant{gen: gen, models: AssistantModels, client: client, log: log}
}

func (a *Assistant) Caption(ctx context.Context, req CaptionRequest) (CaptionResult, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return CaptionResult{}, ErrTopicRequired
	}
	cfg := networkOrInstagram(req.Network)
	maxLen := req.MaxLength
	if maxLen <= 0 {
		maxLen = cfg.MaxCaptionLength
	}
	tone := req.Tone
	if _, ok := toneDescriptions[tone]; !ok {
		tone = "professional"
	}

	emojis := "Use emojis estrategicamente."
	if req.IncludeEmojis != nil && !*req.IncludeEmojis {
		emojis = "Não use emojis."
	}
	hashtags := "Não inclua hashtags na legenda."
	if req.IncludeHashtags {
		hashtags = fmt.Sprintf("Inclua até %d hashtags relevantes do nicho de saúde/seguros.", cfg.MaxHashtags)
	}

	system := fmt.Sprintf(captionPrompt, cfg.Name, maxLen, toneDescriptions[tone], orDefault(req.Language, "pt-BR"), emojis, hashtags)

	var user strings.Builder
	fmt.Fprintf(&user, "Crie uma legenda para um post tipo %q sobre: %s\n", orDefault(req.PostType, "feed"), req.Topic)
	if len(req.Keywords) > 0 {
		fmt.Fprintf(&user, "Palavras-chave: %s\n", strings.Join(req.Keywords, ", "))
	}
	if req.ImageDescription != "" {
		fmt.Fprintf(&user, "A imagem mostra: %s\n", req.ImageDescription)
	}
	user.WriteString(`Responda APENAS em JSON: { "caption": "...", "hashtags": ["...", "..."] }`)

	var parsed struct {
		Caption  string   `json:"caption"`
		Hashtags []string `json:"hashtags"`
	}
	if err := a.generateJSON(ctx, system, []ai.Part{ai.Text(user.String())}, 0.7, 1000, &parsed); err != nil {
		return CaptionResult{}, err
	}
	if parsed.Hashtags == nil {
		parsed.Hashtags = []string{}
	}

	return CaptionResult{
		Caption:        parsed.Caption,
		Hashtags:       parsed.Hashtags,
		CharacterCount: utf8.RuneCountInString(parsed.Caption),
		Tone:           tone,
	}, nil
}

func (a *Assistant) Hashtags(ctx context.Context, req HashtagRequest) ([]Hashtag, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrContentRequired
	}
	cfg := networkOrInstagram(req.Network)
	limit := req.MaxHashtags
	if limit <= 0 {
		limit = cfg.MaxHashtags
	}

	system := fmt.Sprintf(hashtagPrompt, cfg.Name, limit, orDefault(req.Language, "pt-BR"))
	user := fmt.Sprintf("Conteúdo do post: %q", req.Content)
	if req.Niche != "" {
		user += "\nNicho específico: " + req.Niche
	}

	var parsed struct {
		Hashtags []Hashtag `json:"hashtags"`
	}
	if err := a.generateJSON(ctx, system, []ai.Part{ai.Text(user)}, 0.6, 800, &parsed); err != nil {
		a.log.Warn(component, "hashtag generation failed, serving defaults: %v", err)
		parsed.Hashtags = fallbackHashtags()
	}
	out := parsed.Hashtags
	if out == nil {
		out = []Hashtag{}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (a *Assistant) AnalyzeImage(ctx context.Context, req ImageAnalysisRequest) (ImageAnalysis, error) {
	var image ai.Part
	switch {
	case req.Base64 != "":
		data, err := base64.StdEncoding.DecodeString(req.Base64)
		if err != nil {
			return ImageAnalysis{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
		image = ai.Inline(data, orDefault(req.MIMEType, "image/jpeg"))
	case req.ImageURL != "":
		p, err := a.fetchImage(ctx, req.ImageURL)
		if err != nil {
			return ImageAnalysis{}, err
		}
		image = p
	default:
		return ImageAnalysis{}, ErrImageSource
	}

	var out ImageAnalysis
	parts := []ai.Part{ai.Text("Analise esta imagem para publicação nas redes sociais:"), image}
	if err := a.generateJSON(ctx, analyzeImagePrompt, parts, 0.3, 800, &out); err != nil {
		return ImageAnalysis{}, err
	}
	if utf8.RuneCountInString(out.AltText) > 125 {
		out.AltText = string([]rune(out.AltText)[:125])
	}
	return out, nil
}

func (a *Assistant) fetchImage(ctx context.Context, url string) (ai.Part, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ai.Part{}, fmt.Errorf("invalid image url: %w", err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return ai.Part{}, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ai.Part{}, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteImageBytes))
	if err != nil {
		return ai.Part{}, fmt.Errorf("failed to read image: %w", err)
	}
	mime := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(data)
	}
	return ai.Inline(data, mime), nil
}

func (a *Assistant) generateJSON(ctx context.Context, system string, parts []ai.Part, temperature float32, maxTokens int32, dest any) error {
	opts := &ai.Options{System: system, JSON: true, Temperature: &temperature, MaxOutputTokens: maxTokens}
	text, _, err := ai.GenerateWithFallback(ctx, a.gen, a.models, parts, opts, a.log)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(jsonBody(text)), dest); err != nil {
		return fmt.Errorf("resposta da IA em formato inesperado: %w", err)
	}
	return nil
}

// jsonBody trims markdown fences and text around the outermost object.
func jsonBody(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

func networkOrInstagram(id string) NetworkConfig {
	if cfg, ok := Network(id); ok {
		return cfg
	}
	cfg, _ := Network(Instagram)
	return cfg
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

const captionPrompt = `Você é um social media expert especializado em corretora de planos de saúde (Humano Saúde).
Crie legendas envolventes e otimizadas para %s.
Limite: %d caracteres.
Tom: %s
Idioma: %s.
%s
%s`

const hashtagPrompt = `Você é um especialista em hashtags para redes sociais.
Sugira hashtags otimizadas para %s no nicho de planos de saúde / corretora de seguros (Humano Saúde).
Máximo: %d hashtags.
Idioma: %s.
Mix: 30%% trending, 40%% nicho, 20%% branded, 10%% general.

Responda APENAS em JSON:
{
  "hashtags": [
    { "tag": "#exemplo", "category": "niche", "popularity": "medium", "relevanceScore": 0.85 }
  ]
}`

const analyzeImagePrompt = `Você é um analista visual de conteúdo para redes sociais de uma corretora de planos de saúde (Humano Saúde).
Analise a imagem e retorne APENAS JSON:
{
  "objects": ["objeto1", "objeto2"],
  "colors": ["cor1", "cor2"],
  "mood": "profissional/alegre/informativo/etc",
  "description": "Descrição detalhada da imagem",
  "suggestedCaption": "Legenda sugerida",
  "suggestedHashtags": ["#tag1", "#tag2"],
  "isSafe": true,
  "altText": "Texto alternativo acessível (max 125 chars)"
}`
