package creative

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxAnalysisItems = 5

// Analysis is what the model extracts from a reference ad.
type Analysis struct {
	Headline string   `json:"headline"`
	Mensagem string   `json:"mensagem"`
	CTA      string   `json:"cta"`
	Cores    []string `json:"cores"`
	Dicas    []string `json:"dicas"`
	Layout   string   `json:"layout"`
}

var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// ParseAnalysis reads the model answer as JSON, tolerating markdown fences and
// prose around the object. Answers that cannot be parsed produce a degraded
// Analysis instead of an error.
func ParseAnalysis(raw string) Analysis {
	raw = strings.TrimSpace(raw)

	candidate := raw
	if m := jsonObjectPattern.FindString(raw); m != "" {
		candidate = m
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return degradedAnalysis(raw)
	}

	return Analysis{
		Headline: stringField(fields["headline"]),
		Mensagem: stringField(fields["mensagem"]),
		CTA:      stringField(fields["cta"]),
		Cores:    listField(fields["cores"]),
		Dicas:    listField(fields["dicas"]),
		Layout:   stringField(fields["layout"]),
	}
}

func degradedAnalysis(raw string) Analysis {
	return Analysis{
		Mensagem: truncateRunes(raw, 200),
		Cores:    []string{},
		Dicas:    []string{"Não foi possível analisar completamente o anúncio"},
		Layout:   "Não detectado",
	}
}

func stringField(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func listField(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, min(len(items), maxAnalysisItems))
	for _, item := range items {
		if len(out) == maxAnalysisItems {
			break
		}
		out = append(out, stringField(item))
	}
	return out
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
