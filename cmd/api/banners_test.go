package main

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humanosaude/portal/internal/creative"
)

var pngDataURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG fake image bytes"))

func cloneRequestBody(action, image string) map[string]any {
	return map[string]any{
		"action":       action,
		"imageBase64":  image,
		"operadora":    "amil",
		"plano":        "S380",
		"preco":        "R$ 289,90",
		"nomeCorretor": "Ana",
		"whatsapp":     "21988887777",
	}
}

func TestBannerCloneRequiresSession(t *testing.T) {
	e := newTestEnv(t)

	rr := e.do(t, jsonRequest(t, http.MethodPost, "/api/corretor/banners/ai-clone", cloneRequestBody("analyze", pngDataURL)))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestBannerCloneRejectsBadImages(t *testing.T) {
	tests := []struct {
		name    string
		image   string
		message string
	}{
		{name: "missing", image: "", message: "Imagem obrigatória"},
		{name: "not a data url", image: "https://example.com/banner.png", message: "Formato de imagem"},
		{name: "plain base64", image: base64.StdEncoding.EncodeToString([]byte("abc")), message: "Formato de imagem"},
		{name: "bad encoding", image: "data:image/png;base64,@@@@", message: "base64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)

			req := jsonRequest(t, http.MethodPost, "/api/corretor/banners/ai-clone", cloneRequestBody("analyze", tt.image))
			rr := e.do(t, asBroker(req, testBrokerID))

			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, errorMessage(t, rr), tt.message)
			assert.Empty(t, e.gen.models)
		})
	}
}

func TestBannerCloneRejectsOversizedImage(t *testing.T) {
	e := newTestEnv(t)

	// About 20MB once decoded.
	huge := "data:image/png;base64," + strings.Repeat("A", 28_000_000)
	req := jsonRequest(t, http.MethodPost, "/api/corretor/banners/ai-clone", cloneRequestBody("analyze", huge))
	rr := e.do(t, asBroker(req, testBrokerID))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, errorMessage(t, rr), "muito grande")
	assert.Empty(t, e.gen.models)
}

func TestBannerCloneActions(t *testing.T) {
	t.Run("generate without analysis", func(t *testing.T) {
		e := newTestEnv(t)

		req := jsonRequest(t, http.MethodPost, "/api/corretor/banners/ai-clone", cloneRequestBody("generate", pngDataURL))
		rr := e.do(t, asBroker(req, testBrokerID))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, errorMessage(t, rr), "Análise obrigatória")
	})

	t.Run("unknown action", func(t *testing.T) {
		e := newTestEnv(t)

		req := jsonRequest(t, http.MethodPost, "/api/corretor/banners/ai-clone", cloneRequestBody("publish", pngDataURL))
		rr := e.do(t, asBroker(req, testBrokerID))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Action inválida (use: analyze ou generate)", errorMessage(t, rr))
	})

	t.Run("analyze", func(t *testing.T) {
		e := newTestEnv(t)
		e.gen.reply = "```json\n{\"headline\":\"Plano Amil\",\"cta\":\"Fale comigo\",\"cores\":[\"#003366\"]}\n```"

		req := jsonRequest(t, http.MethodPost, "/api/corretor/banners/ai-clone", cloneRequestBody("analyze", pngDataURL))
		rr := e.do(t, asBroker(req, testBrokerID))

		require.Equal(t, http.StatusOK, rr.Code)
		body := decode[cloneAnalysisResponse](t, rr)
		assert.True(t, body.Success)
		assert.Equal(t, "Plano Amil", body.Analysis.Headline)
		assert.Equal(t, creative.CloneModels[0], body.Model)
	})

	t.Run("generate", func(t *testing.T) {
		e := newTestEnv(t)
		e.gen.reply = "```html\n<div style=\"width:1080px\"><h1>Amil S380</h1><script>alert(1)</script></div>\n```"

		body := cloneRequestBody("generate", pngDataURL)
		body["analysis"] = creative.Analysis{Headline: "Plano Amil", CTA: "Fale comigo"}
		rr := e.do(t, asBroker(jsonRequest(t, http.MethodPost, "/api/corretor/banners/ai-clone", body), testBrokerID))

		require.Equal(t, http.StatusOK, rr.Code)
		out := decode[cloneHTMLResponse](t, rr)
		assert.Contains(t, out.HTML, "Amil S380")
		assert.NotContains(t, out.HTML, "<script")
	})

	t.Run("broker instruction reaches the model", func(t *testing.T) {
		e := newTestEnv(t)
		e.gen.reply = `{"headline":"Plano Amil"}`

		body := cloneRequestBody("analyze", pngDataURL)
		body["instrucao"] = "USE FUNDO AZUL MARINHO"
		rr := e.do(t, asBroker(jsonRequest(t, http.MethodPost, "/api/corretor/banners/ai-clone", body), testBrokerID))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, e.gen.prompt(), "Instrução adicional: USE FUNDO AZUL MARINHO")

		e.gen.texts = nil
		body = cloneRequestBody("generate", pngDataURL)
		body["instrucao"] = "USE FUNDO AZUL MARINHO"
		body["analysis"] = creative.Analysis{Headline: "Plano Amil"}
		rr = e.do(t, asBroker(jsonRequest(t, http.MethodPost, "/api/corretor/banners/ai-clone", body), testBrokerID))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, e.gen.prompt(), "INSTRUÇÃO EXTRA DO CORRETOR: USE FUNDO AZUL MARINHO")
	})

	t.Run("all models failed", func(t *testing.T) {
		e := newTestEnv(t)
		e.gen.err = errors.New("model overloaded")

		req := jsonRequest(t, http.MethodPost, "/api/corretor/banners/ai-clone", cloneRequestBody("analyze", pngDataURL))
		rr := e.do(t, asBroker(req, testBrokerID))

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, errorMessage(t, rr), "Erro ao analisar imagem")
		assert.Equal(t, creative.CloneModels, e.gen.models)
	})

	t.Run("no model configured", func(t *testing.T) {
		e := newTestEnv(t, withoutGenerator())

		req := jsonRequest(t, http.MethodPost, "/api/corretor/banners/ai-clone", cloneRequestBody("analyze", pngDataURL))
		rr := e.do(t, asBroker(req, testBrokerID))

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, errAIKeyMissing, errorMessage(t, rr))
	})
}

func TestBannerTextRequiresPrompt(t *testing.T) {
	e := newTestEnv(t)

	req := jsonRequest(t, http.MethodPost, "/api/corretor/banners/ai-text", map[string]string{"prompt": "  "})
	rr := e.do(t, asBroker(req, testBrokerID))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Prompt obrigatório", errorMessage(t, rr))
}

func TestBannerText(t *testing.T) {
	e := newTestEnv(t)
	e.gen.reply = "Economize até 40% no seu plano!"

	req := jsonRequest(t, http.MethodPost, "/api/corretor/banners/ai-text", map[string]string{
		"prompt":    "headline para PME",
		"operadora": "amil",
	})
	rr := e.do(t, asBroker(req, testBrokerID))

	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[copyTextResponse](t, rr)
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.Text)
	assert.Equal(t, []string{creative.CopyModel}, e.gen.models)
}
