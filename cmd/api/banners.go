package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/humanosaude/portal/internal/creative"
)

const errAIKeyMissing = "GOOGLE_AI_API_KEY não configurada"

type cloneRequest struct {
	Action       string             `json:"action"`
	ImageBase64  string             `json:"imageBase64"`
	Analysis     *creative.Analysis `json:"analysis"`
	Operadora    string             `json:"operadora"`
	Plano        string             `json:"plano"`
	Preco        string             `json:"preco"`
	NomeCorretor string             `json:"nomeCorretor"`
	Whatsapp     string             `json:"whatsapp"`
	Instrucao    string             `json:"instrucao"`
}

type cloneAnalysisResponse struct {
	Success  bool              `json:"success"`
	Analysis creative.Analysis `json:"analysis"`
	Model    string            `json:"model"`
}

type cloneHTMLResponse struct {
	Success bool   `json:"success"`
	HTML    string `json:"html"`
	Model   string `json:"model"`
}

// imageErrorMessage maps image validation failures to the messages shown to
// brokers.
func imageErrorMessage(err error) string {
	switch {
	case errors.Is(err, creative.ErrImageRequired):
		return "Imagem obrigatória"
	case errors.Is(err, creative.ErrInvalidImageFormat):
		return "Formato de imagem inválido (esperado data:image/...;base64,...)"
	case errors.Is(err, creative.ErrImageTooLarge):
		return "Imagem muito grande (máx 15MB)"
	case errors.Is(err, creative.ErrInvalidImageEncoding):
		return "Imagem com codificação base64 inválida"
	}
	return err.Error()
}

// @Summary		Clone a reference banner
// @Description	Analyzes a reference ad image or generates personalized banner HTML from it.
// @Tags			Banners
// @Accept			json
// @Produce		json
// @Param			body	body		cloneRequest			true	"action analyze|generate, data URL image and broker data"
// @Success		200		{object}	cloneAnalysisResponse	"analyze result (generate returns {success, html, model})"
// @Failure		400		{object}	response.ErrorResponse	"Invalid image, action or missing analysis"
// @Failure		401		{object}	response.ErrorResponse	"Missing session"
// @Failure		500		{object}	response.ErrorResponse	"Model unavailable or all models failed"
// @Router			/corretor/banners/ai-clone [post]
func (app *application) handleBannerClone(w http.ResponseWriter, r *http.Request) {
	var input cloneRequest
	if err := readJSONLimit(w, r, &input, imageBodyLimit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusBadRequest, imageErrorMessage(creative.ErrImageTooLarge))
			return
		}
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if input.ImageBase64 == "" {
		writeJSONError(w, http.StatusBadRequest, "Imagem obrigatória")
		return
	}
	if app.generator == nil {
		writeJSONError(w, http.StatusInternalServerError, errAIKeyMissing)
		return
	}

	img, err := creative.ParseImage(input.ImageBase64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, imageErrorMessage(err))
		return
	}

	p := creative.Personalization{
		Operadora:    input.Operadora,
		Plano:        input.Plano,
		Preco:        input.Preco,
		NomeCorretor: input.NomeCorretor,
		Whatsapp:     input.Whatsapp,
		Instrucao:    input.Instrucao,
	}
	cloner := creative.NewCloner(app.generator, app.logger)
	ctx := r.Context()

	switch input.Action {
	case "analyze":
		analysis, model, err := cloner.Analyze(ctx, img, p)
		if err != nil {
			app.serverError(w, r, "Erro ao analisar imagem", err)
			return
		}
		writeJSON(w, http.StatusOK, &cloneAnalysisResponse{Success: true, Analysis: analysis, Model: model})

	case "generate":
		if input.Analysis == nil {
			writeJSONError(w, http.StatusBadRequest, "Análise obrigatória para gerar (execute a ação analyze primeiro)")
			return
		}
		html, model, err := cloner.Generate(ctx, img, input.Analysis, p)
		if err != nil {
			app.serverError(w, r, "Erro ao gerar banner", err)
			return
		}
		writeJSON(w, http.StatusOK, &cloneHTMLResponse{Success: true, HTML: html, Model: model})

	default:
		writeJSONError(w, http.StatusBadRequest, "Action inválida (use: analyze ou generate)")
	}
}

type copyTextResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
}

// @Summary		Write banner copy
// @Tags			Banners
// @Accept			json
// @Produce		json
// @Param			body	body		object{prompt:string,operadora:string,plano:string,modalidade:string}	true	"Copy request"
// @Success		200		{object}	copyTextResponse
// @Failure		400		{object}	response.ErrorResponse	"Missing prompt"
// @Failure		500		{object}	response.ErrorResponse	"Model failure"
// @Router			/corretor/banners/ai-text [post]
func (app *application) handleBannerText(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Prompt     string `json:"prompt"`
		Operadora  string `json:"operadora"`
		Plano      string `json:"plano"`
		Modalidade string `json:"modalidade"`
	}
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if strings.TrimSpace(input.Prompt) == "" {
		writeJSONError(w, http.StatusBadRequest, "Prompt obrigatório")
		return
	}
	if app.generator == nil {
		writeJSONError(w, http.StatusInternalServerError, errAIKeyMissing)
		return
	}

	text, err := creative.NewCopywriter(app.generator).Write(r.Context(), creative.CopyRequest{
		Prompt:     input.Prompt,
		Operadora:  input.Operadora,
		Plano:      input.Plano,
		Modalidade: input.Modalidade,
	})
	if err != nil {
		app.serverError(w, r, "Erro ao gerar texto", err)
		return
	}

	writeJSON(w, http.StatusOK, &copyTextResponse{Success: true, Text: text})
}

// @Summary		Search background photos
// @Tags			Banners
// @Produce		json
// @Param			q	query		string	false	"Search term"
// @Success		200	{object}	object{results=[]creative.Photo}
// @Router			/corretor/banners/unsplash [get]
func (app *application) handleBannerPhotos(w http.ResponseWriter, r *http.Request) {
	photos := app.photos.Search(r.Context(), r.URL.Query().Get("q"))

	writeJSON(w, http.StatusOK, map[string][]creative.Photo{"results": photos})
}
