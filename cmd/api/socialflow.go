package main

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/humanosaude/portal/internal/socialflow"
	"github.com/humanosaude/portal/internal/store"
)

const connectPage = "/portal-interno-hks-2026/social-flow/connect"

type ScheduledPostsResponse struct {
	Posts []store.SocialPost `json:"posts"`
}

type BestTimesResponse struct {
	BestTimes []socialflow.BestTime `json:"bestTimes"`
}

type HashtagsResponse struct {
	Hashtags []socialflow.Hashtag `json:"hashtags"`
}

func socialUserID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("x-user-id")); id != "" {
		return id
	}
	return "default"
}

// @Summary		Start social network OAuth
// @Description	Redirects the caller to the network authorization dialog.
// @Tags			SocialFlow
// @Param			network	query	string	false	"Network id"	default(instagram)
// @Success		307
// @Failure		400	{object}	response.ErrorResponse	"Network not supported"
// @Failure		500	{object}	response.ErrorResponse	"App not configured or state store failure"
// @Router			/social-flow/connect [get]
func (app *application) handleSocialConnect(w http.ResponseWriter, r *http.Request) {
	network := r.URL.Query().Get("network")
	if network == "" {
		network = socialflow.Instagram
	}

	authURL, err := app.oauth.Begin(r.Context(), network, socialUserID(r))
	if err != nil {
		var unsupported *socialflow.UnsupportedNetworkError
		if errors.As(err, &unsupported) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		app.logger.Error(component, "oauth begin failed: network=%s error=%v", network, err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

// @Summary		OAuth callback
// @Description	Completes the OAuth exchange, stores the account and redirects back to the portal.
// @Tags			SocialFlow
// @Param			code	query	string	true	"Authorization code"
// @Param			state	query	string	true	"State issued by connect"
// @Success		307
// @Router			/social-flow/callback [get]
func (app *application) handleSocialCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target := app.config.appURL + connectPage

	fail := func(reason string) {
		http.Redirect(w, r, target+"?error="+url.QueryEscape(reason), http.StatusTemporaryRedirect)
	}

	if denied := q.Get("error"); denied != "" {
		reason := q.Get("error_description")
		if reason == "" {
			reason = denied
		}
		fail(reason)
		return
	}

	ctx := r.Context()
	account, err := app.oauth.Complete(ctx, q.Get("code"), q.Get("state"))
	if err != nil {
		app.logger.Warn(component, "oauth callback failed: %v", err)
		fail(err.Error())
		return
	}

	if err := app.store.SocialAccounts.Upsert(ctx, account); err != nil {
		app.logger.Error(component, "failed to store social account %s: %v", account.Username, err)
		fail("Erro ao salvar conta conectada")
		return
	}

	http.Redirect(w, r, target+"?connected="+url.QueryEscape(account.Network), http.StatusTemporaryRedirect)
}

// @Summary		Run a social worker
// @Description	Runs one background job. Requires Bearer CRON_SECRET when configured.
// @Tags			SocialFlow
// @Produce		json
// @Param			job	query		string	true	"publish | analytics | tokens | sync"
// @Success		200	{object}	socialflow.WorkerReport
// @Failure		400	{object}	response.ErrorResponse	"Unknown job"
// @Failure		401	{object}	response.ErrorResponse	"Bad or missing secret"
// @Failure		500	{object}	response.ErrorResponse	"Worker failure"
// @Router			/social-flow/cron [get]
// @Router			/social-flow/cron [post]
func (app *application) handleSocialCron(w http.ResponseWriter, r *http.Request) {
	if !cronAuthorized(r, app.config.social.cronSecret) {
		writeJSONError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	job := r.URL.Query().Get("job")
	report, err := app.cron.Dispatch(r.Context(), job)
	if err != nil {
		var unknown *socialflow.UnknownJobError
		if errors.As(err, &unknown) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		app.serverError(w, r, "Erro ao executar job "+job, err)
		return
	}

	app.logger.Info(component, "cron job %s: processed=%d success=%d failed=%d skipped=%d",
		job, report.TotalProcessed, report.SuccessCount, report.FailureCount, report.SkippedCount)
	writeJSON(w, http.StatusOK, report)
}

// @Summary		List scheduled posts
// @Tags			SocialFlow
// @Produce		json
// @Success		200	{object}	ScheduledPostsResponse
// @Router			/social-flow/scheduled [get]
func (app *application) handleListScheduled(w http.ResponseWriter, r *http.Request) {
	posts, err := app.scheduler.Scheduled(r.Context(), socialUserID(r))
	if err != nil {
		app.serverError(w, r, "Erro ao listar posts agendados", err)
		return
	}
	if posts == nil {
		posts = []store.SocialPost{}
	}

	writeJSON(w, http.StatusOK, &ScheduledPostsResponse{Posts: posts})
}

// @Summary		Reschedule a post
// @Tags			SocialFlow
// @Accept			json
// @Produce		json
// @Param			body	body		object{postId:string,scheduledFor:string}	true	"RFC 3339 timestamp"
// @Success		200		{object}	socialflow.ScheduleResult
// @Failure		400		{object}	response.ErrorResponse
// @Failure		404		{object}	response.ErrorResponse
// @Router			/social-flow/scheduled [put]
func (app *application) handleReschedulePost(w http.ResponseWriter, r *http.Request) {
	var input struct {
		PostID       string `json:"postId"`
		ScheduledFor string `json:"scheduledFor"`
	}
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if !validPostID(w, input.PostID) {
		return
	}

	at, err := time.Parse(time.RFC3339, input.ScheduledFor)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "scheduledFor inválido (esperado RFC 3339)")
		return
	}

	result, err := app.scheduler.Reschedule(r.Context(), input.PostID, at)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "Post não encontrado")
			return
		}
		app.serverError(w, r, "Erro ao reagendar post", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// @Summary		Cancel a scheduled post
// @Tags			SocialFlow
// @Accept			json
// @Produce		json
// @Param			body	body		object{postId:string}	true	"Post id"
// @Success		200		{object}	response.SuccessResponse
// @Failure		400		{object}	response.ErrorResponse
// @Router			/social-flow/scheduled [delete]
func (app *application) handleUnschedulePost(w http.ResponseWriter, r *http.Request) {
	var input struct {
		PostID string `json:"postId"`
	}
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if !validPostID(w, input.PostID) {
		return
	}

	ok, err := app.scheduler.Unschedule(r.Context(), input.PostID)
	if err != nil {
		app.serverError(w, r, "Erro ao cancelar post", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": ok})
}

func validPostID(w http.ResponseWriter, id string) bool {
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "postId obrigatório")
		return false
	}
	if _, err := uuid.Parse(id); err != nil {
		writeJSONError(w, http.StatusBadRequest, "postId inválido")
		return false
	}
	return true
}

// @Summary		Social analytics overview
// @Tags			SocialFlow
// @Produce		json
// @Param			period	query		int	false	"Days"	default(30)
// @Success		200		{object}	socialflow.Overview
// @Router			/social-flow/analytics [get]
func (app *application) handleSocialAnalytics(w http.ResponseWriter, r *http.Request) {
	period := 30
	if p, err := strconv.Atoi(r.URL.Query().Get("period")); err == nil && p > 0 {
		period = p
	}

	overview, err := app.analytics.Overview(r.Context(), socialUserID(r), period)
	if err != nil {
		app.serverError(w, r, "Erro ao carregar métricas", err)
		return
	}

	writeJSON(w, http.StatusOK, overview)
}

// @Summary		Best times to publish
// @Tags			SocialFlow
// @Produce		json
// @Param			account_id	query		string	false	"Restrict to one account"
// @Success		200			{object}	BestTimesResponse
// @Router			/social-flow/best-times [get]
func (app *application) handleSocialBestTimes(w http.ResponseWriter, r *http.Request) {
	slots, err := app.analytics.BestTimes(r.Context(), socialUserID(r), r.URL.Query().Get("account_id"))
	if err != nil {
		app.serverError(w, r, "Erro ao calcular melhores horários", err)
		return
	}
	if slots == nil {
		slots = []socialflow.BestTime{}
	}

	writeJSON(w, http.StatusOK, &BestTimesResponse{BestTimes: slots})
}

func (app *application) assistant(w http.ResponseWriter) (*socialflow.Assistant, bool) {
	if app.generator == nil {
		writeJSONError(w, http.StatusInternalServerError, errAIKeyMissing)
		return nil, false
	}
	return socialflow.NewAssistant(app.generator, app.httpClient, app.logger), true
}

// @Summary		Write a post caption
// @Tags			SocialFlow
// @Accept			json
// @Produce		json
// @Param			body	body		socialflow.CaptionRequest	true	"Caption options"
// @Success		200		{object}	socialflow.CaptionResult
// @Failure		400		{object}	response.ErrorResponse	"Missing topic"
// @Failure		500		{object}	response.ErrorResponse	"Model failure"
// @Router			/social-flow/ai/caption [post]
func (app *application) handleSocialCaption(w http.ResponseWriter, r *http.Request) {
	var input socialflow.CaptionRequest
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(input.Topic) == "" {
		writeJSONError(w, http.StatusBadRequest, "Tópico obrigatório")
		return
	}

	assistant, ok := app.assistant(w)
	if !ok {
		return
	}
	result, err := assistant.Caption(r.Context(), input)
	if err != nil {
		app.serverError(w, r, "Erro ao gerar legenda", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// @Summary		Suggest hashtags
// @Tags			SocialFlow
// @Accept			json
// @Produce		json
// @Param			body	body		socialflow.HashtagRequest	true	"Post content"
// @Success		200		{object}	HashtagsResponse
// @Failure		400		{object}	response.ErrorResponse	"Missing content"
// @Router			/social-flow/ai/hashtags [post]
func (app *application) handleSocialHashtags(w http.ResponseWriter, r *http.Request) {
	var input socialflow.HashtagRequest
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(input.Content) == "" {
		writeJSONError(w, http.StatusBadRequest, "Conteúdo obrigatório")
		return
	}

	assistant, ok := app.assistant(w)
	if !ok {
		return
	}
	tags, err := assistant.Hashtags(r.Context(), input)
	if err != nil {
		app.serverError(w, r, "Erro ao sugerir hashtags", err)
		return
	}

	writeJSON(w, http.StatusOK, &HashtagsResponse{Hashtags: tags})
}

// @Summary		Describe an image for a post
// @Tags			SocialFlow
// @Accept			json
// @Produce		json
// @Param			body	body		socialflow.ImageAnalysisRequest	true	"imageUrl or base64"
// @Success		200		{object}	socialflow.ImageAnalysis
// @Failure		400		{object}	response.ErrorResponse	"No image or undecodable base64"
// @Router			/social-flow/ai/analyze-image [post]
func (app *application) handleSocialAnalyzeImage(w http.ResponseWriter, r *http.Request) {
	var input socialflow.ImageAnalysisRequest
	if err := readJSONLimit(w, r, &input, imageBodyLimit); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if input.ImageURL == "" && input.Base64 == "" {
		writeJSONError(w, http.StatusBadRequest, "Envie imageUrl ou base64")
		return
	}

	assistant, ok := app.assistant(w)
	if !ok {
		return
	}
	result, err := assistant.AnalyzeImage(r.Context(), input)
	if errors.Is(err, socialflow.ErrInvalidImage) {
		writeJSONError(w, http.StatusBadRequest, "base64 inválido")
		return
	}
	if err != nil {
		app.serverError(w, r, "Erro ao analisar imagem", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
