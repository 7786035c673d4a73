package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/humanosaude/portal/internal/crm"
	"github.com/humanosaude/portal/internal/response"
	"github.com/humanosaude/portal/internal/store"
	"github.com/humanosaude/portal/internal/validation"
)

type BoardResponse = response.APIResponse[crm.Board]
type CardResponse = response.APIResponse[crm.Card]
type InteractionsResponse = response.APIResponse[[]store.CRMInteracao]
type InteractionResponse = response.APIResponse[*store.CRMInteracao]
type CRMStatsResponse = response.APIResponse[crm.Stats]

type scoreResponse struct {
	Success bool   `json:"success"`
	Score   int    `json:"score"`
	Motivo  string `json:"motivo"`
}

// brokerID returns the broker of the request or answers 401.
func brokerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := corretorID(r)
	if id == "" {
		writeJSONError(w, http.StatusUnauthorized, "Corretor não identificado")
		return "", false
	}
	return id, true
}

func cardID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeJSONError(w, http.StatusBadRequest, "ID de card inválido")
		return "", false
	}
	return id, true
}

func (app *application) cardError(w http.ResponseWriter, r *http.Request, message string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Card não encontrado")
		return
	}
	app.serverError(w, r, message, err)
}

// @Summary		Broker kanban board
// @Description	Every column in fixed order with enriched cards.
// @Tags			CRM
// @Produce		json
// @Success		200	{object}	BoardResponse
// @Failure		401	{object}	response.ErrorResponse
// @Router			/corretor/crm/board [get]
func (app *application) handleCRMBoard(w http.ResponseWriter, r *http.Request) {
	broker, ok := brokerID(w, r)
	if !ok {
		return
	}

	cards, err := app.store.CRM.ListCards(r.Context(), broker)
	if err != nil {
		app.serverError(w, r, "Erro ao carregar board", err)
		return
	}

	writeJSON(w, http.StatusOK, &BoardResponse{Success: true, Data: crm.BuildBoard(cards, time.Now())})
}

// @Summary		Board statistics
// @Tags			CRM
// @Produce		json
// @Success		200	{object}	CRMStatsResponse
// @Router			/corretor/crm/stats [get]
func (app *application) handleCRMStats(w http.ResponseWriter, r *http.Request) {
	broker, ok := brokerID(w, r)
	if !ok {
		return
	}

	cards, err := app.store.CRM.ListCards(r.Context(), broker)
	if err != nil {
		app.serverError(w, r, "Erro ao carregar estatísticas", err)
		return
	}

	writeJSON(w, http.StatusOK, &CRMStatsResponse{Success: true, Data: crm.Summarize(cards, time.Now())})
}

type cardInput struct {
	LeadID        *string  `json:"lead_id" validate:"omitempty,uuid"`
	ColunaSlug    string   `json:"coluna_slug"`
	Titulo        string   `json:"titulo" validate:"required,max=255"`
	Subtitulo     *string  `json:"subtitulo"`
	ValorEstimado *float64 `json:"valor_estimado" validate:"omitempty,gte=0"`
	Posicao       int      `json:"posicao" validate:"gte=0"`
	Tags          []string `json:"tags"`
	Prioridade    string   `json:"prioridade"`
}

// @Summary		Create card
// @Tags			CRM
// @Accept			json
// @Produce		json
// @Param			card	body		cardInput	true	"Card"
// @Success		201		{object}	CardResponse
// @Failure		400		{object}	response.ErrorResponse
// @Failure		409		{object}	response.ErrorResponse	"Lead already on the board"
// @Router			/corretor/crm/cards [post]
func (app *application) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	broker, ok := brokerID(w, r)
	if !ok {
		return
	}

	var input cardInput
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	input.Titulo = strings.TrimSpace(input.Titulo)
	if err := validation.Struct(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, validation.FirstError(err))
		return
	}
	if input.ColunaSlug != "" && !crm.IsColumn(input.ColunaSlug) {
		writeJSONError(w, http.StatusBadRequest, "Coluna inválida")
		return
	}
	if input.Prioridade != "" && !crm.IsPriority(input.Prioridade) {
		writeJSONError(w, http.StatusBadRequest, "Prioridade inválida")
		return
	}

	card := &store.CRMCard{
		CorretorID:    broker,
		LeadID:        input.LeadID,
		ColunaSlug:    input.ColunaSlug,
		Titulo:        input.Titulo,
		Subtitulo:     input.Subtitulo,
		ValorEstimado: input.ValorEstimado,
		Posicao:       input.Posicao,
		Tags:          pq.StringArray(input.Tags),
		Prioridade:    input.Prioridade,
	}

	ctx := r.Context()
	if err := app.store.CRM.CreateCard(ctx, card); err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeJSONError(w, http.StatusConflict, "Lead já está no pipeline")
			return
		}
		app.serverError(w, r, "Erro ao criar card", err)
		return
	}

	if err := app.store.CRM.LogInteraction(ctx, crm.CreatedInteraction(*card)); err != nil {
		app.logger.Warn(component, "failed to log card creation %s: %v", card.ID, err)
	}

	writeJSON(w, http.StatusCreated, &CardResponse{Success: true, Data: crm.Enrich(*card, time.Now())})
}

// @Summary		Update card
// @Tags			CRM
// @Accept			json
// @Produce		json
// @Param			id		path		string	true	"Card id"
// @Param			body	body		object{titulo:string,subtitulo:string,valor_estimado:number,prioridade:string,tags:[]string}	true	"Fields to change"
// @Success		200		{object}	CardResponse
// @Failure		404		{object}	response.ErrorResponse
// @Router			/corretor/crm/cards/{id} [patch]
func (app *application) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	broker, ok := brokerID(w, r)
	if !ok {
		return
	}
	id, ok := cardID(w, r)
	if !ok {
		return
	}

	var input struct {
		Titulo        *string   `json:"titulo" validate:"omitempty,min=1,max=255"`
		Subtitulo     *string   `json:"subtitulo"`
		ValorEstimado *float64  `json:"valor_estimado" validate:"omitempty,gte=0"`
		Prioridade    *string   `json:"prioridade"`
		Tags          *[]string `json:"tags"`
	}
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validation.Struct(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, validation.FirstError(err))
		return
	}
	if input.Prioridade != nil && !crm.IsPriority(*input.Prioridade) {
		writeJSONError(w, http.StatusBadRequest, "Prioridade inválida")
		return
	}

	card, err := app.store.CRM.UpdateCard(r.Context(), broker, id, store.CardPatch{
		Titulo:        input.Titulo,
		Subtitulo:     input.Subtitulo,
		ValorEstimado: input.ValorEstimado,
		Prioridade:    input.Prioridade,
		Tags:          input.Tags,
	})
	if err != nil {
		app.cardError(w, r, "Erro ao atualizar card", err)
		return
	}

	writeJSON(w, http.StatusOK, &CardResponse{Success: true, Data: crm.Enrich(*card, time.Now())})
}

// @Summary		Move card
// @Description	Changes column and position. A column change is logged on the card timeline.
// @Tags			CRM
// @Accept			json
// @Produce		json
// @Param			id		path		string							true	"Card id"
// @Param			body	body		object{coluna:string,posicao:int}	true	"Target"
// @Success		200		{object}	CardResponse
// @Failure		400		{object}	response.ErrorResponse
// @Failure		404		{object}	response.ErrorResponse
// @Router			/corretor/crm/cards/{id}/move [post]
func (app *application) handleMoveCard(w http.ResponseWriter, r *http.Request) {
	broker, ok := brokerID(w, r)
	if !ok {
		return
	}
	id, ok := cardID(w, r)
	if !ok {
		return
	}

	var input struct {
		Coluna  string `json:"coluna"`
		Posicao int    `json:"posicao"`
	}
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if !crm.IsColumn(input.Coluna) {
		writeJSONError(w, http.StatusBadRequest, "Coluna inválida")
		return
	}
	if input.Posicao < 0 {
		writeJSONError(w, http.StatusBadRequest, "Posição inválida")
		return
	}

	ctx := r.Context()
	from, err := app.store.CRM.MoveCard(ctx, broker, id, input.Coluna, input.Posicao)
	if err != nil {
		app.cardError(w, r, "Erro ao mover card", err)
		return
	}

	card, err := app.store.CRM.GetCard(ctx, broker, id)
	if err != nil {
		app.cardError(w, r, "Erro ao carregar card", err)
		return
	}

	if entry := crm.StatusChange(*card, from, input.Coluna); entry != nil {
		if err := app.store.CRM.LogInteraction(ctx, entry); err != nil {
			app.logger.Warn(component, "failed to log column change for card %s: %v", id, err)
		}
	}

	writeJSON(w, http.StatusOK, &CardResponse{Success: true, Data: crm.Enrich(*card, time.Now())})
}

// @Summary		Card timeline
// @Tags			CRM
// @Produce		json
// @Param			id	path		string	true	"Card id"
// @Success		200	{object}	InteractionsResponse
// @Router			/corretor/crm/cards/{id}/interacoes [get]
func (app *application) handleListInteractions(w http.ResponseWriter, r *http.Request) {
	broker, ok := brokerID(w, r)
	if !ok {
		return
	}
	id, ok := cardID(w, r)
	if !ok {
		return
	}

	items, err := app.store.CRM.ListInteractions(r.Context(), broker, id)
	if err != nil {
		app.serverError(w, r, "Erro ao listar interações", err)
		return
	}

	writeJSON(w, http.StatusOK, &InteractionsResponse{Success: true, Data: items})
}

// @Summary		Add interaction
// @Description	Increments the card counter. Proposal interactions also mark the card as hot.
// @Tags			CRM
// @Accept			json
// @Produce		json
// @Param			id		path		string										true	"Card id"
// @Param			body	body		object{tipo:string,titulo:string,descricao:string}	true	"Interaction"
// @Success		201		{object}	InteractionResponse
// @Failure		400		{object}	response.ErrorResponse
// @Failure		404		{object}	response.ErrorResponse
// @Router			/corretor/crm/cards/{id}/interacoes [post]
func (app *application) handleAddInteraction(w http.ResponseWriter, r *http.Request) {
	broker, ok := brokerID(w, r)
	if !ok {
		return
	}
	id, ok := cardID(w, r)
	if !ok {
		return
	}

	var input struct {
		Tipo      string  `json:"tipo"`
		Titulo    string  `json:"titulo" validate:"required,max=255"`
		Descricao *string `json:"descricao"`
	}
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validation.Struct(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, validation.FirstError(err))
		return
	}
	if !crm.IsInteractionType(input.Tipo) {
		writeJSONError(w, http.StatusBadRequest, "Tipo de interação inválido")
		return
	}

	ctx := r.Context()
	card, err := app.store.CRM.GetCard(ctx, broker, id)
	if err != nil {
		app.cardError(w, r, "Erro ao carregar card", err)
		return
	}

	entry := &store.CRMInteracao{
		CardID:     card.ID,
		CorretorID: broker,
		LeadID:     card.LeadID,
		Tipo:       input.Tipo,
		Titulo:     strings.TrimSpace(input.Titulo),
		Descricao:  input.Descricao,
	}
	if err := app.store.CRM.AddInteraction(ctx, entry); err != nil {
		app.cardError(w, r, "Erro ao registrar interação", err)
		return
	}

	writeJSON(w, http.StatusCreated, &InteractionResponse{Success: true, Data: entry})
}

// @Summary		Recalculate card score
// @Tags			CRM
// @Produce		json
// @Param			id	path		string	true	"Card id"
// @Success		200	{object}	scoreResponse
// @Failure		404	{object}	response.ErrorResponse
// @Router			/corretor/crm/cards/{id}/score [post]
func (app *application) handleScoreCard(w http.ResponseWriter, r *http.Request) {
	broker, ok := brokerID(w, r)
	if !ok {
		return
	}
	id, ok := cardID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	card, err := app.store.CRM.GetCard(ctx, broker, id)
	if err != nil {
		app.cardError(w, r, "Erro ao carregar card", err)
		return
	}

	email := ""
	if card.LeadEmail != nil {
		email = *card.LeadEmail
	}
	score, motivo := crm.Score(*card, email, time.Now())

	if err := app.store.CRM.UpdateScore(ctx, broker, id, score, motivo); err != nil {
		app.cardError(w, r, "Erro ao salvar score", err)
		return
	}

	writeJSON(w, http.StatusOK, &scoreResponse{Success: true, Score: score, Motivo: motivo})
}
