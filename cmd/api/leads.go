package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"

	"github.com/humanosaude/portal/internal/response"
	"github.com/humanosaude/portal/internal/store"
	"github.com/humanosaude/portal/internal/validation"
)

const (
	defaultLeadLimit = 50
	maxLeadLimit     = 100
)

type LeadResponse = response.APIResponse[*store.Lead]
type ListLeadsResponse = response.APIResponse[[]store.Lead]
type LeadDashboardResponse = response.APIResponse[store.LeadDashboard]
type PipelineResponse = response.APIResponse[[]store.PipelineStage]
type OperatorStatsResponse = response.APIResponse[[]store.OperatorStats]

type scannedLeadResponse struct {
	Success   bool        `json:"success"`
	Duplicado bool        `json:"duplicado"`
	Data      *store.Lead `json:"data"`
}

// leadForm is what the public site and calculator submit.
type leadForm struct {
	Nome        string   `json:"nome" validate:"required,min=3,max=255,person_name"`
	Email       string   `json:"email" validate:"required,email"`
	Telefone    string   `json:"telefone" validate:"required,br_phone"`
	Perfil      string   `json:"perfil" validate:"required"`
	CNPJ        string   `json:"cnpj" validate:"omitempty,cnpj"`
	Acomodacao  string   `json:"acomodacao" validate:"omitempty,oneof=enfermaria apartamento"`
	Idades      []int64  `json:"idades" validate:"omitempty,max=99,dive,min=0,max=120"`
	Bairro      string   `json:"bairro"`
	Top3Planos  []string `json:"top_3_planos"`
	Origem      string   `json:"origem"`
	UTMSource   string   `json:"utm_source"`
	UTMMedium   string   `json:"utm_medium"`
	UTMCampaign string   `json:"utm_campaign"`
	UTMContent  string   `json:"utm_content"`
	UTMTerm     string   `json:"utm_term"`
}

// formExtras is stored under dados_pdf.formulario.
func (f leadForm) formExtras() (types.JSONText, error) {
	extras := map[string]any{
		"perfil":       f.Perfil,
		"cnpj":         validation.Digits(f.CNPJ),
		"acomodacao":   f.Acomodacao,
		"bairro":       f.Bairro,
		"top_3_planos": f.Top3Planos,
		"utm_source":   f.UTMSource,
		"utm_medium":   f.UTMMedium,
		"utm_campaign": f.UTMCampaign,
		"utm_content":  f.UTMContent,
		"utm_term":     f.UTMTerm,
	}
	raw, err := json.Marshal(map[string]any{"formulario": extras})
	if err != nil {
		return nil, err
	}
	return types.JSONText(raw), nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// @Summary		Submit a lead
// @Description	Public lead form used by the site and the calculator.
// @Tags			Leads
// @Accept			json
// @Produce		json
// @Param			lead	body		leadForm				true	"Lead form"
// @Success		201		{object}	LeadResponse
// @Failure		400		{object}	response.ErrorResponse	"Validation failure"
// @Failure		500		{object}	response.ErrorResponse	"Failed to store lead"
// @Router			/leads [post]
func (app *application) handleSubmitLead(w http.ResponseWriter, r *http.Request) {
	var input leadForm
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	input.Nome = strings.TrimSpace(input.Nome)
	input.Email = strings.TrimSpace(input.Email)

	if err := validation.Struct(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, validation.FirstError(err))
		return
	}

	extras, err := input.formExtras()
	if err != nil {
		app.serverError(w, r, "Erro ao preparar lead", err)
		return
	}

	origem := input.Origem
	if origem == "" {
		origem = store.OrigemSite
	}
	lead := &store.Lead{
		Nome:            input.Nome,
		Whatsapp:        validation.Digits(input.Telefone),
		Email:           optional(input.Email),
		Idades:          pq.Int64Array(input.Idades),
		TipoContratacao: optional(strings.ToUpper(input.Perfil)),
		Origem:          origem,
		DadosPDF:        extras,
	}

	if err := app.store.Leads.Create(r.Context(), lead); err != nil {
		app.serverError(w, r, "Erro ao salvar lead", err)
		return
	}

	writeJSON(w, http.StatusCreated, &LeadResponse{Success: true, Message: "Lead recebido com sucesso", Data: lead})
}

type scannedLeadInput struct {
	Nome             string          `json:"nome" validate:"required,min=3,max=255"`
	Whatsapp         string          `json:"whatsapp" validate:"required,min=10,max=20"`
	Email            string          `json:"email" validate:"omitempty,email"`
	OperadoraAtual   string          `json:"operadora_atual"`
	ValorAtual       *float64        `json:"valor_atual" validate:"omitempty,gt=0"`
	Idades           []int64         `json:"idades" validate:"omitempty,dive,min=0,max=120"`
	EconomiaEstimada *float64        `json:"economia_estimada"`
	ValorProposto    *float64        `json:"valor_proposto"`
	TipoContratacao  string          `json:"tipo_contratacao"`
	Observacoes      string          `json:"observacoes"`
	DadosPDF         json.RawMessage `json:"dados_pdf"`
}

// @Summary		Create lead from the PDF scanner
// @Description	Returns the existing lead with duplicado=true when a non-archived lead has the same WhatsApp.
// @Tags			Leads
// @Accept			json
// @Produce		json
// @Param			lead	body		scannedLeadInput		true	"Scanned lead"
// @Success		201		{object}	scannedLeadResponse
// @Success		200		{object}	scannedLeadResponse		"Duplicate"
// @Failure		400		{object}	response.ErrorResponse
// @Router			/v1/leads [post]
func (app *application) handleCreateScannedLead(w http.ResponseWriter, r *http.Request) {
	var input scannedLeadInput
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validation.Struct(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, validation.FirstError(err))
		return
	}

	ctx := r.Context()
	whatsapp := validation.Digits(input.Whatsapp)

	existing, err := app.store.Leads.FindActiveByWhatsapp(ctx, whatsapp)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, &scannedLeadResponse{Success: true, Duplicado: true, Data: existing})
		return
	case !errors.Is(err, store.ErrNotFound):
		app.serverError(w, r, "Erro ao verificar duplicidade", err)
		return
	}

	lead := &store.Lead{
		Nome:             strings.TrimSpace(input.Nome),
		Whatsapp:         whatsapp,
		Email:            optional(input.Email),
		OperadoraAtual:   optional(input.OperadoraAtual),
		ValorAtual:       input.ValorAtual,
		Idades:           pq.Int64Array(input.Idades),
		EconomiaEstimada: input.EconomiaEstimada,
		ValorProposto:    input.ValorProposto,
		TipoContratacao:  optional(strings.ToUpper(input.TipoContratacao)),
		Observacoes:      optional(input.Observacoes),
		Origem:           store.OrigemScannerPDF,
	}
	if len(input.DadosPDF) > 0 && string(input.DadosPDF) != "null" {
		lead.DadosPDF = types.JSONText(input.DadosPDF)
	}

	if err := app.store.Leads.Create(ctx, lead); err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeJSONError(w, http.StatusConflict, "Lead já cadastrado")
			return
		}
		app.serverError(w, r, "Erro ao criar lead", err)
		return
	}

	writeJSON(w, http.StatusCreated, &scannedLeadResponse{Success: true, Data: lead})
}

// @Summary		List leads
// @Tags			Leads
// @Produce		json
// @Param			status	query		string	false	"Filter by status"
// @Param			limite	query		int		false	"1..100"	default(50)
// @Param			offset	query		int		false	"Offset"	default(0)
// @Success		200		{object}	ListLeadsResponse
// @Failure		400		{object}	response.ErrorResponse
// @Router			/v1/leads [get]
func (app *application) handleListLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.LeadFilter{Status: q.Get("status"), Limit: defaultLeadLimit}

	if filter.Status != "" && !store.IsLeadStatus(filter.Status) {
		writeJSONError(w, http.StatusBadRequest, "Status inválido")
		return
	}
	if v := q.Get("limite"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 || l > maxLeadLimit {
			writeJSONError(w, http.StatusBadRequest, "limite deve estar entre 1 e 100")
			return
		}
		filter.Limit = l
	}
	if v := q.Get("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil || o < 0 {
			writeJSONError(w, http.StatusBadRequest, "offset inválido")
			return
		}
		filter.Offset = o
	}

	leads, err := app.store.Leads.List(r.Context(), filter)
	if err != nil {
		app.serverError(w, r, "Erro ao listar leads", err)
		return
	}

	writeJSON(w, http.StatusOK, &ListLeadsResponse{Success: true, Data: leads})
}

// leadID reads and validates the {id} path parameter.
func leadID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeJSONError(w, http.StatusBadRequest, "ID de lead inválido")
		return "", false
	}
	return id, true
}

func (app *application) leadError(w http.ResponseWriter, r *http.Request, message string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Lead não encontrado")
		return
	}
	app.serverError(w, r, message, err)
}

// @Summary		Get lead
// @Tags			Leads
// @Produce		json
// @Param			id	path		string	true	"Lead id"
// @Success		200	{object}	LeadResponse
// @Failure		400	{object}	response.ErrorResponse
// @Failure		404	{object}	response.ErrorResponse
// @Router			/v1/leads/{id} [get]
func (app *application) handleGetLead(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	lead, err := app.store.Leads.GetByID(r.Context(), id)
	if err != nil {
		app.leadError(w, r, "Erro ao buscar lead", err)
		return
	}

	writeJSON(w, http.StatusOK, &LeadResponse{Success: true, Data: lead})
}

// @Summary		Update lead fields
// @Tags			Leads
// @Accept			json
// @Produce		json
// @Param			id		path		string																			true	"Lead id"
// @Param			body	body		object{observacoes:string,atribuido_a:string,valor_proposto:number,prioridade:string}	true	"Fields to change"
// @Success		200		{object}	LeadResponse
// @Failure		400		{object}	response.ErrorResponse
// @Failure		404		{object}	response.ErrorResponse
// @Router			/v1/leads/{id} [patch]
func (app *application) handleUpdateLead(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	var input struct {
		Observacoes   *string  `json:"observacoes"`
		AtribuidoA    *string  `json:"atribuido_a"`
		ValorProposto *float64 `json:"valor_proposto" validate:"omitempty,gte=0"`
		Prioridade    *string  `json:"prioridade" validate:"omitempty,oneof=baixa media alta urgente"`
	}
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validation.Struct(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, validation.FirstError(err))
		return
	}

	lead, err := app.store.Leads.Update(r.Context(), id, store.LeadPatch{
		Observacoes:   input.Observacoes,
		AtribuidoA:    input.AtribuidoA,
		ValorProposto: input.ValorProposto,
		Prioridade:    input.Prioridade,
	})
	if err != nil {
		app.leadError(w, r, "Erro ao atualizar lead", err)
		return
	}

	writeJSON(w, http.StatusOK, &LeadResponse{Success: true, Data: lead})
}

// @Summary		Change lead status
// @Description	Any status may follow any other; each change is appended to historico.
// @Tags			Leads
// @Accept			json
// @Produce		json
// @Param			id		path		string								true	"Lead id"
// @Param			body	body		object{status:string,observacao:string}	true	"New status"
// @Success		200		{object}	LeadResponse
// @Failure		400		{object}	response.ErrorResponse
// @Failure		404		{object}	response.ErrorResponse
// @Router			/v1/leads/{id}/status [patch]
func (app *application) handleUpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	var input struct {
		Status     string `json:"status"`
		NovoStatus string `json:"novo_status"`
		Observacao string `json:"observacao"`
	}
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	status := input.Status
	if status == "" {
		status = input.NovoStatus
	}
	if !store.IsLeadStatus(status) {
		writeJSONError(w, http.StatusBadRequest, "Status inválido. Use: "+strings.Join(store.LeadStatuses, ", "))
		return
	}

	lead, err := app.store.Leads.UpdateStatus(r.Context(), id, status, strings.TrimSpace(input.Observacao))
	if err != nil {
		app.leadError(w, r, "Erro ao atualizar status", err)
		return
	}

	writeJSON(w, http.StatusOK, &LeadResponse{Success: true, Message: "Status atualizado para " + status, Data: lead})
}

// @Summary		Archive lead
// @Tags			Leads
// @Produce		json
// @Param			id	path		string	true	"Lead id"
// @Success		200	{object}	response.SuccessResponse
// @Failure		404	{object}	response.ErrorResponse
// @Router			/v1/leads/{id} [delete]
func (app *application) handleArchiveLead(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	if err := app.store.Leads.Archive(r.Context(), id); err != nil {
		app.leadError(w, r, "Erro ao arquivar lead", err)
		return
	}

	writeJSON(w, http.StatusOK, &response.SuccessResponse{Success: true, Message: "Lead arquivado"})
}

// @Summary		Lead dashboard statistics
// @Tags			Leads
// @Produce		json
// @Success		200	{object}	LeadDashboardResponse
// @Router			/v1/leads/estatisticas/dashboard [get]
func (app *application) handleLeadDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := app.store.Leads.DashboardStats(r.Context())
	if err != nil {
		app.serverError(w, r, "Erro ao carregar estatísticas", err)
		return
	}

	writeJSON(w, http.StatusOK, &LeadDashboardResponse{Success: true, Data: stats})
}

// @Summary		Sales pipeline
// @Tags			Leads
// @Produce		json
// @Success		200	{object}	PipelineResponse
// @Router			/v1/leads/estatisticas/pipeline [get]
func (app *application) handleLeadPipeline(w http.ResponseWriter, r *http.Request) {
	stages, err := app.store.Leads.Pipeline(r.Context())
	if err != nil {
		app.serverError(w, r, "Erro ao carregar pipeline", err)
		return
	}

	writeJSON(w, http.StatusOK, &PipelineResponse{Success: true, Data: stages})
}

// @Summary		Leads by operator
// @Tags			Leads
// @Produce		json
// @Success		200	{object}	OperatorStatsResponse
// @Router			/v1/leads/estatisticas/operadoras [get]
func (app *application) handleLeadsByOperator(w http.ResponseWriter, r *http.Request) {
	rows, err := app.store.Leads.ByOperator(r.Context())
	if err != nil {
		app.serverError(w, r, "Erro ao carregar operadoras", err)
		return
	}

	writeJSON(w, http.StatusOK, &OperatorStatsResponse{Success: true, Data: rows})
}
