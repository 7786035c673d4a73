package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx/types"

	"github.com/humanosaude/portal/internal/response"
	"github.com/humanosaude/portal/internal/store"
)

type AudiencesResponse = response.APIResponse[[]store.AudienceSegment]
type AudienceResponse = response.APIResponse[*store.AudienceSegment]
type GetImportHistoryResponse = response.APIResponse[[]store.ImportHistory]
type CreateImportResponse = response.APIResponse[*store.ImportHistory]

// @Summary		List audience segments
// @Tags			Admin
// @Produce		json
// @Success		200	{object}	AudiencesResponse
// @Router			/admin/audiences [get]
func (app *application) handleListAudiences(w http.ResponseWriter, r *http.Request) {
	segments, err := app.store.Audiences.List(r.Context())
	if err != nil {
		app.serverError(w, r, "failed to list audiences", err)
		return
	}

	writeJSON(w, http.StatusOK, &AudiencesResponse{Success: true, Data: segments})
}

// @Summary		Create or replace an audience segment
// @Description	The definition is stored as opaque JSON.
// @Tags			Admin
// @Accept			json
// @Produce		json
// @Param			slug	path		string							true	"Segment slug"
// @Param			body	body		object{nome:string,definition:object}	true	"Segment"
// @Success		200		{object}	AudienceResponse
// @Failure		400		{object}	response.ErrorResponse
// @Router			/admin/audiences/{slug} [put]
func (app *application) handleUpsertAudience(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		writeJSONError(w, http.StatusBadRequest, "missing slug")
		return
	}

	var input struct {
		Nome       string          `json:"nome"`
		Definition json.RawMessage `json:"definition"`
	}
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(input.Nome) == "" {
		writeJSONError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	segment := &store.AudienceSegment{
		Slug:       slug,
		Nome:       strings.TrimSpace(input.Nome),
		Definition: types.JSONText(input.Definition),
	}
	if err := app.store.Audiences.Upsert(r.Context(), segment); err != nil {
		app.serverError(w, r, "failed to save audience", err)
		return
	}

	writeJSON(w, http.StatusOK, &AudienceResponse{Success: true, Data: segment})
}

// @Summary		Get import history
// @Description	Get a list of the latest ads report imports.
// @Tags			Admin
// @Produce		json
// @Param			limit	query		int							false	"Limit the number of results"	default(10)
// @Success		200		{object}	GetImportHistoryResponse	"Successfully retrieved latest import records"
// @Failure		500		{object}	response.ErrorResponse		"Failed to get import history"
// @Router			/admin/imports [get]
func (app *application) handleGetImportHistory(w http.ResponseWriter, r *http.Request) {
	limitParam := r.URL.Query().Get("limit")
	limit := 10
	if limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 {
			limit = l
		}
	}

	ctx := r.Context()
	data, err := app.store.ImportHistory.GetLatest(ctx, limit)
	if err != nil {
		app.serverError(w, r, "failed to get import history", err)
		return
	}

	writeJSON(w, http.StatusOK, &GetImportHistoryResponse{
		Success: true,
		Data:    data,
		Message: "Successfully retrieved latest import records",
	})
}

// @Summary		Create import record
// @Description	Creates a new import record with in_progress status.
// @Tags			Admin
// @Accept			json
// @Produce		json
// @Param			import	body		object{reference_date:string,source_file:string,trigger_type:string}	true	"Import record details"
// @Success		201		{object}	CreateImportResponse	"Import record initialized"
// @Failure		400		{object}	response.ErrorResponse	"Invalid request payload or missing fields"
// @Failure		500		{object}	response.ErrorResponse	"Failed to create import record"
// @Router			/admin/imports [post]
func (app *application) handleCreateImport(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ReferenceDate string `json:"reference_date"`
		SourceFile    string `json:"source_file"`
		TriggerType   string `json:"trigger_type"`
	}

	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if input.ReferenceDate == "" || input.SourceFile == "" {
		writeJSONError(w, http.StatusBadRequest, "missing required fields")
		return
	}
	if input.TriggerType == "" {
		input.TriggerType = store.TriggerTypeManual
	}
	if input.TriggerType != store.TriggerTypeManual && input.TriggerType != store.TriggerTypeScheduled {
		writeJSONError(w, http.StatusBadRequest, "invalid trigger_type (manual or scheduled)")
		return
	}

	refDate, err := time.Parse(time.DateOnly, input.ReferenceDate)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid reference_date format (YYYY-MM-DD expected)")
		return
	}

	history := &store.ImportHistory{
		ReferenceDate: refDate,
		SourceFile:    input.SourceFile,
		TriggerType:   input.TriggerType,
		Status:        store.StatusInProgress,
	}

	if err := app.store.ImportHistory.InsertImportHistory(r.Context(), history); err != nil {
		app.serverError(w, r, "failed to create import record", err)
		return
	}

	writeJSON(w, http.StatusCreated, &CreateImportResponse{
		Success: true,
		Data:    history,
		Message: "Import record initialized with in_progress status",
	})
}

// @Summary		Update import status
// @Tags			Admin
// @Accept			json
// @Produce		json
// @Param			id		path		int						true	"Import id"
// @Param			body	body		object{status:string}	true	"in_progress | success | partial | failure"
// @Success		200		{object}	response.SuccessResponse
// @Failure		400		{object}	response.ErrorResponse
// @Failure		404		{object}	response.ErrorResponse
// @Router			/admin/imports/{id}/status [patch]
func (app *application) handleUpdateImportStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid import id")
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if !store.IsImportStatus(input.Status) {
		writeJSONError(w, http.StatusBadRequest, "invalid status")
		return
	}

	if err := app.store.ImportHistory.UpdateImportStatus(r.Context(), id, input.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "import record not found")
			return
		}
		app.serverError(w, r, "failed to update import status", err)
		return
	}

	writeJSON(w, http.StatusOK, &response.SuccessResponse{Success: true, Message: "Import status updated"})
}
