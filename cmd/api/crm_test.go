package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humanosaude/portal/internal/crm"
	"github.com/humanosaude/portal/internal/store"
)

const testCardID = "5a0e1b6c-8f3d-4e2a-b1c9-0d7e6f5a4b3c"

func seedCard(e *testEnv, coluna string) {
	e.crm.add(store.CRMCard{
		ID:         testCardID,
		CorretorID: testBrokerID,
		ColunaSlug: coluna,
		Titulo:     "Família Souza",
		Prioridade: "media",
		UpdatedAt:  time.Now(),
	})
}

func TestCRMBoardHasEveryColumn(t *testing.T) {
	e := newTestEnv(t)
	seedCard(e, store.ColunaQualificado)

	rr := e.do(t, asBroker(httptest.NewRequest(http.MethodGet, "/api/corretor/crm/board", nil), testBrokerID))

	require.Equal(t, http.StatusOK, rr.Code)
	board := decode[BoardResponse](t, rr).Data
	assert.Len(t, board, len(crm.Columns))
	require.Len(t, board[store.ColunaQualificado], 1)
	assert.Equal(t, "Família Souza", board[store.ColunaQualificado][0].Titulo)
	assert.Empty(t, board[store.ColunaFechado])
}

func TestCRMBoardIsScopedToBroker(t *testing.T) {
	e := newTestEnv(t)
	seedCard(e, store.ColunaQualificado)

	req := asBroker(httptest.NewRequest(http.MethodGet, "/api/corretor/crm/board", nil), "0e2d7a44-1111-4c3b-9b2a-7f5e3c1d0a99")
	rr := e.do(t, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[BoardResponse](t, rr).Data[store.ColunaQualificado])
}

func TestCreateCardLogsCreation(t *testing.T) {
	e := newTestEnv(t)

	req := jsonRequest(t, http.MethodPost, "/api/corretor/crm/cards", map[string]any{
		"titulo":      "Empresa XPTO",
		"coluna_slug": store.ColunaNovoLead,
		"prioridade":  "alta",
	})
	rr := e.do(t, asBroker(req, testBrokerID))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.Len(t, e.crm.logged, 1)
	assert.Equal(t, testBrokerID, e.crm.logged[0].CorretorID)
}

func TestCreateCardValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing title", body: map[string]any{"titulo": " "}},
		{name: "unknown column", body: map[string]any{"titulo": "X", "coluna_slug": "arquivado"}},
		{name: "unknown priority", body: map[string]any{"titulo": "X", "prioridade": "maxima"}},
		{name: "lead id not a uuid", body: map[string]any{"titulo": "X", "lead_id": "123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)

			rr := e.do(t, asBroker(jsonRequest(t, http.MethodPost, "/api/corretor/crm/cards", tt.body), testBrokerID))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, e.crm.cards)
		})
	}
}

func TestMoveCard(t *testing.T) {
	t.Run("column change is logged", func(t *testing.T) {
		e := newTestEnv(t)
		seedCard(e, store.ColunaQualificado)

		req := jsonRequest(t, http.MethodPost, "/api/corretor/crm/cards/"+testCardID+"/move", map[string]any{
			"coluna":  store.ColunaPropostaEnviada,
			"posicao": 0,
		})
		rr := e.do(t, asBroker(req, testBrokerID))

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, store.ColunaPropostaEnviada, decode[CardResponse](t, rr).Data.ColunaSlug)

		require.Len(t, e.crm.logged, 1)
		entry := e.crm.logged[0]
		assert.Equal(t, store.InteracaoStatusChange, entry.Tipo)
		assert.Equal(t, store.ColunaQualificado, *entry.StatusAnterior)
		assert.Equal(t, store.ColunaPropostaEnviada, *entry.StatusNovo)
	})

	t.Run("reorder within a column is not logged", func(t *testing.T) {
		e := newTestEnv(t)
		seedCard(e, store.ColunaQualificado)

		req := jsonRequest(t, http.MethodPost, "/api/corretor/crm/cards/"+testCardID+"/move", map[string]any{
			"coluna":  store.ColunaQualificado,
			"posicao": 3,
		})
		rr := e.do(t, asBroker(req, testBrokerID))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, e.crm.logged)
	})

	tests := []struct {
		name string
		id   string
		body map[string]any
		code int
	}{
		{name: "bad column", id: testCardID, body: map[string]any{"coluna": "lixo", "posicao": 0}, code: http.StatusBadRequest},
		{name: "negative position", id: testCardID, body: map[string]any{"coluna": store.ColunaFechado, "posicao": -1}, code: http.StatusBadRequest},
		{name: "bad id", id: "abc", body: map[string]any{"coluna": store.ColunaFechado}, code: http.StatusBadRequest},
		{name: "unknown card", id: "6b1f2c7d-9a4e-4f3b-8c2d-1e0f9a8b7c6d", body: map[string]any{"coluna": store.ColunaFechado}, code: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			seedCard(e, store.ColunaQualificado)

			req := jsonRequest(t, http.MethodPost, "/api/corretor/crm/cards/"+tt.id+"/move", tt.body)
			rr := e.do(t, asBroker(req, testBrokerID))

			assert.Equal(t, tt.code, rr.Code)
			assert.Empty(t, e.crm.logged)
		})
	}
}

func TestAddInteraction(t *testing.T) {
	e := newTestEnv(t)
	seedCard(e, store.ColunaQualificado)

	rr := e.do(t, asBroker(jsonRequest(t, http.MethodPost, "/api/corretor/crm/cards/"+testCardID+"/interacoes", map[string]any{
		"tipo":   "teleporte",
		"titulo": "x",
	}), testBrokerID))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = e.do(t, asBroker(jsonRequest(t, http.MethodPost, "/api/corretor/crm/cards/"+testCardID+"/interacoes", map[string]any{
		"tipo":   store.InteracaoLigacao,
		"titulo": "Ligação de follow-up",
	}), testBrokerID))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.Len(t, e.crm.logged, 1)
	assert.Equal(t, testCardID, e.crm.logged[0].CardID)
}
