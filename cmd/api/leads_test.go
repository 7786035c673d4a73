package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humanosaude/portal/internal/store"
)

func validLeadForm() map[string]any {
	return map[string]any{
		"nome":       "Maria da Silva",
		"email":      "maria@example.com",
		"telefone":   "(21) 98888-7777",
		"perfil":     "pme",
		"cnpj":       "11.222.333/0001-81",
		"acomodacao": "apartamento",
		"idades":     []int{34, 36, 5},
		"utm_source": "google",
	}
}

func TestSubmitLead(t *testing.T) {
	e := newTestEnv(t)

	rr := e.do(t, jsonRequest(t, http.MethodPost, "/api/leads", validLeadForm()))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.Len(t, e.leads.created, 1)

	lead := e.leads.created[0]
	assert.Equal(t, "21988887777", lead.Whatsapp)
	assert.Equal(t, store.OrigemSite, lead.Origem)
	assert.Equal(t, "PME", *lead.TipoContratacao)
	assert.EqualValues(t, []int64{34, 36, 5}, lead.Idades)
	assert.Contains(t, string(lead.DadosPDF), `"cnpj":"11222333000181"`)
	assert.Contains(t, string(lead.DadosPDF), `"utm_source":"google"`)
}

func TestSubmitLeadValidation(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
	}{
		{name: "short name", field: "nome", value: "Al"},
		{name: "digits only name", field: "nome", value: "12345"},
		{name: "bad email", field: "email", value: "maria@"},
		{name: "bad phone", field: "telefone", value: "1234"},
		{name: "bad cnpj", field: "cnpj", value: "11.222.333/0001-82"},
		{name: "bad room", field: "acomodacao", value: "suite"},
		{name: "age out of range", field: "idades", value: []int{30, 121}},
		{name: "missing profile", field: "perfil", value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			form := validLeadForm()
			form[tt.field] = tt.value

			rr := e.do(t, jsonRequest(t, http.MethodPost, "/api/leads", form))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.NotEmpty(t, errorMessage(t, rr))
			assert.Empty(t, e.leads.created)
		})
	}
}

func TestCreateScannedLead(t *testing.T) {
	input := map[string]any{
		"nome":             "João Pereira",
		"whatsapp":         "+55 (21) 97777-6666",
		"operadora_atual":  "Bradesco",
		"valor_atual":      1450.5,
		"tipo_contratacao": "pf",
		"dados_pdf":        map[string]any{"beneficiarios": 2},
	}

	t.Run("requires an admin session", func(t *testing.T) {
		e := newTestEnv(t)

		rr := e.do(t, jsonRequest(t, http.MethodPost, "/api/v1/leads", input))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("creates then reports duplicates", func(t *testing.T) {
		e := newTestEnv(t)

		rr := e.do(t, asAdmin(jsonRequest(t, http.MethodPost, "/api/v1/leads", input)))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		created := decode[scannedLeadResponse](t, rr)
		assert.False(t, created.Duplicado)
		assert.Equal(t, store.OrigemScannerPDF, created.Data.Origem)
		assert.Equal(t, "5521977776666", created.Data.Whatsapp)

		rr = e.do(t, asAdmin(jsonRequest(t, http.MethodPost, "/api/v1/leads", input)))
		require.Equal(t, http.StatusOK, rr.Code)
		dup := decode[scannedLeadResponse](t, rr)
		assert.True(t, dup.Duplicado)
		assert.Equal(t, created.Data.ID, dup.Data.ID)
		assert.Len(t, e.leads.created, 1)
	})
}

func TestListLeadsQuery(t *testing.T) {
	tests := []struct {
		query  string
		code   int
		limit  int
		offset int
	}{
		{query: "", code: http.StatusOK, limit: defaultLeadLimit},
		{query: "?status=ganho&limite=10&offset=20", code: http.StatusOK, limit: 10, offset: 20},
		{query: "?status=fechado", code: http.StatusBadRequest},
		{query: "?limite=0", code: http.StatusBadRequest},
		{query: "?limite=101", code: http.StatusBadRequest},
		{query: "?offset=-1", code: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			e := newTestEnv(t)

			rr := e.do(t, asAdmin(httptest.NewRequest(http.MethodGet, "/api/v1/leads"+tt.query, nil)))

			require.Equal(t, tt.code, rr.Code)
			if tt.code == http.StatusOK {
				require.Len(t, e.leads.filters, 1)
				assert.Equal(t, tt.limit, e.leads.filters[0].Limit)
				assert.Equal(t, tt.offset, e.leads.filters[0].Offset)
			}
		})
	}
}

func TestLeadByID(t *testing.T) {
	e := newTestEnv(t)
	e.leads.byID["0b5e8a52-4c38-4b8e-9d5e-6a1c2e0f9a11"] = &store.Lead{
		ID: "0b5e8a52-4c38-4b8e-9d5e-6a1c2e0f9a11", Nome: "Carla", Status: store.LeadStatusNovo,
	}

	rr := e.do(t, asAdmin(httptest.NewRequest(http.MethodGet, "/api/v1/leads/not-a-uuid", nil)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = e.do(t, asAdmin(httptest.NewRequest(http.MethodGet, "/api/v1/leads/9f0c1d2e-0000-4000-8000-000000000000", nil)))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Lead não encontrado", errorMessage(t, rr))

	rr = e.do(t, asAdmin(httptest.NewRequest(http.MethodGet, "/api/v1/leads/0b5e8a52-4c38-4b8e-9d5e-6a1c2e0f9a11", nil)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Carla", decode[LeadResponse](t, rr).Data.Nome)
}

func TestUpdateLeadStatus(t *testing.T) {
	const id = "0b5e8a52-4c38-4b8e-9d5e-6a1c2e0f9a11"

	tests := []struct {
		name   string
		body   map[string]string
		code   int
		status string
	}{
		{name: "status field", body: map[string]string{"status": "contatado"}, code: http.StatusOK, status: "contatado"},
		{name: "novo_status field", body: map[string]string{"novo_status": "ganho"}, code: http.StatusOK, status: "ganho"},
		{name: "any transition allowed", body: map[string]string{"status": "novo"}, code: http.StatusOK, status: "novo"},
		{name: "unknown status", body: map[string]string{"status": "fechado"}, code: http.StatusBadRequest, status: store.LeadStatusPerdido},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			e.leads.byID[id] = &store.Lead{ID: id, Status: store.LeadStatusPerdido}

			rr := e.do(t, asAdmin(jsonRequest(t, http.MethodPatch, "/api/v1/leads/"+id+"/status", tt.body)))

			require.Equal(t, tt.code, rr.Code, rr.Body.String())
			assert.Equal(t, tt.status, e.leads.byID[id].Status)
		})
	}
}
