package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	t.Run("prices every life", func(t *testing.T) {
		e := newTestEnv(t)

		rr := e.do(t, jsonRequest(t, http.MethodPost, "/api/calculadora", map[string]any{
			"tipo_contratacao": "pme",
			"acomodacao":       "Apartamento",
			"idades":           []int{10, 35},
			"cnpj":             "11.222.333/0001-81",
		}))

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		body := decode[calculatorResponse](t, rr)
		require.Len(t, body.Resultados, 1)
		assert.Equal(t, "amil-s380", body.Resultados[0].ID)
		assert.Equal(t, 600.0, body.Resultados[0].ValorTotal)
		assert.Equal(t, 300.0, body.Resultados[0].ValorPorVida)
	})

	t.Run("no plan for the profile", func(t *testing.T) {
		e := newTestEnv(t)

		rr := e.do(t, jsonRequest(t, http.MethodPost, "/api/calculadora", map[string]any{
			"tipo_contratacao": "PF",
			"acomodacao":       "enfermaria",
			"idades":           []int{40},
		}))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"resultados":[]}`, rr.Body.String())
	})

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "unknown contract", body: map[string]any{"tipo_contratacao": "MEI", "acomodacao": "enfermaria", "idades": []int{30}}},
		{name: "unknown room", body: map[string]any{"tipo_contratacao": "PF", "acomodacao": "suite", "idades": []int{30}}},
		{name: "no ages", body: map[string]any{"tipo_contratacao": "PF", "acomodacao": "enfermaria"}},
		{name: "pme without cnpj", body: map[string]any{"tipo_contratacao": "PME", "acomodacao": "enfermaria", "idades": []int{30}}},
		{name: "pme with bad cnpj", body: map[string]any{"tipo_contratacao": "PME", "acomodacao": "enfermaria", "idades": []int{30}, "cnpj": "11.222.333/0001-82"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)

			rr := e.do(t, jsonRequest(t, http.MethodPost, "/api/calculadora", tt.body))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.NotEmpty(t, errorMessage(t, rr))
		})
	}
}

func TestPeriodRange(t *testing.T) {
	// 02:00 UTC is still the previous day in São Paulo.
	now := time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)
	day := func(m time.Month, d int) time.Time { return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		period string
		from   time.Time
		to     time.Time
	}{
		{period: "today", from: day(3, 1), to: day(3, 1)},
		{period: "", from: day(2, 28), to: day(2, 28)},
		{period: "yesterday", from: day(2, 28), to: day(2, 28)},
		{period: "last_7d", from: day(2, 22), to: day(2, 28)},
		{period: "last_30d", from: day(1, 30), to: day(2, 28)},
		{period: "this_month", from: day(3, 1), to: day(3, 1)},
		{period: "last_month", from: day(2, 1), to: day(2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			from, to, err := periodRange(tt.period, now)

			require.NoError(t, err)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}

	_, _, err := periodRange("last_year", now)
	assert.Error(t, err)
}
