package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humanosaude/portal/internal/store"
)

func prices(values ...string) map[int]decimal.Decimal {
	out := map[int]decimal.Decimal{}
	for i, v := range values {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func TestBand(t *testing.T) {
	cases := map[int]int{0: 0, 18: 0, 19: 1, 23: 1, 24: 2, 33: 3, 34: 4, 43: 5, 48: 6, 53: 7, 58: 8, 59: 9, 90: 9}
	for age, band := range cases {
		assert.Equal(t, band, Band(age), "age %d", age)
	}
}

func TestNormalize(t *testing.T) {
	r := Request{TipoContratacao: " pme ", Acomodacao: "Apartamento", Idades: []int{30}, CNPJ: "11.222.333/0001-81"}
	require.NoError(t, r.Normalize())
	assert.Equal(t, "PME", r.TipoContratacao)
	assert.Equal(t, "apartamento", r.Acomodacao)

	bad := []struct {
		req  Request
		want error
	}{
		{Request{TipoContratacao: "X", Acomodacao: "enfermaria", Idades: []int{1}}, ErrInvalidType},
		{Request{TipoContratacao: "PF", Acomodacao: "suite", Idades: []int{1}}, ErrInvalidRoom},
		{Request{TipoContratacao: "PF", Acomodacao: "enfermaria"}, ErrNoAges},
		{Request{TipoContratacao: "PF", Acomodacao: "enfermaria", Idades: []int{121}}, ErrInvalidAge},
		{Request{TipoContratacao: "PME", Acomodacao: "enfermaria", Idades: []int{30}}, ErrCNPJRequired},
		{Request{TipoContratacao: "PME", Acomodacao: "enfermaria", Idades: []int{30}, CNPJ: "11.222.333/0001-82"}, ErrInvalidCNPJ},
	}
	for _, tc := range bad {
		assert.ErrorIs(t, tc.req.Normalize(), tc.want)
	}
}

func TestPrice(t *testing.T) {
	plans := []Plan{
		{ID: "caro", Nome: "Top", Operadora: "Bradesco", Prices: prices("200", "220", "240", "260", "280", "300", "350", "400", "500", "900")},
		{ID: "barato", Nome: "Basic", Operadora: "Amil", Prices: prices("100.10", "110", "120", "130", "140", "150", "175", "200", "250", "450")},
		{ID: "incompleto", Nome: "Jovem", Operadora: "Leve", Prices: prices("50", "60")},
	}

	quotes, err := Price(plans, []int{5, 35, 60})
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.Equal(t, "barato", quotes[0].ID)
	assert.Equal(t, 690.10, quotes[0].ValorTotal)
	assert.Equal(t, 230.03, quotes[0].ValorPorVida)
	assert.Equal(t, "caro", quotes[1].ID)
	assert.Equal(t, 1380.0, quotes[1].ValorTotal)

	_, err = Price(plans[2:], []int{60})
	assert.ErrorIs(t, err, ErrNoPlanMatched)
}

func TestSavings(t *testing.T) {
	assert.True(t, decimal.RequireFromString("150.5").Equal(Savings(decimal.NewFromInt(500), decimal.RequireFromString("349.5"))))
	assert.True(t, Savings(decimal.NewFromInt(100), decimal.NewFromInt(200)).IsZero())
}

func TestPlansFromPrices(t *testing.T) {
	rows := []store.PlanPrice{
		{PlanoID: "a", Nome: "Amil 400", Operadora: "amil", Faixa: 0, Valor: decimal.RequireFromString("100")},
		{PlanoID: "b", Nome: "Bradesco", Operadora: "bradesco", Faixa: 0, Valor: decimal.RequireFromString("90")},
		{PlanoID: "a", Nome: "Amil 400", Operadora: "amil", Faixa: 4, Valor: decimal.RequireFromString("250")},
	}

	plans := PlansFromPrices(rows)
	require.Len(t, plans, 2)
	assert.Equal(t, "a", plans[0].ID)
	assert.Len(t, plans[0].Prices, 2)
	assert.True(t, plans[0].Prices[4].Equal(decimal.RequireFromString("250")))
	assert.Equal(t, "bradesco", plans[1].Operadora)

	quotes, err := Price(plans, []int{10, 35})
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, 350.0, quotes[0].ValorTotal)
}
