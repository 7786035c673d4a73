package crm

import (
	"testing"
	"time"

	"github.com/humanosaude/portal/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestEnrich(t *testing.T) {
	c := store.CRMCard{
		ColunaSlug:              store.ColunaQualificado,
		UpdatedAt:               now.Add(-50*time.Hour - 20*time.Minute),
		UltimaInteracaoProposta: ptr(now.Add(-23 * time.Hour)),
		LeadID:                  ptr("lead-1"),
		LeadNome:                ptr("Maria"),
		LeadEmail:               ptr(""),
		LeadValorAtual:          ptr(0.0),
	}

	e := Enrich(c, now)
	assert.True(t, e.IsHot)
	assert.True(t, e.IsStale)
	assert.Equal(t, 50, e.HoursSinceUpdate)
	require.NotNil(t, e.Lead)
	assert.Equal(t, "Maria", e.Lead.Nome)
	assert.Nil(t, e.Lead.Email)
	assert.Nil(t, e.Lead.ValorAtual)

	c.UltimaInteracaoProposta = ptr(now.Add(-25 * time.Hour))
	c.UpdatedAt = now.Add(-47 * time.Hour)
	c.LeadID = nil
	e = Enrich(c, now)
	assert.False(t, e.IsHot)
	assert.False(t, e.IsStale)
	assert.Nil(t, e.Lead)
}

func TestBuildBoard(t *testing.T) {
	cards := []store.CRMCard{
		{ID: "a", ColunaSlug: store.ColunaFechado, UpdatedAt: now},
		{ID: "b", ColunaSlug: "arquivado", UpdatedAt: now},
		{ID: "c", ColunaSlug: store.ColunaFechado, UpdatedAt: now},
	}

	board := BuildBoard(cards, now)
	assert.Len(t, board, len(Columns))
	for _, col := range Columns {
		assert.NotNil(t, board[col], col)
	}
	require.Len(t, board[store.ColunaFechado], 2)
	assert.Equal(t, "a", board[store.ColunaFechado][0].ID)
	assert.Equal(t, "c", board[store.ColunaFechado][1].ID)
	assert.Empty(t, board[store.ColunaNovoLead])
}

func TestScoreAllRules(t *testing.T) {
	c := store.CRMCard{
		ValorEstimado:           ptr(1200.0),
		UltimaInteracaoProposta: ptr(now.Add(-2 * time.Hour)),
		TotalInteracoes:         5,
		ColunaSlug:              store.ColunaDocumentacao,
		Prioridade:              "urgente",
	}

	score, motivo := Score(c, "maria@example.com", now)
	assert.Equal(t, 100, score)
	assert.Equal(t,
		"Valor estimado preenchido; Interação recente com proposta; 5 interações registradas; Estágio avançado no pipeline; Email disponível; Prioridade alta",
		motivo)
}

func TestScorePartial(t *testing.T) {
	c := store.CRMCard{
		ValorEstimado:   ptr(0.0),
		TotalInteracoes: 3,
		ColunaSlug:      store.ColunaPropostaEnviada,
		Prioridade:      "media",
	}

	score, motivo := Score(c, "", now)
	assert.Equal(t, 20, score)
	assert.Equal(t, "Estágio avançado no pipeline", motivo)

	score, motivo = Score(store.CRMCard{}, "", now)
	assert.Zero(t, score)
	assert.Empty(t, motivo)
}

func TestInteractions(t *testing.T) {
	c := store.CRMCard{ID: "card", CorretorID: "cor", Titulo: "Empresa X"}

	created := CreatedInteraction(c)
	assert.Equal(t, store.InteracaoSistema, created.Tipo)
	assert.Equal(t, "Card criado", created.Titulo)
	assert.Equal(t, `Lead "Empresa X" adicionado ao pipeline`, *created.Descricao)

	assert.Nil(t, StatusChange(c, store.ColunaNovoLead, store.ColunaNovoLead))
	moved := StatusChange(c, store.ColunaNovoLead, store.ColunaQualificado)
	require.NotNil(t, moved)
	assert.Equal(t, "Status alterado", moved.Titulo)
	assert.Equal(t, store.ColunaNovoLead, *moved.StatusAnterior)
	assert.Equal(t, store.ColunaQualificado, *moved.StatusNovo)
}

func TestSummarize(t *testing.T) {
	cards := []store.CRMCard{
		{ColunaSlug: store.ColunaNovoLead, ValorEstimado: ptr(100.0), UpdatedAt: now.Add(-72 * time.Hour)},
		{ColunaSlug: store.ColunaPropostaEnviada, ValorEstimado: ptr(300.0), UpdatedAt: now, UltimaInteracaoProposta: ptr(now)},
		{ColunaSlug: store.ColunaFechado, ValorEstimado: ptr(500.0), UpdatedAt: now},
		{ColunaSlug: store.ColunaPerdido, ValorEstimado: ptr(700.0), UpdatedAt: now},
	}

	st := Summarize(cards, now)
	assert.Equal(t, 4, st.TotalCards)
	assert.Equal(t, 1, st.Hot)
	assert.Equal(t, 1, st.Stale)
	assert.Equal(t, 400.0, st.PipelineValue)
	assert.Equal(t, 500.0, st.ValorFechado)
	require.Len(t, st.Colunas, len(Columns))
	assert.Equal(t, ColumnStats{Coluna: store.ColunaPerdido, Total: 1, ValorTotal: 700}, st.Colunas[5])
}

func TestEnumerations(t *testing.T) {
	assert.True(t, IsColumn(store.ColunaDocumentacao))
	assert.False(t, IsColumn("backlog"))
	assert.True(t, IsPriority("urgente"))
	assert.False(t, IsPriority("critica"))
	assert.True(t, IsInteractionType(store.InteracaoNotaVoz))
	assert.False(t, IsInteractionType("sms"))
}
