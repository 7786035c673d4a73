// Package crm holds the broker kanban rules: column order, card enrichment,
// lead scoring and board statistics.
package crm

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/humanosaude/portal/internal/store"
)

const (
	HotWindow   = 24 * time.Hour
	StaleWindow = 48 * time.Hour
	MaxScore    = 100
)

// Columns is the fixed board order.
var Columns = []string{
	store.ColunaNovoLead,
	store.ColunaQualificado,
	store.ColunaPropostaEnviada,
	store.ColunaDocumentacao,
	store.ColunaFechado,
	store.ColunaPerdido,
}

var Prioridades = []string{"baixa", "media", "alta", "urgente"}

var InteractionTypes = []string{
	store.InteracaoNota,
	store.InteracaoLigacao,
	store.InteracaoWhatsapp,
	store.InteracaoEmail,
	store.InteracaoReuniao,
	store.InteracaoPropostaEnviada,
	store.InteracaoPropostaAceita,
	store.InteracaoPropostaRecusada,
	store.InteracaoDocumentoRecebido,
	store.InteracaoStatusChange,
	store.InteracaoNotaVoz,
	store.InteracaoSistema,
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func IsColumn(s string) bool          { return contains(Columns, s) }
func IsPriority(s string) bool        { return contains(Prioridades, s) }
func IsInteractionType(s string) bool { return contains(InteractionTypes, s) }

type LeadSummary struct {
	Nome           string   `json:"nome"`
	Whatsapp       string   `json:"whatsapp"`
	Email          *string  `json:"email"`
	OperadoraAtual *string  `json:"operadora_atual"`
	ValorAtual     *float64 `json:"valor_atual"`
}

// Card is a board card with derived attention flags.
type Card struct {
	store.CRMCard
	Lead             *LeadSummary `json:"lead"`
	IsHot            bool         `json:"is_hot"`
	IsStale          bool         `json:"is_stale"`
	HoursSinceUpdate int          `json:"hours_since_update"`
}

func leadSummary(c store.CRMCard) *LeadSummary {
	if c.LeadID == nil || c.LeadNome == nil {
		return nil
	}
	s := &LeadSummary{
		Nome:           *c.LeadNome,
		Email:          nonEmpty(c.LeadEmail),
		OperadoraAtual: nonEmpty(c.LeadOperadora),
	}
	if c.LeadWhatsapp != nil {
		s.Whatsapp = *c.LeadWhatsapp
	}
	if c.LeadValorAtual != nil && *c.LeadValorAtual != 0 {
		s.ValorAtual = c.LeadValorAtual
	}
	return s
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// proposalRecent reports whether the last proposal interaction happened
// within HotWindow of now.
func proposalRecent(c store.CRMCard, now time.Time) bool {
	return c.UltimaInteracaoProposta != nil && now.Sub(*c.UltimaInteracaoProposta) <= HotWindow
}

// Enrich derives the hot/stale flags relative to now.
func Enrich(c store.CRMCard, now time.Time) Card {
	since := now.Sub(c.UpdatedAt)
	return Card{
		CRMCard:          c,
		Lead:             leadSummary(c),
		IsHot:            proposalRecent(c, now),
		IsStale:          since > StaleWindow,
		HoursSinceUpdate: int(math.Round(since.Hours())),
	}
}

// Board maps every column slug to its cards, in position order.
type Board map[string][]Card

// BuildBoard groups enriched cards by column. Every column is present and
// cards with an unknown column are dropped.
func BuildBoard(cards []store.CRMCard, now time.Time) Board {
	board := make(Board, len(Columns))
	for _, col := range Columns {
		board[col] = []Card{}
	}
	for _, c := range cards {
		if _, ok := board[c.ColunaSlug]; !ok {
			continue
		}
		board[c.ColunaSlug] = append(board[c.ColunaSlug], Enrich(c, now))
	}
	return board
}

// Score recomputes the lead score of a card. leadEmail is the linked lead's
// e-mail, empty when there is none.
func Score(c store.CRMCard, leadEmail string, now time.Time) (int, string) {
	score := 0
	motivos := []string{}

	if c.ValorEstimado != nil && *c.ValorEstimado > 0 {
		score += 20
		motivos = append(motivos, "Valor estimado preenchido")
	}
	if proposalRecent(c, now) {
		score += 25
		motivos = append(motivos, "Interação recente com proposta")
	}
	if c.TotalInteracoes > 3 {
		score += 15
		motivos = append(motivos, fmt.Sprintf("%d interações registradas", c.TotalInteracoes))
	}
	if c.ColunaSlug == store.ColunaPropostaEnviada || c.ColunaSlug == store.ColunaDocumentacao {
		score += 20
		motivos = append(motivos, "Estágio avançado no pipeline")
	}
	if leadEmail != "" {
		score += 10
		motivos = append(motivos, "Email disponível")
	}
	if c.Prioridade == "alta" || c.Prioridade == "urgente" {
		score += 10
		motivos = append(motivos, "Prioridade alta")
	}

	return min(score, MaxScore), strings.Join(motivos, "; ")
}

// CreatedInteraction is the system entry logged when a card is added.
func CreatedInteraction(c store.CRMCard) *store.CRMInteracao {
	desc := fmt.Sprintf("Lead %q adicionado ao pipeline", c.Titulo)
	return &store.CRMInteracao{
		CardID:     c.ID,
		CorretorID: c.CorretorID,
		LeadID:     c.LeadID,
		Tipo:       store.InteracaoSistema,
		Titulo:     "Card criado",
		Descricao:  &desc,
	}
}

// StatusChange is the entry logged when a card changes column. It returns
// nil when the column did not change.
func StatusChange(c store.CRMCard, from, to string) *store.CRMInteracao {
	if from == to {
		return nil
	}
	return &store.CRMInteracao{
		CardID:         c.ID,
		CorretorID:     c.CorretorID,
		LeadID:         c.LeadID,
		Tipo:           store.InteracaoStatusChange,
		Titulo:         "Status alterado",
		StatusAnterior: &from,
		StatusNovo:     &to,
	}
}

type ColumnStats struct {
	Coluna     string  `json:"coluna"`
	Total      int     `json:"total"`
	ValorTotal float64 `json:"valor_total"`
}

type Stats struct {
	TotalCards    int           `json:"total_cards"`
	Hot           int           `json:"hot"`
	Stale         int           `json:"stale"`
	PipelineValue float64       `json:"pipeline_value"`
	ValorFechado  float64       `json:"valor_fechado"`
	Colunas       []ColumnStats `json:"colunas"`
}

// Summarize counts cards per column. The pipeline value excludes closed and
// lost cards.
func Summarize(cards []store.CRMCard, now time.Time) Stats {
	idx := make(map[string]int, len(Columns))
	st := Stats{Colunas: make([]ColumnStats, len(Columns))}
	for i, col := range Columns {
		idx[col] = i
		st.Colunas[i] = ColumnStats{Coluna: col}
	}

	for _, c := range cards {
		i, ok := idx[c.ColunaSlug]
		if !ok {
			continue
		}
		e := Enrich(c, now)
		st.TotalCards++
		if e.IsHot {
			st.Hot++
		}
		if e.IsStale {
			st.Stale++
		}

		valor := 0.0
		if c.ValorEstimado != nil {
			valor = *c.ValorEstimado
		}
		st.Colunas[i].Total++
		st.Colunas[i].ValorTotal += valor

		switch c.ColunaSlug {
		case store.ColunaFechado:
			st.ValorFechado += valor
		case store.ColunaPerdido:
		default:
			st.PipelineValue += valor
		}
	}
	return st
}
