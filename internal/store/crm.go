package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

const (
	ColunaNovoLead        = "novo_lead"
	ColunaQualificado     = "qualificado"
	ColunaPropostaEnviada = "proposta_enviada"
	ColunaDocumentacao    = "documentacao"
	ColunaFechado         = "fechado"
	ColunaPerdido         = "perdido"
)

const (
	InteracaoNota              = "nota"
	InteracaoLigacao           = "ligacao"
	InteracaoWhatsapp          = "whatsapp"
	InteracaoEmail             = "email"
	InteracaoReuniao           = "reuniao"
	InteracaoPropostaEnviada   = "proposta_enviada"
	InteracaoPropostaAceita    = "proposta_aceita"
	InteracaoPropostaRecusada  = "proposta_recusada"
	InteracaoDocumentoRecebido = "documento_recebido"
	InteracaoStatusChange      = "status_change"
	InteracaoNotaVoz           = "nota_voz"
	InteracaoSistema           = "sistema"
)

// IsProposalInteraction reports whether the interaction type touches a proposal.
func IsProposalInteraction(tipo string) bool {
	switch tipo {
	case InteracaoPropostaEnviada, InteracaoPropostaAceita, InteracaoPropostaRecusada:
		return true
	}
	return false
}

type CRMCard struct {
	ID                      string         `db:"id" json:"id"`
	CorretorID              string         `db:"corretor_id" json:"corretor_id"`
	LeadID                  *string        `db:"lead_id" json:"lead_id"`
	ColunaSlug              string         `db:"coluna_slug" json:"coluna_slug"`
	Titulo                  string         `db:"titulo" json:"titulo"`
	Subtitulo               *string        `db:"subtitulo" json:"subtitulo"`
	ValorEstimado           *float64       `db:"valor_estimado" json:"valor_estimado"`
	Posicao                 int            `db:"posicao" json:"posicao"`
	Score                   int            `db:"score" json:"score"`
	ScoreMotivo             *string        `db:"score_motivo" json:"score_motivo"`
	UltimaInteracaoProposta *time.Time     `db:"ultima_interacao_proposta" json:"ultima_interacao_proposta"`
	TotalInteracoes         int            `db:"total_interacoes" json:"total_interacoes"`
	Tags                    pq.StringArray `db:"tags" json:"tags"`
	Prioridade              string         `db:"prioridade" json:"prioridade"`
	Metadata                types.JSONText `db:"metadata" json:"metadata"`
	CreatedAt               time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time      `db:"updated_at" json:"updated_at"`

	LeadNome       *string  `db:"lead_nome" json:"-"`
	LeadWhatsapp   *string  `db:"lead_whatsapp" json:"-"`
	LeadEmail      *string  `db:"lead_email" json:"-"`
	LeadOperadora  *string  `db:"lead_operadora_atual" json:"-"`
	LeadValorAtual *float64 `db:"lead_valor_atual" json:"-"`
}

type CardPatch struct {
	Titulo        *string
	Subtitulo     *string
	ValorEstimado *float64
	Prioridade    *string
	Tags          *[]string
}

type CRMInteracao struct {
	ID             string         `db:"id" json:"id"`
	CardID         string         `db:"card_id" json:"card_id"`
	CorretorID     string         `db:"corretor_id" json:"corretor_id"`
	LeadID         *string        `db:"lead_id" json:"lead_id"`
	Tipo           string         `db:"tipo" json:"tipo"`
	Titulo         string         `db:"titulo" json:"titulo"`
	Descricao      *string        `db:"descricao" json:"descricao"`
	StatusAnterior *string        `db:"status_anterior" json:"status_anterior"`
	StatusNovo     *string        `db:"status_novo" json:"status_novo"`
	Metadata       types.JSONText `db:"metadata" json:"metadata"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}

type CRMStore struct {
	db *sqlx.DB
}

const cardSelect = `SELECT
		c.id, c.corretor_id, c.lead_id, c.coluna_slug, c.titulo, c.subtitulo,
		c.valor_estimado, c.posicao, c.score, c.score_motivo,
		c.ultima_interacao_proposta, c.total_interacoes, c.tags, c.prioridade,
		c.metadata, c.created_at, c.updated_at,
		l.nome AS lead_nome,
		l.whatsapp AS lead_whatsapp,
		l.email AS lead_email,
		l.operadora_atual AS lead_operadora_atual,
		l.valor_atual AS lead_valor_atual
	FROM crm_cards c
	LEFT JOIN insurance_leads l ON l.id = c.lead_id`

func (cs *CRMStore) ListCards(ctx context.Context, corretorID string) ([]CRMCard, error) {
	cards := []CRMCard{}
	query := cardSelect + `
	WHERE c.corretor_id = $1
	ORDER BY c.posicao ASC`
	if err := cs.db.SelectContext(ctx, &cards, query, corretorID); err != nil {
		return nil, fmt.Errorf("failed to list crm cards: %w", err)
	}
	return cards, nil
}

func (cs *CRMStore) GetCard(ctx context.Context, corretorID, id string) (*CRMCard, error) {
	var card CRMCard
	query := cardSelect + `
	WHERE c.id = $1 AND c.corretor_id = $2`
	if err := cs.db.GetContext(ctx, &card, query, id, corretorID); err != nil {
		return nil, notFound(err)
	}
	return &card, nil
}

func (cs *CRMStore) CreateCard(ctx context.Context, card *CRMCard) error {
	if card.ColunaSlug == "" {
		card.ColunaSlug = ColunaNovoLead
	}
	if card.Prioridade == "" {
		card.Prioridade = "media"
	}
	if card.Tags == nil {
		card.Tags = pq.StringArray{}
	}
	if len(card.Metadata) == 0 {
		card.Metadata = types.JSONText(`{}`)
	}

	query := `INSERT INTO crm_cards (
		corretor_id,
		lead_id,
		coluna_slug,
		titulo,
		subtitulo,
		valor_estimado,
		posicao,
		tags,
		prioridade,
		metadata
	) VALUES (
		:corretor_id,
		:lead_id,
		:coluna_slug,
		:titulo,
		:subtitulo,
		:valor_estimado,
		:posicao,
		:tags,
		:prioridade,
		:metadata
	) RETURNING id, created_at, updated_at`

	if err := namedReturning(ctx, cs.db, query, card, &card.ID, &card.CreatedAt, &card.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to insert crm card: %w", err)
	}
	return nil
}

func (cs *CRMStore) UpdateCard(ctx context.Context, corretorID, id string, patch CardPatch) (*CRMCard, error) {
	var tags any
	if patch.Tags != nil {
		tags = pq.Array(*patch.Tags)
	}

	query := `UPDATE crm_cards SET
		titulo = COALESCE($3, titulo),
		subtitulo = COALESCE($4, subtitulo),
		valor_estimado = COALESCE($5, valor_estimado),
		prioridade = COALESCE($6, prioridade),
		tags = COALESCE($7, tags),
		updated_at = now()
	WHERE id = $1 AND corretor_id = $2`

	res, err := cs.db.ExecContext(ctx, query, id, corretorID, patch.Titulo, patch.Subtitulo, patch.ValorEstimado, patch.Prioridade, tags)
	if err != nil {
		return nil, fmt.Errorf("failed to update crm card: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return cs.GetCard(ctx, corretorID, id)
}

// MoveCard sets the column and position and returns the previous column.
func (cs *CRMStore) MoveCard(ctx context.Context, corretorID, id, coluna string, posicao int) (string, error) {
	query := `WITH anterior AS (
		SELECT id, coluna_slug FROM crm_cards WHERE id = $1 AND corretor_id = $2 FOR UPDATE
	)
	UPDATE crm_cards c SET
		coluna_slug = $3,
		posicao = $4,
		updated_at = now()
	FROM anterior
	WHERE c.id = anterior.id
	RETURNING anterior.coluna_slug`

	var from string
	if err := cs.db.GetContext(ctx, &from, query, id, corretorID, coluna, posicao); err != nil {
		return "", notFound(err)
	}
	return from, nil
}

func (cs *CRMStore) ListInteractions(ctx context.Context, corretorID, cardID string) ([]CRMInteracao, error) {
	out := []CRMInteracao{}
	query := `SELECT id, card_id, corretor_id, lead_id, tipo, titulo, descricao,
		status_anterior, status_novo, metadata, created_at
	FROM crm_interacoes
	WHERE card_id = $1 AND corretor_id = $2
	ORDER BY created_at DESC`
	if err := cs.db.SelectContext(ctx, &out, query, cardID, corretorID); err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	return out, nil
}

const insertInteraction = `INSERT INTO crm_interacoes (
		card_id,
		corretor_id,
		lead_id,
		tipo,
		titulo,
		descricao,
		status_anterior,
		status_novo,
		metadata
	) VALUES (
		:card_id,
		:corretor_id,
		:lead_id,
		:tipo,
		:titulo,
		:descricao,
		:status_anterior,
		:status_novo,
		:metadata
	) RETURNING id, created_at`

// LogInteraction records a timeline entry without touching card counters.
func (cs *CRMStore) LogInteraction(ctx context.Context, in *CRMInteracao) error {
	if len(in.Metadata) == 0 {
		in.Metadata = types.JSONText(`{}`)
	}
	if err := namedReturning(ctx, cs.db, insertInteraction, in, &in.ID, &in.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}
	return nil
}

// AddInteraction records a broker interaction and bumps the card counters
// in one transaction.
func (cs *CRMStore) AddInteraction(ctx context.Context, in *CRMInteracao) error {
	if len(in.Metadata) == 0 {
		in.Metadata = types.JSONText(`{}`)
	}

	tx, err := cs.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := namedReturning(ctx, tx, insertInteraction, in, &in.ID, &in.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}

	query := `UPDATE crm_cards SET
		total_interacoes = total_interacoes + 1,
		ultima_interacao_proposta = CASE WHEN $3 THEN now() ELSE ultima_interacao_proposta END,
		updated_at = now()
	WHERE id = $1 AND corretor_id = $2`
	res, err := tx.ExecContext(ctx, query, in.CardID, in.CorretorID, IsProposalInteraction(in.Tipo))
	if err != nil {
		return fmt.Errorf("failed to update card counters: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

func (cs *CRMStore) UpdateScore(ctx context.Context, corretorID, id string, score int, motivo string) error {
	res, err := cs.db.ExecContext(ctx,
		`UPDATE crm_cards SET score = $3, score_motivo = $4 WHERE id = $1 AND corretor_id = $2`,
		id, corretorID, score, motivo)
	if err != nil {
		return fmt.Errorf("failed to update score: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
