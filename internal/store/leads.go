package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

const (
	LeadStatusNovo            = "novo"
	LeadStatusContatado       = "contatado"
	LeadStatusNegociacao      = "negociacao"
	LeadStatusPropostaEnviada = "proposta_enviada"
	LeadStatusGanho           = "ganho"
	LeadStatusPerdido         = "perdido"
	LeadStatusPausado         = "pausado"
)

// LeadStatuses lists every accepted status. Any member may follow any other.
var LeadStatuses = []string{
	LeadStatusNovo,
	LeadStatusContatado,
	LeadStatusNegociacao,
	LeadStatusPropostaEnviada,
	LeadStatusGanho,
	LeadStatusPerdido,
	LeadStatusPausado,
}

func IsLeadStatus(s string) bool {
	for _, st := range LeadStatuses {
		if st == s {
			return true
		}
	}
	return false
}

const (
	OrigemSite       = "site"
	OrigemScannerPDF = "scanner_pdf"
)

type Lead struct {
	ID               string         `db:"id" json:"id"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
	Nome             string         `db:"nome" json:"nome"`
	Whatsapp         string         `db:"whatsapp" json:"whatsapp"`
	Email            *string        `db:"email" json:"email"`
	OperadoraAtual   *string        `db:"operadora_atual" json:"operadora_atual"`
	ValorAtual       *float64       `db:"valor_atual" json:"valor_atual"`
	Idades           pq.Int64Array  `db:"idades" json:"idades"`
	EconomiaEstimada *float64       `db:"economia_estimada" json:"economia_estimada"`
	ValorProposto    *float64       `db:"valor_proposto" json:"valor_proposto"`
	TipoContratacao  *string        `db:"tipo_contratacao" json:"tipo_contratacao"`
	Status           string         `db:"status" json:"status"`
	Origem           string         `db:"origem" json:"origem"`
	Prioridade       *string        `db:"prioridade" json:"prioridade"`
	Observacoes      *string        `db:"observacoes" json:"observacoes"`
	DadosPDF         types.JSONText `db:"dados_pdf" json:"dados_pdf"`
	Historico        types.JSONText `db:"historico" json:"historico"`
	AtribuidoA       *string        `db:"atribuido_a" json:"atribuido_a"`
	Arquivado        bool           `db:"arquivado" json:"arquivado"`
}

type LeadFilter struct {
	Status string
	Limit  int
	Offset int
}

// LeadPatch carries the editable fields; nil means unchanged.
type LeadPatch struct {
	Observacoes   *string
	AtribuidoA    *string
	ValorProposto *float64
	Prioridade    *string
}

type LeadDashboard struct {
	TotalLeads            int     `db:"total_leads" json:"total_leads"`
	LeadsNovos            int     `db:"leads_novos" json:"leads_novos"`
	LeadsContatados       int     `db:"leads_contatados" json:"leads_contatados"`
	LeadsNegociacao       int     `db:"leads_negociacao" json:"leads_negociacao"`
	LeadsGanhos           int     `db:"leads_ganhos" json:"leads_ganhos"`
	LeadsPerdidos         int     `db:"leads_perdidos" json:"leads_perdidos"`
	ValorTotalPipeline    float64 `db:"valor_total_pipeline" json:"valor_total_pipeline"`
	EconomiaTotalEstimada float64 `db:"economia_total_estimada" json:"economia_total_estimada"`
	LeadsHoje             int     `db:"leads_hoje" json:"leads_hoje"`
	LeadsSemana           int     `db:"leads_semana" json:"leads_semana"`
}

type PipelineStage struct {
	Status     string  `db:"status" json:"status"`
	Quantidade int     `db:"quantidade" json:"quantidade"`
	ValorTotal float64 `db:"valor_total" json:"valor_total"`
}

type OperatorStats struct {
	Operadora     string  `db:"operadora" json:"operadora"`
	TotalLeads    int     `db:"total_leads" json:"total_leads"`
	ValorMedio    float64 `db:"valor_medio" json:"valor_medio"`
	EconomiaMedia float64 `db:"economia_media" json:"economia_media"`
}

type LeadStore struct {
	db *sqlx.DB
}

const leadColumns = `id, created_at, updated_at, nome, whatsapp, email, operadora_atual,
	valor_atual, idades, economia_estimada, valor_proposto, tipo_contratacao, status,
	origem, prioridade, observacoes, dados_pdf, historico, atribuido_a, arquivado`

func (ls *LeadStore) Create(ctx context.Context, lead *Lead) error {
	if lead.Status == "" {
		lead.Status = LeadStatusNovo
	}
	if lead.Origem == "" {
		lead.Origem = OrigemSite
	}
	if len(lead.DadosPDF) == 0 {
		lead.DadosPDF = types.JSONText(`{}`)
	}
	if lead.Idades == nil {
		lead.Idades = pq.Int64Array{}
	}

	query := `INSERT INTO insurance_leads (
		nome,
		whatsapp,
		email,
		operadora_atual,
		valor_atual,
		idades,
		economia_estimada,
		valor_proposto,
		tipo_contratacao,
		status,
		origem,
		prioridade,
		observacoes,
		dados_pdf
	) VALUES (
		:nome,
		:whatsapp,
		:email,
		:operadora_atual,
		:valor_atual,
		:idades,
		:economia_estimada,
		:valor_proposto,
		:tipo_contratacao,
		:status,
		:origem,
		:prioridade,
		:observacoes,
		:dados_pdf
	) RETURNING id, created_at, updated_at, historico`

	if err := namedReturning(ctx, ls.db, query, lead, &lead.ID, &lead.CreatedAt, &lead.UpdatedAt, &lead.Historico); err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}
	return nil
}

func (ls *LeadStore) GetByID(ctx context.Context, id string) (*Lead, error) {
	var lead Lead
	query := `SELECT ` + leadColumns + ` FROM insurance_leads WHERE id = $1`
	if err := ls.db.GetContext(ctx, &lead, query, id); err != nil {
		return nil, notFound(err)
	}
	return &lead, nil
}

// FindActiveByWhatsapp returns the newest non-archived lead with the number.
func (ls *LeadStore) FindActiveByWhatsapp(ctx context.Context, whatsapp string) (*Lead, error) {
	var lead Lead
	query := `SELECT ` + leadColumns + ` FROM insurance_leads
	WHERE whatsapp = $1 AND arquivado = false
	ORDER BY created_at DESC
	LIMIT 1`
	if err := ls.db.GetContext(ctx, &lead, query, whatsapp); err != nil {
		return nil, notFound(err)
	}
	return &lead, nil
}

func (ls *LeadStore) List(ctx context.Context, filter LeadFilter) ([]Lead, error) {
	where := []string{"arquivado = false"}
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	args = append(args, filter.Limit, filter.Offset)

	query := fmt.Sprintf(`SELECT %s FROM insurance_leads
	WHERE %s
	ORDER BY created_at DESC
	LIMIT $%d OFFSET $%d`, leadColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	leads := []Lead{}
	if err := ls.db.SelectContext(ctx, &leads, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

func (ls *LeadStore) Update(ctx context.Context, id string, patch LeadPatch) (*Lead, error) {
	var lead Lead
	query := `UPDATE insurance_leads SET
		observacoes = COALESCE($2, observacoes),
		atribuido_a = COALESCE($3, atribuido_a),
		valor_proposto = COALESCE($4, valor_proposto),
		prioridade = COALESCE($5, prioridade),
		updated_at = now()
	WHERE id = $1
	RETURNING ` + leadColumns

	err := ls.db.GetContext(ctx, &lead, query, id, patch.Observacoes, patch.AtribuidoA, patch.ValorProposto, patch.Prioridade)
	if err != nil {
		return nil, notFound(err)
	}
	return &lead, nil
}

// UpdateStatus writes the new status and appends a mudanca_status event to
// historico in the same statement.
func (ls *LeadStore) UpdateStatus(ctx context.Context, id, status, observacao string) (*Lead, error) {
	var obs any
	if observacao != "" {
		obs = observacao
	}

	var lead Lead
	query := `WITH anterior AS (
		SELECT id, status FROM insurance_leads WHERE id = $1 FOR UPDATE
	)
	UPDATE insurance_leads l SET
		status = $2,
		historico = COALESCE(l.historico, '[]'::jsonb) || jsonb_build_array(jsonb_build_object(
			'timestamp', to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS"Z"'),
			'evento', 'mudanca_status',
			'status_anterior', anterior.status,
			'status_novo', $2::text,
			'observacao', $3::text
		)),
		updated_at = now()
	FROM anterior
	WHERE l.id = anterior.id
	RETURNING ` + prefixed("l.", leadColumns)

	if err := ls.db.GetContext(ctx, &lead, query, id, status, obs); err != nil {
		return nil, notFound(err)
	}
	return &lead, nil
}

func (ls *LeadStore) Archive(ctx context.Context, id string) error {
	res, err := ls.db.ExecContext(ctx, `UPDATE insurance_leads SET arquivado = true, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to archive lead: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (ls *LeadStore) DashboardStats(ctx context.Context) (LeadDashboard, error) {
	var stats LeadDashboard
	err := ls.db.GetContext(ctx, &stats, `SELECT * FROM dashboard_stats`)
	if err != nil {
		return LeadDashboard{}, fmt.Errorf("failed to query dashboard stats: %w", err)
	}
	return stats, nil
}

func (ls *LeadStore) Pipeline(ctx context.Context) ([]PipelineStage, error) {
	stages := []PipelineStage{}
	if err := ls.db.SelectContext(ctx, &stages, `SELECT status, quantidade, valor_total FROM pipeline_vendas`); err != nil {
		return nil, fmt.Errorf("failed to query sales pipeline: %w", err)
	}
	return stages, nil
}

func (ls *LeadStore) ByOperator(ctx context.Context) ([]OperatorStats, error) {
	rows := []OperatorStats{}
	query := `SELECT operadora, total_leads, valor_medio, economia_media FROM leads_por_operadora`
	if err := ls.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query leads by operator: %w", err)
	}
	return rows, nil
}

// prefixed qualifies a comma separated column list with a table alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
