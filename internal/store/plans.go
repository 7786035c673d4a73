package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// PlanPrice is one (plan, age band) price row.
type PlanPrice struct {
	PlanoID        string          `db:"plano_id"`
	Nome           string          `db:"nome"`
	Operadora      string          `db:"operadora"`
	Abrangencia    string          `db:"abrangencia"`
	Coparticipacao string          `db:"coparticipacao"`
	Reembolso      string          `db:"reembolso"`
	Faixa          int             `db:"faixa"`
	Valor          decimal.Decimal `db:"valor"`
}

type PlanStore struct {
	db *sqlx.DB
}

// ListPrices returns every band price of the active plans matching the
// contract and room type, ordered by plan.
func (ps *PlanStore) ListPrices(ctx context.Context, tipo, acomodacao string) ([]PlanPrice, error) {
	query := `SELECT
		p.id AS plano_id,
		p.nome,
		p.operadora,
		p.abrangencia,
		p.coparticipacao,
		p.reembolso,
		f.faixa,
		f.valor
	FROM planos p
	JOIN planos_faixas f ON f.plano_id = p.id
	WHERE p.ativo = true
		AND p.tipo_contratacao = $1
		AND p.acomodacao = $2
	ORDER BY p.id, f.faixa`

	out := []PlanPrice{}
	if err := ps.db.SelectContext(ctx, &out, query, tipo, acomodacao); err != nil {
		return nil, fmt.Errorf("failed to query plan prices: %w", err)
	}
	return out, nil
}
