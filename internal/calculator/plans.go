package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/humanosaude/portal/internal/store"
)

// PlansFromPrices folds (plan, band) rows into plans, keeping the row order
// of first appearance.
func PlansFromPrices(rows []store.PlanPrice) []Plan {
	idx := map[string]int{}
	plans := []Plan{}
	for _, row := range rows {
		i, ok := idx[row.PlanoID]
		if !ok {
			i = len(plans)
			idx[row.PlanoID] = i
			plans = append(plans, Plan{
				ID:             row.PlanoID,
				Nome:           row.Nome,
				Operadora:      row.Operadora,
				Abrangencia:    row.Abrangencia,
				Coparticipacao: row.Coparticipacao,
				Reembolso:      row.Reembolso,
				Prices:         map[int]decimal.Decimal{},
			})
		}
		plans[i].Prices[row.Faixa] = row.Valor
	}
	return plans
}
