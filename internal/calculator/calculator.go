// Package calculator prices health plans for a group of beneficiaries using
// the ten ANS age bands.
package calculator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/humanosaude/portal/internal/validation"
	"github.com/shopspring/decimal"
)

const (
	BandCount = 10
	MaxLives  = 99
)

var (
	ErrNoAges        = errors.New("informe pelo menos uma idade")
	ErrTooManyLives  = fmt.Errorf("máximo de %d vidas por cotação", MaxLives)
	ErrInvalidAge    = errors.New("idade deve estar entre 0 e 120")
	ErrInvalidType   = errors.New("tipo de contratação inválido (use PF, PME ou ADESAO)")
	ErrInvalidRoom   = errors.New("acomodação inválida (use enfermaria ou apartamento)")
	ErrCNPJRequired  = errors.New("CNPJ obrigatório para contratação PME")
	ErrInvalidCNPJ   = errors.New("CNPJ inválido")
	ErrNoPlanMatched = errors.New("nenhum plano disponível para o perfil informado")
)

var contractTypes = map[string]bool{"PF": true, "PME": true, "ADESAO": true}

var roomTypes = map[string]bool{"enfermaria": true, "apartamento": true}

// bandUpper holds the inclusive upper age of bands 0..8; band 9 is 59+.
var bandUpper = [BandCount - 1]int{18, 23, 28, 33, 38, 43, 48, 53, 58}

// Band returns the ANS age band index for an age.
func Band(age int) int {
	for i, upper := range bandUpper {
		if age <= upper {
			return i
		}
	}
	return BandCount - 1
}

// Request is a normalized quote request.
type Request struct {
	TipoContratacao string
	Acomodacao      string
	Idades          []int
	CNPJ            string
}

// Normalize uppercases the contract type, lowercases the room type and
// validates the request.
func (r *Request) Normalize() error {
	r.TipoContratacao = strings.ToUpper(strings.TrimSpace(r.TipoContratacao))
	r.Acomodacao = strings.ToLower(strings.TrimSpace(r.Acomodacao))

	if !contractTypes[r.TipoContratacao] {
		return ErrInvalidType
	}
	if !roomTypes[r.Acomodacao] {
		return ErrInvalidRoom
	}
	if len(r.Idades) == 0 {
		return ErrNoAges
	}
	if len(r.Idades) > MaxLives {
		return ErrTooManyLives
	}
	for _, age := range r.Idades {
		if age < 0 || age > 120 {
			return ErrInvalidAge
		}
	}
	if r.TipoContratacao == "PME" {
		if strings.TrimSpace(r.CNPJ) == "" {
			return ErrCNPJRequired
		}
		if !validation.IsCNPJ(r.CNPJ) {
			return ErrInvalidCNPJ
		}
	}
	return nil
}

// Plan is a priced product with one monthly price per age band.
type Plan struct {
	ID             string
	Nome           string
	Operadora      string
	Abrangencia    string
	Coparticipacao string
	Reembolso      string
	Prices         map[int]decimal.Decimal
}

// Quote is one plan priced for the whole group.
type Quote struct {
	ID             string  `json:"id"`
	Nome           string  `json:"nome"`
	Operadora      string  `json:"operadora"`
	Abrangencia    string  `json:"abrangencia"`
	Coparticipacao string  `json:"coparticipacao"`
	Reembolso      string  `json:"reembolso"`
	ValorTotal     float64 `json:"valorTotal"`
	ValorPorVida   float64 `json:"valorPorVida"`

	total decimal.Decimal
}

// Price sums the band price of every beneficiary. Plans lacking a needed
// band are left out. Quotes are ordered from cheapest to most expensive.
func Price(plans []Plan, ages []int) ([]Quote, error) {
	if len(ages) == 0 {
		return nil, ErrNoAges
	}

	lives := decimal.NewFromInt(int64(len(ages)))
	quotes := make([]Quote, 0, len(plans))

plans:
	for _, p := range plans {
		total := decimal.Zero
		for _, age := range ages {
			price, ok := p.Prices[Band(age)]
			if !ok {
				continue plans
			}
			total = total.Add(price)
		}

		total = total.Round(2)
		quotes = append(quotes, Quote{
			ID:             p.ID,
			Nome:           p.Nome,
			Operadora:      p.Operadora,
			Abrangencia:    p.Abrangencia,
			Coparticipacao: p.Coparticipacao,
			Reembolso:      p.Reembolso,
			ValorTotal:     total.InexactFloat64(),
			ValorPorVida:   total.Div(lives).Round(2).InexactFloat64(),
			total:          total,
		})
	}

	if len(quotes) == 0 {
		return nil, ErrNoPlanMatched
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].total.LessThan(quotes[j].total)
	})
	return quotes, nil
}

// Savings is current minus proposed, never negative.
func Savings(current, proposed decimal.Decimal) decimal.Decimal {
	s := current.Sub(proposed)
	if s.IsNegative() {
		return decimal.Zero
	}
	return s.Round(2)
}
