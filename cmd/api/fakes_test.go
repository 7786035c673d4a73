package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/humanosaude/portal/internal/auth"
	"github.com/humanosaude/portal/internal/store"
)

const (
	testBrokerID = "7d7c2f4e-3b0a-4a57-9c55-2f1f6f1c9a10"
	testPassword = "s3nha-forte"
)

type fakeLeads struct {
	mu      sync.Mutex
	byID    map[string]*store.Lead
	created []store.Lead
	filters []store.LeadFilter
}

func newFakeLeads() *fakeLeads {
	return &fakeLeads{byID: map[string]*store.Lead{}}
}

func (f *fakeLeads) Create(_ context.Context, lead *store.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead.ID = "11111111-1111-1111-1111-111111111111"
	lead.Status = store.LeadStatusNovo
	f.created = append(f.created, *lead)
	f.byID[lead.ID] = lead
	return nil
}

func (f *fakeLeads) GetByID(_ context.Context, id string) (*store.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.byID[id]; ok {
		return l, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeLeads) FindActiveByWhatsapp(_ context.Context, whatsapp string) (*store.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.byID {
		if l.Whatsapp == whatsapp && !l.Arquivado {
			return l, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeLeads) List(_ context.Context, filter store.LeadFilter) ([]store.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	return []store.Lead{}, nil
}

func (f *fakeLeads) Update(ctx context.Context, id string, _ store.LeadPatch) (*store.Lead, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeLeads) UpdateStatus(ctx context.Context, id, status, _ string) (*store.Lead, error) {
	l, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Status = status
	return l, nil
}

func (f *fakeLeads) Archive(ctx context.Context, id string) error {
	_, err := f.GetByID(ctx, id)
	return err
}

func (f *fakeLeads) DashboardStats(context.Context) (store.LeadDashboard, error) {
	return store.LeadDashboard{TotalLeads: len(f.byID)}, nil
}
func (f *fakeLeads) Pipeline(context.Context) ([]store.PipelineStage, error) { return nil, nil }
func (f *fakeLeads) ByOperator(context.Context) ([]store.OperatorStats, error) {
	return nil, nil
}

type fakeCorretores struct {
	byEmail map[string]*store.Corretor
	touched []string
}

func newFakeCorretores(t *testing.T) *fakeCorretores {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)

	return &fakeCorretores{byEmail: map[string]*store.Corretor{
		"ana@humanosaude.com.br": {
			ID: testBrokerID, Nome: "Ana Souza", Email: "ana@humanosaude.com.br",
			SenhaHash: hash, Role: "corretor", Ativo: true,
		},
		"inativo@humanosaude.com.br": {
			ID: "c0000000-0000-0000-0000-000000000002", Nome: "Inativo", Email: "inativo@humanosaude.com.br",
			SenhaHash: hash, Role: "corretor", Ativo: false,
		},
	}}
}

func (f *fakeCorretores) GetByEmail(_ context.Context, email string) (*store.Corretor, error) {
	if c, ok := f.byEmail[email]; ok {
		return c, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeCorretores) TouchLastLogin(_ context.Context, id string) error {
	f.touched = append(f.touched, id)
	return nil
}

type fakeCRM struct {
	mu     sync.Mutex
	cards  map[string]*store.CRMCard
	logged []store.CRMInteracao
}

func newFakeCRM() *fakeCRM {
	return &fakeCRM{cards: map[string]*store.CRMCard{}}
}

func (f *fakeCRM) add(card store.CRMCard) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cards[card.ID] = &card
}

func (f *fakeCRM) ListCards(_ context.Context, corretorID string) ([]store.CRMCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.CRMCard
	for _, c := range f.cards {
		if c.CorretorID == corretorID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCRM) GetCard(_ context.Context, corretorID, id string) (*store.CRMCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cards[id]
	if !ok || c.CorretorID != corretorID {
		return nil, store.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (f *fakeCRM) CreateCard(_ context.Context, card *store.CRMCard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	card.ID = "22222222-2222-2222-2222-222222222222"
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt
	f.cards[card.ID] = card
	return nil
}

func (f *fakeCRM) UpdateCard(ctx context.Context, corretorID, id string, _ store.CardPatch) (*store.CRMCard, error) {
	return f.GetCard(ctx, corretorID, id)
}

func (f *fakeCRM) MoveCard(_ context.Context, corretorID, id, coluna string, posicao int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cards[id]
	if !ok || c.CorretorID != corretorID {
		return "", store.ErrNotFound
	}
	from := c.ColunaSlug
	c.ColunaSlug = coluna
	c.Posicao = posicao
	return from, nil
}

func (f *fakeCRM) ListInteractions(context.Context, string, string) ([]store.CRMInteracao, error) {
	return []store.CRMInteracao{}, nil
}

func (f *fakeCRM) AddInteraction(_ context.Context, in *store.CRMInteracao) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	in.ID = "33333333-3333-3333-3333-333333333333"
	f.logged = append(f.logged, *in)
	return nil
}

func (f *fakeCRM) LogInteraction(_ context.Context, in *store.CRMInteracao) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logged = append(f.logged, *in)
	return nil
}

func (f *fakeCRM) UpdateScore(context.Context, string, string, int, string) error { return nil }

// fakePlans serves one PME plan costing 100 per band step.
type fakePlans struct{}

func (fakePlans) ListPrices(_ context.Context, tipo, acomodacao string) ([]store.PlanPrice, error) {
	if tipo != "PME" {
		return nil, nil
	}
	rows := make([]store.PlanPrice, 0, 10)
	for faixa := 0; faixa < 10; faixa++ {
		rows = append(rows, store.PlanPrice{
			PlanoID: "amil-s380", Nome: "Amil S380", Operadora: "amil",
			Abrangencia: "regional", Faixa: faixa,
			Valor: decimal.NewFromInt(int64(100 * (faixa + 1))),
		})
	}
	return rows, nil
}
