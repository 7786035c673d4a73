package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestLeadStore_GetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	s := &LeadStore{db: db}

	mock.ExpectQuery(regexp.QuoteMeta("FROM insurance_leads WHERE id = $1")).
		WithArgs("0b7c4f52-3f39-4c4a-9a4a-0b8f3a3a7b11").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetByID(context.Background(), "0b7c4f52-3f39-4c4a-9a4a-0b8f3a3a7b11")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadStore_ListFiltersByStatus(t *testing.T) {
	db, mock := newMock(t)
	s := &LeadStore{db: db}

	rows := sqlmock.NewRows([]string{"id", "nome", "whatsapp", "status", "idades", "historico"}).
		AddRow("a1", "Maria", "21988887777", "novo", []byte("{34,61}"), []byte(`[]`))

	mock.ExpectQuery(`WHERE arquivado = false AND status = \$1\s+ORDER BY created_at DESC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs("novo", 20, 40).
		WillReturnRows(rows)

	leads, err := s.List(context.Background(), LeadFilter{Status: "novo", Limit: 20, Offset: 40})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Maria", leads[0].Nome)
	assert.Equal(t, pq.Int64Array{34, 61}, leads[0].Idades)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadStore_ListWithoutStatus(t *testing.T) {
	db, mock := newMock(t)
	s := &LeadStore{db: db}

	mock.ExpectQuery(`WHERE arquivado = false\s+ORDER BY created_at DESC\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	leads, err := s.List(context.Background(), LeadFilter{Limit: 50})
	require.NoError(t, err)
	assert.Empty(t, leads)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadStore_UpdateStatusAppendsHistory(t *testing.T) {
	db, mock := newMock(t)
	s := &LeadStore{db: db}

	history := `[{"evento":"mudanca_status","status_anterior":"novo","status_novo":"contatado","observacao":"ligou"}]`
	rows := sqlmock.NewRows([]string{"id", "status", "historico"}).
		AddRow("a1", "contatado", []byte(history))

	mock.ExpectQuery(`(?s)WITH anterior AS .*FOR UPDATE.*jsonb_build_object.*'mudanca_status'.*RETURNING l\.id`).
		WithArgs("a1", "contatado", "ligou").
		WillReturnRows(rows)

	lead, err := s.UpdateStatus(context.Background(), "a1", "contatado", "ligou")
	require.NoError(t, err)
	assert.Equal(t, "contatado", lead.Status)
	assert.JSONEq(t, history, string(lead.Historico))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadStore_UpdateStatusWithoutObservation(t *testing.T) {
	db, mock := newMock(t)
	s := &LeadStore{db: db}

	mock.ExpectQuery(`WITH anterior AS`).
		WithArgs("a1", "ganho", nil).
		WillReturnError(sql.ErrNoRows)

	_, err := s.UpdateStatus(context.Background(), "a1", "ganho", "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadStore_ArchiveMissing(t *testing.T) {
	db, mock := newMock(t)
	s := &LeadStore{db: db}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE insurance_leads SET arquivado = true")).
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Archive(context.Background(), "nope"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadStore_CreateDefaults(t *testing.T) {
	db, mock := newMock(t)
	s := &LeadStore{db: db}
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO insurance_leads")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "historico"}).
			AddRow("new-id", now, now, []byte(`[]`)))

	lead := &Lead{Nome: "João", Whatsapp: "21988887777"}
	require.NoError(t, s.Create(context.Background(), lead))
	assert.Equal(t, "new-id", lead.ID)
	assert.Equal(t, LeadStatusNovo, lead.Status)
	assert.Equal(t, OrigemSite, lead.Origem)
	assert.Equal(t, `{}`, string(lead.DadosPDF))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCRMStore_AddInteractionBumpsCounters(t *testing.T) {
	db, mock := newMock(t)
	s := &CRMStore{db: db}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO crm_interacoes")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("i1", time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("total_interacoes = total_interacoes + 1")).
		WithArgs("card-1", "cor-1", true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	in := &CRMInteracao{CardID: "card-1", CorretorID: "cor-1", Tipo: InteracaoPropostaEnviada, Titulo: "Proposta"}
	require.NoError(t, s.AddInteraction(context.Background(), in))
	assert.Equal(t, "i1", in.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCRMStore_AddInteractionUnknownCardRollsBack(t *testing.T) {
	db, mock := newMock(t)
	s := &CRMStore{db: db}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO crm_interacoes")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("i1", time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE crm_cards")).
		WithArgs("card-x", "cor-1", false).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.AddInteraction(context.Background(), &CRMInteracao{CardID: "card-x", CorretorID: "cor-1", Tipo: InteracaoNota})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCRMStore_MoveCardReturnsPreviousColumn(t *testing.T) {
	db, mock := newMock(t)
	s := &CRMStore{db: db}

	mock.ExpectQuery(`(?s)WITH anterior AS .*RETURNING anterior\.coluna_slug`).
		WithArgs("card-1", "cor-1", ColunaQualificado, 2).
		WillReturnRows(sqlmock.NewRows([]string{"coluna_slug"}).AddRow(ColunaNovoLead))

	from, err := s.MoveCard(context.Background(), "cor-1", "card-1", ColunaQualificado, 2)
	require.NoError(t, err)
	assert.Equal(t, ColunaNovoLead, from)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCRMStore_CreateCardConflict(t *testing.T) {
	db, mock := newMock(t)
	s := &CRMStore{db: db}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO crm_cards")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := s.CreateCard(context.Background(), &CRMCard{CorretorID: "cor-1", Titulo: "Maria"})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialPostStore_ClaimIsExclusive(t *testing.T) {
	db, mock := newMock(t)
	s := &SocialPostStore{db: db}

	mock.ExpectExec(regexp.QuoteMeta("status = 'publishing'")).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = 'scheduled'")).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := s.ClaimForPublishing(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.ClaimForPublishing(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialPostStore_ListDue(t *testing.T) {
	db, mock := newMock(t)
	s := &SocialPostStore{db: db}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)status = 'scheduled'.*auto_publish = true.*scheduled_for <= \$1.*LIMIT \$2`).
		WithArgs(now, 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "status", "hashtags"}).
			AddRow("p1", "acc1", "scheduled", []byte(`{saude,plano}`)))

	posts, err := s.ListDue(context.Background(), now, 50)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, pq.StringArray{"saude", "plano"}, posts[0].Hashtags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignStore_UpsertDaily(t *testing.T) {
	db, mock := newMock(t)
	s := &CampaignStore{db: db}

	mock.ExpectExec(`(?s)INSERT INTO campaign_metrics.*ON CONFLICT \(campaign_id, day\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.UpsertDaily(context.Background(), &CampaignMetric{
		CampaignID: "120", CampaignName: "Leads PME", Day: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), Spend: 150.5,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportHistoryStore_InsertReturnsID(t *testing.T) {
	db, mock := newMock(t)
	s := &ImportHistoryStore{db: db}
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO import_history")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "processed_at"}).AddRow(int64(7), now))

	h := &ImportHistory{ReferenceDate: now, SourceFile: "report.csv", TriggerType: TriggerTypeManual, Status: StatusSuccess}
	require.NoError(t, s.InsertImportHistory(context.Background(), h))
	assert.Equal(t, int64(7), h.ID)
	assert.Equal(t, now, h.ProcessedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanStore_ListPricesScansDecimal(t *testing.T) {
	db, mock := newMock(t)
	s := &PlanStore{db: db}

	mock.ExpectQuery(`(?s)FROM planos p\s+JOIN planos_faixas f`).
		WithArgs("PME", "apartamento").
		WillReturnRows(sqlmock.NewRows([]string{"plano_id", "nome", "operadora", "faixa", "valor"}).
			AddRow("p1", "Top", "Amil", 0, []byte("310.45")))

	rows, err := s.ListPrices(context.Background(), "PME", "apartamento")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, decimal.RequireFromString("310.45").Equal(rows[0].Valor))
	assert.NoError(t, mock.ExpectationsWereMet())
}
