package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrNotFound = errors.New("registro não encontrado")
	ErrConflict = errors.New("registro duplicado")
)

type Storage struct {
	Leads interface {
		Create(ctx context.Context, lead *Lead) error
		GetByID(ctx context.Context, id string) (*Lead, error)
		FindActiveByWhatsapp(ctx context.Context, whatsapp string) (*Lead, error)
		List(ctx context.Context, filter LeadFilter) ([]Lead, error)
		Update(ctx context.Context, id string, patch LeadPatch) (*Lead, error)
		UpdateStatus(ctx context.Context, id, status, observacao string) (*Lead, error)
		Archive(ctx context.Context, id string) error
		DashboardStats(ctx context.Context) (LeadDashboard, error)
		Pipeline(ctx context.Context) ([]PipelineStage, error)
		ByOperator(ctx context.Context) ([]OperatorStats, error)
	}

	Corretores interface {
		GetByEmail(ctx context.Context, email string) (*Corretor, error)
		TouchLastLogin(ctx context.Context, id string) error
	}

	CRM interface {
		ListCards(ctx context.Context, corretorID string) ([]CRMCard, error)
		GetCard(ctx context.Context, corretorID, id string) (*CRMCard, error)
		CreateCard(ctx context.Context, card *CRMCard) error
		UpdateCard(ctx context.Context, corretorID, id string, patch CardPatch) (*CRMCard, error)
		MoveCard(ctx context.Context, corretorID, id, coluna string, posicao int) (string, error)
		ListInteractions(ctx context.Context, corretorID, cardID string) ([]CRMInteracao, error)
		AddInteraction(ctx context.Context, in *CRMInteracao) error
		LogInteraction(ctx context.Context, in *CRMInteracao) error
		UpdateScore(ctx context.Context, corretorID, id string, score int, motivo string) error
	}

	SocialAccounts interface {
		Upsert(ctx context.Context, account *SocialAccount) error
		GetByID(ctx context.Context, id string) (*SocialAccount, error)
		ListActive(ctx context.Context) ([]SocialAccount, error)
		ListExpiring(ctx context.Context, before time.Time) ([]SocialAccount, error)
		UpdateToken(ctx context.Context, id, token string, expiresAt *time.Time) error
		UpdateProfile(ctx context.Context, id string, p AccountProfile) error
		MarkStatus(ctx context.Context, id, status, lastError string) error
	}

	SocialPosts interface {
		ListScheduled(ctx context.Context, userID string) ([]SocialPost, error)
		Reschedule(ctx context.Context, id string, at time.Time) (*SocialPost, error)
		Cancel(ctx context.Context, id string) (bool, error)
		ListDue(ctx context.Context, now time.Time, limit int) ([]SocialPost, error)
		ClaimForPublishing(ctx context.Context, id string) (bool, error)
		MarkPublished(ctx context.Context, id, platformPostID, permalink string, at time.Time) error
		MarkFailed(ctx context.Context, id, message string) error
		ListPublishedSince(ctx context.Context, since time.Time) ([]SocialPost, error)
		ListEngagement(ctx context.Context, userID, accountID string) ([]PostEngagement, error)
	}

	SocialMetrics interface {
		UpsertPostMetrics(ctx context.Context, m *PostMetrics) error
		InsertAccountSnapshot(ctx context.Context, m *AccountMetrics) error
		DashboardStats(ctx context.Context, userID string) (SocialStats, error)
		DailyMetrics(ctx context.Context, userID string, since time.Time) ([]DailySocialMetrics, error)
	}

	Campaigns interface {
		UpsertDaily(ctx context.Context, m *CampaignMetric) error
		Summaries(ctx context.Context, from, to time.Time) ([]CampaignSummary, error)
		Totals(ctx context.Context, from, to time.Time) (CampaignTotals, error)
	}

	Logs interface {
		LatestCampaignLogs(ctx context.Context, limit int) ([]CampaignLog, error)
		LatestOptimizationLogs(ctx context.Context, limit int) ([]OptimizationLog, error)
	}

	Audiences interface {
		List(ctx context.Context) ([]AudienceSegment, error)
		Upsert(ctx context.Context, segment *AudienceSegment) error
	}

	ImportHistory interface {
		InsertImportHistory(ctx context.Context, history *ImportHistory) error
		GetLatest(ctx context.Context, limit int) ([]ImportHistory, error)
		UpdateImportStatus(ctx context.Context, id int64, status string) error
	}

	Plans interface {
		ListPrices(ctx context.Context, tipo, acomodacao string) ([]PlanPrice, error)
	}
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		Leads:          &LeadStore{db: db},
		Corretores:     &CorretorStore{db: db},
		CRM:            &CRMStore{db: db},
		SocialAccounts: &SocialAccountStore{db: db},
		SocialPosts:    &SocialPostStore{db: db},
		SocialMetrics:  &SocialMetricsStore{db: db},
		Campaigns:      &CampaignStore{db: db},
		Logs:           &LogStore{db: db},
		Audiences:      &AudienceStore{db: db},
		ImportHistory:  &ImportHistoryStore{db: db},
		Plans:          &PlanStore{db: db},
	}
}

// notFound maps sql.ErrNoRows to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// namedReturning runs a named INSERT/UPDATE ... RETURNING and scans the
// first row into dest.
func namedReturning(ctx context.Context, db sqlx.ExtContext, query string, arg any, dest ...any) error {
	rows, err := sqlx.NamedQueryContext(ctx, db, query, arg)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return ErrNotFound
	}
	return rows.Scan(dest...)
}
