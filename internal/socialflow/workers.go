package socialflow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/humanosaude/portal/internal/logger"
	"github.com/humanosaude/portal/internal/store"
)

const (
	DueBatchSize     = 50
	AnalyticsWindow  = 30 * 24 * time.Hour
	TokenRefreshLead = 7 * 24 * time.Hour

	// settleTimeout bounds the status write that follows a publish attempt.
	// It runs on a context detached from the request so a post that hit
	// the deadline still leaves the publishing state.
	settleTimeout = 10 * time.Second
)

type WorkerError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// WorkerReport is the outcome of one worker run.
type WorkerReport struct {
	Job            string        `json:"job"`
	StartedAt      time.Time     `json:"startedAt"`
	CompletedAt    time.Time     `json:"completedAt"`
	TotalProcessed int           `json:"totalProcessed"`
	SuccessCount   int           `json:"successCount"`
	FailureCount   int           `json:"failureCount"`
	SkippedCount   int           `json:"skippedCount"`
	Errors         []WorkerError `json:"errors"`
}

func (r *WorkerReport) fail(id string, err error) {
	r.FailureCount++
	r.Errors = append(r.Errors, WorkerError{ID: id, Error: err.Error()})
}

type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*store.SocialAccount, error)
	ListActive(ctx context.Context) ([]store.SocialAccount, error)
	ListExpiring(ctx context.Context, before time.Time) ([]store.SocialAccount, error)
	UpdateToken(ctx context.Context, id, token string, expiresAt *time.Time) error
	UpdateProfile(ctx context.Context, id string, p store.AccountProfile) error
	MarkStatus(ctx context.Context, id, status, lastError string) error
}

type PostRepository interface {
	ListDue(ctx context.Context, now time.Time, limit int) ([]store.SocialPost, error)
	ClaimForPublishing(ctx context.Context, id string) (bool, error)
	MarkPublished(ctx context.Context, id, platformPostID, permalink string, at time.Time) error
	MarkFailed(ctx context.Context, id, message string) error
	ListPublishedSince(ctx context.Context, since time.Time) ([]store.SocialPost, error)
}

type MetricsRepository interface {
	UpsertPostMetrics(ctx context.Context, m *store.PostMetrics) error
	InsertAccountSnapshot(ctx context.Context, m *store.AccountMetrics) error
}

// Workers runs the background jobs triggered by the cron endpoint.
type Workers struct {
	accounts AccountRepository
	posts    PostRepository
	metrics  MetricsRepository
	adapters *Adapters
	log      *logger.Logger
	now      func() time.Time
}

func NewWorkers(accounts AccountRepository, posts PostRepository, metrics MetricsRepository, adapters *Adapters, log *logger.Logger) *Workers {
	return &Workers{
		accounts: accounts,
		posts:    posts,
		metrics:  metrics,
		adapters: adapters,
		log:      log,
		now:      time.Now,
	}
}

func (w *Workers) newReport(job string) *WorkerReport {
	return &WorkerReport{Job: job, StartedAt: w.now().UTC(), Errors: []WorkerError{}}
}

func (w *Workers) finish(r *WorkerReport) *WorkerReport {
	r.CompletedAt = w.now().UTC()
	w.log.Info(component, "%s finished: processed=%d success=%d failed=%d skipped=%d",
		r.Job, r.TotalProcessed, r.SuccessCount, r.FailureCount, r.SkippedCount)
	return r
}

// Publish sends every due scheduled post to its network.
func (w *Workers) Publish(ctx context.Context) (*WorkerReport, error) {
	report := w.newReport("publish")

	due, err := w.posts.ListDue(ctx, w.now().UTC(), DueBatchSize)
	if err != nil {
		return nil, err
	}

	for i, post := range due {
		if ctx.Err() != nil {
			w.log.Warn(component, "publish stopped: %v, %d posts left for the next run", ctx.Err(), len(due)-i)
			report.TotalProcessed += len(due) - i
			report.SkippedCount += len(due) - i
			break
		}
		report.TotalProcessed++

		account, err := w.accounts.GetByID(ctx, post.AccountID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && !account.IsActive) {
			report.SkippedCount++
			continue
		}
		if err != nil {
			report.fail(post.ID, err)
			continue
		}

		adapter, ok := w.adapters.Get(post.Network)
		if !ok {
			report.SkippedCount++
			continue
		}

		claimed, err := w.posts.ClaimForPublishing(ctx, post.ID)
		if err != nil {
			report.fail(post.ID, err)
			continue
		}
		if !claimed {
			report.SkippedCount++
			continue
		}

		if err := w.publishOne(ctx, adapter, *account, post); err != nil {
			w.log.Error(component, "publish failed: post=%s err=%v", post.ID, err)
			w.markFailed(ctx, post.ID, err)
			report.fail(post.ID, err)
			continue
		}
		report.SuccessCount++
	}

	return w.finish(report), nil
}

func (w *Workers) publishOne(ctx context.Context, adapter Adapter, account store.SocialAccount, post store.SocialPost) error {
	media, err := PostMedia(post)
	if err != nil {
		return err
	}
	if len(media) == 0 {
		return fmt.Errorf("post sem mídia")
	}

	res, err := adapter.Publish(ctx, account, post, media)
	if err != nil {
		return err
	}

	sctx, cancel := settleContext(ctx)
	defer cancel()
	return w.posts.MarkPublished(sctx, post.ID, res.PlatformPostID, res.Permalink, w.now().UTC())
}

func (w *Workers) markFailed(ctx context.Context, id string, cause error) {
	sctx, cancel := settleContext(ctx)
	defer cancel()
	if err := w.posts.MarkFailed(sctx, id, cause.Error()); err != nil {
		w.log.Error(component, "failed to mark post failed: post=%s err=%v", id, err)
	}
}

func settleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
}

// Analytics refreshes post insights for the last 30 days and snapshots
// every active account.
func (w *Workers) Analytics(ctx context.Context) (*WorkerReport, error) {
	report := w.newReport("analytics")

	posts, err := w.posts.ListPublishedSince(ctx, w.now().Add(-AnalyticsWindow))
	if err != nil {
		return nil, err
	}

	accounts := map[string]*store.SocialAccount{}
	for _, post := range posts {
		report.TotalProcessed++
		if post.PlatformPostID == nil {
			report.SkippedCount++
			continue
		}

		account, ok := accounts[post.AccountID]
		if !ok {
			account, err = w.accounts.GetByID(ctx, post.AccountID)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				report.fail(post.ID, err)
				continue
			}
			accounts[post.AccountID] = account
		}
		adapter, found := w.adapters.Get(post.Network)
		if account == nil || !found {
			report.SkippedCount++
			continue
		}

		m, err := adapter.PostMetrics(ctx, *account, *post.PlatformPostID)
		if err != nil {
			report.fail(post.ID, err)
			continue
		}
		m.PostID = post.ID
		if err := w.metrics.UpsertPostMetrics(ctx, &m); err != nil {
			report.fail(post.ID, err)
			continue
		}
		report.SuccessCount++
	}

	active, err := w.accounts.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for _, account := range active {
		report.TotalProcessed++
		adapter, ok := w.adapters.Get(account.Network)
		if !ok {
			report.SkippedCount++
			continue
		}
		profile, err := adapter.AccountMetrics(ctx, account)
		if err != nil {
			report.fail(account.ID, err)
			continue
		}
		snapshot := &store.AccountMetrics{
			AccountID:      account.ID,
			FollowersCount: profile.Followers,
			FollowingCount: profile.Following,
			PostsCount:     profile.Posts,
			EngagementRate: account.EngagementRate,
		}
		if err := w.metrics.InsertAccountSnapshot(ctx, snapshot); err != nil {
			report.fail(account.ID, err)
			continue
		}
		report.SuccessCount++
	}

	return w.finish(report), nil
}

// Tokens refreshes tokens expiring within the next 7 days.
func (w *Workers) Tokens(ctx context.Context) (*WorkerReport, error) {
	report := w.newReport("tokens")

	expiring, err := w.accounts.ListExpiring(ctx, w.now().Add(TokenRefreshLead))
	if err != nil {
		return nil, err
	}

	for _, account := range expiring {
		report.TotalProcessed++
		adapter, ok := w.adapters.Get(account.Network)
		if !ok {
			report.SkippedCount++
			continue
		}

		refreshed, err := adapter.RefreshToken(ctx, account)
		if err != nil {
			if markErr := w.accounts.MarkStatus(ctx, account.ID, store.ConnectionExpired, err.Error()); markErr != nil {
				w.log.Error(component, "failed to mark account expired: account=%s err=%v", account.ID, markErr)
			}
			report.fail(account.ID, err)
			continue
		}
		if err := w.accounts.UpdateToken(ctx, account.ID, refreshed.AccessToken, refreshed.ExpiresAt); err != nil {
			report.fail(account.ID, err)
			continue
		}
		report.SuccessCount++
	}

	return w.finish(report), nil
}

// Sync validates tokens and refreshes the follower counts of active accounts.
func (w *Workers) Sync(ctx context.Context) (*WorkerReport, error) {
	report := w.newReport("sync")

	active, err := w.accounts.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	for _, account := range active {
		report.TotalProcessed++
		adapter, ok := w.adapters.Get(account.Network)
		if !ok {
			report.SkippedCount++
			continue
		}

		valid, err := adapter.ValidateToken(ctx, account)
		if err != nil {
			report.fail(account.ID, err)
			continue
		}
		if !valid {
			if err := w.accounts.MarkStatus(ctx, account.ID, store.ConnectionExpired, "Token inválido ou expirado"); err != nil {
				report.fail(account.ID, err)
				continue
			}
			report.SkippedCount++
			continue
		}

		profile, err := adapter.AccountMetrics(ctx, account)
		if err != nil {
			report.fail(account.ID, err)
			continue
		}
		if err := w.accounts.UpdateProfile(ctx, account.ID, profile); err != nil {
			report.fail(account.ID, err)
			continue
		}
		report.SuccessCount++
	}

	return w.finish(report), nil
}

// EngagementRate is (likes+comments+shares+saves)/reach as a percentage
// rounded to two decimals.
func EngagementRate(m store.PostMetrics) float64 {
	if m.Reach <= 0 {
		return 0
	}
	rate := float64(m.Likes+m.Comments+m.Shares+m.Saves) / float64(m.Reach) * 100
	return math.Round(rate*100) / 100
}
