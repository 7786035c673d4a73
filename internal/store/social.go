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
	PostStatusDraft      = "draft"
	PostStatusScheduled  = "scheduled"
	PostStatusPublishing = "publishing"
	PostStatusPublished  = "published"
	PostStatusFailed     = "failed"
	PostStatusCancelled  = "cancelled"
)

const (
	ConnectionConnected = "connected"
	ConnectionExpired   = "expired"
	ConnectionRevoked   = "revoked"
	ConnectionError     = "error"
)

type SocialAccount struct {
	ID                string         `db:"id" json:"id"`
	UserID            string         `db:"user_id" json:"user_id"`
	Network           string         `db:"network" json:"network"`
	PlatformAccountID string         `db:"platform_account_id" json:"platform_account_id"`
	Username          string         `db:"username" json:"username"`
	DisplayName       *string        `db:"display_name" json:"display_name"`
	ProfilePictureURL *string        `db:"profile_picture_url" json:"profile_picture_url"`
	AccessToken       string         `db:"access_token" json:"-"`
	TokenExpiresAt    *time.Time     `db:"token_expires_at" json:"token_expires_at"`
	AuxiliaryIDs      types.JSONText `db:"auxiliary_ids" json:"auxiliary_ids"`
	FollowersCount    int            `db:"followers_count" json:"followers_count"`
	FollowingCount    int            `db:"following_count" json:"following_count"`
	PostsCount        int            `db:"posts_count" json:"posts_count"`
	EngagementRate    float64        `db:"engagement_rate" json:"engagement_rate"`
	IsActive          bool           `db:"is_active" json:"is_active"`
	ConnectionStatus  string         `db:"connection_status" json:"connection_status"`
	LastError         *string        `db:"last_error" json:"last_error"`
	LastSyncAt        *time.Time     `db:"last_sync_at" json:"last_sync_at"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

type AccountProfile struct {
	Followers int
	Following int
	Posts     int
}

type SocialPost struct {
	ID              string         `db:"id" json:"id"`
	UserID          string         `db:"user_id" json:"user_id"`
	AccountID       string         `db:"account_id" json:"account_id"`
	Network         string         `db:"network" json:"network"`
	PostType        string         `db:"post_type" json:"post_type"`
	Content         *string        `db:"content" json:"content"`
	Hashtags        pq.StringArray `db:"hashtags" json:"hashtags"`
	Media           types.JSONText `db:"media" json:"media"`
	Metadata        types.JSONText `db:"metadata" json:"metadata"`
	Status          string         `db:"status" json:"status"`
	ScheduledFor    *time.Time     `db:"scheduled_for" json:"scheduled_for"`
	AutoPublish     bool           `db:"auto_publish" json:"auto_publish"`
	PublishedAt     *time.Time     `db:"published_at" json:"published_at"`
	PlatformPostID  *string        `db:"platform_post_id" json:"platform_post_id"`
	Permalink       *string        `db:"permalink" json:"permalink"`
	ErrorMessage    *string        `db:"error_message" json:"error_message"`
	RetryCount      int            `db:"retry_count" json:"retry_count"`
	PublishAttempts int            `db:"publish_attempts" json:"publish_attempts"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

type PostEngagement struct {
	PostID         string    `db:"post_id"`
	PublishedAt    time.Time `db:"published_at"`
	EngagementRate float64   `db:"engagement_rate"`
}

type PostMetrics struct {
	PostID         string    `db:"post_id" json:"post_id"`
	Impressions    int64     `db:"impressions" json:"impressions"`
	Reach          int64     `db:"reach" json:"reach"`
	Engagement     int64     `db:"engagement" json:"engagement"`
	Likes          int64     `db:"likes" json:"likes"`
	Comments       int64     `db:"comments" json:"comments"`
	Shares         int64     `db:"shares" json:"shares"`
	Saves          int64     `db:"saves" json:"saves"`
	VideoViews     int64     `db:"video_views" json:"video_views"`
	LinkClicks     int64     `db:"link_clicks" json:"link_clicks"`
	EngagementRate float64   `db:"engagement_rate" json:"engagement_rate"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type AccountMetrics struct {
	AccountID      string    `db:"account_id" json:"account_id"`
	FollowersCount int       `db:"followers_count" json:"followers_count"`
	FollowingCount int       `db:"following_count" json:"following_count"`
	PostsCount     int       `db:"posts_count" json:"posts_count"`
	EngagementRate float64   `db:"engagement_rate" json:"engagement_rate"`
	Impressions    int64     `db:"impressions" json:"impressions"`
	Reach          int64     `db:"reach" json:"reach"`
	RecordedAt     time.Time `db:"recorded_at" json:"recorded_at"`
}

type SocialStats struct {
	TotalAccounts     int     `db:"total_accounts" json:"totalAccounts"`
	TotalFollowers    int64   `db:"total_followers" json:"totalFollowers"`
	ScheduledPosts    int     `db:"scheduled_posts" json:"scheduledPosts"`
	PublishedPosts    int     `db:"published_posts" json:"publishedPosts"`
	FailedPosts       int     `db:"failed_posts" json:"failedPosts"`
	AvgEngagementRate float64 `db:"avg_engagement_rate" json:"avgEngagementRate"`
}

type DailySocialMetrics struct {
	Day            time.Time `db:"day" json:"day"`
	Posts          int       `db:"posts" json:"posts"`
	Impressions    int64     `db:"impressions" json:"impressions"`
	Reach          int64     `db:"reach" json:"reach"`
	Engagement     int64     `db:"engagement" json:"engagement"`
	EngagementRate float64   `db:"engagement_rate" json:"engagementRate"`
}

type SocialAccountStore struct {
	db *sqlx.DB
}

const accountColumns = `id, user_id, network, platform_account_id, username, display_name,
	profile_picture_url, access_token, token_expires_at, auxiliary_ids, followers_count,
	following_count, posts_count, engagement_rate, is_active, connection_status, last_error,
	last_sync_at, created_at, updated_at`

func (ss *SocialAccountStore) Upsert(ctx context.Context, account *SocialAccount) error {
	if len(account.AuxiliaryIDs) == 0 {
		account.AuxiliaryIDs = types.JSONText(`{}`)
	}
	if account.ConnectionStatus == "" {
		account.ConnectionStatus = ConnectionConnected
	}

	query := `INSERT INTO social_accounts (
		user_id,
		network,
		platform_account_id,
		username,
		display_name,
		profile_picture_url,
		access_token,
		token_expires_at,
		auxiliary_ids,
		followers_count,
		following_count,
		posts_count,
		is_active,
		connection_status
	) VALUES (
		:user_id,
		:network,
		:platform_account_id,
		:username,
		:display_name,
		:profile_picture_url,
		:access_token,
		:token_expires_at,
		:auxiliary_ids,
		:followers_count,
		:following_count,
		:posts_count,
		true,
		:connection_status
	)
	ON CONFLICT (user_id, network, platform_account_id) DO UPDATE SET
		username = EXCLUDED.username,
		display_name = EXCLUDED.display_name,
		profile_picture_url = EXCLUDED.profile_picture_url,
		access_token = EXCLUDED.access_token,
		token_expires_at = EXCLUDED.token_expires_at,
		auxiliary_ids = EXCLUDED.auxiliary_ids,
		followers_count = EXCLUDED.followers_count,
		following_count = EXCLUDED.following_count,
		posts_count = EXCLUDED.posts_count,
		is_active = true,
		connection_status = EXCLUDED.connection_status,
		last_error = NULL,
		updated_at = now()
	RETURNING id, is_active, created_at, updated_at`

	err := namedReturning(ctx, ss.db, query, account, &account.ID, &account.IsActive, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert social account: %w", err)
	}
	return nil
}

func (ss *SocialAccountStore) GetByID(ctx context.Context, id string) (*SocialAccount, error) {
	var a SocialAccount
	if err := ss.db.GetContext(ctx, &a, `SELECT `+accountColumns+` FROM social_accounts WHERE id = $1`, id); err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (ss *SocialAccountStore) ListActive(ctx context.Context) ([]SocialAccount, error) {
	out := []SocialAccount{}
	query := `SELECT ` + accountColumns + ` FROM social_accounts
	WHERE is_active = true AND connection_status = 'connected'
	ORDER BY created_at`
	if err := ss.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("failed to list active accounts: %w", err)
	}
	return out, nil
}

// ListExpiring returns active accounts whose token expires before the instant.
func (ss *SocialAccountStore) ListExpiring(ctx context.Context, before time.Time) ([]SocialAccount, error) {
	out := []SocialAccount{}
	query := `SELECT ` + accountColumns + ` FROM social_accounts
	WHERE is_active = true
		AND token_expires_at IS NOT NULL
		AND token_expires_at <= $1
	ORDER BY token_expires_at`
	if err := ss.db.SelectContext(ctx, &out, query, before); err != nil {
		return nil, fmt.Errorf("failed to list expiring accounts: %w", err)
	}
	return out, nil
}

func (ss *SocialAccountStore) UpdateToken(ctx context.Context, id, token string, expiresAt *time.Time) error {
	query := `UPDATE social_accounts SET
		access_token = $2,
		token_expires_at = $3,
		connection_status = 'connected',
		last_error = NULL,
		updated_at = now()
	WHERE id = $1`
	if _, err := ss.db.ExecContext(ctx, query, id, token, expiresAt); err != nil {
		return fmt.Errorf("failed to update token: %w", err)
	}
	return nil
}

func (ss *SocialAccountStore) UpdateProfile(ctx context.Context, id string, p AccountProfile) error {
	query := `UPDATE social_accounts SET
		followers_count = $2,
		following_count = $3,
		posts_count = $4,
		last_sync_at = now(),
		updated_at = now()
	WHERE id = $1`
	if _, err := ss.db.ExecContext(ctx, query, id, p.Followers, p.Following, p.Posts); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (ss *SocialAccountStore) MarkStatus(ctx context.Context, id, status, lastError string) error {
	var le any
	if lastError != "" {
		le = lastError
	}
	query := `UPDATE social_accounts SET
		connection_status = $2,
		last_error = $3,
		last_error_at = CASE WHEN $3::text IS NULL THEN last_error_at ELSE now() END,
		updated_at = now()
	WHERE id = $1`
	if _, err := ss.db.ExecContext(ctx, query, id, status, le); err != nil {
		return fmt.Errorf("failed to mark account status: %w", err)
	}
	return nil
}

type SocialPostStore struct {
	db *sqlx.DB
}

const postColumns = `id, user_id, account_id, network, post_type, content, hashtags, media,
	metadata, status, scheduled_for, auto_publish, published_at, platform_post_id, permalink,
	error_message, retry_count, publish_attempts, created_at, updated_at`

func (ps *SocialPostStore) ListScheduled(ctx context.Context, userID string) ([]SocialPost, error) {
	posts := []SocialPost{}
	query := `SELECT ` + postColumns + ` FROM social_posts
	WHERE user_id = $1 AND status = 'scheduled'
	ORDER BY scheduled_for ASC`
	if err := ps.db.SelectContext(ctx, &posts, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list scheduled posts: %w", err)
	}
	return posts, nil
}

func (ps *SocialPostStore) Reschedule(ctx context.Context, id string, at time.Time) (*SocialPost, error) {
	var post SocialPost
	query := `UPDATE social_posts SET
		scheduled_for = $2,
		status = 'scheduled',
		error_message = NULL,
		updated_at = now()
	WHERE id = $1 AND status NOT IN ('published', 'publishing')
	RETURNING ` + postColumns
	if err := ps.db.GetContext(ctx, &post, query, id, at); err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

// Cancel moves a scheduled post to cancelled. It reports false when the
// post was not scheduled.
func (ps *SocialPostStore) Cancel(ctx context.Context, id string) (bool, error) {
	res, err := ps.db.ExecContext(ctx,
		`UPDATE social_posts SET status = 'cancelled', updated_at = now() WHERE id = $1 AND status = 'scheduled'`, id)
	if err != nil {
		return false, fmt.Errorf("failed to cancel post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (ps *SocialPostStore) ListDue(ctx context.Context, now time.Time, limit int) ([]SocialPost, error) {
	posts := []SocialPost{}
	query := `SELECT ` + postColumns + ` FROM social_posts
	WHERE status = 'scheduled'
		AND auto_publish = true
		AND scheduled_for <= $1
	ORDER BY scheduled_for ASC
	LIMIT $2`
	if err := ps.db.SelectContext(ctx, &posts, query, now, limit); err != nil {
		return nil, fmt.Errorf("failed to list due posts: %w", err)
	}
	return posts, nil
}

// ClaimForPublishing flips a scheduled post to publishing. Only one caller
// wins the claim.
func (ps *SocialPostStore) ClaimForPublishing(ctx context.Context, id string) (bool, error) {
	res, err := ps.db.ExecContext(ctx, `UPDATE social_posts SET
		status = 'publishing',
		publish_attempts = publish_attempts + 1,
		updated_at = now()
	WHERE id = $1 AND status = 'scheduled'`, id)
	if err != nil {
		return false, fmt.Errorf("failed to claim post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (ps *SocialPostStore) MarkPublished(ctx context.Context, id, platformPostID, permalink string, at time.Time) error {
	var link any
	if permalink != "" {
		link = permalink
	}
	query := `UPDATE social_posts SET
		status = 'published',
		platform_post_id = $2,
		permalink = $3,
		published_at = $4,
		error_message = NULL,
		updated_at = now()
	WHERE id = $1`
	if _, err := ps.db.ExecContext(ctx, query, id, platformPostID, link, at); err != nil {
		return fmt.Errorf("failed to mark post published: %w", err)
	}
	return nil
}

func (ps *SocialPostStore) MarkFailed(ctx context.Context, id, message string) error {
	query := `UPDATE social_posts SET
		status = 'failed',
		error_message = $2,
		retry_count = retry_count + 1,
		updated_at = now()
	WHERE id = $1`
	if _, err := ps.db.ExecContext(ctx, query, id, message); err != nil {
		return fmt.Errorf("failed to mark post failed: %w", err)
	}
	return nil
}

func (ps *SocialPostStore) ListPublishedSince(ctx context.Context, since time.Time) ([]SocialPost, error) {
	posts := []SocialPost{}
	query := `SELECT ` + postColumns + ` FROM social_posts
	WHERE status = 'published'
		AND platform_post_id IS NOT NULL
		AND published_at >= $1
	ORDER BY published_at DESC`
	if err := ps.db.SelectContext(ctx, &posts, query, since); err != nil {
		return nil, fmt.Errorf("failed to list published posts: %w", err)
	}
	return posts, nil
}

// ListEngagement returns publish time and engagement rate of every measured
// post of the user, optionally narrowed to one account.
func (ps *SocialPostStore) ListEngagement(ctx context.Context, userID, accountID string) ([]PostEngagement, error) {
	out := []PostEngagement{}
	query := `SELECT p.id AS post_id, p.published_at, m.engagement_rate
	FROM social_posts p
	JOIN social_post_metrics m ON m.post_id = p.id
	WHERE p.user_id = $1
		AND p.status = 'published'
		AND p.published_at IS NOT NULL
		AND ($2 = '' OR p.account_id::text = $2)`
	if err := ps.db.SelectContext(ctx, &out, query, userID, accountID); err != nil {
		return nil, fmt.Errorf("failed to list engagement: %w", err)
	}
	return out, nil
}

type SocialMetricsStore struct {
	db *sqlx.DB
}

func (ms *SocialMetricsStore) UpsertPostMetrics(ctx context.Context, m *PostMetrics) error {
	query := `INSERT INTO social_post_metrics (
		post_id,
		impressions,
		reach,
		engagement,
		likes,
		comments,
		shares,
		saves,
		video_views,
		link_clicks,
		engagement_rate
	) VALUES (
		:post_id,
		:impressions,
		:reach,
		:engagement,
		:likes,
		:comments,
		:shares,
		:saves,
		:video_views,
		:link_clicks,
		:engagement_rate
	)
	ON CONFLICT (post_id) DO UPDATE SET
		impressions = EXCLUDED.impressions,
		reach = EXCLUDED.reach,
		engagement = EXCLUDED.engagement,
		likes = EXCLUDED.likes,
		comments = EXCLUDED.comments,
		shares = EXCLUDED.shares,
		saves = EXCLUDED.saves,
		video_views = EXCLUDED.video_views,
		link_clicks = EXCLUDED.link_clicks,
		engagement_rate = EXCLUDED.engagement_rate,
		updated_at = now()
	RETURNING updated_at`

	if err := namedReturning(ctx, ms.db, query, m, &m.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert post metrics: %w", err)
	}
	return nil
}

func (ms *SocialMetricsStore) InsertAccountSnapshot(ctx context.Context, m *AccountMetrics) error {
	query := `INSERT INTO social_account_metrics (
		account_id,
		followers_count,
		following_count,
		posts_count,
		engagement_rate,
		impressions,
		reach
	) VALUES (
		:account_id,
		:followers_count,
		:following_count,
		:posts_count,
		:engagement_rate,
		:impressions,
		:reach
	) RETURNING recorded_at`

	if err := namedReturning(ctx, ms.db, query, m, &m.RecordedAt); err != nil {
		return fmt.Errorf("failed to insert account snapshot: %w", err)
	}
	return nil
}

func (ms *SocialMetricsStore) DashboardStats(ctx context.Context, userID string) (SocialStats, error) {
	query := `SELECT
		(SELECT COUNT(*) FROM social_accounts WHERE user_id = $1 AND is_active) AS total_accounts,
		(SELECT COALESCE(SUM(followers_count), 0) FROM social_accounts WHERE user_id = $1 AND is_active) AS total_followers,
		(SELECT COUNT(*) FROM social_posts WHERE user_id = $1 AND status = 'scheduled') AS scheduled_posts,
		(SELECT COUNT(*) FROM social_posts WHERE user_id = $1 AND status = 'published') AS published_posts,
		(SELECT COUNT(*) FROM social_posts WHERE user_id = $1 AND status = 'failed') AS failed_posts,
		(SELECT COALESCE(ROUND(AVG(m.engagement_rate)::numeric, 2), 0)
			FROM social_post_metrics m
			JOIN social_posts p ON p.id = m.post_id
			WHERE p.user_id = $1) AS avg_engagement_rate`

	var stats SocialStats
	if err := ms.db.GetContext(ctx, &stats, query, userID); err != nil {
		return SocialStats{}, fmt.Errorf("failed to query social stats: %w", err)
	}
	return stats, nil
}

func (ms *SocialMetricsStore) DailyMetrics(ctx context.Context, userID string, since time.Time) ([]DailySocialMetrics, error) {
	query := `SELECT
		date_trunc('day', p.published_at) AS day,
		COUNT(p.id) AS posts,
		COALESCE(SUM(m.impressions), 0) AS impressions,
		COALESCE(SUM(m.reach), 0) AS reach,
		COALESCE(SUM(m.engagement), 0) AS engagement,
		COALESCE(ROUND(AVG(m.engagement_rate)::numeric, 2), 0) AS engagement_rate
	FROM social_posts p
	LEFT JOIN social_post_metrics m ON m.post_id = p.id
	WHERE p.user_id = $1
		AND p.status = 'published'
		AND p.published_at >= $2
	GROUP BY day
	ORDER BY day`

	out := []DailySocialMetrics{}
	if err := ms.db.SelectContext(ctx, &out, query, userID, since); err != nil {
		return nil, fmt.Errorf("failed to query daily metrics: %w", err)
	}
	return out, nil
}
