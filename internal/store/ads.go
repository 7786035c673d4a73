package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// CampaignMetric is one campaign day from an imported ads report.
type CampaignMetric struct {
	CampaignID    string    `db:"campaign_id" json:"campaign_id"`
	CampaignName  string    `db:"campaign_name" json:"campaign_name"`
	Day           time.Time `db:"day" json:"day"`
	Spend         float64   `db:"spend" json:"spend"`
	Impressions   int64     `db:"impressions" json:"impressions"`
	Reach         int64     `db:"reach" json:"reach"`
	Clicks        int64     `db:"clicks" json:"clicks"`
	Leads         int64     `db:"leads" json:"leads"`
	Purchases     int64     `db:"purchases" json:"purchases"`
	PurchaseValue float64   `db:"purchase_value" json:"purchase_value"`
	Objective     string    `db:"objective" json:"objective"`
	Status        string    `db:"status" json:"status"`
	SourceFile    string    `db:"source_file" json:"source_file"`
}

type CampaignSummary struct {
	CampaignID   string  `db:"campaign_id" json:"campaign_id"`
	CampaignName string  `db:"campaign_name" json:"campaign_name"`
	Status       string  `db:"status" json:"status"`
	Objective    string  `db:"objective" json:"objective"`
	Spend        float64 `db:"spend" json:"spend"`
	Impressions  int64   `db:"impressions" json:"impressions"`
	Clicks       int64   `db:"clicks" json:"clicks"`
	CTR          float64 `db:"ctr" json:"ctr"`
	CPC          float64 `db:"cpc" json:"cpc"`
	CPM          float64 `db:"cpm" json:"cpm"`
	Leads        int64   `db:"leads" json:"leads"`
	Purchases    int64   `db:"purchases" json:"purchases"`
	ROAS         float64 `db:"roas" json:"roas"`
}

type CampaignTotals struct {
	Spend         float64 `db:"spend" json:"spend"`
	Impressions   int64   `db:"impressions" json:"impressions"`
	Reach         int64   `db:"reach" json:"reach"`
	Clicks        int64   `db:"clicks" json:"clicks"`
	Leads         int64   `db:"leads" json:"leads"`
	Purchases     int64   `db:"purchases" json:"purchases"`
	PurchaseValue float64 `db:"purchase_value" json:"purchase_value"`
	CTR           float64 `db:"ctr" json:"ctr"`
	CPC           float64 `db:"cpc" json:"cpc"`
	CPM           float64 `db:"cpm" json:"cpm"`
	CPL           float64 `db:"cpl" json:"cpl"`
	ROAS          float64 `db:"roas" json:"roas"`
}

type CampaignLog struct {
	ID             int64          `db:"id" json:"id"`
	CampaignID     string         `db:"campaign_id" json:"campaign_id"`
	AdsetID        *string        `db:"adset_id" json:"adset_id"`
	AdIDs          pq.StringArray `db:"ad_ids" json:"ad_ids"`
	Objective      *string        `db:"objective" json:"objective"`
	DailyBudget    *float64       `db:"daily_budget" json:"daily_budget"`
	TargetAudience *string        `db:"target_audience" json:"target_audience"`
	ImagesCount    int            `db:"images_count" json:"images_count"`
	Status         string         `db:"status" json:"status"`
	ErrorMessage   *string        `db:"error_message" json:"error_message"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}

const (
	ActionPause    = "PAUSE"
	ActionScale    = "SCALE"
	ActionNoAction = "NO_ACTION"
)

type OptimizationLog struct {
	ID         int64     `db:"id" json:"id"`
	AdID       string    `db:"ad_id" json:"ad_id"`
	AdName     *string   `db:"ad_name" json:"ad_name"`
	CampaignID *string   `db:"campaign_id" json:"campaign_id"`
	ActionType string    `db:"action_type" json:"action_type"`
	Reason     *string   `db:"reason" json:"reason"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type CampaignStore struct {
	db *sqlx.DB
}

func (cs *CampaignStore) UpsertDaily(ctx context.Context, m *CampaignMetric) error {
	query := `INSERT INTO campaign_metrics (
		campaign_id,
		campaign_name,
		day,
		spend,
		impressions,
		reach,
		clicks,
		leads,
		purchases,
		purchase_value,
		objective,
		status,
		source_file
	) VALUES (
		:campaign_id,
		:campaign_name,
		:day,
		:spend,
		:impressions,
		:reach,
		:clicks,
		:leads,
		:purchases,
		:purchase_value,
		:objective,
		:status,
		:source_file
	)
	ON CONFLICT (campaign_id, day) DO UPDATE SET
		campaign_name = EXCLUDED.campaign_name,
		spend = EXCLUDED.spend,
		impressions = EXCLUDED.impressions,
		reach = EXCLUDED.reach,
		clicks = EXCLUDED.clicks,
		leads = EXCLUDED.leads,
		purchases = EXCLUDED.purchases,
		purchase_value = EXCLUDED.purchase_value,
		objective = EXCLUDED.objective,
		status = EXCLUDED.status,
		source_file = EXCLUDED.source_file,
		imported_at = now()`

	if _, err := cs.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to upsert campaign metric %s/%s: %w", m.CampaignID, m.Day.Format("2006-01-02"), err)
	}
	return nil
}

// Summaries aggregates each campaign over the inclusive day range, most
// expensive first.
func (cs *CampaignStore) Summaries(ctx context.Context, from, to time.Time) ([]CampaignSummary, error) {
	query := `
	WITH agg AS (
		SELECT
			campaign_id,
			(array_agg(campaign_name ORDER BY day DESC))[1] AS campaign_name,
			(array_agg(status ORDER BY day DESC))[1] AS status,
			(array_agg(objective ORDER BY day DESC))[1] AS objective,
			SUM(spend) AS spend,
			SUM(impressions) AS impressions,
			SUM(clicks) AS clicks,
			SUM(leads) AS leads,
			SUM(purchases) AS purchases,
			SUM(purchase_value) AS purchase_value
		FROM campaign_metrics
		WHERE day BETWEEN $1 AND $2
		GROUP BY campaign_id
	)
	SELECT
		campaign_id,
		campaign_name,
		status,
		objective,
		ROUND(spend::numeric, 2) AS spend,
		impressions,
		clicks,
		COALESCE(ROUND((clicks::numeric / NULLIF(impressions, 0)) * 100, 2), 0) AS ctr,
		COALESCE(ROUND(spend::numeric / NULLIF(clicks, 0), 2), 0) AS cpc,
		COALESCE(ROUND((spend::numeric / NULLIF(impressions, 0)) * 1000, 2), 0) AS cpm,
		leads,
		purchases,
		COALESCE(ROUND(purchase_value::numeric / NULLIF(spend, 0)::numeric, 2), 0) AS roas
	FROM agg
	ORDER BY spend DESC`

	out := []CampaignSummary{}
	if err := cs.db.SelectContext(ctx, &out, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to query campaign summaries: %w", err)
	}
	return out, nil
}

func (cs *CampaignStore) Totals(ctx context.Context, from, to time.Time) (CampaignTotals, error) {
	query := `
	WITH t AS (
		SELECT
			COALESCE(SUM(spend), 0) AS spend,
			COALESCE(SUM(impressions), 0) AS impressions,
			COALESCE(SUM(reach), 0) AS reach,
			COALESCE(SUM(clicks), 0) AS clicks,
			COALESCE(SUM(leads), 0) AS leads,
			COALESCE(SUM(purchases), 0) AS purchases,
			COALESCE(SUM(purchase_value), 0) AS purchase_value
		FROM campaign_metrics
		WHERE day BETWEEN $1 AND $2
	)
	SELECT
		ROUND(spend::numeric, 2) AS spend,
		impressions,
		reach,
		clicks,
		leads,
		purchases,
		ROUND(purchase_value::numeric, 2) AS purchase_value,
		COALESCE(ROUND((clicks::numeric / NULLIF(impressions, 0)) * 100, 2), 0) AS ctr,
		COALESCE(ROUND(spend::numeric / NULLIF(clicks, 0), 2), 0) AS cpc,
		COALESCE(ROUND((spend::numeric / NULLIF(impressions, 0)) * 1000, 2), 0) AS cpm,
		COALESCE(ROUND(spend::numeric / NULLIF(leads, 0), 2), 0) AS cpl,
		COALESCE(ROUND(purchase_value::numeric / NULLIF(spend, 0)::numeric, 2), 0) AS roas
	FROM t`

	var totals CampaignTotals
	if err := cs.db.GetContext(ctx, &totals, query, from, to); err != nil {
		return CampaignTotals{}, fmt.Errorf("failed to query campaign totals: %w", err)
	}
	return totals, nil
}

type LogStore struct {
	db *sqlx.DB
}

func (ls *LogStore) LatestCampaignLogs(ctx context.Context, limit int) ([]CampaignLog, error) {
	out := []CampaignLog{}
	query := `SELECT id, campaign_id, adset_id, ad_ids, objective, daily_budget, target_audience,
		images_count, status, error_message, created_at
	FROM ads_campaigns_log
	ORDER BY created_at DESC
	LIMIT $1`
	if err := ls.db.SelectContext(ctx, &out, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query campaign logs: %w", err)
	}
	return out, nil
}

func (ls *LogStore) LatestOptimizationLogs(ctx context.Context, limit int) ([]OptimizationLog, error) {
	out := []OptimizationLog{}
	query := `SELECT id, ad_id, ad_name, campaign_id, action_type, reason, created_at
	FROM optimization_logs
	ORDER BY created_at DESC
	LIMIT $1`
	if err := ls.db.SelectContext(ctx, &out, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query optimization logs: %w", err)
	}
	return out, nil
}
