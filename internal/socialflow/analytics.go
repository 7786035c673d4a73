package socialflow

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/humanosaude/portal/internal/store"
)

const bestTimesLimit = 10

type AnalyticsRepository interface {
	DashboardStats(ctx context.Context, userID string) (store.SocialStats, error)
	DailyMetrics(ctx context.Context, userID string, since time.Time) ([]store.DailySocialMetrics, error)
}

type EngagementRepository interface {
	ListEngagement(ctx context.Context, userID, accountID string) ([]store.PostEngagement, error)
}

type Analytics struct {
	metrics    AnalyticsRepository
	engagement EngagementRepository
	loc        *time.Location
	now        func() time.Time
}

func NewAnalytics(metrics AnalyticsRepository, engagement EngagementRepository) *Analytics {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.FixedZone("BRT", -3*60*60)
	}
	return &Analytics{metrics: metrics, engagement: engagement, loc: loc, now: time.Now}
}

type Overview struct {
	Stats   store.SocialStats          `json:"stats"`
	Metrics []store.DailySocialMetrics `json:"metrics"`
}

// Overview loads dashboard counters and the daily series for the last
// periodDays days concurrently.
func (a *Analytics) Overview(ctx context.Context, userID string, periodDays int) (Overview, error) {
	if periodDays <= 0 {
		periodDays = 30
	}
	since := a.now().AddDate(0, 0, -periodDays)

	var out Overview
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := a.metrics.DashboardStats(ctx, userID)
		out.Stats = stats
		return err
	})
	g.Go(func() error {
		daily, err := a.metrics.DailyMetrics(ctx, userID, since)
		out.Metrics = daily
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

type BestTime struct {
	DayOfWeek     int     `json:"dayOfWeek"`
	Hour          int     `json:"hour"`
	AvgEngagement float64 `json:"avgEngagement"`
	PostCount     int     `json:"postCount"`
	Score         int     `json:"score"`
}

// BestTimes groups published posts by local weekday and hour and ranks
// the slots by mean engagement rate.
func (a *Analytics) BestTimes(ctx context.Context, userID, accountID string) ([]BestTime, error) {
	rows, err := a.engagement.ListEngagement(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	return rankSlots(rows, a.loc), nil
}

func rankSlots(rows []store.PostEngagement, loc *time.Location) []BestTime {
	type slot struct{ day, hour int }
	rates := map[slot][]float64{}
	for _, r := range rows {
		t := r.PublishedAt.In(loc)
		k := slot{int(t.Weekday()), t.Hour()}
		rates[k] = append(rates[k], r.EngagementRate)
	}

	out := make([]BestTime, 0, len(rates))
	best := 0.0
	for k, v := range rates {
		mean := stat.Mean(v, nil)
		best = math.Max(best, mean)
		out = append(out, BestTime{
			DayOfWeek:     k.day,
			Hour:          k.hour,
			AvgEngagement: math.Round(mean*100) / 100,
			PostCount:     len(v),
		})
	}

	for i := range out {
		if best > 0 {
			out[i].Score = int(math.Round(out[i].AvgEngagement / best * 100))
		}
		if out[i].Score > 100 {
			out[i].Score = 100
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgEngagement != out[j].AvgEngagement {
			return out[i].AvgEngagement > out[j].AvgEngagement
		}
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].Hour < out[j].Hour
	})
	if len(out) > bestTimesLimit {
		out = out[:bestTimesLimit]
	}
	return out
}
