package main

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/humanosaude/portal/internal/response"
	"github.com/humanosaude/portal/internal/store"
)

const adsLogLimit = 50

var saoPaulo = loadSaoPaulo()

func loadSaoPaulo() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.FixedZone("BRT", -3*60*60)
	}
	return loc
}

// periodRange resolves a Meta Ads style date preset to an inclusive range of
// report days. The last_Nd presets end yesterday.
func periodRange(period string, now time.Time) (time.Time, time.Time, error) {
	local := now.In(saoPaulo)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	switch period {
	case "today":
		return today, today, nil
	case "", "yesterday":
		return yesterday, yesterday, nil
	case "last_7d":
		return today.AddDate(0, 0, -7), yesterday, nil
	case "last_14d":
		return today.AddDate(0, 0, -14), yesterday, nil
	case "last_30d":
		return today.AddDate(0, 0, -30), yesterday, nil
	case "this_month":
		return today.AddDate(0, 0, 1-today.Day()), today, nil
	case "last_month":
		first := today.AddDate(0, 0, 1-today.Day())
		return first.AddDate(0, -1, 0), first.AddDate(0, 0, -1), nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("período inválido: %q", period)
}

type adsMetricsResponse struct {
	Period    string                  `json:"period"`
	From      string                  `json:"from"`
	To        string                  `json:"to"`
	Campaigns []store.CampaignSummary `json:"campaigns"`
}

// @Summary		Campaign metrics
// @Description	Per-campaign aggregates from imported reports.
// @Tags			Ads
// @Produce		json
// @Param			period	query		string	false	"today|yesterday|last_7d|last_14d|last_30d|this_month|last_month"	default(yesterday)
// @Success		200		{object}	adsMetricsResponse
// @Failure		400		{object}	response.ErrorResponse
// @Router			/ads/metrics [get]
func (app *application) handleAdsMetrics(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	from, to, err := periodRange(period, time.Now())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	campaigns, err := app.store.Campaigns.Summaries(r.Context(), from, to)
	if err != nil {
		app.serverError(w, r, "Erro ao carregar métricas", err)
		return
	}

	writeJSON(w, http.StatusOK, &adsMetricsResponse{
		Period:    period,
		From:      from.Format(time.DateOnly),
		To:        to.Format(time.DateOnly),
		Campaigns: campaigns,
	})
}

type cockpitResponse struct {
	Period        string                  `json:"period"`
	Totals        store.CampaignTotals    `json:"totals"`
	Campaigns     []store.CampaignSummary `json:"campaigns"`
	CampaignLogs  []store.CampaignLog     `json:"campaign_logs"`
	Optimizations []store.OptimizationLog `json:"optimizations"`
}

// @Summary		Ads cockpit
// @Description	Consolidated totals, campaigns and latest automation logs.
// @Tags			Ads
// @Produce		json
// @Param			period	query		string	false	"Date preset"	default(yesterday)
// @Success		200		{object}	cockpitResponse
// @Router			/ads/cockpit [get]
func (app *application) handleAdsCockpit(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	from, to, err := periodRange(period, time.Now())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	out := cockpitResponse{Period: period}
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		out.Totals, err = app.store.Campaigns.Totals(ctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		out.Campaigns, err = app.store.Campaigns.Summaries(ctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		out.CampaignLogs, err = app.store.Logs.LatestCampaignLogs(ctx, adsLogLimit)
		return err
	})
	g.Go(func() error {
		var err error
		out.Optimizations, err = app.store.Logs.LatestOptimizationLogs(ctx, adsLogLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		app.serverError(w, r, "Erro ao carregar cockpit", err)
		return
	}

	writeJSON(w, http.StatusOK, &out)
}

type CampaignLogsResponse = response.APIResponse[[]store.CampaignLog]
type OptimizationLogsResponse = response.APIResponse[[]store.OptimizationLog]

// @Summary		Campaign creation logs
// @Tags			Ads
// @Produce		json
// @Success		200	{object}	CampaignLogsResponse
// @Router			/ads/logs/campaigns [get]
func (app *application) handleCampaignLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := app.store.Logs.LatestCampaignLogs(r.Context(), adsLogLimit)
	if err != nil {
		app.serverError(w, r, "Erro ao carregar logs", err)
		return
	}

	writeJSON(w, http.StatusOK, &CampaignLogsResponse{Success: true, Data: logs})
}

// @Summary		Optimization logs
// @Tags			Ads
// @Produce		json
// @Success		200	{object}	OptimizationLogsResponse
// @Router			/ads/logs/optimizations [get]
func (app *application) handleOptimizationLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := app.store.Logs.LatestOptimizationLogs(r.Context(), adsLogLimit)
	if err != nil {
		app.serverError(w, r, "Erro ao carregar logs", err)
		return
	}

	writeJSON(w, http.StatusOK, &OptimizationLogsResponse{Success: true, Data: logs})
}
