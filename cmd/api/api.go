package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/humanosaude/portal/internal/ai"
	"github.com/humanosaude/portal/internal/auth"
	"github.com/humanosaude/portal/internal/creative"
	"github.com/humanosaude/portal/internal/logger"
	"github.com/humanosaude/portal/internal/socialflow"
	"github.com/humanosaude/portal/internal/store"
)

const component = "API"

const (
	defaultTimeout = 60 * time.Second
	aiTimeout      = 90 * time.Second
	// cronTimeout covers a reel's processing poll and stays under the
	// server write timeout.
	cronTimeout = 100 * time.Second
)

type application struct {
	config config
	store  store.Storage
	logger *logger.Logger

	// generator is nil when GOOGLE_AI_API_KEY is not configured.
	generator  ai.Generator
	photos     *creative.PhotoSearch
	httpClient *http.Client

	oauth     *socialflow.OAuth
	cron      *socialflow.Dispatcher
	scheduler *socialflow.Scheduler
	analytics *socialflow.Analytics

	// tokens is nil when JWT_SECRET is not configured; broker tokens are
	// then only checked for presence.
	tokens *auth.TokenService
}

type config struct {
	addr    string
	env     string
	version string
	appURL  string
	db      dbConfig
	ai      aiConfig
	social  socialConfig
	auth    authConfig
	redis   redisConfig
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

type aiConfig struct {
	apiKey      string
	unsplashKey string
}

type socialConfig struct {
	metaAppID     string
	metaAppSecret string
	cronSecret    string
}

type authConfig struct {
	jwtSecret  string
	sessionTTL time.Duration
}

type redisConfig struct {
	addr     string
	password string
	db       int
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.Timeout(defaultTimeout)).Get("/health", app.healthCheckHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(defaultTimeout))

			r.Route("/auth/corretor", func(r chi.Router) {
				r.Post("/login", app.handleLogin)
				r.Post("/logout", app.handleLogout)
			})

			r.Post("/leads", app.handleSubmitLead)
			r.Post("/calculadora", app.handleCalculate)
		})

		r.Route("/social-flow", func(r chi.Router) {
			// The OAuth provider redirects the browser here without a session.
			r.With(middleware.Timeout(defaultTimeout)).Get("/callback", app.handleSocialCallback)

			r.Group(func(r chi.Router) {
				r.Use(app.requireAdmin)

				r.Group(func(r chi.Router) {
					r.Use(middleware.Timeout(defaultTimeout))
					r.Get("/connect", app.handleSocialConnect)
					r.Get("/scheduled", app.handleListScheduled)
					r.Put("/scheduled", app.handleReschedulePost)
					r.Delete("/scheduled", app.handleUnschedulePost)
					r.Get("/analytics", app.handleSocialAnalytics)
					r.Get("/best-times", app.handleSocialBestTimes)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.Timeout(cronTimeout))
					r.Get("/cron", app.handleSocialCron)
					r.Post("/cron", app.handleSocialCron)
				})

				// Model calls get a longer deadline than the rest of the API.
				r.Group(func(r chi.Router) {
					r.Use(middleware.Timeout(aiTimeout))
					r.Post("/ai/caption", app.handleSocialCaption)
					r.Post("/ai/hashtags", app.handleSocialHashtags)
					r.Post("/ai/analyze-image", app.handleSocialAnalyzeImage)
				})
			})
		})

		r.Route("/corretor", func(r chi.Router) {
			r.Use(app.requireCorretor)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(aiTimeout))
				r.Post("/banners/ai-clone", app.handleBannerClone)
				r.Post("/banners/ai-text", app.handleBannerText)
				r.Get("/banners/unsplash", app.handleBannerPhotos)
			})

			r.Route("/crm", func(r chi.Router) {
				r.Use(middleware.Timeout(defaultTimeout))
				r.Get("/board", app.handleCRMBoard)
				r.Get("/stats", app.handleCRMStats)
				r.Post("/cards", app.handleCreateCard)
				r.Route("/cards/{id}", func(r chi.Router) {
					r.Patch("/", app.handleUpdateCard)
					r.Post("/move", app.handleMoveCard)
					r.Get("/interacoes", app.handleListInteractions)
					r.Post("/interacoes", app.handleAddInteraction)
					r.Post("/score", app.handleScoreCard)
				})
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(app.requireAdmin)
			r.Use(middleware.Timeout(defaultTimeout))

			r.Route("/v1/leads", func(r chi.Router) {
				r.Post("/", app.handleCreateScannedLead)
				r.Get("/", app.handleListLeads)
				r.Get("/estatisticas/dashboard", app.handleLeadDashboard)
				r.Get("/estatisticas/pipeline", app.handleLeadPipeline)
				r.Get("/estatisticas/operadoras", app.handleLeadsByOperator)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", app.handleGetLead)
					r.Patch("/", app.handleUpdateLead)
					r.Patch("/status", app.handleUpdateLeadStatus)
					r.Delete("/", app.handleArchiveLead)
				})
			})

			r.Route("/ads", func(r chi.Router) {
				r.Get("/metrics", app.handleAdsMetrics)
				r.Get("/cockpit", app.handleAdsCockpit)
				r.Get("/logs/campaigns", app.handleCampaignLogs)
				r.Get("/logs/optimizations", app.handleOptimizationLogs)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Get("/audiences", app.handleListAudiences)
				r.Put("/audiences/{slug}", app.handleUpsertAudience)
				r.Get("/imports", app.handleGetImportHistory)
				r.Post("/imports", app.handleCreateImport)
				r.Patch("/imports/{id}/status", app.handleUpdateImportStatus)
			})
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	app.logger.Info(component, "Server started on %s (env=%s)", app.config.addr, app.config.env)
	return srv.ListenAndServe()
}
