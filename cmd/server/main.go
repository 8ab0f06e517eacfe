package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/Simplici0/forecast/internal/config"
	"github.com/Simplici0/forecast/internal/db"
	"github.com/Simplici0/forecast/internal/logger"
	"github.com/Simplici0/forecast/internal/migrations"
	"github.com/Simplici0/forecast/internal/seed"
	"github.com/Simplici0/forecast/internal/store"
	"github.com/Simplici0/forecast/internal/validation"
)

type server struct {
	auth     *authService
	store    *store.Store
	log      *slog.Logger
	validate *validator.Validate
}

func main() {
	cfg := config.Load()
	log := logger.Init(cfg.LogLevel)

	database, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, cfg.DBDriver, cfg.MigrationsDir); err != nil {
			log.Error("failed to run database migrations", "error", err)
			os.Exit(1)
		}
	}

	st := store.New(database, cfg.DBDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := seed.Run(ctx, st, seed.Config{
		AdminEmail:      cfg.AdminEmail,
		AdminPassword:   cfg.AdminPassword,
		DefaultScenario: seed.DefaultScenarioName,
	})
	if err != nil {
		log.Error("failed to seed database", "error", err)
		os.Exit(1)
	}
	log.Info("seed complete", "inserts", stats.Inserts, "updates", stats.Updates)

	srv := newServer(st, cfg.SessionSecret, log)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", "error", err)
		}
	}()

	log.Info("listening", "addr", httpServer.Addr, "driver", cfg.DBDriver, "env", cfg.Env)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newServer(st *store.Store, sessionSecret string, log *slog.Logger) *server {
	return &server{
		auth:     newAuthService(st, sessionSecret),
		store:    st,
		log:      log,
		validate: validation.New(),
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Route("/api/scenarios", func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/", s.handleListScenarios)
		r.Post("/", s.handleCreateScenario)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetScenario)
			r.Patch("/", s.handleUpdateScenario)
			r.Delete("/", s.handleDeleteScenario)
			r.Get("/snapshot", s.handleSnapshot)

			r.Put("/plans", s.handleReplacePlans)
			r.Put("/add-ons", s.handleReplaceAddOns)
			r.Put("/operating-costs", s.handleReplaceOperatingCosts)
			r.Put("/marketing-costs", s.handleReplaceMarketingCosts)
			r.Put("/tech-support", s.handleReplaceTechSupport)
			r.Put("/plan-addons", s.handleReplacePlanAddons)
			r.Put("/surgical-tiers", s.handleReplaceSurgicalTiers)
			r.Put("/surgical-extras", s.handleSaveSurgicalExtras)
			r.Put("/onboarding", s.handleReplaceOnboarding)

			r.Get("/forecast", s.handleForecast)
			r.Get("/onboarding-summary", s.handleOnboardingSummary)
			r.Get("/report", s.handleReport)
			r.Get("/report.html", s.handleReportHTML)

			r.Post("/simulate", s.handleSimulate)
			r.Get("/simulations", s.handleListSimulations)
			r.Get("/simulations/{simID}", s.handleGetSimulation)

			r.Post("/commissions", s.handleCommissions)
		})
	})

	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
