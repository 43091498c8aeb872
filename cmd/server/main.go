package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/errgroup"

	"rollcall/internal/api"
	"rollcall/internal/app"
	"rollcall/internal/config"
	internaldb "rollcall/internal/db"
	"rollcall/internal/middleware"
	"rollcall/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rollcall: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file (if present)
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	for _, warning := range cfg.Warnings {
		logger.Warn(warning)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Open the ledger store: single-connection pool for serialized writes
	// (WAL + txlock=immediate), 4-connection pool for concurrent reads.
	writeDB, readDB, err := internaldb.OpenSQLitePair(cfg.DBPath, 4)
	if err != nil {
		return fmt.Errorf("open ledger store: %w", err)
	}
	defer writeDB.Close()
	defer readDB.Close()

	if err := internaldb.RunMigrations(writeDB); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	application, err := app.New(app.Deps{
		Cfg:     cfg,
		WriteDB: writeDB,
		ReadDB:  readDB,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	svcs := application.Services

	var authn func(http.Handler) http.Handler
	if cfg.Auth.Enabled() {
		validator, err := middleware.NewValidator(ctx, cfg.Auth)
		if err != nil {
			return fmt.Errorf("auth validator: %w", err)
		}
		authn = middleware.Authenticator(validator)
	} else {
		// Dev fallback, warned about at startup: requests pass through
		// without an identity in context.
		authn = func(next http.Handler) http.Handler { return next }
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Liveness, no auth.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	apiHandler := api.NewHandler(svcs.Ledger, svcs.Report, svcs.Profiles, svcs.Evidence, logger)
	r.Route("/v1", func(r chi.Router) {
		r.Use(authn)
		r.Mount("/", apiHandler.Routes())
	})

	uiHandler := ui.NewHandler(svcs.Ledger, svcs.Report, svcs.Profiles, svcs.Evidence, cfg.Auth, cfg.IsProduction())
	r.Route("/ui", func(r chi.Router) {
		ui.MountRoutes(r, uiHandler, authn)
	})

	if err := svcs.Digest.Start(cfg.DigestCron); err != nil {
		return fmt.Errorf("digest scheduler: %w", err)
	}
	defer svcs.Digest.Stop()

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("rollcall listening", "addr", cfg.ListenAddr, "org", cfg.OrgID, "tz", cfg.TimeZone)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
