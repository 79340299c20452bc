package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ukane-philemon/srecords/internal/admin"
	"github.com/ukane-philemon/srecords/internal/api"
	"github.com/ukane-philemon/srecords/internal/auth"
	"github.com/ukane-philemon/srecords/internal/config"
	"github.com/ukane-philemon/srecords/internal/db"
	"github.com/ukane-philemon/srecords/internal/logger"
	"github.com/ukane-philemon/srecords/internal/report"
	"github.com/ukane-philemon/srecords/internal/student"
)

func main() {
	var isDevMode bool
	flag.BoolVar(&isDevMode, "dev", false, "Run server in development mode")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fatal("config.Load error", err)
	}

	if isDevMode {
		cfg.DevMode()
	}

	slog.SetDefault(logger.SetupLogger(cfg.Env))
	slog.Info("config loaded",
		"env", cfg.Env,
		"addr", cfg.HTTPServer.Address,
		"db", cfg.Mongo.Database,
		"reporter_db", cfg.Reporter.Database,
		"auth", cfg.Auth.Enabled,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The guard is fixed for the lifetime of the process.
	guard := db.Connect(ctx, cfg.Mongo.Database, cfg.Mongo.URI, cfg.Mongo.ConnectTimeout)

	studentRepo := student.NewRepository(guard)
	batchRepo := report.NewRepository(guard, cfg.Reporter.Database, cfg.Reporter.Collection)
	adminRepo := admin.NewRepository(guard)

	if guard.Connected() {
		if err := studentRepo.EnsureIndexes(ctx); err != nil {
			slog.Warn("student indexes were not created", "error", err)
		}
		if err := batchRepo.EnsureIndexes(ctx); err != nil {
			slog.Warn("batch indexes were not created", "error", err)
		}
	}

	apiCfg := api.Config{
		Guard:     guard,
		Students:  studentRepo,
		Reporter:  report.NewReporter(batchRepo),
		Logger:    slog.Default(),
		RateLimit: cfg.HTTPServer.RateLimit,
	}

	if cfg.Auth.Enabled {
		tokens, err := auth.NewManager(cfg.Auth.TokenExpiry)
		if err != nil {
			fatal("auth.NewManager error", err)
		}

		if guard.Connected() {
			bootstrapAdmin(ctx, adminRepo, cfg.Auth)
		}

		apiCfg.Admins = adminRepo
		apiCfg.Tokens = tokens
		apiCfg.RequireAuth = true
	}

	srv, err := api.New(apiCfg)
	if err != nil {
		fatal("api.New error", err)
	}

	server := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      srv.Router(),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		slog.Info("student records service has started", "addr", cfg.HTTPServer.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down http server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	if err := guard.Shutdown(shutdownCtx); err != nil {
		slog.Error("db shutdown error", "error", err)
	}

	slog.Info("student records service shutdown successfully")
}

// bootstrapAdmin creates the configured admin account if it does not exist.
func bootstrapAdmin(ctx context.Context, adminRepo *admin.AdminRepository, cfg config.Auth) {
	if err := adminRepo.EnsureIndexes(ctx); err != nil {
		slog.Warn("admin indexes were not created", "error", err)
	}

	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		slog.Warn("auth is enabled but no admin credentials are configured")
		return
	}

	_, err := adminRepo.CreateAccount(ctx, cfg.AdminUsername, cfg.AdminPassword)
	switch {
	case err == nil:
		slog.Info("admin account created", "username", cfg.AdminUsername)
	case errors.Is(err, db.ErrInvalidRequest):
		slog.Info("admin account already exists", "username", cfg.AdminUsername)
	default:
		slog.Error("admin account was not created", "error", err)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
