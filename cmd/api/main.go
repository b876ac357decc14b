package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/repsboard/payroll-backend/internal/app"
	"github.com/repsboard/payroll-backend/internal/config"
	appHTTP "github.com/repsboard/payroll-backend/internal/handler/http"
	"github.com/repsboard/payroll-backend/internal/pkg/cron"
	"github.com/repsboard/payroll-backend/internal/pkg/jwt"
	"github.com/repsboard/payroll-backend/internal/pkg/logger"
	"github.com/repsboard/payroll-backend/internal/pkg/sse"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log, logCloser := logger.New(logger.Options{
		App:        "payroll-api",
		Version:    version,
		Env:        cfg.App.Env,
		Level:      cfg.App.LogLevel,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer logCloser.Close()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := app.OpenRepositories(ctx, cfg)
	if err != nil {
		slog.Error("Error opening database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer repos.Close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()
	services := app.NewServices(repos, JWTService, hub, cfg.Admin.Passcode)

	handlers := appHTTP.Handlers{
		Auth:        appHTTP.NewAuthHandler(services.Auth),
		Events:      appHTTP.NewEventsHandler(services.Auth, JWTService, hub),
		WorkRecord:  appHTTP.NewWorkRecordHandler(services.WorkRecords),
		Batch:       appHTTP.NewBatchHandler(services.Batches),
		Candidate:   appHTTP.NewCandidateHandler(services.Candidates),
		Performance: appHTTP.NewPerformanceHandler(services.Performance),
		Dashboard:   appHTTP.NewDashboardHandler(services.Dashboard),
	}
	router := appHTTP.NewRouter(JWTService, handlers, appHTTP.RouterOptions{
		Logger:         log,
		AllowedOrigins: cfg.App.AllowedOrigins,
	})

	scheduler := cron.NewScheduler()
	cron.NewTokenJobs(JWTService).RegisterJobs(scheduler)
	cron.NewBatchJobs(repos.WorkRecords, hub, cfg.Batch.StaleAfter).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Event streams end when the process is asked to stop.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "driver", cfg.Database.Driver, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
