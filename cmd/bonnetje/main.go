package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"bonnetje/internal/ah"
	appamqp "bonnetje/internal/amqp"
	"bonnetje/internal/config"
	apphttp "bonnetje/internal/http"
	applog "bonnetje/internal/log"
	"bonnetje/internal/login"
	"bonnetje/internal/session"
	gsheet "bonnetje/internal/sheets/google"
	"bonnetje/internal/tokens"
)

func main() {
	// .env is optional; real deployments use the environment directly
	godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, cleanup, err := tokens.Open(tokens.Backend(cfg.TokenBackend), cfg.TokenDBPath, logger.Logger)
	if err != nil {
		logger.Error("Failed to open token store", "error", err, "backend", cfg.TokenBackend)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	client := ah.NewClient(store)

	var opts []session.Option
	if cfg.AMQPURL != "" {
		notifier, err := appamqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, refresh notifications disabled", "error", err)
		} else {
			defer notifier.Close()
			opts = append(opts, session.WithNotifier(notifier))
			logger.Info("AMQP notifications enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}
	if cfg.GoogleSpreadsheetID != "" {
		exporter, err := gsheet.New(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Warn("Google Sheets export disabled", "error", err)
		} else {
			opts = append(opts, session.WithExporter(exporter))
			logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		}
	}

	sess := session.NewService(store, client, opts...)
	flow := login.NewFlow(client, cfg.LoginHeadless)

	srv := apphttp.NewServer(":"+cfg.Port, sess, client, flow, apphttp.Options{
		DetailCacheSize: cfg.DetailCacheSize,
		DetailCacheTTL:  cfg.DetailCacheTTL,
	})

	srv.ReadTimeout = 10 * time.Second
	// The login handler holds the request open for the whole human captcha
	// window, so the write timeout must exceed the login flow's code ceiling.
	srv.WriteTimeout = 3 * time.Minute
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sess.Start(gctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting bonnetje server", "port", cfg.Port, "token_backend", cfg.TokenBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
