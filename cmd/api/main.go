package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/georgemunganga/canteen-backend/internal/config"
	"github.com/georgemunganga/canteen-backend/internal/events"
	"github.com/georgemunganga/canteen-backend/internal/modules/catalog"
	"github.com/georgemunganga/canteen-backend/internal/modules/media"
	"github.com/georgemunganga/canteen-backend/internal/modules/order"
	"github.com/georgemunganga/canteen-backend/internal/modules/owner"
	"github.com/georgemunganga/canteen-backend/internal/modules/paymentqr"
	"github.com/georgemunganga/canteen-backend/internal/modules/report"
	"github.com/georgemunganga/canteen-backend/internal/modules/table"
	"github.com/georgemunganga/canteen-backend/internal/platform/database"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/google/uuid"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "canteen api:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	log := logger.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info("schema migrated")
	}

	// ── Media ───────────────────────────────────────────────
	provider := media.Unconfigured()
	if cfg.Cloudinary.Enabled() {
		if provider, err = media.NewCloudinary(cfg.Cloudinary); err != nil {
			return err
		}
	} else {
		log.Warn("cloudinary is not configured, uploads will fail")
	}
	uploader := media.NewUploader(provider, log)
	cleaner := media.NewCleaner(provider, log, 0)
	defer cleaner.Wait()

	// ── Events ──────────────────────────────────────────────
	hub := events.NewHub(16)
	publishers := []events.Publisher{hub}
	if cfg.RabbitMQ.URL != "" {
		amqpPub, err := events.DialAMQP(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			return err
		}
		defer amqpPub.Close()
		publishers = append(publishers, amqpPub)
		log.Info("publishing order events", "exchange", cfg.RabbitMQ.Exchange)
	}
	publisher := events.NewMulti(log, publishers...)

	// ── Owner & guard ───────────────────────────────────────
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
		log.Warn("JWT_SECRET not set, sessions will not survive a restart")
	}
	tokens := owner.NewTokens(secret, cfg.Auth.TokenTTL)
	guard := owner.Guard(cfg.Auth.Enforce, tokens, log)

	// ── Modules ─────────────────────────────────────────────
	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo, log)

	tableService := table.NewService(table.NewPostgresRepository(db), cfg.App.BaseURL, cfg.App.QRTemplate, log)
	qrService := paymentqr.NewService(paymentqr.NewPostgresRepository(db), cleaner, log)

	orderService := order.NewService(order.NewPostgresRepository(db), catalog.NewLookup(catalogRepo), uploader, publisher, order.Options{
		RequireScreenshot:  cfg.Orders.RequireScreenshot,
		RecomputeTotal:     cfg.Orders.RecomputeTotal,
		ScreenshotFolder:   cfg.Uploads.ScreenshotFolder,
		ScreenshotMaxBytes: cfg.Uploads.ScreenshotMaxBytes,
	}, log)
	reportService := report.NewService(report.NewPostgresRepository(db), loc, log)
	ownerService := owner.NewService(owner.NewPostgresRepository(db), tokens, log)

	router := newRouter(db, cfg.HTTP.CORSOrigins, guard, log, []routeRegistrar{
		catalog.NewHandler(catalogService, log),
		media.NewHandler(uploader, cfg.Uploads.ItemFolder, cfg.Uploads.ItemMaxBytes, log),
		table.NewHandler(tableService, log),
		paymentqr.NewHandler(qrService, log),
		order.NewHandler(orderService, hub, cfg.Uploads.ScreenshotMaxBytes, log),
		report.NewHandler(reportService, loc, log),
		owner.NewHandler(ownerService, log),
	})

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}
	// Shutdown waits for active requests; open event streams end with the hub.
	srv.RegisterOnShutdown(hub.Close)
	errCh := make(chan error, 1)
	go func() {
		log.Info("canteen API server starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg.HTTP.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func shutdownTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}
