package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estimator-backend/config"
	"estimator-backend/handlers"
	"estimator-backend/logging"
	"estimator-backend/repository"
	"estimator-backend/services"
	"estimator-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("port", "", "listen port")
	cmd.Flags().String("store", "", "store driver: postgres or memory")
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  `Opens the store, seeds the calculator when none exists, starts the retention job and serves the API until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
	addServeFlags(cmd)
	return cmd
}

// startupSeed returns the seed document served by the admin seed endpoint
// and imported on start-up: seed.file when set, otherwise the embedded one.
func startupSeed(cfg config.Config) ([]byte, repository.SeedFormat, error) {
	if cfg.Seed.File == "" {
		return repository.DefaultSeed(), repository.FormatYAML, nil
	}
	raw, format, err := repository.LoadSeedFile(cfg.Seed.File)
	if err != nil {
		return nil, "", err
	}
	return raw, format, nil
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logging.Sync()
	logger := logging.Logger

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWT.Secret == "" {
		logger.Warn("jwt.secret is empty, admin login is disabled")
	}

	store, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()
	logger.Info("store ready", zap.String("driver", cfg.Store.Driver))

	seed, format, err := startupSeed(cfg)
	if err != nil {
		return err
	}
	if cfg.Seed.Auto {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		calc, seeded, err := repository.SeedIfEmpty(ctx, store, seed, format)
		cancel()
		if err != nil {
			return fmt.Errorf("seed calculator: %w", err)
		}
		if seeded {
			logger.Info("calculator seeded", zap.String("title", calc.Title), zap.Int("steps", len(calc.Steps)))
		}
	}

	maintenance := services.NewMaintenance(store, cfg.Retention)
	if err := maintenance.Start(); err != nil {
		return err
	}

	// Only hand over an enabled mailer: a nil *EmailService in the
	// interface would not compare equal to nil.
	var notifier handlers.QuoteNotifier
	if mailer := services.NewEmailService(cfg.SMTP); mailer.Enabled() {
		notifier = mailer
	} else {
		logger.Info("smtp not configured, quote e-mails disabled")
	}

	router := handlers.NewRouter(handlers.Deps{
		Store:    store,
		Config:   cfg,
		Logger:   logger,
		Notifier: notifier,
		Seed:     seed,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	maintenance.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exiting")
	return nil
}
