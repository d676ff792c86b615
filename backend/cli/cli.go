package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"prashiskshan/backend/config"
	"prashiskshan/backend/metrics"
	"prashiskshan/backend/middleware"
	"prashiskshan/backend/models"
	"prashiskshan/backend/routes"
	"prashiskshan/backend/seed"
	"prashiskshan/backend/storage"
	"prashiskshan/backend/utils"
)

const shutdownTimeout = 10 * time.Second

// NewRootCommand builds the prashiskshan command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "prashiskshan",
		Short:         "Internship management platform API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCommand(), migrateCommand(), seedCommand())
	return root
}

func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration, the logger and the database shared by every command.
func bootstrap() (*config.Config, *log.Logger, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := utils.InitLogger(utils.LoggerConfig{Format: cfg.LogFormat})

	db, err := utils.InitDB(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer closeDB(db)

			if err := models.AutoMigrate(db.WithContext(cmd.Context())); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Println("migrations applied")
			return nil
		},
	}
}

func seedCommand() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo accounts, postings and records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer closeDB(db)

			ctx := cmd.Context()
			if err := models.AutoMigrate(db.WithContext(ctx)); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if reset {
				if err := seed.Reset(ctx, db); err != nil {
					return err
				}
				logger.Println("cleared existing data")
			}
			if _, err := seed.Run(ctx, db, cfg.BcryptCost, logger); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "Delete all existing rows before seeding")
	return cmd
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer closeDB(db)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := models.AutoMigrate(db.WithContext(ctx)); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			limiter, closeLimiter, err := middleware.NewLimiter(ctx, cfg.RedisURL)
			if err != nil {
				return fmt.Errorf("connect redis: %w", err)
			}
			defer func() { _ = closeLimiter() }()

			opts := routes.Options{Limiter: limiter, Metrics: metrics.NewCollector()}
			if cfg.StorageEnabled() {
				b2, err := storage.Init(ctx, cfg.B2KeyID, cfg.B2AppKey, cfg.B2Bucket)
				if err != nil {
					return err
				}
				opts.Storage = b2
			} else {
				logger.Println("B2 credentials not set, uploads are disabled")
			}

			app := routes.NewApp(cfg, logger, opts.Metrics)
			routes.SetupRoutes(app, db, cfg, opts)

			errCh := make(chan error, 1)
			go func() {
				logger.Printf("listening on :%s", cfg.ServerPort)
				errCh <- app.Listen(":" + cfg.ServerPort)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Println("shutting down")
			if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
