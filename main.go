package main

import (
	"asaan_shaadi/config"
	"asaan_shaadi/database"
	"asaan_shaadi/helper"
	"asaan_shaadi/logger"
	"asaan_shaadi/router"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var envFile string

// rootCmd serves the API when run without a sub-command.
var rootCmd = &cobra.Command{
	Use:   "asaan-shaadi",
	Short: "Asaan Shaadi marketplace API",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load(envFile)
		logger.Init(config.Config("APP_ENV"), config.Config("LOG_LEVEL"))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.ConnectDB(); err != nil {
			return err
		}
		defer database.Close()
		return database.Migrate(database.DB)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo data (safe to run repeatedly)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.ConnectDB(); err != nil {
			return err
		}
		defer database.Close()
		if err := database.Migrate(database.DB); err != nil {
			return err
		}
		if err := database.SeedData(database.DB); err != nil {
			return err
		}
		if _, err := helper.InitRedis(context.Background()); err != nil {
			logger.L().Warn("redis unavailable, lookup cache left as is", zap.Error(err))
		} else {
			dropLookupCache(context.Background())
			helper.CloseRedis()
		}
		fmt.Println("Seed completed. Demo accounts:")
		for _, u := range database.DemoUsers {
			fmt.Printf("  %-8s %s / %s\n", u.Role, u.Email, u.Password)
		}
		return nil
	},
}

// dropLookupCache clears cached lookup lists so freshly seeded rows show up.
func dropLookupCache(ctx context.Context) {
	n, err := helper.InvalidateLookups(ctx)
	if err != nil {
		logger.L().Warn("lookup cache invalidation failed", zap.Error(err))
		return
	}
	if n > 0 {
		logger.L().Info("lookup cache cleared", zap.Int("keys", n))
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.ConnectDB(); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer database.Close()
	if err := database.Migrate(database.DB); err != nil {
		return err
	}
	if config.Bool("SEED_ON_START") {
		if err := database.SeedData(database.DB); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	if _, err := helper.InitRedis(ctx); err != nil {
		logger.L().Warn("redis unavailable, continuing without it", zap.Error(err))
	}
	defer helper.CloseRedis()
	if config.Bool("SEED_ON_START") {
		dropLookupCache(ctx)
	}
	helper.StartNotificationRelay(ctx)

	if _, err := helper.InitCloudinary(); err != nil {
		logger.L().Warn("cloudinary init failed, image uploads disabled", zap.Error(err))
	}
	if !helper.InitStripe() {
		logger.L().Info("stripe not configured, payments disabled")
	}

	if err := helper.StartSchedulers(); err != nil {
		return fmt.Errorf("start schedulers: %w", err)
	}
	defer helper.StopSchedulers()

	app := router.New()
	addr := ":" + config.Config("PORT")

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("server listening", zap.String("addr", addr), zap.String("env", config.Config("APP_ENV")))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
