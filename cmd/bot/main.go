package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/X1ag/RideBoard/internal/config"
	"github.com/X1ag/RideBoard/internal/domain"
	"github.com/X1ag/RideBoard/internal/repository/postgres"
	"github.com/X1ag/RideBoard/internal/repository/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

func newRootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:          "rideboard",
		Short:        "RideBoard: ride-share postings between Moldova and Germany",
		Long:         "RideBoard is a Telegram bot where people post and browse trips between Moldova and Germany.",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (defaults plus environment when empty)")

	load := func() (*config.Config, *slog.Logger, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, nil, err
		}
		log := cfg.Log.NewLogger()
		slog.SetDefault(log)
		return cfg, log, nil
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd(load))
	cmd.AddCommand(newMigrateCmd(load))
	cmd.AddCommand(newRecentCmd(load))
	return cmd
}

type loadFunc func() (*config.Config, *slog.Logger, error)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rideboard %s (commit: %s)\n", Version, Commit)
		},
	}
}

// openStore connects the trip store selected by cfg. The returned func
// releases it.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (domain.TripRepository, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if cfg.Storage.Migrate {
			if err := postgres.RunMigrations(cfg.Storage.DSN); err != nil {
				return nil, nil, err
			}
		}
		pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("cannot reach postgres: %w", err)
		}
		log.Info("trip store opened", "driver", cfg.Storage.Driver)
		return postgres.NewTripRepository(pool), pool.Close, nil
	default:
		db, err := sqlite.Open(cfg.Storage.DSN)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		log.Info("trip store opened", "driver", cfg.Storage.Driver, "path", cfg.Storage.DSN)
		return sqlite.NewTripRepository(db), func() { _ = sqlDB.Close() }, nil
	}
}

func execute(cmd *cobra.Command) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
