package main

import (
	"fmt"

	"github.com/X1ag/RideBoard/internal/config"
	"github.com/X1ag/RideBoard/internal/repository/postgres"
	"github.com/X1ag/RideBoard/internal/repository/sqlite"
	"github.com/spf13/cobra"
)

func newMigrateCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the trips table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := load()
			if err != nil {
				return err
			}
			switch cfg.Storage.Driver {
			case config.DriverPostgres:
				if err := postgres.RunMigrations(cfg.Storage.DSN); err != nil {
					return err
				}
			default:
				db, err := sqlite.Open(cfg.Storage.DSN)
				if err != nil {
					return err
				}
				if sqlDB, err := db.DB(); err == nil {
					sqlDB.Close()
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", cfg.Storage.Driver)
			return nil
		},
	}
}
