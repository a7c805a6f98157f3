package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Eusa190/FIXITY-CRI/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	migrationsDir string
	migrateDown   bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if migrateDown {
			return rollbackMigrations(cfg, log)
		}
		return runMigrations(cfg, log)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "migrations", "migrations", "directory with SQL migrations")
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "roll back all migrations")
}

func newMigrator(cfg *config.Config) (*migrate.Migrate, error) {
	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New("file://"+migrationsDir, migrationURL)
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return m, nil
}

func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func rollbackMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Warn("Rolling back database migrations...")

	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	log.Info("Database migrations rolled back")
	return nil
}
