package main

import (
	"os"

	"github.com/Eusa190/FIXITY-CRI/internal/config"
	"github.com/Eusa190/FIXITY-CRI/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fixity-cri",
	Short: "FIXITY Civic Risk Index engine",
	Long: `fixity-cri scores civic issues with the Civic Risk Index (CRI),
escalates unresolved issues over time and serves district risk maps and analytics.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, rescoreCmd)
}

// bootstrap загружает конфигурацию и создает логгер
func bootstrap() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(cfg.LogLevel), nil
}

// @title FIXITY Civic Risk Index API
// @version 1.0
// @description Civic issue reporting with Civic Risk Index scoring, escalation and analytics.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
