package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rescoreBlock string

var rescoreCmd = &cobra.Command{
	Use:   "rescore",
	Short: "Recompute and persist scores of unresolved issues",
	Long: `rescore runs the same escalation as the authority dashboard, outside the request path.
Without --block every unresolved issue is rescored. Suitable for a cron job.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		dbpool, redisClient, err := openStores(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer dbpool.Close()
		defer redisClient.Close()

		issueService, err := newIssueService(cfg, log, dbpool, redisClient)
		if err != nil {
			return err
		}

		updated, err := issueService.Rescore(ctx, rescoreBlock)
		if err != nil {
			return err
		}

		log.WithFields(logrus.Fields{"block": rescoreBlock, "updated": updated}).Info("Rescore finished")
		return nil
	},
}

func init() {
	rescoreCmd.Flags().StringVar(&rescoreBlock, "block", "", "rescore only this block")
}
