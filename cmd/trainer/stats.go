package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmiprep/trainer/internal/cli"
)

func newStatsCommand() *cobra.Command {
	var userID string

	command := &cobra.Command{
		Use:   "stats",
		Short: "Show due counts and per-skill progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			svc, err := newServices(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = svc.Close()
			}()

			return cli.NewStatsCLI(userID, svc.stats).Show(cmd.Context())
		},
	}
	command.Flags().StringVar(&userID, "user", "default", "user to show stats for")

	return command
}
