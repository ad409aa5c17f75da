package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmiprep/trainer/internal/cli"
)

func newReportCommand() *cobra.Command {
	var userID string

	command := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF progress report",
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

			reportCLI := cli.NewReportCLI(userID, cfg.Outputs.ReportDirectory, svc.stats, svc.attempts)
			return reportCLI.Generate(cmd.Context())
		},
	}
	command.Flags().StringVar(&userID, "user", "default", "user to report on")

	return command
}
