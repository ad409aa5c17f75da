package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmiprep/trainer/internal/attempt"
	"github.com/mmiprep/trainer/internal/cli"
	"github.com/mmiprep/trainer/internal/inference"
	"github.com/mmiprep/trainer/internal/inference/openai"
)

func newPracticeCommand() *cobra.Command {
	var userID string
	var mode string

	command := &cobra.Command{
		Use:   "practice",
		Short: "Start an interactive practice session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			if cfg.OpenAI.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable is required")
			}
			attemptMode := attempt.Mode(mode)
			if attemptMode != attempt.ModeGuided && attemptMode != attempt.ModeTimed {
				return fmt.Errorf("invalid mode %q: must be guided or timed", mode)
			}

			fmt.Printf("Using OpenAI provider (model: %s)\n", cfg.OpenAI.Model)
			openaiClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, inference.DefaultMaxRetryAttempts)
			defer func() {
				_ = openaiClient.Close()
			}()

			svc, err := newServices(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = svc.Close()
			}()

			practiceCLI := cli.NewPracticeCLI(
				userID,
				attemptMode,
				svc.catalog,
				svc.selector,
				svc.scheduler,
				svc.estimator,
				svc.attempts,
				openaiClient,
			)

			fmt.Println("Interview practice session started!")
			fmt.Println("Answer each prompt, finish with an empty line. Type 'quit' to exit.")
			fmt.Println()
			return practiceCLI.Run(context.Background(), practiceCLI)
		},
	}
	command.Flags().StringVar(&userID, "user", "default", "user to practice as")
	command.Flags().StringVar(&mode, "mode", string(attempt.ModeGuided), "practice mode: guided or timed")

	return command
}
