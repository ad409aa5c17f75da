package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmiprep/trainer/internal/archetype"
	"github.com/mmiprep/trainer/internal/attempt"
	"github.com/mmiprep/trainer/internal/bootstrap"
	"github.com/mmiprep/trainer/internal/config"
	"github.com/mmiprep/trainer/internal/database"
	"github.com/mmiprep/trainer/internal/inference"
	"github.com/mmiprep/trainer/internal/inference/openai"
	"github.com/mmiprep/trainer/internal/question"
	"github.com/mmiprep/trainer/internal/server"
	"github.com/mmiprep/trainer/internal/skill"
	"github.com/mmiprep/trainer/internal/srs"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "trainer-server",
		Short:         "Interview trainer HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}
	if cfg.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("database.Open() > %w", err)
	}
	app.AddShutdownHook(func(ctx context.Context) error {
		return db.Close()
	})

	openaiClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, inference.DefaultMaxRetryAttempts)
	app.AddShutdownHook(func(ctx context.Context) error {
		return openaiClient.Close()
	})

	catalog := archetype.Default()
	questions := question.NewDBQuestionRepository(db)
	records := srs.NewDBSRSRepository(db)
	skills := skill.NewDBSkillRepository(db)
	attempts := attempt.NewDBAttemptRepository(db)
	estimator := skill.NewEstimator(skills)

	handler := server.NewTrainerHandler(
		catalog,
		srs.NewSelector(records, questions, estimator, catalog),
		srs.NewScheduler(records),
		estimator,
		attempts,
		srs.NewStatsCollector(records, questions, skills, estimator),
		questions,
		openaiClient,
	)

	mux := http.NewServeMux()
	handler.Register(mux)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: corsMiddleware(h2c.NewHandler(mux, &http2.Server{}), cfg.Server.CORS.AllowedOrigins),
	}
	app.AddShutdownHook(srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

func corsMiddleware(next http.Handler, allowedOrigins []string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
