package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmiprep/trainer/internal/questionpack"
)

func newSeedCommand() *cobra.Command {
	var seedFile string

	command := &cobra.Command{
		Use:   "seed [pack name...]",
		Short: "Import question packs into the question bank",
		Long: `Import questions from the configured seed file, a --file override,
or named packs fetched from the remote pack registry. With no file and no
pack names, the bundled starter pack is imported.`,
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

			importer := questionpack.NewImporter(svc.questions, svc.catalog)

			file := seedFile
			if file == "" {
				file = cfg.QuestionPacks.SeedFile
			}
			if file == "" && len(args) == 0 {
				pack, err := questionpack.DefaultSeed()
				if err != nil {
					return fmt.Errorf("questionpack.DefaultSeed() > %w", err)
				}
				result, err := importer.Import(cmd.Context(), pack)
				if err != nil {
					return fmt.Errorf("importer.Import() > %w", err)
				}
				printImportResult(pack.Name, result)
				return nil
			}

			if file != "" {
				pack, err := questionpack.LoadSeedFile(file)
				if err != nil {
					return fmt.Errorf("questionpack.LoadSeedFile() > %w", err)
				}
				result, err := importer.Import(cmd.Context(), pack)
				if err != nil {
					return fmt.Errorf("importer.Import() > %w", err)
				}
				printImportResult(pack.Name, result)
			}

			if len(args) > 0 {
				if cfg.QuestionPacks.BaseURL == "" {
					return fmt.Errorf("question_packs.base_url is required to fetch remote packs")
				}
				reader := questionpack.NewReader(cfg.QuestionPacks.CacheDirectory, questionpack.Config{
					BaseURL: cfg.QuestionPacks.BaseURL,
				})
				for _, packName := range args {
					pack, err := reader.Fetch(cmd.Context(), packName)
					if err != nil {
						return fmt.Errorf("reader.Fetch(%s) > %w", packName, err)
					}
					result, err := importer.Import(cmd.Context(), pack)
					if err != nil {
						return fmt.Errorf("importer.Import(%s) > %w", packName, err)
					}
					printImportResult(pack.Name, result)
				}
			}
			return nil
		},
	}
	command.Flags().StringVar(&seedFile, "file", "", "seed file to import instead of the configured one")

	return command
}

func printImportResult(packName string, result questionpack.ImportResult) {
	fmt.Printf("Imported %d questions from %s\n", result.Imported, packName)
	for _, skipped := range result.Skipped {
		fmt.Printf("  skipped %s\n", skipped)
	}
}
