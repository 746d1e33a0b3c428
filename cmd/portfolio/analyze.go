package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/portfolio-site/internal/adapt"
	"github.com/jonathan/portfolio-site/internal/observability"
	"github.com/jonathan/portfolio-site/internal/types"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		imagePath string
		apply     bool
		lang      string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a job posting screenshot",
		Long:  "Send a job posting screenshot to the model and print the extracted company, role and skills. With --apply, also print the adapted hero copy.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			language, err := parseLanguageFlag(lang)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			f, err := os.Open(imagePath)
			if err != nil {
				return fmt.Errorf("failed to open image: %w", err)
			}
			defer func() { _ = f.Close() }()

			ctx := cmd.Context()
			client, err := newLLMClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			record, err := newAnalyzer(client, cfg, language).Analyze(ctx, f)
			if err != nil {
				return fmt.Errorf("failed to analyze image: %w", err)
			}

			var hero *adapt.Hero
			if apply {
				if hero, err = adapt.Apply(record, language); err != nil {
					return fmt.Errorf("failed to adapt hero: %w", err)
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Record *types.AnalysisRecord `json:"record"`
					Hero   *adapt.Hero           `json:"hero,omitempty"`
				}{record, hero})
			}

			printer := observability.NewPrinter(cmd.OutOrStdout())
			printer.PrintAnalysis(record)
			printer.PrintHero(hero)
			return nil
		},
	}
	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Path to the job posting screenshot")
	cmd.Flags().BoolVar(&apply, "apply", false, "Also print the adapted hero copy")
	cmd.Flags().StringVar(&lang, "lang", "es", "Language for the instruction and the adapted copy (es or en)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a summary")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}
