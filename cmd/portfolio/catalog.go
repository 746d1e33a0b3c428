package main

import (
	"fmt"

	"github.com/jonathan/portfolio-site/internal/catalog"
	"github.com/jonathan/portfolio-site/internal/observability"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the project catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			language, err := parseLanguageFlag(lang)
			if err != nil {
				return err
			}
			cat, err := catalog.Load()
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}

			printer := observability.NewPrinter(cmd.OutOrStdout())
			printer.PrintCatalog(cat.List(language))
			printer.PrintStack(cat.Stack())
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "es", "Language (es or en)")
	return cmd
}
