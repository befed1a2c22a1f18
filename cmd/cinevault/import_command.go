package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cinevault/internal/library"
)

func newImportCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import records from a CSV export",
		Long: "Import records from a CSV export. Rows that duplicate existing records\n" +
			"are skipped, malformed rows are counted and dropped, and new records are\n" +
			"enriched with TMDB metadata when an api key is configured. The whole\n" +
			"import lands in one write.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer func() { _ = file.Close() }()

			return cmdCtx.withService(cmd, func(ctx context.Context, svc *library.Service) error {
				summary, err := svc.Import(ctx, file, newProgress(cmd, "enriching"))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d records (%d duplicates skipped, %d rows rejected)\n",
					summary.Added, summary.Skipped, summary.Rejected)
				if summary.Enrichment.Selected > 0 {
					printEnrichmentSummary(out, summary.Enrichment)
				}
				return nil
			})
		},
	}
	return cmd
}
