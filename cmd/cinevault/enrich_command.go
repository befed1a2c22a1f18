package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cinevault/internal/enrich"
	"cinevault/internal/library"
)

func newEnrichCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Fetch missing metadata for the whole collection",
		Long: "Look up every record still missing its poster, director, release year,\n" +
			"or production country and fill in whatever TMDB knows. Lookups run in\n" +
			"paced batches and fields you entered yourself are never overwritten.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withService(cmd, func(ctx context.Context, svc *library.Service) error {
				summary, err := svc.EnrichAll(ctx, newProgress(cmd, "enriching"))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if summary.Selected == 0 {
					fmt.Fprintln(out, "Every record already has full details.")
					return nil
				}
				printEnrichmentSummary(out, summary)
				return nil
			})
		},
	}
	return cmd
}

func printEnrichmentSummary(out io.Writer, summary enrich.Summary) {
	fmt.Fprintf(out, "Enriched %d of %d records (posters %d, directors %d, years %d, countries %d)\n",
		summary.Records, summary.Selected,
		summary.Posters, summary.Directors, summary.Years, summary.Countries)
}
