package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cinevault/internal/collection"
	"cinevault/internal/library"
)

func newListCommand(cmdCtx *commandContext) *cobra.Command {
	var showIDs bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the collection, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withService(cmd, func(ctx context.Context, svc *library.Service) error {
				records, err := svc.List(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "The collection is empty.")
					return nil
				}

				headers := []string{"Title", "Watched", "Rating", "Year", "Director", "Country"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft}
				if showIDs {
					headers = append(headers, "ID")
					aligns = append(aligns, alignLeft)
				}

				rows := make([][]string, 0, len(records))
				for _, record := range records {
					row := []string{
						record.Title,
						record.RatingDate,
						formatRating(record.Rating),
						formatYear(record.Year),
						record.Director,
						record.Country,
					}
					if showIDs {
						row = append(row, record.ID)
					}
					rows = append(rows, row)
				}

				fmt.Fprintln(out, renderTable(headers, rows, aligns))
				if missing := incompleteCount(records); missing > 0 {
					fmt.Fprintf(out, "%d records, %d missing details\n", len(records), missing)
				} else {
					fmt.Fprintf(out, "%d records\n", len(records))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&showIDs, "ids", false, "Include record ids (needed for edit and remove)")
	return cmd
}

func formatRating(rating *float64) string {
	if rating == nil {
		return ""
	}
	return strconv.FormatFloat(*rating, 'f', 1, 64)
}

func formatYear(year *int) string {
	if year == nil {
		return ""
	}
	return strconv.Itoa(*year)
}

func incompleteCount(records []collection.Record) int {
	count := 0
	for i := range records {
		if records[i].Incomplete() {
			count++
		}
	}
	return count
}
