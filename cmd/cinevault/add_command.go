package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cinevault/internal/library"
)

func newAddCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		ratingDate string
		rating     string
		review     string
		link       string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a movie to the collection",
		Long: "Add a movie to the collection. When a TMDB api key is configured the\n" +
			"poster, director, release year, and production country are fetched\n" +
			"automatically; without one the record is stored bare and can be\n" +
			"enriched later.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := library.AddInput{
				Title:      args[0],
				RatingDate: ratingDate,
				Review:     review,
				Link:       link,
			}
			if rating != "" {
				value, err := strconv.ParseFloat(rating, 64)
				if err != nil {
					return fmt.Errorf("parse rating %q: %w", rating, err)
				}
				input.Rating = &value
			}

			return cmdCtx.withService(cmd, func(ctx context.Context, svc *library.Service) error {
				record, err := svc.Add(ctx, input)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Added %s (%s)\n", record.Title, record.ID)
				if record.Incomplete() {
					fmt.Fprintln(out, "Some detail fields are still missing; run `cinevault enrich` once an api key is set.")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&ratingDate, "watched", "w", "", "Date the movie was watched (e.g. 2024-07-09)")
	cmd.Flags().StringVarP(&rating, "rating", "r", "", "Personal rating")
	cmd.Flags().StringVar(&review, "review", "", "Short review")
	cmd.Flags().StringVar(&link, "link", "", "Reference link for the entry")
	_ = cmd.MarkFlagRequired("watched")

	return cmd
}
