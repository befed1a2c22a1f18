package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cinevault/internal/library"
)

func newEditCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		title      string
		ratingDate string
		rating     string
		review     string
		director   string
		country    string
		year       int
		coverURL   string
		link       string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a record's fields",
		Long: "Edit the record with the given id. Only the flags you pass change;\n" +
			"everything else keeps its current value. Find ids with `cinevault list --ids`.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input library.EditInput
			flags := cmd.Flags()
			if flags.Changed("title") {
				input.Title = &title
			}
			if flags.Changed("watched") {
				input.RatingDate = &ratingDate
			}
			if flags.Changed("rating") {
				value, err := strconv.ParseFloat(rating, 64)
				if err != nil {
					return fmt.Errorf("parse rating %q: %w", rating, err)
				}
				input.Rating = &value
			}
			if flags.Changed("review") {
				input.Review = &review
			}
			if flags.Changed("director") {
				input.Director = &director
			}
			if flags.Changed("country") {
				input.Country = &country
			}
			if flags.Changed("year") {
				input.Year = &year
			}
			if flags.Changed("cover") {
				input.CoverURL = &coverURL
			}
			if flags.Changed("link") {
				input.Link = &link
			}

			return cmdCtx.withService(cmd, func(ctx context.Context, svc *library.Service) error {
				record, err := svc.Edit(ctx, args[0], input)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", record.Title, record.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&ratingDate, "watched", "w", "", "New watch date")
	cmd.Flags().StringVarP(&rating, "rating", "r", "", "New personal rating")
	cmd.Flags().StringVar(&review, "review", "", "New short review")
	cmd.Flags().StringVar(&director, "director", "", "New director")
	cmd.Flags().StringVar(&country, "country", "", "New production country")
	cmd.Flags().IntVar(&year, "year", 0, "New release year")
	cmd.Flags().StringVar(&coverURL, "cover", "", "New poster URL")
	cmd.Flags().StringVar(&link, "link", "", "New reference link")

	return cmd
}
