package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cinevault/internal/library"
)

func newAPIKeyCommand(cmdCtx *commandContext) *cobra.Command {
	apikeyCmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage the TMDB api key",
	}

	apikeyCmd.AddCommand(&cobra.Command{
		Use:   "set <key>",
		Short: "Store a TMDB api key in the collection database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withService(cmd, func(ctx context.Context, svc *library.Service) error {
				if err := svc.SetAPIKey(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "API key stored.")
				return nil
			})
		},
	})

	apikeyCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the stored TMDB api key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withService(cmd, func(ctx context.Context, svc *library.Service) error {
				if err := svc.ClearAPIKey(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "API key cleared.")
				return nil
			})
		},
	})

	apikeyCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show where the active api key comes from",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withService(cmd, func(ctx context.Context, svc *library.Service) error {
				source, err := svc.APIKeySource(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				switch source {
				case "config":
					fmt.Fprintln(out, "Using the api key from the configuration file (overrides any stored key).")
				case "stored":
					fmt.Fprintln(out, "Using the api key stored in the collection database.")
				default:
					fmt.Fprintln(out, "No api key configured. Set one with `cinevault apikey set <key>`.")
				}
				return nil
			})
		},
	})

	return apikeyCmd
}
