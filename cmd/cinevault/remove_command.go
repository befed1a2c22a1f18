package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cinevault/internal/library"
)

func newRemoveCommand(cmdCtx *commandContext) *cobra.Command {
	var all bool
	var force bool

	cmd := &cobra.Command{
		Use:   "remove [id]",
		Short: "Remove a record, or the whole collection with --all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return fmt.Errorf("pass either a record id or --all")
			}

			return cmdCtx.withService(cmd, func(ctx context.Context, svc *library.Service) error {
				out := cmd.OutOrStdout()
				if !all {
					if err := svc.Remove(ctx, args[0]); err != nil {
						return err
					}
					fmt.Fprintf(out, "Removed %s\n", args[0])
					return nil
				}

				if !force && !confirm(cmd, "Remove every record in the collection?") {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
				dropped, err := svc.RemoveAll(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %d records\n", dropped)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove every record")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
