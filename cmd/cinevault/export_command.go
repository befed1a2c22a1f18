package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cinevault/internal/library"
)

func newExportCommand(cmdCtx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [file.csv]",
		Short: "Export the collection to a CSV file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				output = args[0]
			}
			return cmdCtx.withService(cmd, func(ctx context.Context, svc *library.Service) error {
				target := strings.TrimSpace(output)
				if target == "" {
					target = svc.ExportFilename()
				}
				file, err := os.Create(target)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}

				count, err := svc.Export(ctx, file)
				if closeErr := file.Close(); err == nil {
					err = closeErr
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", count, target)
				return nil
			})
		},
	}
	return cmd
}
