package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// newProgress returns a per-record progress callback. On a terminal it
// draws a bar; otherwise it stays quiet and leaves reporting to the final
// summary line.
func newProgress(cmd *cobra.Command, description string) func(processed, total int) {
	out := cmd.OutOrStdout()
	if !isTerminal(out) {
		return nil
	}

	var bar *progressbar.ProgressBar
	return func(processed, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription(description),
				progressbar.OptionSetWriter(out),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(processed)
		if processed == total {
			_ = bar.Finish()
			fmt.Fprintln(out)
		}
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
