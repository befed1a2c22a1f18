// Package logging builds slog loggers with cinevault's console and JSON
// output formats, plus small attribute helpers shared across packages.
package logging
