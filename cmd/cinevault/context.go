package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cinevault/internal/config"
	"cinevault/internal/library"
	"cinevault/internal/logging"
	"cinevault/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.NewNop()
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// withService opens the collection store for one command invocation and
// closes it afterwards.
func (c *commandContext) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *library.Service) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.Collection.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	svc := library.New(cfg, st, c.logger())
	return fn(cmd.Context(), svc)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
