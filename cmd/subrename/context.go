package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"subrename/internal/config"
	"subrename/internal/journal"
	"subrename/internal/logging"
)

type commandContext struct {
	configFlag *string
	quiet      *bool
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, quiet, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		quiet:      quiet,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
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

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// logLevel applies --quiet and --verbose over the configured level.
func (c *commandContext) logLevel(cfg *config.Config) string {
	switch {
	case c.quiet != nil && *c.quiet:
		return "error"
	case c.verbose != nil && *c.verbose:
		return "debug"
	case cfg != nil:
		return cfg.Logging.Level
	}
	return "info"
}

// logger writes to the command's stderr so stdout carries only the report.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:  c.logLevel(cfg),
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// withJournal opens the journal for fn. Journal is nil when disabled.
func (c *commandContext) withJournal(ctx context.Context, fn func(*journal.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Journal.Enabled {
		return fn(nil)
	}
	store, err := journal.Open(ctx, cfg.JournalPath())
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
