package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/nguyentantai21042004/cant-be-bothered/internal/config"
	"github.com/nguyentantai21042004/cant-be-bothered/internal/logger"
)

// commandContext carries state shared by every subcommand.
type commandContext struct {
	configFlag *string
	envFlag    *string
	verbose    *bool

	stderr io.Writer

	cfg *config.Config
	log logger.Logger
}

func newCommandContext(configFlag, envFlag *string, verbose *bool, stderr io.Writer) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		envFlag:    envFlag,
		verbose:    verbose,
		stderr:     stderr,
	}
}

// ensureConfig loads .env files and the config file once. An explicit
// --env or --config must exist; the defaults may be absent.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	if c.envFlag != nil && *c.envFlag != "" {
		if err := config.LoadEnv(*c.envFlag); err != nil {
			return nil, err
		}
	}
	if err := config.LoadDefaultEnv(); err != nil {
		return nil, err
	}

	var (
		cfg *config.Config
		err error
	)
	if c.configFlag != nil && *c.configFlag != "" {
		cfg, err = config.Load(*c.configFlag)
	} else {
		cfg, err = config.LoadOrDefault("config.yaml")
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if c.verbose != nil && *c.verbose {
		level = "debug"
	}
	c.cfg = cfg
	c.log = logger.NewWithOptions(logger.Options{Level: level, Format: cfg.Logging.Format, Writer: c.stderr})
	return cfg, nil
}

// interactive reports whether stderr is a terminal, which decides between a
// progress bar and plain log lines.
func (c *commandContext) interactive() bool {
	f, ok := c.stderr.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runContext tags ctx with a fresh run id for log correlation.
func runContext(ctx context.Context) context.Context {
	ctx, _ = logger.WithRunID(ctx)
	return ctx
}
