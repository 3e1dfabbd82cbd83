package main

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ironsheep/cardsheet/internal/config"
	"github.com/ironsheep/cardsheet/internal/logging"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	logger *zap.Logger

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) initLogger() error {
	if c.logger != nil {
		return nil
	}
	logger, err := logging.New(c.verbose != nil && *c.verbose)
	if err != nil {
		return err
	}
	c.logger = logger
	return nil
}

func (c *commandContext) log() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

func (c *commandContext) sync() {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

// ensureConfig loads the job file named by --config, or the defaults when
// none is given. The result is loaded once and shared by every command.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		if path == "" {
			cfg := config.Default()
			c.config = &cfg
			return
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.log().Debug("job file loaded", zap.String("path", path))
		c.config = cfg
	})
	return c.config, c.configErr
}
