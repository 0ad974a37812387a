package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"rigroot/internal/config"
	"rigroot/internal/logging"
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

// fileLogger builds a logger that writes to rigroot.log in the configured
// log directory. Progress goes to the terminal through the event stream, so
// the logger deliberately stays off stdout.
func (c *commandContext) fileLogger(cfg *config.Config) *slog.Logger {
	if strings.TrimSpace(cfg.Paths.LogDir) == "" {
		return logging.NewNop()
	}
	logPath := filepath.Join(cfg.Paths.LogDir, "rigroot.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return logging.NewNop()
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: file,
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}
