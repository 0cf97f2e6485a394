package main

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"bnbscout/internal/aireview"
	"bnbscout/internal/config"
	"bnbscout/internal/ledger"
	"bnbscout/internal/logging"
	"bnbscout/internal/marketplace"
	"bnbscout/internal/notifications"
	"bnbscout/internal/pipeline"
	"bnbscout/internal/search"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
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

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			LogPath: filepath.Join(cfg.Paths.LogDir, "bnbscout.log"),
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// loadSearch resolves a named search under the configured searches root.
func (c *commandContext) loadSearch(name string) (*search.Context, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return search.Load(cfg.Paths.SearchesDir, name)
}

// newRunner wires the monitoring pipeline from configuration: marketplace
// client, completion client, run ledger, and notifications. The caller owns
// the returned store and must close it.
func (c *commandContext) newRunner() (*pipeline.Runner, *ledger.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	store, err := ledger.Open(cfg.Paths.SearchesDir)
	if err != nil {
		return nil, nil, err
	}

	market := marketplace.NewClient(cfg.Marketplace.APIKey,
		marketplace.WithBaseURL(cfg.Marketplace.BaseURL),
		marketplace.WithTimeout(time.Duration(cfg.Marketplace.TimeoutSeconds)*time.Second),
	)
	scorer := aireview.NewClient(cfg.AI.APIKey,
		aireview.WithEndpoint(cfg.AI.BaseURL),
		aireview.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.AI.TimeoutSeconds) * time.Second}),
	)
	notifier := notifications.NewService(cfg)

	runner := pipeline.NewRunner(market, scorer, store, notifier, logger)
	return runner, store, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
