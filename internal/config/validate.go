package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMarketplace(); err != nil {
		return err
	}
	if err := c.validateAI(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.SearchesDir == "" {
		return errors.New("paths.searches_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateMarketplace() error {
	if c.Marketplace.BaseURL == "" {
		return errors.New("marketplace.base_url must be set")
	}
	if len(c.Marketplace.Currency) != 3 {
		return fmt.Errorf("marketplace.currency must be a 3-letter code, got %q", c.Marketplace.Currency)
	}
	if c.Marketplace.TimeoutSeconds < 0 {
		return errors.New("marketplace.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateAI() error {
	if c.AI.BaseURL == "" {
		return errors.New("ai.base_url must be set")
	}
	if c.AI.TimeoutSeconds < 0 {
		return errors.New("ai.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
