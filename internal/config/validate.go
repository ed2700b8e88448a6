package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateConversion(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateConversion() error {
	if c.Conversion.Quality < 0 || c.Conversion.Quality > 100 {
		return fmt.Errorf("conversion.quality must be between 0 and 100 (got %d)", c.Conversion.Quality)
	}
	if c.Conversion.MultiProcessing < 1 {
		return fmt.Errorf("conversion.multi_processing must be at least 1 (got %d)", c.Conversion.MultiProcessing)
	}
	if c.Conversion.ParallelWorkers < 0 {
		return errors.New("conversion.parallel_workers must be zero or positive")
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && strings.TrimSpace(c.Paths.HistoryDB) == "" {
		return errors.New("paths.history_db must be set when history.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}
