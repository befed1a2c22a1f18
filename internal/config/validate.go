package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCollection(); err != nil {
		return err
	}
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCollection() error {
	if c.Collection.Name == "" {
		return errors.New("collection.name must be set")
	}
	if c.Collection.DBPath == "" {
		return errors.New("collection.db_path must be set")
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if c.TMDB.BaseURL == "" {
		return errors.New("tmdb.base_url must be set")
	}
	if c.TMDB.ImageBaseURL == "" {
		return errors.New("tmdb.image_base_url must be set")
	}
	// An absent key is fine: it only disables enrichment. A malformed key is
	// caught here so a typo does not silently turn every lookup into a miss.
	if c.TMDB.APIKey != "" && !ValidAPIKey(c.TMDB.APIKey) {
		return errors.New("tmdb.api_key must be a 32-character alphanumeric key")
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	if c.Enrichment.BatchSize <= 0 {
		return fmt.Errorf("enrichment.batch_size must be positive, got %d", c.Enrichment.BatchSize)
	}
	if c.Enrichment.BatchDelayMS < 0 {
		return fmt.Errorf("enrichment.batch_delay_ms must not be negative, got %d", c.Enrichment.BatchDelayMS)
	}
	return nil
}

// ValidAPIKey reports whether value looks like a TMDB v3 API key
// (32 alphanumeric characters).
func ValidAPIKey(value string) bool {
	if len(value) != 32 {
		return false
	}
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
