package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeCollection(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeEnrichment()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeCollection() error {
	c.Collection.Name = strings.TrimSpace(c.Collection.Name)
	if c.Collection.Name == "" {
		c.Collection.Name = defaultCollectionName
	}
	if strings.TrimSpace(c.Collection.DBPath) == "" {
		c.Collection.DBPath = defaultDBPath
	}
	var err error
	if c.Collection.DBPath, err = expandPath(c.Collection.DBPath); err != nil {
		return fmt.Errorf("collection.db_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = strings.TrimSpace(value)
		}
	}
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.ImageBaseURL = strings.TrimSpace(c.TMDB.ImageBaseURL)
	if c.TMDB.ImageBaseURL == "" {
		c.TMDB.ImageBaseURL = defaultTMDBImageBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
	c.TMDB.HomeCountry = strings.ToUpper(strings.TrimSpace(c.TMDB.HomeCountry))
	if c.TMDB.HomeCountry == "" {
		c.TMDB.HomeCountry = defaultTMDBHomeCountry
	}
	c.TMDB.FallbackCountry = strings.ToUpper(strings.TrimSpace(c.TMDB.FallbackCountry))
	if c.TMDB.FallbackCountry == "" {
		c.TMDB.FallbackCountry = defaultTMDBFallbackCountry
	}
}

func (c *Config) normalizeEnrichment() {
	if c.Enrichment.BatchSize <= 0 {
		c.Enrichment.BatchSize = defaultBatchSize
	}
	if c.Enrichment.BatchDelayMS < 0 {
		c.Enrichment.BatchDelayMS = defaultBatchDelayMS
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
