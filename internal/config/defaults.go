package config

const (
	defaultCollectionName      = "movie-collection"
	defaultDBPath              = "~/.local/share/cinevault/collection.db"
	defaultTMDBBaseURL         = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL    = "https://image.tmdb.org/t/p/w500"
	defaultTMDBLanguage        = "zh-CN"
	defaultTMDBHomeCountry     = "CN"
	defaultTMDBFallbackCountry = "US"
	defaultBatchSize           = 8
	defaultBatchDelayMS        = 1200
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Collection: Collection{
			Name:   defaultCollectionName,
			DBPath: defaultDBPath,
		},
		TMDB: TMDB{
			BaseURL:         defaultTMDBBaseURL,
			ImageBaseURL:    defaultTMDBImageBaseURL,
			Language:        defaultTMDBLanguage,
			HomeCountry:     defaultTMDBHomeCountry,
			FallbackCountry: defaultTMDBFallbackCountry,
		},
		Enrichment: Enrichment{
			BatchSize:    defaultBatchSize,
			BatchDelayMS: defaultBatchDelayMS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
