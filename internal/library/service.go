package library

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"cinevault/internal/collection"
	"cinevault/internal/config"
	"cinevault/internal/csvio"
	"cinevault/internal/enrich"
	"cinevault/internal/logging"
	"cinevault/internal/lookup"
	"cinevault/internal/store"
	"cinevault/internal/tmdb"
)

// Service exposes the collection operations the commands run.
type Service struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time
	lookup enrich.LookupFunc
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLookup overrides the metadata lookup, bypassing credential
// resolution. Tests use this to avoid the network.
func WithLookup(fn enrich.LookupFunc) Option {
	return func(s *Service) {
		s.lookup = fn
	}
}

// New creates a Service over the given store.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	svc := &Service{
		cfg:    cfg,
		store:  st,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// List returns every record, newest rating date first.
func (s *Service) List(ctx context.Context) ([]collection.Record, error) {
	records, _, err := s.store.LoadRecords(ctx)
	if err != nil {
		return nil, err
	}
	collection.SortByRatingDateDesc(records)
	return records, nil
}

// Get returns the record with the given id.
func (s *Service) Get(ctx context.Context, id string) (collection.Record, error) {
	records, _, err := s.store.LoadRecords(ctx)
	if err != nil {
		return collection.Record{}, err
	}
	for _, record := range records {
		if record.ID == id {
			return record, nil
		}
	}
	return collection.Record{}, Wrap(ErrNotFound, "get", "no record with id "+id, nil)
}

// AddInput carries the user-supplied fields for a new record.
type AddInput struct {
	Title      string
	RatingDate string
	Rating     *float64
	Review     string
	Link       string
}

// Add validates the input, rejects duplicates of existing records, fetches
// metadata for the new title when a credential is available, and persists
// the grown collection.
func (s *Service) Add(ctx context.Context, input AddInput) (collection.Record, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return collection.Record{}, Wrap(ErrValidation, "add", "title must not be empty", nil)
	}
	ratingDate := strings.TrimSpace(input.RatingDate)
	if _, ok := collection.ParseRatingDate(ratingDate); !ok {
		return collection.Record{}, Wrap(ErrValidation, "add", "rating date must be a date like 2006-01-02", nil)
	}

	records, version, err := s.store.LoadRecords(ctx)
	if err != nil {
		return collection.Record{}, err
	}

	record := collection.NewRecord(title, ratingDate, s.now())
	record.Rating = input.Rating
	record.Review = strings.TrimSpace(input.Review)
	record.Link = strings.TrimSpace(input.Link)

	for _, existing := range records {
		if collection.Duplicate(record, existing) {
			return collection.Record{}, Wrap(ErrValidation, "add", title+" is already in the collection", nil)
		}
	}

	if lookupFn, lookupErr := s.resolveLookup(ctx, "add"); lookupErr == nil {
		details := lookupFn(ctx, record.Title)
		record, _ = collection.MergeFetchedDetails(record, details)
	} else {
		s.logger.Debug("adding without metadata lookup", logging.Error(lookupErr))
	}

	records = append(records, record)
	if err := s.save(ctx, records, version, "add"); err != nil {
		return collection.Record{}, err
	}
	s.logger.Info("record added",
		logging.String("title", record.Title),
		logging.String("id", record.ID))
	return record, nil
}

// EditInput carries the fields an edit may change. Nil pointers leave the
// current value alone.
type EditInput struct {
	Title      *string
	RatingDate *string
	Rating     *float64
	Review     *string
	Director   *string
	Country    *string
	Year       *int
	CoverURL   *string
	Link       *string
}

// Edit applies the changes to the record with the given id and stamps its
// update time. An unparsable replacement rating date keeps the current one.
func (s *Service) Edit(ctx context.Context, id string, input EditInput) (collection.Record, error) {
	records, version, err := s.store.LoadRecords(ctx)
	if err != nil {
		return collection.Record{}, err
	}

	index := -1
	for i := range records {
		if records[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return collection.Record{}, Wrap(ErrNotFound, "edit", "no record with id "+id, nil)
	}

	record := records[index]
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return collection.Record{}, Wrap(ErrValidation, "edit", "title must not be empty", nil)
		}
		record.Title = title
	}
	if input.RatingDate != nil {
		date := strings.TrimSpace(*input.RatingDate)
		if _, ok := collection.ParseRatingDate(date); ok {
			record.RatingDate = date
		} else {
			s.logger.Warn("keeping current rating date, replacement did not parse",
				logging.String("id", id),
				logging.String("rating_date", date))
		}
	}
	if input.Rating != nil {
		record.Rating = input.Rating
	}
	if input.Review != nil {
		record.Review = strings.TrimSpace(*input.Review)
	}
	if input.Director != nil {
		record.Director = strings.TrimSpace(*input.Director)
	}
	if input.Country != nil {
		record.Country = strings.TrimSpace(*input.Country)
	}
	if input.Year != nil {
		record.Year = input.Year
	}
	if input.CoverURL != nil {
		record.Cover = collection.CoverFromValue(strings.TrimSpace(*input.CoverURL))
	}
	if input.Link != nil {
		record.Link = strings.TrimSpace(*input.Link)
	}
	updated := s.now()
	record.UpdatedAt = &updated

	records[index] = record
	if err := s.save(ctx, records, version, "edit"); err != nil {
		return collection.Record{}, err
	}
	return record, nil
}

// Remove deletes the record with the given id.
func (s *Service) Remove(ctx context.Context, id string) error {
	records, version, err := s.store.LoadRecords(ctx)
	if err != nil {
		return err
	}

	kept := records[:0]
	found := false
	for _, record := range records {
		if record.ID == id {
			found = true
			continue
		}
		kept = append(kept, record)
	}
	if !found {
		return Wrap(ErrNotFound, "remove", "no record with id "+id, nil)
	}
	return s.save(ctx, kept, version, "remove")
}

// RemoveAll empties the collection and reports how many records it dropped.
func (s *Service) RemoveAll(ctx context.Context) (int, error) {
	records, version, err := s.store.LoadRecords(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.save(ctx, nil, version, "remove all"); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ImportSummary reports what an import run did.
type ImportSummary struct {
	Added      int
	Skipped    int
	Rejected   int
	Enrichment enrich.Summary
}

// Import decodes a CSV export, drops candidates that duplicate existing
// records, enriches the survivors when a credential is available, and
// persists the grown collection in one write. The collection lock is held
// for the whole run.
func (s *Service) Import(ctx context.Context, r io.Reader, progress func(processed, total int)) (ImportSummary, error) {
	if err := s.store.AcquireLock(); err != nil {
		return ImportSummary{}, Wrap(ErrConflict, "import", "", err)
	}
	defer func() {
		if err := s.store.ReleaseLock(); err != nil {
			s.logger.Warn("releasing collection lock failed", logging.Error(err))
		}
	}()

	decoded, err := csvio.Decode(r, s.now(), s.logger)
	if err != nil {
		return ImportSummary{}, Wrap(ErrValidation, "import", "", err)
	}

	records, version, err := s.store.LoadRecords(ctx)
	if err != nil {
		return ImportSummary{}, err
	}

	dedup := collection.DedupAgainstStore(decoded.Records, records)
	summary := ImportSummary{
		Added:    len(dedup.ToAdd),
		Skipped:  dedup.Skipped,
		Rejected: decoded.Rejected,
	}
	if len(dedup.ToAdd) == 0 {
		s.logger.Info("import found nothing new",
			logging.Int("skipped", summary.Skipped),
			logging.Int("rejected", summary.Rejected))
		return summary, nil
	}

	if lookupFn, lookupErr := s.resolveLookup(ctx, "import"); lookupErr == nil {
		summary.Enrichment, err = enrich.Run(ctx, dedup.ToAdd, lookupFn, s.enrichOptions(progress), s.logger)
		if err != nil {
			return summary, err
		}
	} else {
		s.logger.Info("importing without metadata enrichment", logging.Error(lookupErr))
	}

	records = append(records, dedup.ToAdd...)
	if err := s.save(ctx, records, version, "import"); err != nil {
		return summary, err
	}
	s.logger.Info("import complete",
		logging.Int("added", summary.Added),
		logging.Int("skipped", summary.Skipped),
		logging.Int("rejected", summary.Rejected))
	return summary, nil
}

// Export writes the whole collection as CSV and reports the record count.
func (s *Service) Export(ctx context.Context, w io.Writer) (int, error) {
	records, _, err := s.store.LoadRecords(ctx)
	if err != nil {
		return 0, err
	}
	if err := csvio.Encode(w, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ExportFilename returns the conventional name for an export started now.
func (s *Service) ExportFilename() string {
	return csvio.ExportFilename(s.cfg.Collection.Name, s.now())
}

// EnrichAll enriches every incomplete record in the collection and persists
// the result in one write. It requires a TMDB credential.
func (s *Service) EnrichAll(ctx context.Context, progress func(processed, total int)) (enrich.Summary, error) {
	lookupFn, err := s.resolveLookup(ctx, "enrich")
	if err != nil {
		return enrich.Summary{}, err
	}

	if err := s.store.AcquireLock(); err != nil {
		return enrich.Summary{}, Wrap(ErrConflict, "enrich", "", err)
	}
	defer func() {
		if err := s.store.ReleaseLock(); err != nil {
			s.logger.Warn("releasing collection lock failed", logging.Error(err))
		}
	}()

	records, version, err := s.store.LoadRecords(ctx)
	if err != nil {
		return enrich.Summary{}, err
	}

	summary, err := enrich.Run(ctx, records, lookupFn, s.enrichOptions(progress), s.logger)
	if err != nil {
		return summary, err
	}
	if !summary.Changed() {
		return summary, nil
	}
	if err := s.save(ctx, records, version, "enrich"); err != nil {
		return summary, err
	}
	return summary, nil
}

// SetAPIKey validates and stores the TMDB credential.
func (s *Service) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if !config.ValidAPIKey(key) {
		return Wrap(ErrValidation, "apikey", "a TMDB api key is 32 alphanumeric characters", nil)
	}
	return s.store.SetAPIKey(ctx, key)
}

// ClearAPIKey removes the stored TMDB credential.
func (s *Service) ClearAPIKey(ctx context.Context) error {
	return s.store.ClearAPIKey(ctx)
}

// APIKeySource reports where the active credential comes from: "config",
// "stored", or "" when none is set.
func (s *Service) APIKeySource(ctx context.Context) (string, error) {
	if s.cfg.TMDB.APIKey != "" {
		return "config", nil
	}
	stored, err := s.store.APIKey(ctx)
	if err != nil {
		return "", err
	}
	if stored != "" {
		return "stored", nil
	}
	return "", nil
}

func (s *Service) enrichOptions(progress func(processed, total int)) enrich.Options {
	return enrich.Options{
		BatchSize:  s.cfg.Enrichment.BatchSize,
		BatchDelay: time.Duration(s.cfg.Enrichment.BatchDelayMS) * time.Millisecond,
		Progress:   progress,
	}
}

// resolveLookup builds the metadata lookup, preferring the config credential
// over the stored one.
func (s *Service) resolveLookup(ctx context.Context, operation string) (enrich.LookupFunc, error) {
	if s.lookup != nil {
		return s.lookup, nil
	}

	key := s.cfg.TMDB.APIKey
	if key == "" {
		stored, err := s.store.APIKey(ctx)
		if err != nil {
			return nil, err
		}
		key = stored
	}
	if key == "" {
		return nil, Wrap(ErrConfiguration, operation,
			"no TMDB api key configured, set one with 'cinevault apikey set'", nil)
	}

	client, err := tmdb.New(key, s.cfg.TMDB.BaseURL, s.cfg.TMDB.Language)
	if err != nil {
		return nil, Wrap(ErrConfiguration, operation, "", err)
	}
	resolver := lookup.New(client, s.cfg.TMDB.ImageBaseURL,
		s.cfg.TMDB.HomeCountry, s.cfg.TMDB.FallbackCountry,
		logging.NewComponentLogger(s.logger, "lookup"))
	return resolver.Lookup, nil
}

func (s *Service) save(ctx context.Context, records []collection.Record, version int64, operation string) error {
	err := s.store.SaveRecords(ctx, records, version)
	if errors.Is(err, store.ErrConflict) {
		return Wrap(ErrConflict, operation, "collection changed underneath this command, rerun it", nil)
	}
	if err != nil {
		return err
	}
	s.logger.Debug("saved collection",
		logging.String("operation", operation),
		logging.Int("records", len(records)))
	return nil
}
