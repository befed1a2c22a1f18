package lookup

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"cinevault/internal/collection"
	"cinevault/internal/logging"
	"cinevault/internal/tmdb"
)

// Resolver maps a title to collection details via a TMDB-style source.
type Resolver struct {
	searcher     tmdb.Searcher
	imageBaseURL string
	homeCountry  string
	fallback     string
	logger       *slog.Logger
}

// New creates a Resolver. imageBaseURL prefixes poster paths; homeCountry
// and fallbackCountry steer which production country wins when a movie
// lists several (ISO 3166-1 alpha-2 codes).
func New(searcher tmdb.Searcher, imageBaseURL, homeCountry, fallbackCountry string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		searcher:     searcher,
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
		homeCountry:  strings.ToUpper(strings.TrimSpace(homeCountry)),
		fallback:     strings.ToUpper(strings.TrimSpace(fallbackCountry)),
		logger:       logger,
	}
}

// Lookup resolves the title to whatever details the first search match
// offers. Every failure mode returns all-absent details: the caller merges
// what it gets and moves on.
func (r *Resolver) Lookup(ctx context.Context, title string) collection.Details {
	search, err := r.searcher.SearchMovie(ctx, title)
	if err != nil {
		r.logger.Warn("metadata search failed",
			logging.String("title", title),
			logging.Error(err))
		return collection.Details{}
	}
	if len(search.Results) == 0 {
		r.logger.Debug("no metadata match", logging.String("title", title))
		return collection.Details{}
	}

	match := search.Results[0]
	movie, err := r.searcher.GetMovieDetails(ctx, match.ID)
	if err != nil {
		r.logger.Warn("metadata detail fetch failed",
			logging.String("title", title),
			logging.Int("tmdb_id", int(match.ID)),
			logging.Error(err))
		return collection.Details{}
	}

	return collection.Details{
		PosterURL: r.posterURL(movie.PosterPath),
		Director:  directors(movie.Credits.Crew),
		Year:      releaseYear(movie.ReleaseDate),
		Country:   r.pickCountry(movie.ProductionCountries),
	}
}

func (r *Resolver) posterURL(path string) string {
	if path == "" {
		return ""
	}
	return r.imageBaseURL + path
}

// directors joins every crew member credited as Director, in payload order.
func directors(crew []tmdb.CrewMember) string {
	var names []string
	for _, member := range crew {
		if member.Job == "Director" && member.Name != "" {
			names = append(names, member.Name)
		}
	}
	return strings.Join(names, ", ")
}

func releaseYear(releaseDate string) *int {
	if len(releaseDate) < 4 {
		return nil
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return nil
	}
	return &year
}

// pickCountry prefers the home country, then the fallback, then the first
// listed production country.
func (r *Resolver) pickCountry(countries []tmdb.Country) string {
	if len(countries) == 0 {
		return ""
	}
	for _, code := range []string{r.homeCountry, r.fallback} {
		if code == "" {
			continue
		}
		for _, country := range countries {
			if strings.EqualFold(country.ISO3166, code) {
				return country.Name
			}
		}
	}
	return countries[0].Name
}
