package collection

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PlaceholderCoverURL is the legacy sentinel written by older exports for
// records whose poster was never fetched. It is distinct from an absent
// cover: placeholder means "not fetched yet", absent means the user cleared
// the field.
const PlaceholderCoverURL = "data:image/svg+xml;base64,PHN2ZyB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciIHdpZHRoPSIyMDAiIGhlaWdodD0iMjAwIiB2aWV3Qm94PSIwIDAgMjQgMjQiIGZpbGw9IiNFNkYyRkYiIHN0cm9rZT0iIzRhNGI2ZSIgc3Ryb2tlLXdpZHRoPSIxIj48cmVjdCB3aWR0aD0iMTgiIGhlaWdodD0iMTgiIHg9IjMiIHk9IjMiIHJ4PSIyIiByeT0iMiIgc3Ryb2tlPSIjOWVhNmJjIiBmaWxsPSIjMmEyYjQ1Ii8+PHBhdGggZD0iTTMgMTJsNi02IDYgNi0zIDMiIGZpbGw9Im5vbmUiIHN0cm9rZS1saW5lY2FwPSJyb3VuZCIgc3Ryb2tlLWxpbmVqb2luPSJyb3VuZCIgc3Ryb2tlPSIjOWVhNmJjIi8+PGNpcmNsZSBjeD0iOSIgY3k9IjkiIHI9IjEiIGZpbGw9IiM5ZWE2YmMiLz48dGV4dCB4PSI1MHUiIHk9IjcwJSIgZm9udC1mYW1pbHk9InNhbnMtc2VyaWYiIGZvbnQtc2l6ZT0iMTZweCIgZmlsbD0iI2U2ZjJmZiIgdGV4dC1hbmNob3I9Im1pZGRsZSI+Tm8gSW1hZ2U8L3RleHQ+PC9zdmc+"

// CoverState distinguishes a missing cover, the legacy "not fetched yet"
// placeholder, and a real URL.
type CoverState string

const (
	CoverUnset       CoverState = "unset"
	CoverPlaceholder CoverState = "placeholder"
	CoverSet         CoverState = "set"
)

// Cover is the three-state cover URL representation.
type Cover struct {
	State CoverState `json:"state"`
	URL   string     `json:"url,omitempty"`
}

// CoverFromValue classifies a raw cover URL string as read from CSV or
// legacy data.
func CoverFromValue(value string) Cover {
	switch value {
	case "":
		return Cover{State: CoverUnset}
	case PlaceholderCoverURL:
		return Cover{State: CoverPlaceholder}
	default:
		return Cover{State: CoverSet, URL: value}
	}
}

// Value returns the raw string form used in CSV columns.
func (c Cover) Value() string {
	switch c.State {
	case CoverSet:
		return c.URL
	case CoverPlaceholder:
		return PlaceholderCoverURL
	default:
		return ""
	}
}

// Filled reports whether a real cover URL is present. Unset and placeholder
// covers are both enrichment-eligible.
func (c Cover) Filled() bool {
	return c.State == CoverSet
}

// Record is one movie in the collection.
type Record struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Year       *int       `json:"year,omitempty"`
	RatingDate string     `json:"ratingDate,omitempty"`
	Rating     *float64   `json:"rating,omitempty"`
	Review     string     `json:"review,omitempty"`
	Director   string     `json:"director,omitempty"`
	Country    string     `json:"country,omitempty"`
	Cover      Cover      `json:"cover"`
	Link       string     `json:"link,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// NewRecord creates a record with a fresh identifier and creation timestamp.
func NewRecord(title, ratingDate string, now time.Time) Record {
	return Record{
		ID:         uuid.NewString(),
		Title:      strings.TrimSpace(title),
		RatingDate: strings.TrimSpace(ratingDate),
		CreatedAt:  now.UTC(),
	}
}

// Incomplete reports whether the record is missing any enrichable field and
// therefore qualifies for a metadata lookup.
func (r *Record) Incomplete() bool {
	return !r.Cover.Filled() || r.Director == "" || r.Year == nil || r.Country == ""
}

var ratingDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
	"2006-1-2",
}

// ParseRatingDate parses the day-granularity rating date formats accepted on
// import. The second return value is false for absent or unparsable values.
func ParseRatingDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range ratingDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortByRatingDateDesc orders records newest rating date first. Records with
// an absent or unparsable date sort after all dated records; their relative
// order is preserved.
func SortByRatingDateDesc(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, oki := ParseRatingDate(records[i].RatingDate)
		tj, okj := ParseRatingDate(records[j].RatingDate)
		switch {
		case oki && !okj:
			return true
		case !oki:
			return false
		default:
			return ti.After(tj)
		}
	})
}
