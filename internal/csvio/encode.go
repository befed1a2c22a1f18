package csvio

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"cinevault/internal/collection"
)

// Encode writes the records as a CSV export: a UTF-8 BOM, the fixed header
// row, then one row per record sorted by rating date descending (undated
// records last, original order kept among them).
func Encode(w io.Writer, records []collection.Record) error {
	sorted := make([]collection.Record, len(records))
	copy(sorted, records)
	collection.SortByRatingDateDesc(sorted)

	out := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())

	rows := make([]string, 0, len(sorted)+1)
	rows = append(rows, strings.Join(exportHeaders, ","))
	for _, record := range sorted {
		rows = append(rows, encodeRecord(record))
	}

	if _, err := io.WriteString(out, strings.Join(rows, "\n")+"\n"); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return out.Close()
}

func encodeRecord(r collection.Record) string {
	fields := []string{
		r.Title,
		formatRating(r.Rating),
		r.RatingDate,
		r.Review,
		formatYear(r.Year),
		r.Country,
		r.Link,
		r.Director,
		r.Cover.Value(),
		r.ID,
		formatTime(r.CreatedAt),
		formatTimePtr(r.UpdatedAt),
	}
	for i, field := range fields {
		fields[i] = EncodeField(field)
	}
	return strings.Join(fields, ",")
}

func formatRating(rating *float64) string {
	if rating == nil {
		return ""
	}
	return strconv.FormatFloat(*rating, 'f', -1, 64)
}

func formatYear(year *int) string {
	if year == nil {
		return ""
	}
	return strconv.Itoa(*year)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

// ExportFilename builds the conventional export name: the collection name
// plus the export date.
func ExportFilename(collectionName string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", collectionName, now.Format("2006-01-02"))
}
