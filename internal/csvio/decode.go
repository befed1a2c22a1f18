package csvio

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"cinevault/internal/collection"
	"cinevault/internal/logging"
)

// DecodeResult carries the accepted records and a count of the data rows
// that were rejected (and logged) without failing the decode.
type DecodeResult struct {
	Records  []collection.Record
	Rejected int
}

var leadingYearPattern = regexp.MustCompile(`^\d{4}`)

// Decode parses a CSV export into candidate records. Structural problems
// (no data rows, missing required columns) fail the whole decode; a data row
// missing its title or a parsable rating date is skipped and counted.
// Accepted rows without an exported internal id get a fresh one and
// createdAt set to now.
func Decode(r io.Reader, now time.Time, logger *slog.Logger) (*DecodeResult, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	data, err := io.ReadAll(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	var rows []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("csv needs a header row and at least one data row")
	}

	headers := splitRow(rows[0])
	headerIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, seen := headerIndex[h]; !seen {
			headerIndex[h] = i
		}
	}

	var missing []string
	for _, required := range requiredHeaders {
		if _, ok := headerIndex[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	column := func(fields []string, header string) string {
		index, ok := headerIndex[header]
		if !ok || index >= len(fields) {
			return ""
		}
		return fields[index]
	}

	result := &DecodeResult{}
	for rowNum, row := range rows[1:] {
		fields := splitRow(row)

		title := column(fields, headerTitle)
		ratingDate := column(fields, headerRatingDate)
		if title == "" || ratingDate == "" {
			logger.Warn("skipping csv row with missing title or rating date",
				logging.Int("row", rowNum+2))
			result.Rejected++
			continue
		}
		if _, ok := collection.ParseRatingDate(ratingDate); !ok {
			logger.Warn("skipping csv row with unparsable rating date",
				logging.Int("row", rowNum+2),
				logging.String("rating_date", ratingDate))
			result.Rejected++
			continue
		}

		record := collection.NewRecord(title, ratingDate, now)
		if id := column(fields, headerID); id != "" {
			record.ID = id
		}
		if raw := column(fields, headerRating); raw != "" {
			if rating, err := strconv.ParseFloat(raw, 64); err == nil {
				record.Rating = &rating
			}
		}
		record.Review = column(fields, headerReview)
		if match := leadingYearPattern.FindString(column(fields, headerYear)); match != "" {
			if year, err := strconv.Atoi(match); err == nil {
				record.Year = &year
			}
		}
		record.Country = column(fields, headerCountry)
		record.Link = column(fields, headerLink)
		record.Director = column(fields, headerDirector)
		record.Cover = collection.CoverFromValue(column(fields, headerCoverURL))
		if raw := column(fields, headerCreatedAt); raw != "" {
			if created, err := time.Parse(time.RFC3339, raw); err == nil {
				record.CreatedAt = created
			}
		}
		if raw := column(fields, headerUpdatedAt); raw != "" {
			if updated, err := time.Parse(time.RFC3339, raw); err == nil {
				record.UpdatedAt = &updated
			}
		}

		result.Records = append(result.Records, record)
	}

	return result, nil
}
