package collection

// Details is a best-effort partial metadata result for one title. Every
// field is independently optional; absent fields are never merged.
type Details struct {
	PosterURL string
	Director  string
	Year      *int
	Country   string
}

// Empty reports whether the lookup produced nothing usable.
func (d Details) Empty() bool {
	return d.PosterURL == "" && d.Director == "" && d.Year == nil && d.Country == ""
}

// ChangedFields reports which enrichable fields a merge filled.
type ChangedFields struct {
	Cover    bool
	Director bool
	Year     bool
	Country  bool
}

// Any reports whether the merge changed the record at all.
func (c ChangedFields) Any() bool {
	return c.Cover || c.Director || c.Year || c.Country
}

// Duplicate reports whether two records describe the same movie: exact
// case-sensitive title match and equal years (both absent counts as equal).
func Duplicate(a, b Record) bool {
	if a.Title != b.Title {
		return false
	}
	if a.Year == nil || b.Year == nil {
		return a.Year == nil && b.Year == nil
	}
	return *a.Year == *b.Year
}

// DedupResult is the outcome of screening import candidates against the
// existing store.
type DedupResult struct {
	ToAdd   []Record
	Skipped int
}

// DedupAgainstStore screens candidates against the existing store only.
// Candidates are not compared with each other, so duplicates within one
// import batch are all kept unless the store already holds a match.
// Input order is preserved in ToAdd.
func DedupAgainstStore(candidates, existing []Record) DedupResult {
	result := DedupResult{}
	for _, candidate := range candidates {
		duplicate := false
		for _, current := range existing {
			if Duplicate(candidate, current) {
				duplicate = true
				break
			}
		}
		if duplicate {
			result.Skipped++
			continue
		}
		result.ToAdd = append(result.ToAdd, candidate)
	}
	return result
}

// MergeFetchedDetails fills the record's enrichable fields from details,
// touching only fields that are currently absent (or, for the cover, absent
// or the legacy placeholder). Populated fields are never overwritten and
// UpdatedAt is left untouched; merging is idempotent.
func MergeFetchedDetails(record Record, details Details) (Record, ChangedFields) {
	out := record
	var changed ChangedFields

	if details.PosterURL != "" && !out.Cover.Filled() {
		out.Cover = Cover{State: CoverSet, URL: details.PosterURL}
		changed.Cover = true
	}
	if details.Director != "" && out.Director == "" {
		out.Director = details.Director
		changed.Director = true
	}
	if details.Year != nil && out.Year == nil {
		year := *details.Year
		out.Year = &year
		changed.Year = true
	}
	if details.Country != "" && out.Country == "" {
		out.Country = details.Country
		changed.Country = true
	}
	return out, changed
}
