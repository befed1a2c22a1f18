package enrich

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"cinevault/internal/collection"
	"cinevault/internal/logging"
)

// LookupFunc resolves a title to detail fields. It never fails; lookups
// that find nothing return all-absent details.
type LookupFunc func(ctx context.Context, title string) collection.Details

// Options tune the batch schedule.
type Options struct {
	// BatchSize caps how many lookups run concurrently. Values below one
	// fall back to DefaultBatchSize.
	BatchSize int
	// BatchDelay is the pause between consecutive batches. There is no
	// pause before the first batch or after the last.
	BatchDelay time.Duration
	// Progress, when set, is called after each record finishes with the
	// running count of processed records and the total selected.
	Progress func(processed, total int)
}

// Defaults match the pacing the metadata API tolerates comfortably.
const (
	DefaultBatchSize  = 8
	DefaultBatchDelay = 1200 * time.Millisecond
)

// Summary counts what a run touched, per field.
type Summary struct {
	Selected  int
	Records   int
	Posters   int
	Directors int
	Years     int
	Countries int
}

// Changed reports whether the run updated anything.
func (s Summary) Changed() bool {
	return s.Records > 0
}

// Run enriches every incomplete record in records in place and reports what
// changed. Records already holding all four detail fields are skipped
// without any lookup; when nothing is incomplete the function returns
// immediately and never touches the network. Cancelling ctx stops the run
// between batches with the work so far kept.
func Run(ctx context.Context, records []collection.Record, lookup LookupFunc, opts Options, logger *slog.Logger) (Summary, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	batchSize := opts.BatchSize
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	var pending []int
	for i := range records {
		if records[i].Incomplete() {
			pending = append(pending, i)
		}
	}

	summary := Summary{Selected: len(pending)}
	if len(pending) == 0 {
		logger.Info("collection already enriched, nothing to do")
		return summary, nil
	}

	logger.Info("starting enrichment",
		logging.Int("records", len(pending)),
		logging.Int("batch_size", batchSize))

	processed := 0
	for start := 0; start < len(pending); start += batchSize {
		if start > 0 && opts.BatchDelay > 0 {
			select {
			case <-time.After(opts.BatchDelay):
			case <-ctx.Done():
				return summary, ctx.Err()
			}
		} else if err := ctx.Err(); err != nil {
			return summary, err
		}

		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		details := make([]collection.Details, len(batch))
		var wg sync.WaitGroup
		for slot, index := range batch {
			wg.Add(1)
			go func(slot, index int) {
				defer wg.Done()
				details[slot] = lookup(ctx, records[index].Title)
			}(slot, index)
		}
		wg.Wait()

		// Merges stay sequential so the slice is only written from here.
		for slot, index := range batch {
			merged, changed := collection.MergeFetchedDetails(records[index], details[slot])
			records[index] = merged
			if changed.Any() {
				summary.Records++
			}
			if changed.Cover {
				summary.Posters++
			}
			if changed.Director {
				summary.Directors++
			}
			if changed.Year {
				summary.Years++
			}
			if changed.Country {
				summary.Countries++
			}
			processed++
			if opts.Progress != nil {
				opts.Progress(processed, len(pending))
			}
		}

		logger.Debug("batch complete",
			logging.Int("processed", processed),
			logging.Int("total", len(pending)))
	}

	logger.Info("enrichment finished",
		logging.Int("updated", summary.Records),
		logging.Int("posters", summary.Posters),
		logging.Int("directors", summary.Directors),
		logging.Int("years", summary.Years),
		logging.Int("countries", summary.Countries))
	return summary, nil
}
