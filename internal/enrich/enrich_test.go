package enrich_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cinevault/internal/collection"
	"cinevault/internal/enrich"
)

func incomplete(title string) collection.Record {
	return collection.NewRecord(title, "2020-01-01", time.Now())
}

func complete(title string) collection.Record {
	record := incomplete(title)
	year := 2010
	record.Year = &year
	record.Director = "Someone"
	record.Country = "Somewhere"
	record.Cover = collection.Cover{State: collection.CoverSet, URL: "https://img.example/x.jpg"}
	return record
}

func fullDetails() collection.Details {
	year := 1999
	return collection.Details{
		PosterURL: "https://img.example/poster.jpg",
		Director:  "A Director",
		Year:      &year,
		Country:   "A Country",
	}
}

func TestRunNothingToDo(t *testing.T) {
	records := []collection.Record{complete("Inception")}
	var calls atomic.Int64
	lookup := func(ctx context.Context, title string) collection.Details {
		calls.Add(1)
		return fullDetails()
	}

	summary, err := enrich.Run(context.Background(), records, lookup, enrich.Options{}, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Selected != 0 || summary.Changed() {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
	if calls.Load() != 0 {
		t.Fatalf("lookup must not run when nothing is incomplete, got %d calls", calls.Load())
	}
}

func TestRunFillsMissingFields(t *testing.T) {
	records := []collection.Record{incomplete("Inception"), complete("Dune")}
	lookup := func(ctx context.Context, title string) collection.Details {
		return fullDetails()
	}

	summary, err := enrich.Run(context.Background(), records, lookup, enrich.Options{}, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Selected != 1 || summary.Records != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Posters != 1 || summary.Directors != 1 || summary.Years != 1 || summary.Countries != 1 {
		t.Fatalf("unexpected field counters: %+v", summary)
	}
	if records[0].Incomplete() {
		t.Fatalf("record not enriched: %+v", records[0])
	}
	if records[1].Director != "Someone" {
		t.Fatalf("complete record must be untouched: %+v", records[1])
	}
}

func TestRunFillOnlyNeverOverwrites(t *testing.T) {
	record := incomplete("Stalker")
	record.Director = "Andrei Tarkovsky"
	records := []collection.Record{record}
	lookup := func(ctx context.Context, title string) collection.Details {
		return fullDetails()
	}

	summary, err := enrich.Run(context.Background(), records, lookup, enrich.Options{}, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if records[0].Director != "Andrei Tarkovsky" {
		t.Fatalf("present field overwritten: %q", records[0].Director)
	}
	if summary.Directors != 0 {
		t.Fatalf("director counter must not tick for a kept field: %+v", summary)
	}
}

func TestRunEmptyLookupCountsNothing(t *testing.T) {
	records := []collection.Record{incomplete("Obscure Title")}
	lookup := func(ctx context.Context, title string) collection.Details {
		return collection.Details{}
	}

	summary, err := enrich.Run(context.Background(), records, lookup, enrich.Options{}, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Selected != 1 || summary.Records != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !records[0].Incomplete() {
		t.Fatalf("record should remain incomplete: %+v", records[0])
	}
}

func TestRunBatchesBoundConcurrency(t *testing.T) {
	const batchSize = 3
	records := make([]collection.Record, 10)
	for i := range records {
		records[i] = incomplete("Movie")
	}

	var mu sync.Mutex
	inFlight, peak := 0, 0
	lookup := func(ctx context.Context, title string) collection.Details {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		return fullDetails()
	}

	summary, err := enrich.Run(context.Background(), records, lookup,
		enrich.Options{BatchSize: batchSize}, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Records != len(records) {
		t.Fatalf("expected all records updated, got %+v", summary)
	}
	if peak > batchSize {
		t.Fatalf("concurrency exceeded batch size: peak %d", peak)
	}
}

func TestRunReportsProgress(t *testing.T) {
	records := []collection.Record{incomplete("a"), incomplete("b"), incomplete("c")}
	lookup := func(ctx context.Context, title string) collection.Details {
		return fullDetails()
	}

	var seen []int
	total := 0
	_, err := enrich.Run(context.Background(), records, lookup, enrich.Options{
		BatchSize: 2,
		Progress: func(processed, t int) {
			seen = append(seen, processed)
			total = t
		},
	}, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if total != 3 {
		t.Fatalf("unexpected total: %d", total)
	}
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Fatalf("unexpected progress sequence: %v", seen)
	}
}

func TestRunStopsBetweenBatchesOnCancel(t *testing.T) {
	records := make([]collection.Record, 4)
	for i := range records {
		records[i] = incomplete("Movie")
	}

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int64
	lookup := func(ctx context.Context, title string) collection.Details {
		calls.Add(1)
		return fullDetails()
	}

	summary, err := enrich.Run(ctx, records, lookup, enrich.Options{
		BatchSize:  2,
		BatchDelay: time.Hour,
		Progress: func(processed, total int) {
			if processed == 2 {
				cancel()
			}
		},
	}, nil)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if calls.Load() != 2 {
		t.Fatalf("expected only the first batch to run, got %d lookups", calls.Load())
	}
	if summary.Records != 2 {
		t.Fatalf("first batch results must be kept: %+v", summary)
	}
}
