package meetup

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"meetupsync/internal/ics"
	appLog "meetupsync/internal/log"
	"meetupsync/internal/model"
	"meetupsync/internal/store"
)

const defaultHorizon = 90 * 24 * time.Hour

// CalendarSource supplies the raw calendar document.
type CalendarSource interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// EventStore persists normalized events between runs.
type EventStore interface {
	Load() []model.MeetupEvent
	Append(events []model.MeetupEvent) error
}

// Summary reports what one import run did.
type Summary struct {
	Parsed   int // VEVENTs parsed from the calendar
	Expanded int // occurrences after recurrence expansion
	Built    int // normalized events
	Added    int // events accepted by the merge and appended
	Skipped  int // events already present by identity key
}

// Pipeline wires one import run end to end: fetch, parse, expand, sort,
// build, merge, append. It is strictly sequential; events are processed
// one at a time in ascending start-time order and nothing is retried.
type Pipeline struct {
	Source  CalendarSource
	Builder *Builder
	Store   EventStore

	// Horizon is how far ahead recurring events are materialized,
	// counted from the moment Run is called. Zero means 90 days.
	Horizon time.Duration

	// DryRun runs the full pipeline but skips the store append.
	DryRun bool

	Log *appLog.Logger
}

// Run executes one import. Any failure aborts the run with the fields of
// Summary reflecting how far it got.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	runID := uuid.NewString()
	p.Log.Info("import run started", "run_id", runID)

	body, err := p.Source.Fetch(ctx)
	if err != nil {
		return sum, fmt.Errorf("fetch calendar: %w", err)
	}

	parsed, err := ics.ParseICS(body, p.Log)
	if err != nil {
		return sum, err
	}
	sum.Parsed = len(parsed)

	horizon := p.Horizon
	if horizon <= 0 {
		horizon = defaultHorizon
	}
	now := time.Now()
	occs := ics.ExpandOccurrences(parsed, ics.ExpandConfig{
		RangeStart: now,
		RangeEnd:   now.Add(horizon),
	}, p.Log)
	sum.Expanded = len(occs)

	// Ascending start-time order, ties keep calendar order.
	sort.SliceStable(occs, func(i, j int) bool {
		return occs[i].Start.Before(occs[j].Start)
	})

	events := make([]model.MeetupEvent, 0, len(occs))
	for _, occ := range occs {
		ev, err := p.Builder.Build(ctx, occ)
		if err != nil {
			return sum, fmt.Errorf("build event %q: %w", occ.Title, err)
		}
		p.Log.Debug("event built", "run_id", runID, "title", ev.Title, "date", ev.Date)
		events = append(events, ev)
	}
	sum.Built = len(events)

	existing := p.Store.Load()
	accepted := store.Merge(existing, events)
	sum.Added = len(accepted)
	sum.Skipped = sum.Built - sum.Added

	if p.DryRun {
		p.Log.Info("dry run; skipping append", "run_id", runID, "would_add", sum.Added, "skipped", sum.Skipped)
		return sum, nil
	}

	if len(accepted) == 0 {
		p.Log.Info("no new events", "run_id", runID, "skipped", sum.Skipped)
		return sum, nil
	}

	if err := p.Store.Append(accepted); err != nil {
		return sum, fmt.Errorf("append events: %w", err)
	}
	p.Log.Info("events appended", "run_id", runID, "added", sum.Added, "skipped", sum.Skipped)
	return sum, nil
}
