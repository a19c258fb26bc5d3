package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/orders-intake/constants"
)

// Attempt records one tier that ran during an extraction.
type Attempt struct {
	Tier  constants.Tier
	Score float64 // zero on a miss
	Miss  string  // reason the tier produced nothing
}

// Event summarizes one extraction run.
type Event struct {
	RequestID string
	Tier      constants.Tier // tier of the returned result
	Score     float64
	Accepted  bool // false when the result was picked as the best of several misses
	TooShort  bool
	Attempts  []Attempt
	Warnings  []string
	Errors    []string
	Duration  time.Duration
}

// EventSink receives one Event per extraction. Implementations must be safe for concurrent use.
type EventSink interface {
	Record(ctx context.Context, ev Event)
}

// LogSink writes events as structured log lines.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Record(_ context.Context, ev Event) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("pipeline.extract.done",
		"req_id", ev.RequestID,
		"tier", ev.Tier,
		"score", ev.Score,
		"accepted", ev.Accepted,
		"too_short", ev.TooShort,
		"attempts", len(ev.Attempts),
		"warnings", len(ev.Warnings),
		"errors", len(ev.Errors),
		"elapsed_ms", ev.Duration.Milliseconds(),
	)
}

// MultiSink fans an event out to every sink in order.
type MultiSink []EventSink

func (m MultiSink) Record(ctx context.Context, ev Event) {
	for _, s := range m {
		if s != nil {
			s.Record(ctx, ev)
		}
	}
}
