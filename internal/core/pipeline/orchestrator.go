package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/joseph-ayodele/orders-intake/constants"
	"github.com/joseph-ayodele/orders-intake/internal/common"
	"github.com/joseph-ayodele/orders-intake/internal/core/extract"
	"github.com/joseph-ayodele/orders-intake/internal/core/normalize"
	"github.com/joseph-ayodele/orders-intake/internal/core/quality"
	"github.com/joseph-ayodele/orders-intake/internal/core/resolver"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

// CatalogProvider returns the current read-only catalog snapshot.
type CatalogProvider interface {
	GetCatalog(ctx context.Context) (entity.Catalog, error)
}

// AIExtractor is the completion-assisted tier; see llm.Extractor.
type AIExtractor interface {
	Extract(ctx context.Context, text string, catalog entity.Catalog) (*entity.OrderExtraction, error)
}

// Thresholds decide when a tier's result is accepted.
type Thresholds struct {
	HighQuality        float64
	AIAccept           float64
	MinMessageLength   int
	EmergencyScanLimit int
}

func ThresholdsFromConfig(c common.ExtractionConfig) Thresholds {
	return Thresholds{
		HighQuality:        c.HighQuality,
		AIAccept:           c.AIAccept,
		MinMessageLength:   c.MinMessageLength,
		EmergencyScanLimit: c.EmergencyScanLimit,
	}
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		HighQuality:        constants.HighQualityScore,
		AIAccept:           constants.AIAcceptScore,
		MinMessageLength:   constants.MinMessageLength,
		EmergencyScanLimit: constants.EmergencyScanLimit,
	}
}

// Orchestrator runs the extraction tiers in escalation order:
// structured, then AI (when configured), then emergency.
// It owns no mutable state and may serve concurrent requests.
type Orchestrator struct {
	logger     *slog.Logger
	catalog    CatalogProvider
	structured *extract.Structured
	ai         AIExtractor
	emergency  *extract.Emergency
	sink       EventSink
	th         Thresholds
}

// NewOrchestrator wires the tiers. ai and sink may be nil.
func NewOrchestrator(logger *slog.Logger, catalog CatalogProvider, ai AIExtractor, sink EventSink, th Thresholds) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = LogSink{Logger: logger}
	}
	def := DefaultThresholds()
	if th.HighQuality <= 0 {
		th.HighQuality = def.HighQuality
	}
	if th.AIAccept <= 0 {
		th.AIAccept = def.AIAccept
	}
	if th.MinMessageLength <= 0 {
		th.MinMessageLength = def.MinMessageLength
	}
	return &Orchestrator{
		logger:     logger,
		catalog:    catalog,
		structured: extract.NewStructured(logger),
		ai:         ai,
		emergency:  extract.NewEmergency(th.EmergencyScanLimit),
		sink:       sink,
		th:         th,
	}
}

type candidate struct {
	order  entity.OrderExtraction
	report entity.QualityReport
}

// Extract fetches the catalog and runs the tiers over message.
// The only error is common.ErrCatalogUnavailable; every other problem shows up
// in the returned QualityReport.
func (o *Orchestrator) Extract(ctx context.Context, message string) (entity.OrderExtraction, entity.QualityReport, error) {
	if o.catalog == nil {
		return entity.OrderExtraction{}, entity.QualityReport{}, fmt.Errorf("%w: no catalog provider", common.ErrCatalogUnavailable)
	}
	catalog, err := o.catalog.GetCatalog(ctx)
	if err != nil {
		o.logger.Error("pipeline.catalog.fetch_failed", "req_id", common.RequestIDFromContext(ctx), "error", err)
		return entity.OrderExtraction{}, entity.QualityReport{}, fmt.Errorf("%w: %w", common.ErrCatalogUnavailable, err)
	}
	return o.ExtractWithCatalog(ctx, message, catalog)
}

// ExtractWithCatalog runs the tiers against a caller-provided catalog snapshot.
// When no tier clears its bar the result is the highest-scoring attempt, with
// the earliest tier keeping ties. Emergency always runs in that case, so it is
// the floor and an earlier attempt replaces it only by scoring at least as well.
func (o *Orchestrator) ExtractWithCatalog(ctx context.Context, message string, catalog entity.Catalog) (entity.OrderExtraction, entity.QualityReport, error) {
	if len(catalog) == 0 {
		return entity.OrderExtraction{}, entity.QualityReport{}, fmt.Errorf("%w: catalog is empty", common.ErrCatalogUnavailable)
	}
	ctx, rid := common.EnsureRequestID(ctx)
	start := time.Now()
	ev := Event{RequestID: rid}

	text := normalize.Normalize(message)
	if utf8.RuneCountInString(text) < o.th.MinMessageLength {
		x := o.emergency.Extract(text, catalog)
		q := quality.Score(x)
		q.Warnings = append(q.Warnings, quality.WarnTooShort)
		ev.TooShort = true
		ev.Attempts = append(ev.Attempts, Attempt{Tier: constants.TierEmergency, Score: q.Score})
		o.finish(ctx, &ev, candidate{order: x, report: q}, false, start)
		return x, q, nil
	}

	var cands []candidate
	consider := func(tier constants.Tier, x *entity.OrderExtraction, err error, accept float64) (candidate, bool) {
		if err != nil {
			o.logger.Debug("pipeline.tier.miss", "req_id", rid, "tier", tier, "reason", err)
			ev.Attempts = append(ev.Attempts, Attempt{Tier: tier, Miss: err.Error()})
			return candidate{}, false
		}
		c := candidate{order: *x, report: quality.Score(*x)}
		ev.Attempts = append(ev.Attempts, Attempt{Tier: tier, Score: c.report.Score})
		cands = append(cands, c)
		return c, c.report.Score >= accept
	}

	r := resolver.New(catalog, resolver.StructuredOptions())
	x, err := o.guard(rid, constants.TierStructured, func() (*entity.OrderExtraction, error) {
		return o.structured.Extract(text, r)
	})
	if c, ok := consider(constants.TierStructured, x, err, o.th.HighQuality); ok {
		o.finish(ctx, &ev, c, true, start)
		return c.order, c.report, nil
	}

	if o.ai != nil {
		x, err := o.guard(rid, constants.TierAI, func() (*entity.OrderExtraction, error) {
			return o.ai.Extract(ctx, text, catalog)
		})
		if c, ok := consider(constants.TierAI, x, err, o.th.AIAccept); ok {
			o.finish(ctx, &ev, c, true, start)
			return c.order, c.report, nil
		}
	}

	em := o.emergency.Extract(text, catalog)
	emq := quality.Score(em)
	ev.Attempts = append(ev.Attempts, Attempt{Tier: constants.TierEmergency, Score: emq.Score})
	cands = append(cands, candidate{order: em, report: emq})

	// Highest score wins; the earliest tier keeps ties.
	best := cands[0]
	for _, c := range cands[1:] {
		if c.report.Score > best.report.Score {
			best = c
		}
	}
	o.finish(ctx, &ev, best, false, start)
	return best.order, best.report, nil
}

// guard turns a panicking tier into a miss.
func (o *Orchestrator) guard(rid string, tier constants.Tier, fn func() (*entity.OrderExtraction, error)) (x *entity.OrderExtraction, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			o.logger.Error("pipeline.tier.panic", "req_id", rid, "tier", tier, "panic", rec)
			x, err = nil, fmt.Errorf("%s tier panicked: %v", tier, rec)
		}
	}()
	x, err = fn()
	if err == nil && x == nil {
		err = fmt.Errorf("%s tier returned no result", tier)
	}
	return x, err
}

func (o *Orchestrator) finish(ctx context.Context, ev *Event, c candidate, accepted bool, start time.Time) {
	ev.Tier = c.order.SourceTier
	ev.Score = c.report.Score
	ev.Accepted = accepted
	ev.Warnings = c.report.Warnings
	ev.Errors = c.report.Errors
	ev.Duration = time.Since(start)
	o.sink.Record(ctx, *ev)
}
