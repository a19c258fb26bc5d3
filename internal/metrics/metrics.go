package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joseph-ayodele/orders-intake/internal/core/pipeline"
)

// Registry owns the service's collectors. It also records pipeline events.
type Registry struct {
	reg            *prometheus.Registry
	Extractions    *prometheus.CounterVec
	TierMisses     *prometheus.CounterVec
	Rejected       prometheus.Counter
	TooShort       prometheus.Counter
	Score          prometheus.Histogram
	LatencySec     prometheus.Histogram
	Saved          prometheus.Counter
	LedgerFailures prometheus.Counter
	CatalogErrors  prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	extractions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_extractions_total",
		Help: "Extractions by winning tier and whether it met its threshold.",
	}, []string{"tier", "accepted"})
	misses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_tier_misses_total",
		Help: "Tier runs that produced nothing.",
	}, []string{"tier"})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_extractions_with_errors_total"})
	tooShort := prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_messages_too_short_total"})
	score := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orders_extraction_score",
		Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
	})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orders_extraction_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})
	saved := prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_saved_total"})
	ledgerFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_ledger_failures_total"})
	catalogErrors := prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_catalog_unavailable_total"})

	r.MustRegister(extractions, misses, rejected, tooShort, score, latency, saved, ledgerFailed, catalogErrors)
	return &Registry{
		reg:            r,
		Extractions:    extractions,
		TierMisses:     misses,
		Rejected:       rejected,
		TooShort:       tooShort,
		Score:          score,
		LatencySec:     latency,
		Saved:          saved,
		LedgerFailures: ledgerFailed,
		CatalogErrors:  catalogErrors,
	}
}

// Record implements pipeline.EventSink.
func (r *Registry) Record(_ context.Context, ev pipeline.Event) {
	accepted := "false"
	if ev.Accepted {
		accepted = "true"
	}
	r.Extractions.WithLabelValues(string(ev.Tier), accepted).Inc()
	for _, a := range ev.Attempts {
		if a.Miss != "" {
			r.TierMisses.WithLabelValues(string(a.Tier)).Inc()
		}
	}
	if len(ev.Errors) > 0 {
		r.Rejected.Inc()
	}
	if ev.TooShort {
		r.TooShort.Inc()
	}
	r.Score.Observe(ev.Score)
	r.LatencySec.Observe(ev.Duration.Seconds())
}

// OrderSaved, LedgerFailed and CatalogUnavailable implement orders.Observer.
func (r *Registry) OrderSaved()         { r.Saved.Inc() }
func (r *Registry) LedgerFailed()       { r.LedgerFailures.Inc() }
func (r *Registry) CatalogUnavailable() { r.CatalogErrors.Inc() }

func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

var _ pipeline.EventSink = (*Registry)(nil)
