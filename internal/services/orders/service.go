package orders

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/orders-intake/internal/common"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
	"github.com/joseph-ayodele/orders-intake/internal/services/invoice"
)

// Extractor turns a raw message into a priced order.
type Extractor interface {
	Extract(ctx context.Context, message string) (entity.OrderExtraction, entity.QualityReport, error)
}

// Ledger appends order lines.
type Ledger interface {
	Append(ctx context.Context, lines []entity.LedgerLine) error
}

// CustomerRecorder refreshes the buyer's profile after an order is stored.
type CustomerRecorder interface {
	RecordOrder(ctx context.Context, o entity.OrderExtraction) (*entity.Customer, error)
}

// Observer is notified about persistence outcomes.
type Observer interface {
	OrderSaved()
	LedgerFailed()
	CatalogUnavailable()
}

// Result is what a handled message produced. Saved is false when the order could not be stored;
// the extraction is still returned.
type Result struct {
	InvoiceID string                 `json:"factura,omitempty"`
	Date      time.Time              `json:"fecha"`
	Order     entity.OrderExtraction `json:"pedido"`
	Quality   entity.QualityReport   `json:"calidad"`
	Saved     bool                   `json:"guardado"`
}

// Service extracts orders and records them in the ledger.
type Service struct {
	extractor Extractor
	invoices  invoice.Sequence
	ledger    Ledger
	customers CustomerRecorder
	observer  Observer
	now       func() time.Time
	logger    *slog.Logger
}

// NewService wires the order flow. customers and observer may be nil.
func NewService(extractor Extractor, invoices invoice.Sequence, ledger Ledger, customers CustomerRecorder, observer Observer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		extractor: extractor,
		invoices:  invoices,
		ledger:    ledger,
		customers: customers,
		observer:  observer,
		now:       time.Now,
		logger:    logger,
	}
}

// Handle extracts one message, allocates an invoice id and stores the order.
// The only error is the extractor's (catalog unavailable); storage failures set Saved=false.
func (s *Service) Handle(ctx context.Context, message string) (Result, error) {
	ctx, reqID := common.EnsureRequestID(ctx)
	logger := s.logger.With("req_id", reqID)
	if chat := common.ChatIDFromContext(ctx); chat != "" {
		logger = logger.With("chat_id", chat)
	}

	order, report, err := s.extractor.Extract(ctx, message)
	if err != nil {
		if errors.Is(err, common.ErrCatalogUnavailable) && s.observer != nil {
			s.observer.CatalogUnavailable()
		}
		logger.Error("orders.extract_failed", "error", err)
		return Result{}, err
	}

	res := Result{Date: s.now().UTC(), Order: order, Quality: report}

	id, err := s.invoices.Next(ctx)
	if err != nil {
		logger.Error("orders.invoice_failed", "error", err)
		s.ledgerFailed()
		return res, nil
	}
	res.InvoiceID = id

	if err := s.ledger.Append(ctx, entity.LedgerLines(id, res.Date, order, report)); err != nil {
		logger.Error("orders.ledger.append_failed", "invoice", id, "error", err)
		s.ledgerFailed()
		return res, nil
	}
	res.Saved = true
	if s.observer != nil {
		s.observer.OrderSaved()
	}

	if s.customers != nil {
		if _, err := s.customers.RecordOrder(ctx, order); err != nil {
			logger.Warn("orders.customer_update_failed", "invoice", id, "error", err)
		}
	}

	logger.Info("orders.saved",
		"invoice", id,
		"tier", order.SourceTier,
		"score", report.Score,
		"lines", len(order.LineItems),
		"total", order.Total().String(),
	)
	return res, nil
}

func (s *Service) ledgerFailed() {
	if s.observer != nil {
		s.observer.LedgerFailed()
	}
}

// BatchResult pairs a message index with its outcome.
type BatchResult struct {
	Index  int
	Result Result
	Err    error
}

// HandleBatch runs Handle over messages with at most limit in flight. Results keep input order.
// Per-message failures land in BatchResult.Err; the returned error is only the context's.
func (s *Service) HandleBatch(ctx context.Context, messages []string, limit int) ([]BatchResult, error) {
	if limit <= 0 {
		limit = 1
	}
	out := make([]BatchResult, len(messages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	start := time.Now()
	for i, msg := range messages {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := s.Handle(gctx, msg)
			out[i] = BatchResult{Index: i, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return out, err
	}

	s.logger.Info("orders.batch.done",
		"messages", len(messages),
		"workers", limit,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
