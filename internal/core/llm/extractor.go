package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/orders-intake/constants"
	"github.com/joseph-ayodele/orders-intake/internal/common"
	"github.com/joseph-ayodele/orders-intake/internal/core/extract"
	"github.com/joseph-ayodele/orders-intake/internal/core/pricing"
	"github.com/joseph-ayodele/orders-intake/internal/core/resolver"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

const defaultTimeout = 30 * time.Second

// Extractor is the completion-assisted tier. Every failure is returned as an
// error so the caller can treat it as a miss; nothing it returns carries a price
// that did not come from the catalog.
type Extractor struct {
	Client  CompletionClient
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewExtractor(client CompletionClient, timeout time.Duration, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Extractor{Client: client, Timeout: timeout, Logger: logger}
}

// Extract asks the completion service to read text against catalog.
func (e *Extractor) Extract(ctx context.Context, text string, catalog entity.Catalog) (*entity.OrderExtraction, error) {
	if e.Client == nil {
		return nil, fmt.Errorf("%w: no completion client configured", common.ErrCompletion)
	}
	start := time.Now()
	rid := common.RequestIDFromContext(ctx)

	e.Logger.Info("llm.extract.start",
		"req_id", rid,
		"text_len", len(text),
		"catalog_size", len(catalog),
	)

	cctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	raw, err := e.Client.Complete(cctx, BuildPrompt(text, catalog))
	if err != nil {
		e.Logger.Error("llm.extract.completion_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("%w: %w", common.ErrCompletion, err)
	}

	guess, err := e.decode(raw)
	if err != nil {
		e.Logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	out := e.build(text, guess, catalog)
	e.Logger.Info("llm.extract.ok",
		"req_id", rid,
		"items", len(out.LineItems),
		"client", out.ClientName,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// decode pulls the JSON object out of the completion text, sanitizes it and
// validates it against the order schema.
func (e *Extractor) decode(raw string) (OrderGuess, error) {
	doc, err := ExtractJSON(raw)
	if err != nil {
		return OrderGuess{}, err
	}
	cleaned, _, err := NormalizeAndSanitizeJSON(doc, e.Logger)
	if err != nil {
		return OrderGuess{}, err
	}
	if err := ValidateOrderJSON(cleaned); err != nil {
		return OrderGuess{}, fmt.Errorf("schema validation failed: %w", err)
	}
	var g OrderGuess
	if err := json.Unmarshal(cleaned, &g); err != nil {
		return OrderGuess{}, fmt.Errorf("unmarshal order: %w", err)
	}
	if len(g.Products) == 0 {
		return OrderGuess{}, errors.New("completion named no products")
	}
	return g, nil
}

func (e *Extractor) build(text string, g OrderGuess, catalog entity.Catalog) *entity.OrderExtraction {
	r := resolver.New(catalog, resolver.AIOptions())
	items := make([]entity.LineItem, 0, len(g.Products))
	for _, p := range g.Products {
		discount := decimal.NewFromFloat(p.Discount)
		m, ok := r.Resolve(resolver.Query{Code: p.Code, Text: p.Name})
		if !ok {
			e.Logger.Warn("llm.extract.product_unresolved", "code", p.Code, "name", p.Name)
			items = append(items, pricing.Unresolved(p.Code, p.Name, p.Quantity, discount))
			continue
		}
		li := pricing.Price(m.Entry, p.Quantity, discount)
		li.Match = m.Kind
		items = append(items, li)
	}

	out := &entity.OrderExtraction{
		ClientName: constants.DefaultClientName,
		Contact: entity.ContactInfo{
			Phone: constants.PhoneMissing,
			Email: constants.EmailPlaceholder,
		},
		LineItems:  items,
		Birthday:   extract.ParseBirthdayBlock(g.Birthday),
		SourceTier: constants.TierAI,
	}
	if name := strings.TrimSpace(extract.StripID(g.Client)); len([]rune(name)) >= constants.MinClientNameLen &&
		name != constants.DefaultClientName {
		out.ClientName = name
	}
	if id, ok := extract.FindID(text); ok {
		out.ClientID = id
	}
	if phone, ok := extract.FindPhone(g.Phone); ok {
		out.Contact.Phone = phone
	}
	if email := strings.ToLower(strings.TrimSpace(g.Email)); common.IsValidEmail(email) {
		out.Contact.Email = email
	}
	return out
}
