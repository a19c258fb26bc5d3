package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/orders-intake/constants"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

var ledgerColumns = []string{
	"invoice_id", "line_no", "invoice_date", "code", "name", "quantity", "discount_pct",
	"unit_price_ex_tax", "line_total", "client_name", "client_id", "phone", "email", "tier", "score",
}

// LedgerRepository is the append-only order ledger.
type LedgerRepository interface {
	Append(ctx context.Context, lines []entity.LedgerLine) error
	List(ctx context.Context, from, to *time.Time) ([]entity.LedgerLine, error)
	ListByEmail(ctx context.Context, email string) ([]entity.LedgerLine, error)
}

type ledgerRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewLedgerRepository(db *DB, logger *slog.Logger) LedgerRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ledgerRepository{db: db, logger: logger}
}

// Append writes all lines of an invoice atomically.
func (r *ledgerRepository) Append(ctx context.Context, lines []entity.LedgerLine) error {
	if len(lines) == 0 {
		return nil
	}
	ins := r.db.builder().Insert(tableLedger).Columns(ledgerColumns...)
	for _, l := range lines {
		ins.Values(
			l.InvoiceID, l.LineNo, l.Date.UTC(), l.Code, l.Name, l.Quantity, l.DiscountPct,
			l.UnitPriceExTax, l.LineTotal, l.ClientName, l.ClientID, l.Phone, l.Email, string(l.Tier), l.Score,
		)
	}
	query, args := ins.Query()
	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.Error("failed to append ledger lines", "invoice_id", lines[0].InvoiceID, "count", len(lines), "error", err)
			return fmt.Errorf("append ledger: %w", err)
		}
		return nil
	})
}

// List returns lines whose invoice date falls in [from, to]; nil bounds are open.
func (r *ledgerRepository) List(ctx context.Context, from, to *time.Time) ([]entity.LedgerLine, error) {
	var preds []*entsql.Predicate
	if from != nil {
		preds = append(preds, entsql.GTE("invoice_date", from.UTC()))
	}
	if to != nil {
		preds = append(preds, entsql.LTE("invoice_date", to.UTC()))
	}
	return r.query(ctx, preds...)
}

func (r *ledgerRepository) ListByEmail(ctx context.Context, email string) ([]entity.LedgerLine, error) {
	return r.query(ctx, entsql.EQ("email", email))
}

func (r *ledgerRepository) query(ctx context.Context, preds ...*entsql.Predicate) ([]entity.LedgerLine, error) {
	b := r.db.builder()
	sel := b.Select(ledgerColumns...).From(b.Table(tableLedger))
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	query, args := sel.OrderBy("invoice_date", "invoice_id", "line_no").Query()

	rows, err := r.db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list ledger", "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []entity.LedgerLine
	for rows.Next() {
		var (
			l    entity.LedgerLine
			tier string
		)
		if err := rows.Scan(
			&l.InvoiceID, &l.LineNo, &l.Date, &l.Code, &l.Name, &l.Quantity, &l.DiscountPct,
			&l.UnitPriceExTax, &l.LineTotal, &l.ClientName, &l.ClientID, &l.Phone, &l.Email, &tier, &l.Score,
		); err != nil {
			return nil, fmt.Errorf("scan ledger line: %w", err)
		}
		l.Tier = constants.Tier(tier)
		out = append(out, l)
	}
	return out, rows.Err()
}
