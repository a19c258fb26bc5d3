package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

// CatalogRepository stores the product table and serves it as a catalog provider.
type CatalogRepository interface {
	GetCatalog(ctx context.Context) (entity.Catalog, error)
	ReplaceAll(ctx context.Context, c entity.Catalog) error
}

type catalogRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewCatalogRepository(db *DB, logger *slog.Logger) CatalogRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &catalogRepository{db: db, logger: logger}
}

func (r *catalogRepository) GetCatalog(ctx context.Context) (entity.Catalog, error) {
	b := r.db.builder()
	query, args := b.Select("code", "name", "tax_rate_pct", "unit_price").
		From(b.Table(tableProducts)).
		OrderBy("position", "code").
		Query()

	rows, err := r.db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list products", "error", err)
		return nil, err
	}
	defer rows.Close()

	var out entity.Catalog
	for rows.Next() {
		var e entity.CatalogEntry
		if err := rows.Scan(&e.Code, &e.Name, &e.TaxRatePct, &e.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ReplaceAll swaps the whole product table in one transaction, keeping listing order.
func (r *catalogRepository) ReplaceAll(ctx context.Context, c entity.Catalog) error {
	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		b := r.db.builder()
		del, delArgs := b.Delete(tableProducts).Query()
		if _, err := tx.ExecContext(ctx, del, delArgs...); err != nil {
			return fmt.Errorf("clear products: %w", err)
		}
		if len(c) == 0 {
			return nil
		}
		ins := b.Insert(tableProducts).Columns("code", "name", "tax_rate_pct", "unit_price", "position")
		for i, e := range c {
			ins.Values(e.Code, e.Name, e.TaxRatePct, e.UnitPrice, i)
		}
		query, args := ins.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.Error("failed to insert products", "count", len(c), "error", err)
			return fmt.Errorf("insert products: %w", err)
		}
		r.logger.Info("catalog.replaced", "count", len(c))
		return nil
	})
}
