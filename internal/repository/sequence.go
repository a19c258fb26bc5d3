package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	entsql "entgo.io/ent/dialect/sql"
)

// SequenceRepository hands out strictly increasing numbers per named counter.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
	Current(ctx context.Context, name string) (int64, error)
}

type sequenceRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewSequenceRepository(db *DB, logger *slog.Logger) SequenceRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &sequenceRepository{db: db, logger: logger}
}

// Next increments the counter and returns the new value. The first call returns 1.
// The upsert and read share one transaction, so concurrent callers never see the same value.
func (r *sequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	upsert := r.db.rebind(`INSERT INTO sequences (name, value) VALUES (?, 1)
		ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1`)

	var value int64
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, upsert, name); err != nil {
			return fmt.Errorf("bump sequence %s: %w", name, err)
		}
		query, args := r.selectValue(name)
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
			return fmt.Errorf("read sequence %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("failed to advance sequence", "name", name, "error", err)
		return 0, err
	}
	return value, nil
}

// Current returns the last value handed out, or 0 if the counter was never used.
func (r *sequenceRepository) Current(ctx context.Context, name string) (int64, error) {
	query, args := r.selectValue(name)
	var value int64
	switch err := r.db.SQL.QueryRowContext(ctx, query, args...).Scan(&value); {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, err
	}
	return value, nil
}

func (r *sequenceRepository) selectValue(name string) (string, []any) {
	b := r.db.builder()
	return b.Select("value").From(b.Table(tableSequences)).Where(entsql.EQ("name", name)).Query()
}
