package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/orders-intake/internal/common"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

var customerColumns = []string{
	"id", "name", "document_id", "email", "phone", "birthday",
	"purchases", "total_spent", "average_ticket", "unique_products", "frequency_days",
	"first_purchase", "last_purchase", "created_at", "updated_at",
}

type CustomerRepository interface {
	GetByEmail(ctx context.Context, email string) (*entity.Customer, error)
	Create(ctx context.Context, c *entity.Customer) error
	Update(ctx context.Context, c *entity.Customer) error
	List(ctx context.Context) ([]*entity.Customer, error)
}

type customerRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewCustomerRepository(db *DB, logger *slog.Logger) CustomerRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &customerRepository{db: db, logger: logger}
}

// GetByEmail returns common.ErrNotFound when no customer has that email.
func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	b := r.db.builder()
	query, args := b.Select(customerColumns...).
		From(b.Table(tableCustomers)).
		Where(entsql.EQ("email", strings.ToLower(email))).
		Query()
	c, err := scanCustomer(r.db.SQL.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get customer", "email", email, "error", err)
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) Create(ctx context.Context, c *entity.Customer) error {
	now := time.Now().UTC()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Email = strings.ToLower(c.Email)
	c.CreatedAt, c.UpdatedAt = now, now

	s := c.Stats
	query, args := r.db.builder().Insert(tableCustomers).
		Columns(customerColumns...).
		Values(c.ID, c.Name, c.DocumentID, c.Email, c.Phone, c.Birthday,
			s.Purchases, s.TotalSpent, s.AverageTicket, s.UniqueProducts, s.FrequencyDays,
			nullTime(s.FirstPurchase), nullTime(s.LastPurchase), c.CreatedAt, c.UpdatedAt).
		Query()
	if _, err := r.db.SQL.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to create customer", "email", c.Email, "error", err)
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

// Update overwrites profile and stats of the customer with c.ID.
func (r *customerRepository) Update(ctx context.Context, c *entity.Customer) error {
	c.UpdatedAt = time.Now().UTC()
	s := c.Stats
	query, args := r.db.builder().Update(tableCustomers).
		Set("name", c.Name).
		Set("document_id", c.DocumentID).
		Set("phone", c.Phone).
		Set("birthday", c.Birthday).
		Set("purchases", s.Purchases).
		Set("total_spent", s.TotalSpent).
		Set("average_ticket", s.AverageTicket).
		Set("unique_products", s.UniqueProducts).
		Set("frequency_days", s.FrequencyDays).
		Set("first_purchase", nullTime(s.FirstPurchase)).
		Set("last_purchase", nullTime(s.LastPurchase)).
		Set("updated_at", c.UpdatedAt).
		Where(entsql.EQ("id", c.ID)).
		Query()
	res, err := r.db.SQL.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to update customer", "id", c.ID, "error", err)
		return fmt.Errorf("update customer: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *customerRepository) List(ctx context.Context) ([]*entity.Customer, error) {
	b := r.db.builder()
	query, args := b.Select(customerColumns...).From(b.Table(tableCustomers)).OrderBy("name").Query()
	rows, err := r.db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list customers", "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*entity.Customer, error) {
	var (
		c           entity.Customer
		first, last sql.NullTime
	)
	s := &c.Stats
	if err := row.Scan(&c.ID, &c.Name, &c.DocumentID, &c.Email, &c.Phone, &c.Birthday,
		&s.Purchases, &s.TotalSpent, &s.AverageTicket, &s.UniqueProducts, &s.FrequencyDays,
		&first, &last, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if first.Valid {
		s.FirstPurchase = &first.Time
	}
	if last.Valid {
		s.LastPurchase = &last.Time
	}
	return &c, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
