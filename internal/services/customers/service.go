package customers

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/orders-intake/constants"
	"github.com/joseph-ayodele/orders-intake/internal/common"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

// Store persists customer profiles.
type Store interface {
	GetByEmail(ctx context.Context, email string) (*entity.Customer, error)
	Create(ctx context.Context, c *entity.Customer) error
	Update(ctx context.Context, c *entity.Customer) error
	List(ctx context.Context) ([]*entity.Customer, error)
}

// History reads a customer's ledger lines.
type History interface {
	ListByEmail(ctx context.Context, email string) ([]entity.LedgerLine, error)
}

// Service keeps customer profiles in step with the order ledger.
type Service struct {
	store   Store
	history History
	logger  *slog.Logger
}

func NewService(store Store, history History, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, history: history, logger: logger}
}

// CreateRequest represents customer creation parameters.
type CreateRequest struct {
	Name       string
	DocumentID string
	Email      string
	Phone      string
	Birthday   string
}

// Create registers a customer with empty stats.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*entity.Customer, error) {
	v := common.NewValidator()
	v.Field("name", req.Name, common.Required, common.MinLen(constants.MinClientNameLen))
	v.Field("email", req.Email, common.Required, common.Email)
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}

	c := &entity.Customer{
		Name:       strings.TrimSpace(req.Name),
		DocumentID: strings.TrimSpace(req.DocumentID),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:      strings.TrimSpace(req.Phone),
		Birthday:   strings.TrimSpace(req.Birthday),
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, common.InternalErrorf("create customer: %v", err)
	}
	s.logger.Info("customer created successfully", "customer_id", c.ID, "email", c.Email)
	return c, nil
}

func (s *Service) Get(ctx context.Context, email string) (*entity.Customer, error) {
	return s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Service) List(ctx context.Context) ([]*entity.Customer, error) {
	return s.store.List(ctx)
}

// RecordOrder creates or refreshes the profile of the customer who placed o.
// Orders without a real email are skipped and return nil, nil.
// Call it after the order's ledger lines are stored so the stats include them.
func (s *Service) RecordOrder(ctx context.Context, o entity.OrderExtraction) (*entity.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(o.Contact.Email))
	if email == "" || email == constants.EmailPlaceholder || !common.IsValidEmail(email) {
		s.logger.Debug("customers.skip", "reason", "no usable email")
		return nil, nil
	}

	c, err := s.store.GetByEmail(ctx, email)
	isNew := errors.Is(err, common.ErrNotFound)
	if err != nil && !isNew {
		return nil, err
	}
	if isNew {
		c = &entity.Customer{Email: email}
	}
	mergeProfile(c, o)

	lines, err := s.history.ListByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	c.Stats = ComputeStats(lines)

	if isNew {
		err = s.store.Create(ctx, c)
	} else {
		err = s.store.Update(ctx, c)
	}
	if err != nil {
		s.logger.Error("customers.upsert_failed", "email", email, "error", err)
		return nil, err
	}
	s.logger.Info("customers.upsert",
		"customer_id", c.ID,
		"new", isNew,
		"purchases", c.Stats.Purchases,
	)
	return c, nil
}

// mergeProfile copies real values from the order; sentinels never overwrite stored data.
func mergeProfile(c *entity.Customer, o entity.OrderExtraction) {
	if o.ClientName != "" && o.ClientName != constants.DefaultClientName {
		c.Name = o.ClientName
	}
	if c.Name == "" {
		c.Name = constants.DefaultClientName
	}
	if o.ClientID != "" {
		c.DocumentID = o.ClientID
	}
	if o.Contact.Phone != "" && o.Contact.Phone != constants.PhoneMissing {
		c.Phone = o.Contact.Phone
	}
	if o.Birthday != "" {
		c.Birthday = o.Birthday
	}
}

// ComputeStats derives purchase statistics from ledger lines.
// A purchase is one invoice; FrequencyDays is the mean gap between distinct purchase days.
func ComputeStats(lines []entity.LedgerLine) entity.CustomerStats {
	stats := entity.CustomerStats{TotalSpent: decimal.Zero, AverageTicket: decimal.Zero}
	if len(lines) == 0 {
		return stats
	}

	invoices := make(map[string]struct{})
	products := make(map[string]struct{})
	days := make(map[time.Time]struct{})
	var first, last time.Time
	for _, l := range lines {
		invoices[l.InvoiceID] = struct{}{}
		if l.Code != "" && !constants.IsPlaceholderCode(l.Code) {
			products[strings.ToUpper(l.Code)] = struct{}{}
		}
		stats.TotalSpent = stats.TotalSpent.Add(l.LineTotal)

		d := l.Date.UTC()
		days[time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)] = struct{}{}
		if first.IsZero() || d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}

	stats.Purchases = len(invoices)
	stats.UniqueProducts = len(products)
	stats.AverageTicket = stats.TotalSpent.Div(decimal.NewFromInt(int64(stats.Purchases))).Round(2)
	stats.FirstPurchase, stats.LastPurchase = &first, &last

	if len(days) > 1 {
		sorted := make([]time.Time, 0, len(days))
		for d := range days {
			sorted = append(sorted, d)
		}
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
		span := sorted[len(sorted)-1].Sub(sorted[0]).Hours() / 24
		stats.FrequencyDays = int(math.Round(span / float64(len(sorted)-1)))
	}
	return stats
}
