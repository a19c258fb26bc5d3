package invoice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/snowflake"

	"github.com/joseph-ayodele/orders-intake/internal/common"
)

// Sequence hands out invoice ids. Implementations must be safe for concurrent use
// and never return the same id twice.
type Sequence interface {
	Next(ctx context.Context) (string, error)
}

// Counter is the persistent counter a DBSequence draws from.
type Counter interface {
	Next(ctx context.Context, name string) (int64, error)
}

const counterName = "invoice"

// DBSequence formats a transactional counter as Prefix plus a zero-padded number, e.g. WKY00001.
type DBSequence struct {
	counter Counter
	prefix  string
	width   int
	logger  *slog.Logger
}

func NewDBSequence(counter Counter, prefix string, width int, logger *slog.Logger) *DBSequence {
	if logger == nil {
		logger = slog.Default()
	}
	if width <= 0 {
		width = 5
	}
	return &DBSequence{counter: counter, prefix: prefix, width: width, logger: logger}
}

func (s *DBSequence) Next(ctx context.Context) (string, error) {
	n, err := s.counter.Next(ctx, counterName)
	if err != nil {
		s.logger.Error("invoice.sequence.failed", "error", err)
		return "", fmt.Errorf("%w: next invoice number: %w", common.ErrDatabase, err)
	}
	return fmt.Sprintf("%s%0*d", s.prefix, s.width, n), nil
}

// SnowflakeSequence needs no shared storage; ids are unique per node id.
type SnowflakeSequence struct {
	node   *snowflake.Node
	prefix string
}

func NewSnowflakeSequence(nodeID int64, prefix string) (*SnowflakeSequence, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, common.NewAppError("CONFIG_ERROR", "invoice snowflake node", err)
	}
	return &SnowflakeSequence{node: node, prefix: prefix}, nil
}

func (s *SnowflakeSequence) Next(context.Context) (string, error) {
	return s.prefix + s.node.Generate().String(), nil
}

// New builds the sequence selected by cfg.Generator.
func New(cfg common.InvoiceConfig, counter Counter, logger *slog.Logger) (Sequence, error) {
	switch cfg.Generator {
	case "", "db":
		if counter == nil {
			return nil, fmt.Errorf("%w: db invoice sequence needs a counter", common.ErrInvalidInput)
		}
		return NewDBSequence(counter, cfg.Prefix, cfg.Width, logger), nil
	case "snowflake":
		return NewSnowflakeSequence(cfg.NodeID, cfg.Prefix)
	default:
		return nil, fmt.Errorf("%w: invoice generator %q", common.ErrInvalidInput, cfg.Generator)
	}
}
