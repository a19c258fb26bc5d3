package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

// LedgerReader lists ledger lines in an inclusive date window; nil bounds are open.
type LedgerReader interface {
	List(ctx context.Context, from, to *time.Time) ([]entity.LedgerLine, error)
}

// Service produces XLSX bytes for ledger exports.
type Service struct {
	ledger LedgerReader
	logger *slog.Logger
}

func NewService(ledger LedgerReader, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ledger: ledger, logger: logger}
}

// Sheet is the name of the exported worksheet.
const Sheet = "Pedidos"

var headers = []string{
	"Factura",
	"Fecha",
	"Codigo",
	"Articulo",
	"Cantidad",
	"Descuento %",
	"Precio sin IVA",
	"Total",
	"Cliente",
	"Cedula",
	"Telefono",
	"Email",
	"Tier",
	"Score",
}

// LedgerXLSX returns a workbook with one row per ledger line.
// If only from is provided -> from..today (inclusive).
// If only to is provided   -> beginning..to (inclusive).
// If neither is provided   -> the whole ledger.
func (s *Service) LedgerXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	var fromDate, toDate *time.Time
	if from != nil {
		f := dayStart(*from)
		fromDate = &f
	}
	if to != nil {
		t := dayEnd(*to)
		toDate = &t
	}
	if fromDate != nil && toDate == nil {
		t := dayEnd(time.Now().UTC())
		toDate = &t
	}

	lines, err := s.ledger.List(ctx, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), Sheet); err != nil {
		return nil, err
	}

	if err := writeRow(f, 1, headers); err != nil {
		return nil, err
	}
	for i, l := range lines {
		total, _ := l.LineTotal.Float64()
		unit, _ := l.UnitPriceExTax.Float64()
		disc, _ := l.DiscountPct.Float64()
		row := []any{
			l.InvoiceID,
			l.Date.UTC().Format("2006-01-02"),
			l.Code,
			l.Name,
			l.Quantity,
			disc,
			unit,
			total,
			l.ClientName,
			l.ClientID,
			l.Phone,
			l.Email,
			string(l.Tier),
			l.Score,
		}
		if err := writeRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(Sheet, "A", "B", 12) // invoice, date
	_ = f.SetColWidth(Sheet, "D", "D", 32) // item
	_ = f.SetColWidth(Sheet, "G", "H", 14) // amounts
	_ = f.SetColWidth(Sheet, "I", "I", 28) // client
	_ = f.SetColWidth(Sheet, "L", "L", 28) // email

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(lines),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeRow[T any](f *excelize.File, row int, values []T) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return f.SetSheetRow(Sheet, cell, &vals)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayEnd(t time.Time) time.Time {
	return dayStart(t).Add(24*time.Hour - time.Nanosecond)
}
