package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

// XLSXProvider reads the catalog from a workbook laid out as
// code | name | tax | price, with one header row.
type XLSXProvider struct {
	Path   string
	Sheet  string // empty selects the first sheet
	Logger *slog.Logger
}

func NewXLSXProvider(path, sheet string, logger *slog.Logger) *XLSXProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXProvider{Path: path, Sheet: sheet, Logger: logger}
}

func (p *XLSXProvider) GetCatalog(ctx context.Context) (entity.Catalog, error) {
	f, err := excelize.OpenFile(p.Path)
	if err != nil {
		p.Logger.Error("catalog.xlsx.open_failed", "path", p.Path, "error", err)
		return nil, fmt.Errorf("open catalog workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			p.Logger.Warn("catalog.xlsx.close_failed", "path", p.Path, "error", err)
		}
	}()
	c, err := readWorkbook(f, p.Sheet)
	if err != nil {
		return nil, err
	}
	p.Logger.Debug("catalog.xlsx.loaded", "path", p.Path, "entries", len(c))
	return c, nil
}

// ReadXLSX parses a catalog workbook from r, as used by catalog imports.
func ReadXLSX(r io.Reader, sheet string) (entity.Catalog, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open catalog workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(f, sheet)
}

func readWorkbook(f *excelize.File, sheet string) (entity.Catalog, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) <= 1 {
		return entity.Catalog{}, nil
	}
	out := make(entity.Catalog, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if e, ok := EntryFromRow(row); ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// WriteXLSX renders a catalog in the same layout ReadXLSX accepts.
func WriteXLSX(w io.Writer, c entity.Catalog) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, h := range []string{"Código", "Artículo", "Impuesto", "Precio"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, e := range c {
		row := i + 2
		values := []any{e.Code, e.Name, e.TaxRatePct.String() + "%", e.UnitPrice.IntPart()}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
