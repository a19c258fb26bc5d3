package catalog

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/orders-intake/constants"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

// Provider returns the current catalog snapshot. Callers must not mutate it.
type Provider interface {
	GetCatalog(ctx context.Context) (entity.Catalog, error)
}

// Static serves a fixed catalog.
type Static entity.Catalog

func (s Static) GetCatalog(context.Context) (entity.Catalog, error) {
	return entity.Catalog(s), nil
}

// ParsePrice reads sheet-style prices such as "$10,000" or "10000". Unreadable values are zero.
func ParsePrice(s string) decimal.Decimal {
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParseTaxRate reads "19%" or "19". Blank or unreadable values use the default VAT rate;
// an explicit "0%" stays zero for exempt products.
func ParseTaxRate(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil || d.IsNegative() {
		return decimal.NewFromInt(constants.DefaultTaxRatePct)
	}
	return d
}

// EntryFromRow maps a code, name, tax, price row. ok is false when code or name is blank.
func EntryFromRow(row []string) (entity.CatalogEntry, bool) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	code, name := cell(0), cell(1)
	if code == "" || name == "" {
		return entity.CatalogEntry{}, false
	}
	return entity.CatalogEntry{
		Code:       code,
		Name:       name,
		TaxRatePct: ParseTaxRate(cell(2)),
		UnitPrice:  ParsePrice(cell(3)),
	}, true
}
