package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CatalogEntry is one sellable product. UnitPrice already includes tax.
type CatalogEntry struct {
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TaxRatePct decimal.Decimal `json:"tax_rate_pct"`
}

// Catalog is a read-only snapshot of the product table, in listing order.
type Catalog []CatalogEntry

// ByCode finds an entry by case-insensitive code.
func (c Catalog) ByCode(code string) (CatalogEntry, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return CatalogEntry{}, false
	}
	for _, e := range c {
		if strings.EqualFold(e.Code, code) {
			return e, true
		}
	}
	return CatalogEntry{}, false
}
