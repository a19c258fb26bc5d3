package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/orders-intake/constants"
)

// LedgerLine is one persisted order row; an order writes one per line item.
type LedgerLine struct {
	InvoiceID      string          `json:"factura"`
	LineNo         int             `json:"linea"`
	Date           time.Time       `json:"fecha"`
	Code           string          `json:"codigo"`
	Name           string          `json:"articulo"`
	Quantity       int             `json:"cantidad"`
	DiscountPct    decimal.Decimal `json:"descuento"`
	UnitPriceExTax decimal.Decimal `json:"precio_sin_iva"`
	LineTotal      decimal.Decimal `json:"total"`
	ClientName     string          `json:"cliente"`
	ClientID       string          `json:"cedula,omitempty"`
	Phone          string          `json:"telefono"`
	Email          string          `json:"email"`
	Tier           constants.Tier  `json:"tier"`
	Score          float64         `json:"score"`
}

// LedgerLines flattens an order into ledger rows.
func LedgerLines(invoiceID string, date time.Time, o OrderExtraction, q QualityReport) []LedgerLine {
	out := make([]LedgerLine, 0, len(o.LineItems))
	for i, li := range o.LineItems {
		out = append(out, LedgerLine{
			InvoiceID:      invoiceID,
			LineNo:         i + 1,
			Date:           date,
			Code:           li.Code,
			Name:           li.Name,
			Quantity:       li.Quantity,
			DiscountPct:    li.DiscountPct,
			UnitPriceExTax: li.UnitPriceExTax,
			LineTotal:      li.LineTotal,
			ClientName:     o.ClientName,
			ClientID:       o.ClientID,
			Phone:          o.Contact.Phone,
			Email:          o.Contact.Email,
			Tier:           o.SourceTier,
			Score:          q.Score,
		})
	}
	return out
}
