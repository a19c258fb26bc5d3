package entity

import (
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/orders-intake/constants"
)

// LineItem is one priced product within an order.
// LineTotal == 0 means the product could not be resolved.
type LineItem struct {
	Code           string              `json:"codigo"`
	Name           string              `json:"articulo"`
	Quantity       int                 `json:"cantidad"`
	DiscountPct    decimal.Decimal     `json:"descuento"`
	UnitPriceExTax decimal.Decimal     `json:"precio_sin_iva"`
	LineTotal      decimal.Decimal     `json:"total"`
	Match          constants.MatchKind `json:"match"`
}

// Valid reports whether the item points at a real, priced product.
func (li LineItem) Valid() bool {
	return li.LineTotal.IsPositive() && !constants.IsPlaceholderCode(li.Code) && li.Match.Resolved()
}

// ContactInfo never holds empty strings; see constants.PhoneMissing and constants.EmailPlaceholder.
type ContactInfo struct {
	Phone string `json:"telefono"`
	Email string `json:"email"`
}

// OrderExtraction is the structured result of one inbound message.
type OrderExtraction struct {
	ClientName string         `json:"cliente"`
	ClientID   string         `json:"cedula,omitempty"`
	Contact    ContactInfo    `json:"contacto"`
	LineItems  []LineItem     `json:"productos"`
	Birthday   string         `json:"fecha_cumpleanos,omitempty"` // "D/M"
	Notes      string         `json:"notas,omitempty"`
	SourceTier constants.Tier `json:"tier"`
}

// Total sums every line total.
func (o OrderExtraction) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, li := range o.LineItems {
		sum = sum.Add(li.LineTotal)
	}
	return sum
}

// QualityReport is derived from an OrderExtraction and never stored.
type QualityReport struct {
	Score    float64  `json:"score"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// Clean reports whether the order carried no hard errors.
func (q QualityReport) Clean() bool { return len(q.Errors) == 0 }
