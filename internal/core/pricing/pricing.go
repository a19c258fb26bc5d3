package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/orders-intake/constants"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

var hundred = decimal.NewFromInt(100)

// Price computes a line item from a catalog entry. It is the only place money is derived.
//
//	discounted     = unitPrice * (1 - discount/100)       (tax-inclusive)
//	lineTotal      = round(discounted * qty)
//	unitPriceExTax = round(lineTotal / qty / (1 + tax/100))
//
// Amounts round to whole currency units. Quantities below 1 become 1 and the
// discount is clamped to 0..100.
func Price(e entity.CatalogEntry, qty int, discountPct decimal.Decimal) entity.LineItem {
	if qty < 1 {
		qty = 1
	}
	discountPct = ClampDiscount(discountPct)
	q := decimal.NewFromInt(int64(qty))

	discounted := e.UnitPrice.Mul(decimal.NewFromInt(1).Sub(discountPct.Div(hundred)))
	lineTotal := discounted.Mul(q).Round(0)
	if lineTotal.IsNegative() {
		lineTotal = decimal.Zero
	}
	taxFactor := decimal.NewFromInt(1).Add(e.TaxRatePct.Div(hundred))
	exTax := lineTotal.Div(q).Div(taxFactor).Round(0)

	return entity.LineItem{
		Code:           e.Code,
		Name:           e.Name,
		Quantity:       qty,
		DiscountPct:    discountPct,
		UnitPriceExTax: exTax,
		LineTotal:      lineTotal,
	}
}

// Reprice recomputes money fields for an item from its catalog entry, keeping how it was matched.
func Reprice(li entity.LineItem, e entity.CatalogEntry) entity.LineItem {
	out := Price(e, li.Quantity, li.DiscountPct)
	out.Match = li.Match
	return out
}

// Unresolved builds the zero-priced item that flags a product we could not find.
func Unresolved(code, name string, qty int, discountPct decimal.Decimal) entity.LineItem {
	if qty < 1 {
		qty = 1
	}
	if code == "" {
		code = constants.UnresolvedCode
	}
	return entity.LineItem{
		Code:           code,
		Name:           name,
		Quantity:       qty,
		DiscountPct:    ClampDiscount(discountPct),
		UnitPriceExTax: decimal.Zero,
		LineTotal:      decimal.Zero,
		Match:          constants.MatchUnresolved,
	}
}

// ClampDiscount bounds a percentage to 0..100.
func ClampDiscount(d decimal.Decimal) decimal.Decimal {
	switch {
	case d.IsNegative():
		return decimal.Zero
	case d.GreaterThan(hundred):
		return hundred
	default:
		return d
	}
}
