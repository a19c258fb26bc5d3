package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/orders-intake/internal/core/pricing"
	"github.com/joseph-ayodele/orders-intake/internal/core/resolver"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

// ProductRef is a parsed but not yet resolved product line.
type ProductRef struct {
	Code        string
	Text        string
	Quantity    int
	DiscountPct decimal.Decimal
}

// ParseProductRef tries the canonical, inline, then free-text formats.
func ParseProductRef(line string) (ProductRef, bool) {
	line = stripBullet(strings.TrimSpace(line))
	if line == "" {
		return ProductRef{}, false
	}
	if m := reCanonical.FindStringSubmatch(line); m != nil {
		return ProductRef{Code: m[1], Quantity: atoi(m[2]), DiscountPct: parseDecimal(m[3])}, true
	}
	if m := reInline.FindStringSubmatch(line); m != nil {
		return ProductRef{Code: m[1], Quantity: atoi(m[2]), DiscountPct: parseDecimal(m[3])}, true
	}
	return parseFreeText(line)
}

func parseFreeText(line string) (ProductRef, bool) {
	ref := ProductRef{Quantity: 1, DiscountPct: decimal.Zero}
	text := line

	for _, re := range []*regexp.Regexp{reDiscountPct, reDiscountKw} {
		if loc := re.FindStringSubmatchIndex(text); loc != nil {
			ref.DiscountPct = parseDecimal(text[loc[2]:loc[3]])
			text = text[:loc[0]] + " " + text[loc[1]:]
			break
		}
	}

	switch {
	case reQtyTimes.MatchString(text):
		loc := reQtyTimes.FindStringSubmatchIndex(text)
		ref.Quantity = atoi(text[loc[2]:loc[3]])
		text = text[:loc[0]] + " " + text[loc[1]:]
	case reQtyLeading.MatchString(text):
		loc := reQtyLeading.FindStringSubmatchIndex(text)
		ref.Quantity = atoi(text[loc[2]:loc[3]])
		text = text[loc[1]:]
	case reQtyTrailing.MatchString(text):
		loc := reQtyTrailing.FindStringSubmatchIndex(text)
		ref.Quantity = atoi(text[loc[2]:loc[3]])
		text = text[:loc[0]]
	}

	text = reDecorations.ReplaceAllString(text, " ")
	text = strings.Trim(reSpaces.ReplaceAllString(strings.TrimSpace(text), " "), " -–:,;.")
	if text == "" {
		return ProductRef{}, false
	}
	if ref.Quantity < 1 {
		ref.Quantity = 1
	}
	ref.Text = text
	return ref, true
}

// ResolveLine parses a product line and prices it. Lines that do not resolve are reported as !ok.
func ResolveLine(line string, r *resolver.Resolver) (entity.LineItem, bool) {
	ref, ok := ParseProductRef(line)
	if !ok {
		return entity.LineItem{}, false
	}
	m, ok := r.Resolve(resolver.Query{Code: ref.Code, Text: ref.Text})
	if !ok {
		return entity.LineItem{}, false
	}
	li := pricing.Price(m.Entry, ref.Quantity, ref.DiscountPct)
	li.Match = m.Kind
	return li, true
}

// ParseProducts prices every resolvable line of a products block, in order.
func ParseProducts(block string, r *resolver.Resolver) []entity.LineItem {
	var items []entity.LineItem
	for _, l := range lines(block) {
		if li, ok := ResolveLine(l, r); ok {
			items = append(items, li)
		}
	}
	return items
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
