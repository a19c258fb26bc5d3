package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/orders-intake/internal/core/normalize"
)

var (
	reID    = regexp.MustCompile(`(?i)\b(?:CC|C\.C\.?|TI|NIT|CE|ID|c[eé]dula)\s*[:#.]?\s*(\d[\d.]{4,14}\d)`)
	rePhone = regexp.MustCompile(`(?:^|\D)((?:\+\d{1,3}[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3,4}[\s.-]?\d{4})(?:\D|$)`)
	reEmail = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	reTagLine      = regexp.MustCompile(`^\[[^\]]+\]$`)
	reContactLabel = regexp.MustCompile(`(?i)^(?:tel[eé]fono|tel|cel(?:ular)?|whats?app|m[oó]vil|e-?mail|correo)\b`)
	reNameLabel    = regexp.MustCompile(`(?i)^(?:nombre|cliente)\s*:\s*`)
	reNumericOnly  = regexp.MustCompile(`^[\d\s.,:+()/-]+$`)

	// Product line formats, tried in order.
	reCanonical = regexp.MustCompile(`(?i)c[oó]digo\s*:?\s*([A-Za-z0-9][\w-]*)\s*\|\s*cantidad\s*:?\s*(\d+)(?:\s*\|\s*descuento\s*:?\s*(\d+(?:[.,]\d+)?)\s*%?)?`)
	reInline    = regexp.MustCompile(`(?i)^([A-Za-z]{0,6}-?\d[\w-]*)\s*[x×*]\s*(\d+)\s*(?:\[?\s*(?:descuento|dscto|desc)\.?\s*:?\s*(\d+(?:[.,]\d+)?)\s*%\s*\]?)?$`)
	reWordTimes = regexp.MustCompile(`(?i)[\p{L}\p{N}_]+\s*[x×]\s*\d+`)
	reCodeLabel = regexp.MustCompile(`(?i)c[oó]digo\s*:`)

	// Free-text decorations.
	reDiscountPct = regexp.MustCompile(`(?i)\(?\s*(\d+(?:[.,]\d+)?)\s*%\s*(?:de\s+)?(?:descuento|dscto|desc\.?|off)\s*\)?`)
	reDiscountKw  = regexp.MustCompile(`(?i)\(?\s*(?:descuento|dscto|desc\.?)\s*:?\s*(\d+(?:[.,]\d+)?)\s*%?\s*\)?`)
	reQtyTimes    = regexp.MustCompile(`(?i)(?:^|\s)[x×]\s*(\d{1,3})\b`)
	reQtyLeading  = regexp.MustCompile(`(?i)^(\d{1,3})\s*(?:[x×]|unidad(?:es)?|und|uds?)?\s+`)
	reQtyTrailing = regexp.MustCompile(`(?i)\s(\d{1,3})\s*(?:unidad(?:es)?|und|uds?)?$`)
	reDecorations = regexp.MustCompile(`[()\[\]{}]`)
	reSpaces      = regexp.MustCompile(`\s{2,}`)

	reBirthdayWords   = regexp.MustCompile(`(?i)\bFC\s*:?\s*(\d{1,2})\s+de\s+(\p{L}+)`)
	reBirthdayNumeric = regexp.MustCompile(`(?i)\bFC\s*:?\s*(\d{1,2})\s*/\s*(\d{1,2})\b`)
	reBareWords       = regexp.MustCompile(`(?i)\b(\d{1,2})\s+de\s+(\p{L}+)`)
	reBareNumeric     = regexp.MustCompile(`\b(\d{1,2})\s*/\s*(\d{1,2})\b`)
)

// FindPhone returns the first phone-shaped digit run in s.
func FindPhone(s string) (string, bool) {
	m := rePhone.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// FindEmail returns the first email address in s.
func FindEmail(s string) (string, bool) {
	m := reEmail.FindString(s)
	return m, m != ""
}

// FindID returns the digits of the first identity document number in s.
func FindID(s string) (string, bool) {
	m := reID.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return strings.ReplaceAll(m[1], ".", ""), true
}

// StripID removes identity document references from s.
func StripID(s string) string {
	return cleanName(reID.ReplaceAllString(s, ""))
}

func cleanName(s string) string {
	s = reNameLabel.ReplaceAllString(strings.TrimSpace(s), "")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.Trim(s, " -–,;:.|")
}

func isBulleted(line string) bool {
	return strings.HasPrefix(line, normalize.Bullet) || strings.HasPrefix(line, "•")
}

func stripBullet(line string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, normalize.Bullet))
}

func isProductLine(line string) bool {
	return isBulleted(line) || reCodeLabel.MatchString(line) || reWordTimes.MatchString(line)
}

func isContactLine(line string) bool {
	if strings.Contains(line, "@") || reContactLabel.MatchString(line) {
		return true
	}
	_, ok := FindPhone(line)
	return ok
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
