package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/orders-intake/constants"
	"github.com/joseph-ayodele/orders-intake/internal/core/normalize"
	"github.com/joseph-ayodele/orders-intake/internal/core/pricing"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

// Emergency is the last-resort tier. It always returns an order, with
// sentinels where nothing usable was found.
type Emergency struct {
	// ScanLimit bounds how many catalog entries are searched for a name keyword.
	ScanLimit int
}

func NewEmergency(scanLimit int) *Emergency {
	if scanLimit <= 0 {
		scanLimit = constants.EmergencyScanLimit
	}
	return &Emergency{ScanLimit: scanLimit}
}

// Extract never fails. With an empty catalog the order has no items; callers
// must reject empty catalogs before getting here.
func (e *Emergency) Extract(text string, catalog entity.Catalog) entity.OrderExtraction {
	out := entity.OrderExtraction{
		ClientName: constants.DefaultClientName,
		Contact: entity.ContactInfo{
			Phone: constants.PhoneMissing,
			Email: constants.EmailPlaceholder,
		},
		SourceTier: constants.TierEmergency,
	}

	if name, ok := emergencyClientName(text); ok {
		out.ClientName = name
	}
	if id, ok := FindID(text); ok {
		out.ClientID = id
	}
	if email, ok := FindEmail(text); ok {
		out.Contact.Email = email
	}
	if phone, ok := FindPhone(reID.ReplaceAllString(text, " ")); ok {
		out.Contact.Phone = phone
	}
	out.Birthday = ParseBirthday(text)

	if li, ok := e.keywordItem(text, catalog); ok {
		out.LineItems = []entity.LineItem{li}
	}
	return out
}

func emergencyClientName(text string) (string, bool) {
	for _, raw := range lines(text) {
		l := strings.TrimSpace(reID.ReplaceAllString(raw, " "))
		switch {
		case l == "",
			reTagLine.MatchString(l),
			reEmail.MatchString(l),
			isProductLine(l),
			isContactLine(l),
			reNumericOnly.MatchString(l),
			reBirthdayWords.MatchString(l) || reBirthdayNumeric.MatchString(l):
			continue
		}
		if utf8.RuneCountInString(raw) <= constants.EmergencyNameLen {
			continue
		}
		if name := cleanName(l); utf8.RuneCountInString(name) > constants.MinClientNameLen {
			return name, true
		}
	}
	return "", false
}

func (e *Emergency) keywordItem(text string, catalog entity.Catalog) (entity.LineItem, bool) {
	if len(catalog) == 0 {
		return entity.LineItem{}, false
	}
	folded := normalize.Fold(text)
	limit := min(e.ScanLimit, len(catalog))
	for _, entry := range catalog[:limit] {
		for _, kw := range normalize.Words(entry.Name) {
			if utf8.RuneCountInString(kw) <= constants.PartialMatchMinWordLen {
				continue
			}
			if strings.Contains(folded, kw) {
				li := pricing.Price(entry, 1, decimal.Zero)
				li.Match = constants.MatchKeyword
				return li, true
			}
		}
	}
	li := pricing.Price(catalog[0], 1, decimal.Zero)
	li.Match = constants.MatchFallback
	return li, true
}
