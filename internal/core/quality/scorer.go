package quality

import (
	"fmt"
	"math"
	"strings"

	"github.com/joseph-ayodele/orders-intake/constants"
	"github.com/joseph-ayodele/orders-intake/internal/common"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

// Messages surfaced to the person who sent the order.
const (
	WarnPlaceholderEmail = "email not provided: placeholder used"
	WarnPhoneMissing     = "phone not identified"
	WarnTooShort         = "message too short: used emergency extraction"

	ErrNoClientName   = "no client name"
	ErrInvalidEmail   = "invalid email"
	ErrNoValidProduct = "no valid product: no line item has a resolved, positive price"
	ErrNoLineItems    = "no line items"
)

// Score grades an extraction out of 100 and reports it on a 0..1 scale.
// Each signal only ever adds points, so improving one field never lowers the score.
func Score(x entity.OrderExtraction) entity.QualityReport {
	var (
		points   float64
		warnings []string
		errs     []string
	)

	name := strings.TrimSpace(x.ClientName)
	if name != "" && name != constants.DefaultClientName {
		points += constants.WeightClientName
	} else {
		errs = append(errs, ErrNoClientName)
	}

	email := strings.TrimSpace(x.Contact.Email)
	switch {
	case email == "" || email == constants.EmailPlaceholder:
		warnings = append(warnings, WarnPlaceholderEmail)
	case !common.IsValidEmail(email):
		errs = append(errs, ErrInvalidEmail)
	default:
		points += constants.WeightEmail
	}

	phone := strings.TrimSpace(x.Contact.Phone)
	if phone != "" && phone != constants.PhoneMissing {
		points += constants.WeightPhone
	} else {
		warnings = append(warnings, WarnPhoneMissing)
	}

	if n := len(x.LineItems); n == 0 {
		errs = append(errs, ErrNoLineItems)
	} else {
		valid := 0
		for _, li := range x.LineItems {
			if li.Valid() {
				valid++
			}
		}
		points += constants.WeightProducts * float64(valid) / float64(n)
		if unresolved := n - valid; unresolved > 0 {
			warnings = append(warnings, fmt.Sprintf("%d product(s) not identified", unresolved))
		}
		if valid == 0 {
			errs = append(errs, ErrNoValidProduct)
		}
	}

	return entity.QualityReport{
		Score:    math.Round(points) / 100,
		Warnings: warnings,
		Errors:   errs,
	}
}
