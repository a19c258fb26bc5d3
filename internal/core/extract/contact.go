package extract

import (
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

// ParseContact needs both a phone and an email; either missing fails the block.
func ParseContact(block string) (entity.ContactInfo, bool) {
	phone, okPhone := FindPhone(block)
	email, okEmail := FindEmail(block)
	if !okPhone || !okEmail {
		return entity.ContactInfo{}, false
	}
	return entity.ContactInfo{Phone: phone, Email: email}, true
}
