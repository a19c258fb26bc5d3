package extract

import (
	"unicode/utf8"

	"github.com/joseph-ayodele/orders-intake/constants"
)

// ParseClient reads the client block. The name comes from the ID line with the
// number stripped, else from the first line that is neither email nor ID.
func ParseClient(block string) (name, id string, ok bool) {
	ls := lines(block)
	for _, l := range ls {
		if found, hit := FindID(l); hit {
			id = found
			name = StripID(stripBullet(l))
			break
		}
	}
	if utf8.RuneCountInString(name) < constants.MinClientNameLen {
		name = ""
		for _, l := range ls {
			if reEmail.MatchString(l) || reID.MatchString(l) {
				continue
			}
			name = cleanName(stripBullet(l))
			break
		}
	}
	if utf8.RuneCountInString(name) < constants.MinClientNameLen {
		return "", id, false
	}
	return name, id, true
}
