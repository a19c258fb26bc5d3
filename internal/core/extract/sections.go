package extract

import (
	"strings"

	"github.com/joseph-ayodele/orders-intake/constants"
)

// Sections maps a section to its raw block text.
type Sections map[constants.Section]string

// Missing lists the required sections that are absent or blank.
func (s Sections) Missing() []constants.Section {
	var out []constants.Section
	for _, req := range constants.RequiredSections {
		if strings.TrimSpace(s[req]) == "" {
			out = append(out, req)
		}
	}
	return out
}

// ParseSections collects [TAG] blocks. Content runs to the next tag or the end.
// Unknown tags close the current block and are otherwise ignored.
func ParseSections(text string) Sections {
	out := Sections{}
	var (
		current constants.Section
		inBlock bool
		buf     []string
	)
	flush := func() {
		if inBlock {
			block := strings.Join(buf, "\n")
			if prev, ok := out[current]; ok && prev != "" {
				block = prev + "\n" + block
			}
			out[current] = strings.TrimSpace(block)
		}
		buf = buf[:0]
	}
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if reTagLine.MatchString(l) {
			flush()
			sec, ok := constants.CanonicalSection(strings.Trim(l, "[]"))
			current, inBlock = sec, ok
			continue
		}
		if inBlock && l != "" {
			buf = append(buf, l)
		}
	}
	flush()
	return out
}

// LineKind is the heuristic class of an untagged line.
type LineKind int

const (
	LineClient LineKind = iota
	LineProduct
	LineContact
	LineBirthday
)

// ClassifyLine decides which section an untagged line belongs to.
// Identity numbers win over contact data, contact data over product markers.
func ClassifyLine(line string) LineKind {
	switch {
	case reID.MatchString(line):
		return LineClient
	case isContactLine(line):
		return LineContact
	case reBirthdayWords.MatchString(line) || reBirthdayNumeric.MatchString(line):
		return LineBirthday
	case isProductLine(line):
		return LineProduct
	case startsWithDigit(line):
		// "3 shampoo herbal": a quantity-first product line.
		return LineProduct
	default:
		return LineClient
	}
}

// ClassifyLines synthesizes sections for a message without tags.
func ClassifyLines(text string) Sections {
	buckets := map[constants.Section][]string{}
	for _, l := range lines(text) {
		if reTagLine.MatchString(l) {
			continue
		}
		var sec constants.Section
		switch ClassifyLine(l) {
		case LineClient:
			sec = constants.SectionClient
		case LineProduct:
			sec = constants.SectionProducts
		case LineContact:
			sec = constants.SectionContact
		case LineBirthday:
			sec = constants.SectionBirthday
		}
		buckets[sec] = append(buckets[sec], l)
	}
	out := Sections{}
	for sec, ls := range buckets {
		out[sec] = strings.Join(ls, "\n")
	}
	return out
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
