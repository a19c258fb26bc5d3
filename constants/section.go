package constants

import (
	"strings"
)

type Section string

const (
	SectionClient   Section = "CLIENTE"
	SectionProducts Section = "PRODUCTOS"
	SectionContact  Section = "CONTACTO"
	SectionNotes    Section = "NOTAS"
	SectionBirthday Section = "CUMPLEAÑOS"
)

var allSections = []Section{
	SectionClient,
	SectionProducts,
	SectionContact,
	SectionNotes,
	SectionBirthday,
}

// RequiredSections must all be present for a structured parse.
var RequiredSections = []Section{SectionClient, SectionProducts, SectionContact}

// CanonicalSection maps a free-form tag or heading to its section.
func CanonicalSection(input string) (Section, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	normalized = strings.TrimSuffix(normalized, ":")
	if normalized == "" {
		return "", false
	}

	aliases := map[string]Section{
		"cliente":             SectionClient,
		"clienta":             SectionClient,
		"datos del cliente":   SectionClient,
		"productos":           SectionProducts,
		"producto":            SectionProducts,
		"pedido":              SectionProducts,
		"contacto":            SectionContact,
		"datos de contacto":   SectionContact,
		"notas":               SectionNotes,
		"nota":                SectionNotes,
		"observaciones":       SectionNotes,
		"cumpleaños":          SectionBirthday,
		"cumpleanos":          SectionBirthday,
		"cumpleaño":           SectionBirthday,
		"fecha de cumpleaños": SectionBirthday,
		"fecha de cumpleanos": SectionBirthday,
	}
	if s, ok := aliases[normalized]; ok {
		return s, true
	}

	for _, s := range allSections {
		if normalized == strings.ToLower(string(s)) {
			return s, true
		}
	}
	return "", false
}
