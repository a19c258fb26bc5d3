package extract

import (
	"strings"

	"github.com/joseph-ayodele/orders-intake/constants"
)

var (
	strongIndicators   = []string{"cc ", "fc ", "cédula", "cedula", "paga", "envío", "envio", "entrega", "[cliente]"}
	productIndicators  = []string{"shampoo", "kit", "tratamiento", "sérum", "serum", "styling", "tónico", "tonico", "código", "codigo"}
	locationIndicators = []string{"barrio", "calle", "carrera", "medellín", "medellin", "bogotá", "bogota", "cali"}
	contactIndicators  = []string{"@", "gmail", "hotmail", "llamar", "escribir", "teléfono", "telefono"}
	negativeIndicators = []string{
		"este pedido es diferente", "no, es el mismo", "envíos nacionales",
		"¿podrías ayudarme?", "espero estés bien", "ayudarme con esta guía",
	}
)

const minOrderLikeLength = 30

// LooksLikeOrder is a cheap keyword prefilter for chat exports: at least one
// strong indicator and indicators from at least two families.
func LooksLikeOrder(text string) bool {
	if len(strings.TrimSpace(text)) < minOrderLikeLength {
		return false
	}
	lower := strings.ToLower(text)
	for _, neg := range negativeIndicators {
		if strings.Contains(lower, neg) {
			return false
		}
	}
	count := func(words []string) int {
		n := 0
		for _, w := range words {
			if strings.Contains(lower, w) {
				n++
			}
		}
		return n
	}
	strong := count(strongIndicators)
	families := 0
	for _, c := range []int{strong, count(productIndicators), count(locationIndicators), count(contactIndicators)} {
		if c > 0 {
			families++
		}
	}
	return strong >= 1 && families >= 2
}

// SplitMessages cuts a chat export on constants.MessageSeparator lines and drops empty parts.
func SplitMessages(text string) []string {
	var out []string
	for _, part := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), constants.MessageSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
