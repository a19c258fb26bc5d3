package llm

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/orders-intake/constants"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

const maxMessageChars = 4000

// BuildPrompt grounds the completion service in the full catalog and the normalized
// message, and fixes the JSON shape it must answer with. Prices are deliberately not
// requested; they are recomputed from the catalog.
func BuildPrompt(message string, catalog entity.Catalog) string {
	var b strings.Builder
	b.WriteString("SISTEMA DE EXTRACCIÓN DE DATOS PARA PEDIDOS\n\n")

	b.WriteString("PRODUCTOS DISPONIBLES:\n")
	for _, e := range catalog {
		fmt.Fprintf(&b, "%s: %s - Precio: $%s (IVA: %s%%)\n",
			e.Code, e.Name, e.UnitPrice.StringFixed(0), e.TaxRatePct.String())
	}

	msg := strings.TrimSpace(message)
	if r := []rune(msg); len(r) > maxMessageChars {
		msg = string(r[:maxMessageChars])
	}
	b.WriteString("\nMENSAJE A ANALIZAR:\n\"")
	b.WriteString(msg)
	b.WriteString("\"\n\n")

	rules := []string{
		"Extrae toda la información del mensaje, incluso si el formato no es perfecto.",
		"Para cada producto usa el código exacto de la lista; busca coincidencias por código o por nombre similar.",
		"Los descuentos pueden venir como [DESCUENTO: X%], \"X% dscto\" u otras formas; escribe solo el número.",
		"No incluyas precios, totales ni IVA.",
		"Si no hay email válido, usa \"" + constants.EmailPlaceholder + "\".",
		"Si no hay teléfono, usa \"" + constants.PhoneMissing + "\".",
		"La fecha de cumpleaños va en formato D/M; si no aparece, déjala vacía.",
		"Nunca retornes null.",
	}
	b.WriteString("INSTRUCCIONES ESTRICTAS:\n")
	for i, r := range rules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}

	b.WriteString(`
RESPONDE ÚNICAMENTE CON ESTE JSON (sin texto adicional):
{
  "productos": [
    {"codigo": "codigo_exacto_de_la_lista", "articulo": "nombre_del_articulo", "cantidad": 1, "descuento": 0}
  ],
  "cliente": "nombre_del_cliente",
  "telefono": "numero_telefono",
  "email": "email_valido",
  "fechaCumpleanos": "D/M"
}
`)
	return b.String()
}
