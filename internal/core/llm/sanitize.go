package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"strconv"
	"strings"
)

var (
	orderKeys = map[string]struct{}{
		"productos": {}, "cliente": {}, "telefono": {}, "email": {}, "fechaCumpleanos": {},
	}
	itemKeys = map[string]struct{}{
		"codigo": {}, "articulo": {}, "cantidad": {}, "descuento": {},
	}
	orderSynonyms = map[string]string{
		"products":         "productos",
		"items":            "productos",
		"client":           "cliente",
		"nombre":           "cliente",
		"phone":            "telefono",
		"celular":          "telefono",
		"correo":           "email",
		"birthday":         "fechaCumpleanos",
		"fecha_cumpleanos": "fechaCumpleanos",
		"cumpleanos":       "fechaCumpleanos",
	}
	itemSynonyms = map[string]string{
		"code":     "codigo",
		"producto": "articulo",
		"nombre":   "articulo",
		"name":     "articulo",
		"qty":      "cantidad",
		"quantity": "cantidad",
		"discount": "descuento",
		"dscto":    "descuento",
	}
)

// NormalizeAndSanitizeJSON reshapes a completion document so it can pass the strict schema:
//   - renames known synonyms (products -> productos, qty -> cantidad)
//   - coerces numeric strings for cantidad and descuento
//   - drops price keys and every other unknown key
//   - drops items that are not objects or name no product
//
// It returns the cleaned document and the list of changes made.
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)
	rename(m, orderSynonyms, &dropped)
	for k := range maps.Clone(m) {
		if _, ok := orderKeys[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	for _, k := range []string{"cliente", "telefono", "email", "fechaCumpleanos"} {
		v, ok := m[k]
		if !ok {
			continue
		}
		s, isString := v.(string)
		s = strings.TrimSpace(s)
		if !isString || s == "" || strings.EqualFold(s, "null") {
			delete(m, k)
			dropped = append(dropped, k+"(empty)")
			continue
		}
		m[k] = s
	}

	rawItems, _ := m["productos"].([]any)
	items := make([]any, 0, len(rawItems))
	for i, ri := range rawItems {
		item, ok := ri.(map[string]any)
		if !ok {
			dropped = append(dropped, fmt.Sprintf("productos[%d](type)", i))
			continue
		}
		if cleaned, ok := sanitizeItem(item, i, &dropped); ok {
			items = append(items, cleaned)
		}
	}
	m["productos"] = items

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

func sanitizeItem(item map[string]any, i int, dropped *[]string) (map[string]any, bool) {
	rename(item, itemSynonyms, dropped)
	for k := range maps.Clone(item) {
		if _, ok := itemKeys[k]; !ok {
			delete(item, k)
			*dropped = append(*dropped, fmt.Sprintf("productos[%d].%s", i, k))
		}
	}

	code := stringValue(item["codigo"])
	name := stringValue(item["articulo"])
	if name == "" {
		name = code
	}
	if name == "" {
		*dropped = append(*dropped, fmt.Sprintf("productos[%d](no product)", i))
		return nil, false
	}
	if code == "" {
		delete(item, "codigo")
	} else {
		item["codigo"] = code
	}
	item["articulo"] = name

	qty, ok := numberValue(item["cantidad"])
	if !ok || qty < 1 {
		qty = 1
	}
	item["cantidad"] = int(math.Round(qty))

	disc, ok := numberValue(item["descuento"])
	if !ok || disc < 0 {
		disc = 0
	}
	item["descuento"] = math.Min(disc, 100)
	return item, true
}

func rename(m map[string]any, synonyms map[string]string, dropped *[]string) {
	for from, to := range synonyms {
		v, ok := m[from]
		if !ok {
			continue
		}
		// never overwrite a value already under the canonical key
		if _, exists := m[to]; !exists {
			m[to] = v
		}
		delete(m, from)
		*dropped = append(*dropped, from+"->"+to)
	}
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if strings.EqualFold(s, "null") {
			return ""
		}
		return s
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func numberValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "%"))
		f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
