package constants

// Sentinels stand in for absent values so every field renders uniformly.
const (
	DefaultClientName = "Cliente no identificado"
	PhoneMissing      = "No identificado"
	EmailPlaceholder  = "no-email@placeholder.com"

	// UnresolvedCode is used when the completion service names a product we cannot find.
	UnresolvedCode = "N/A"
	DefaultCode    = "DEFAULT"
)

// IsPlaceholderCode reports whether code is one of the non-product placeholder codes.
func IsPlaceholderCode(code string) bool {
	return code == "" || code == UnresolvedCode || code == DefaultCode
}

// DefaultTaxRatePct applies to catalog rows with a blank tax column.
const DefaultTaxRatePct = 19

// MessageSeparator splits exported chat logs into individual order messages.
const MessageSeparator = "=== PEDIDO SEPARADOR ==="
