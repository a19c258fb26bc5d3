package llm

import "context"

// CompletionClient sends one prompt to an external completion service and returns its raw text.
// Implementations make a single attempt; retries are the caller's concern.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProductGuess is one item as returned by the completion service. Prices are never read.
type ProductGuess struct {
	Code     string  `json:"codigo,omitempty"`
	Name     string  `json:"articulo"`
	Quantity int     `json:"cantidad"`
	Discount float64 `json:"descuento"`
}

// OrderGuess is the narrow shape the completion service must return.
type OrderGuess struct {
	Products []ProductGuess `json:"productos"`
	Client   string         `json:"cliente,omitempty"`
	Phone    string         `json:"telefono,omitempty"`
	Email    string         `json:"email,omitempty"`
	Birthday string         `json:"fechaCumpleanos,omitempty"`
}
