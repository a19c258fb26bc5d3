package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a buyer keyed by email, with stats derived from the ledger.
type Customer struct {
	ID         uuid.UUID     `json:"id"`
	Name       string        `json:"nombre"`
	DocumentID string        `json:"cedula,omitempty"`
	Email      string        `json:"email"`
	Phone      string        `json:"telefono,omitempty"`
	Birthday   string        `json:"fecha_cumpleanos,omitempty"`
	Stats      CustomerStats `json:"stats"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// CustomerStats is recomputed from purchase history after every order.
type CustomerStats struct {
	Purchases      int             `json:"numero_compras"`
	TotalSpent     decimal.Decimal `json:"total_gastado"`
	AverageTicket  decimal.Decimal `json:"ticket_promedio"`
	UniqueProducts int             `json:"productos_unicos"`
	// FrequencyDays is the mean gap in days between distinct purchase dates; 0 with a single purchase.
	FrequencyDays int        `json:"frecuencia_compra"`
	FirstPurchase *time.Time `json:"primera_compra,omitempty"`
	LastPurchase  *time.Time `json:"ultima_compra,omitempty"`
}
