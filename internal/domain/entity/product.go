package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// StockQuantity solo lo modifica el motor de stock del ledger; el CRUD fija el valor inicial al crear.
type Product struct {
	ID            int64
	CategoryID    int64
	SKU           string // único
	Name          string
	Description   string
	Price         decimal.Decimal // precio unitario, nunca negativo
	StockQuantity int
	ExpiryDate    *time.Time
	ImageURL      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
