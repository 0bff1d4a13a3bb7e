package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. StockQuantity es el stock inicial;
// después de crear solo lo cambian las transacciones del ledger.
type CreateProductRequest struct {
	SKU           string          `json:"sku" validate:"required,min=1,max=100"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Description   string          `json:"description" validate:"max=1000"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity" validate:"gte=0,lte=2147483647"`
	CategoryID    int64           `json:"categoryId" validate:"omitempty,gt=0"`
	ExpiryDate    *time.Time      `json:"expiryDate"`
	ImageURL      string          `json:"imageUrl" validate:"omitempty,url"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock).
type UpdateProductRequest struct {
	SKU         *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *int64           `json:"categoryId" validate:"omitempty,gt=0"`
	ExpiryDate  *time.Time       `json:"expiryDate"`
	ImageURL    *string          `json:"imageUrl" validate:"omitempty,url"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            int64           `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	CategoryID    *int64          `json:"categoryId"`
	ExpiryDate    *time.Time      `json:"expiryDate"`
	ImageURL      string          `json:"imageUrl"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
