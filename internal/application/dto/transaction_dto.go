package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RestockRequest compra a proveedor. SupplierID es puntero para distinguir "ausente" de cero.
type RestockRequest struct {
	ProductID   int64  `json:"productId" validate:"required,gt=0"`
	SupplierID  *int64 `json:"supplierId"`
	Quantity    int    `json:"quantity" validate:"lte=2147483647"`
	Description string `json:"description" validate:"max=500"`
	Note        string `json:"note" validate:"max=500"`
}

// SellRequest venta de un producto.
type SellRequest struct {
	ProductID   int64  `json:"productId" validate:"required,gt=0"`
	Quantity    int    `json:"quantity" validate:"lte=2147483647"`
	Description string `json:"description" validate:"max=500"`
	Note        string `json:"note" validate:"max=500"`
}

// ReturnRequest devolución a proveedor.
type ReturnRequest struct {
	ProductID   int64  `json:"productId" validate:"required,gt=0"`
	SupplierID  *int64 `json:"supplierId"`
	Quantity    int    `json:"quantity" validate:"lte=2147483647"`
	Description string `json:"description" validate:"max=500"`
	Note        string `json:"note" validate:"max=500"`
}

// UpdateStatusRequest cambio de estado de una transacción.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// TransactionResponse salida de una transacción del ledger.
type TransactionResponse struct {
	ID              int64           `json:"id"`
	TotalProducts   int             `json:"totalProducts"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	TransactionType string          `json:"transactionType"`
	Status          string          `json:"status"`
	Description     string          `json:"description"`
	Note            string          `json:"note"`
	ProductID       int64           `json:"productId"`
	UserID          int64           `json:"userId"`
	SupplierID      *int64          `json:"supplierId"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TransactionPageResponse página de transacciones (page 1-indexado).
type TransactionPageResponse struct {
	Items         []TransactionResponse `json:"items"`
	Page          int                   `json:"page"`
	Size          int                   `json:"size"`
	TotalElements int64                 `json:"totalElements"`
	TotalPages    int                   `json:"totalPages"`
}

// TypeSummaryResponse totales de un tipo dentro del periodo.
type TypeSummaryResponse struct {
	TransactionType string          `json:"transactionType"`
	Count           int64           `json:"count"`
	Units           int64           `json:"units"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
}

// PeriodSummaryResponse agregado mensual del ledger.
type PeriodSummaryResponse struct {
	Month      int                   `json:"month"`
	Year       int                   `json:"year"`
	From       time.Time             `json:"from"`
	To         time.Time             `json:"to"`
	ByType     []TypeSummaryResponse `json:"byType"`
	Count      int64                 `json:"count"`
	Units      int64                 `json:"units"`
	TotalPrice decimal.Decimal       `json:"totalPrice"`
}
