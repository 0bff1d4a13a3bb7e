package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType clasifica el efecto de una transacción sobre el stock.
type TransactionType string

const (
	TransactionPurchase         TransactionType = "PURCHASE"           // entrada desde proveedor
	TransactionSale             TransactionType = "SALE"               // salida por venta
	TransactionReturnToSupplier TransactionType = "RETURN_TO_SUPPLIER" // salida hacia proveedor
)

// TransactionTypes en el orden en que se reportan.
var TransactionTypes = []TransactionType{TransactionPurchase, TransactionSale, TransactionReturnToSupplier}

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionPurchase, TransactionSale, TransactionReturnToSupplier:
		return true
	}
	return false
}

// TransactionStatus es el estado de procesamiento. Cualquier estado puede pasar a cualquier otro.
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "PENDING"
	StatusProcessing TransactionStatus = "PROCESSING"
	StatusCompleted  TransactionStatus = "COMPLETED"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted:
		return true
	}
	return false
}

// ParseTransactionStatus acepta el nombre del estado sin distinguir mayúsculas.
func ParseTransactionStatus(raw string) (TransactionStatus, bool) {
	s := TransactionStatus(strings.ToUpper(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// Transaction es el registro inmutable de un cambio de stock.
// Después de creada solo cambian Status, Note y UpdatedAt.
type Transaction struct {
	ID            int64
	TotalProducts int
	TotalPrice    decimal.Decimal
	Type          TransactionType
	Status        TransactionStatus
	Description   string
	Note          string
	ProductID     int64
	UserID        int64
	SupplierID    *int64 // nil en ventas
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
