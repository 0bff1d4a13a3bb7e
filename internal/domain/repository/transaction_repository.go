package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// TransactionFilter parámetros de búsqueda paginada.
// Text se compara sin distinguir mayúsculas contra descripción o nota; vacío no filtra.
type TransactionFilter struct {
	Text   string
	Limit  int
	Offset int
}

// TypeTotals agregado de un tipo de transacción en un rango de fechas.
type TypeTotals struct {
	Type       entity.TransactionType
	Count      int64
	Units      int64
	TotalPrice decimal.Decimal
}

// TransactionRepository define el puerto de persistencia para Transaction.
// Las transacciones nunca se borran.
type TransactionRepository interface {
	// Create asigna ID al registro.
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id int64) (*entity.Transaction, error)
	// UpdateStatus devuelve (nil, nil) si la transacción no existe.
	UpdateStatus(ctx context.Context, id int64, status entity.TransactionStatus, updatedAt time.Time) (*entity.Transaction, error)
	// Search devuelve la página pedida (id descendente) y el total de coincidencias.
	Search(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, int64, error)
	// ListByPeriod devuelve las transacciones con createdAt en [from, to), id descendente.
	ListByPeriod(ctx context.Context, from, to time.Time) ([]*entity.Transaction, error)
	SummarizeByPeriod(ctx context.Context, from, to time.Time) ([]TypeTotals, error)
}
