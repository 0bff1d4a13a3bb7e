package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// StockEngine aplica deltas de stock sobre un producto. Debe usarse con repositorios atados a una tx
// para que el bloqueo de fila dure hasta el Commit.
type StockEngine struct{}

// NewStockEngine construye el motor de stock.
func NewStockEngine() *StockEngine {
	return &StockEngine{}
}

// ApplyDelta bloquea la fila del producto (GetForUpdate), valida con inventory.NextStock y escribe el nuevo stock.
// Devuelve el producto con el stock ya actualizado.
func (e *StockEngine) ApplyDelta(
	ctx context.Context,
	products repository.ProductRepository,
	productID int64,
	delta int,
	now time.Time,
) (*entity.Product, error) {
	if delta == 0 {
		return nil, domain.NewValidation("quantity must be greater than zero")
	}
	product, err := products.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFound("Product", productID)
	}
	next, err := inventory.NextStock(product.StockQuantity, delta)
	if err != nil {
		return nil, err
	}
	if err := products.UpdateStock(ctx, productID, next, now); err != nil {
		return nil, err
	}
	product.StockQuantity = next
	product.UpdatedAt = now
	return product, nil
}
