package inventory

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// MaxStock es el mayor stock (y la mayor cantidad por transacción) que admite la columna INTEGER.
const MaxStock = math.MaxInt32

// NextStock calcula el stock resultante de aplicar delta (servicio de dominio puro).
// Un delta cero o que desborde MaxStock es inválido; un resultado negativo devuelve *InsufficientStockError con el stock actual.
func NextStock(current, delta int) (int, error) {
	if delta == 0 {
		return current, domain.NewValidation("quantity must be greater than zero")
	}
	if delta > MaxStock || delta < -MaxStock {
		return current, domain.NewValidation("quantity must not exceed %d", MaxStock)
	}
	if delta > 0 && current > MaxStock-delta {
		return current, domain.NewValidation("resulting stock would exceed %d", MaxStock)
	}
	next := current + delta
	if next < 0 {
		return current, &domain.InsufficientStockError{Available: current, Requested: -delta}
	}
	return next, nil
}

// LineTotal devuelve precio unitario × cantidad.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
