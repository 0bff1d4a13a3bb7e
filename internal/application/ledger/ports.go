package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del almacenamiento, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		transactionRepo repository.TransactionRepository,
	) error) error
}

// Recorder recibe la duración y el resultado de cada operación del ledger (métricas).
type Recorder interface {
	ObserveOperation(op string, elapsed time.Duration, err error)
}

// ReportGenerator renderiza el reporte mensual del ledger.
type ReportGenerator interface {
	GeneratePeriodReport(ctx context.Context, summary *PeriodSummary, items []*entity.Transaction) ([]byte, error)
}

// Nombres de operación usados en logs y métricas.
const (
	OpRestock      = "restock"
	OpSell         = "sell"
	OpReturn       = "return_to_supplier"
	OpUpdateStatus = "update_status"
)

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, time.Duration, error) {}
