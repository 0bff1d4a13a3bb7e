package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

var _ ledger.Recorder = (*LedgerMetrics)(nil)

// Resultados posibles de una operación del ledger.
const (
	OutcomeOK                = "ok"
	OutcomeValidation        = "validation"
	OutcomeNotFound          = "not_found"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeError             = "error"
)

// LedgerMetrics contadores e histograma de las operaciones del ledger.
type LedgerMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewLedgerMetrics registra las métricas en reg. Con reg nil devuelve un recolector inerte.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "operations_total",
		Help:      "Operaciones del ledger por tipo y resultado.",
	}, []string{"operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ledger",
		Name:      "operation_duration_seconds",
		Help:      "Duración de las operaciones del ledger en segundos.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(operations, duration)
	return &LedgerMetrics{operations: operations, duration: duration}
}

// ObserveOperation implementa ledger.Recorder.
func (m *LedgerMetrics) ObserveOperation(op string, elapsed time.Duration, err error) {
	if m == nil || m.operations == nil {
		return
	}
	op = normalizeLabel(op)
	m.operations.WithLabelValues(op, Outcome(err)).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// Outcome clasifica el error de una operación en una etiqueta de baja cardinalidad.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrValidation):
		return OutcomeValidation
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return OutcomeInsufficientStock
	default:
		return OutcomeError
	}
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
