package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func TestLedgerMetrics_CountsByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)

	m.ObserveOperation("sell", 10*time.Millisecond, nil)
	m.ObserveOperation("sell", 5*time.Millisecond, &domain.InsufficientStockError{Available: 1})
	m.ObserveOperation("restock", time.Millisecond, domain.NewValidation("Supplier Id is Required"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("sell", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("sell", OutcomeInsufficientStock)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("restock", OutcomeValidation)))

	n, err := testutil.GatherAndCount(reg, "ledger_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "un histograma por operación")
}

func TestLedgerMetrics_NilRegistererIsInert(t *testing.T) {
	m := NewLedgerMetrics(nil)
	assert.NotPanics(t, func() { m.ObserveOperation("sell", time.Second, nil) })

	var nilMetrics *LedgerMetrics
	assert.NotPanics(t, func() { nilMetrics.ObserveOperation("sell", time.Second, nil) })
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeNotFound, Outcome(domain.NewNotFound("Product", 1)))
	assert.Equal(t, OutcomeError, Outcome(domain.StoreError("get", errors.New("x"))))
}

func TestHTTPMetrics_ObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("POST", "/api/transactions/sell", 201, time.Millisecond)
	m.ObserveRequest("POST", "/api/transactions/sell", 201, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("POST", "/api/transactions/sell", "201")))
}
