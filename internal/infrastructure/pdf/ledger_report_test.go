package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0,00", formatMoney(decimal.Zero))
	assert.Equal(t, "999,90", formatMoney(decimal.RequireFromString("999.9")))
	assert.Equal(t, "25.000,00", formatMoney(decimal.NewFromInt(25000)))
	assert.Equal(t, "1.234.567,50", formatMoney(decimal.RequireFromString("1234567.5")))
}

func TestGeneratePeriodReport_ProducesPDF(t *testing.T) {
	from := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	summary := &ledger.PeriodSummary{
		Month: 6, Year: 2024, From: from, To: from.AddDate(0, 1, 0),
		ByType: []ledger.TypeSummary{
			{Type: entity.TransactionPurchase, Count: 1, Units: 4, TotalPrice: decimal.NewFromInt(40)},
			{Type: entity.TransactionSale, Count: 2, Units: 5, TotalPrice: decimal.NewFromInt(50)},
			{Type: entity.TransactionReturnToSupplier, TotalPrice: decimal.Zero},
		},
		Count: 3, Units: 9, TotalPrice: decimal.NewFromInt(90),
	}
	items := []*entity.Transaction{
		{ID: 2, Type: entity.TransactionSale, Status: entity.StatusCompleted, ProductID: 1, TotalProducts: 2, TotalPrice: decimal.NewFromInt(20), CreatedAt: from},
		{ID: 1, Type: entity.TransactionPurchase, Status: entity.StatusCompleted, ProductID: 1, TotalProducts: 4, TotalPrice: decimal.NewFromInt(40), CreatedAt: from},
	}

	pdf, err := NewLedgerReportGenerator("").GeneratePeriodReport(context.Background(), summary, items)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "debe ser un documento PDF")
}

func TestGeneratePeriodReport_EmptyPeriod(t *testing.T) {
	summary := &ledger.PeriodSummary{Month: 1, Year: 2023, TotalPrice: decimal.Zero}

	pdf, err := NewLedgerReportGenerator("Reporte").GeneratePeriodReport(context.Background(), summary, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
