package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func sellN(t *testing.T, f *fixture, n int, note func(i int) string) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := f.coord.Sell(context.Background(), ledger.SellInput{ProductID: f.product.ID, Quantity: 1, Note: note(i)}, f.user.ID)
		require.NoError(t, err)
	}
}

// ---------- Search ----------

func TestSearch_PaginatesNewestFirst(t *testing.T) {
	f := newFixture(t, 100)
	sellN(t, f, 25, func(i int) string { return fmt.Sprintf("venta %d", i) })

	page, err := f.query.Search(context.Background(), 3, 10, "")
	require.NoError(t, err)

	assert.Equal(t, int64(25), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.Page)
	require.Len(t, page.Items, 5)
	assert.Equal(t, int64(5), page.Items[0].ID)
	assert.Equal(t, int64(1), page.Items[4].ID)
}

func TestSearch_NormalizesPageAndSize(t *testing.T) {
	f := newFixture(t, 10)
	sellN(t, f, 3, func(int) string { return "" })
	ctx := context.Background()

	page, err := f.query.Search(ctx, 0, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Size, "tamaño por defecto")

	page, err = f.query.Search(ctx, 1, 5000, "")
	require.NoError(t, err)
	assert.Equal(t, 100, page.Size, "tamaño máximo")
}

func TestSearch_HugePageReturnsEmptyItems(t *testing.T) {
	f := newFixture(t, 10)
	sellN(t, f, 3, func(int) string { return "" })

	for _, page := range []int{math.MaxInt, math.MaxInt / 10, math.MaxInt32 + 2} {
		got, err := f.query.Search(context.Background(), page, 10, "")
		require.NoError(t, err, "page=%d", page)
		assert.Empty(t, got.Items)
		assert.Equal(t, int64(3), got.TotalElements)
		assert.Equal(t, page, got.Page)
	}
}

func TestSearch_FilterMatchesDescriptionOrNoteIgnoringCase(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	_, err := f.coord.Sell(ctx, ledger.SellInput{ProductID: f.product.ID, Quantity: 1, Description: "Venta MAYORISTA"}, f.user.ID)
	require.NoError(t, err)
	_, err = f.coord.Sell(ctx, ledger.SellInput{ProductID: f.product.ID, Quantity: 1, Note: "cliente mayorista"}, f.user.ID)
	require.NoError(t, err)
	_, err = f.coord.Sell(ctx, ledger.SellInput{ProductID: f.product.ID, Quantity: 1, Note: "detal"}, f.user.ID)
	require.NoError(t, err)

	page, err := f.query.Search(ctx, 1, 10, "Mayorista")
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalElements)
}

func TestSearch_EmptyResultHasNoPages(t *testing.T) {
	f := newFixture(t, 10)

	page, err := f.query.Search(context.Background(), 1, 10, "nada")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
}

// ---------- Periodo ----------

func TestFindByPeriod_UsesMonthBoundaries(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	stamps := []time.Time{
		time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC),
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, ts := range stamps {
		f.coord.WithClock(fixedClock(ts))
		_, err := f.coord.Sell(ctx, ledger.SellInput{ProductID: f.product.ID, Quantity: 1}, f.user.ID)
		require.NoError(t, err)
	}

	items, err := f.query.FindByPeriod(ctx, 2, 2024)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, time.February, it.CreatedAt.Month())
	}
}

func TestFindByPeriod_RejectsInvalidMonthAndYear(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	for _, tc := range []struct{ month, year int }{{0, 2024}, {13, 2024}, {1, 0}, {1, 10000}} {
		_, err := f.query.FindByPeriod(ctx, tc.month, tc.year)
		assert.True(t, errors.Is(err, domain.ErrValidation), "mes %d año %d", tc.month, tc.year)
	}
}

func TestSummarizePeriod_AggregatesByType(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	f.coord.WithClock(fixedClock(time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)))

	_, err := f.coord.Sell(ctx, ledger.SellInput{ProductID: f.product.ID, Quantity: 3}, f.user.ID)
	require.NoError(t, err)
	_, err = f.coord.Sell(ctx, ledger.SellInput{ProductID: f.product.ID, Quantity: 2}, f.user.ID)
	require.NoError(t, err)
	_, err = f.coord.Restock(ctx, ledger.RestockInput{ProductID: f.product.ID, SupplierID: ptr(f.supplier.ID), Quantity: 4}, f.user.ID)
	require.NoError(t, err)

	sum, err := f.query.SummarizePeriod(ctx, 6, 2024)
	require.NoError(t, err)

	require.Len(t, sum.ByType, 3)
	purchase, sale, ret := sum.ByType[0], sum.ByType[1], sum.ByType[2]
	assert.Equal(t, entity.TransactionPurchase, purchase.Type)
	assert.Equal(t, int64(1), purchase.Count)
	assert.Equal(t, int64(4), purchase.Units)
	assert.Equal(t, int64(2), sale.Count)
	assert.Equal(t, int64(5), sale.Units)
	assert.True(t, sale.TotalPrice.Equal(decimal.RequireFromString("50")))
	assert.Equal(t, int64(0), ret.Count)
	assert.True(t, ret.TotalPrice.IsZero())

	assert.Equal(t, int64(3), sum.Count)
	assert.Equal(t, int64(9), sum.Units)
	assert.True(t, sum.TotalPrice.Equal(decimal.RequireFromString("90")))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, ledger.TotalPages(0, 10))
	assert.Equal(t, 1, ledger.TotalPages(10, 10))
	assert.Equal(t, 2, ledger.TotalPages(11, 10))
	assert.Equal(t, 0, ledger.TotalPages(5, 0))
}

// ---------- Reporte ----------

type fakeGenerator struct {
	summary *ledger.PeriodSummary
	items   int
}

func (g *fakeGenerator) GeneratePeriodReport(_ context.Context, s *ledger.PeriodSummary, items []*entity.Transaction) ([]byte, error) {
	g.summary = s
	g.items = len(items)
	return []byte("%PDF-fake"), nil
}

func TestPeriodReport_PassesSummaryAndItems(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	f.coord.WithClock(fixedClock(time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)))
	sellN(t, f, 2, func(int) string { return "" })

	gen := &fakeGenerator{}
	pdf, name, err := ledger.NewReportUseCase(f.query, gen).PeriodReport(ctx, 7, 2024)
	require.NoError(t, err)

	assert.Equal(t, "ledger-2024-07.pdf", name)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Equal(t, 2, gen.items)
	assert.Equal(t, int64(2), gen.summary.Count)
}
