package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

type fixture struct {
	store    *memory.Store
	coord    *ledger.Coordinator
	query    *ledger.QueryService
	product  *entity.Product
	supplier *entity.Supplier
	user     *entity.User
}

// newFixture crea un store con un producto (precio 10.00), un proveedor y un usuario.
func newFixture(t *testing.T, stock int) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	p := &entity.Product{SKU: "CAF-001", Name: "Café", Price: decimal.RequireFromString("10.00"), StockQuantity: stock}
	require.NoError(t, store.Products().Create(ctx, p))
	s := &entity.Supplier{Name: "Proveedor Andino", ContactInfo: "ventas@andino.co"}
	require.NoError(t, store.Suppliers().Create(ctx, s))
	u := &entity.User{Name: "Ana", Email: "ana@example.com", Role: entity.RoleManager}
	require.NoError(t, store.Users().Create(ctx, u))

	return &fixture{
		store:    store,
		coord:    newCoordinator(store, store),
		query:    ledger.NewQueryService(store.Transactions(), 10, 100),
		product:  p,
		supplier: s,
		user:     u,
	}
}

func newCoordinator(store *memory.Store, runner ledger.TxRunner) *ledger.Coordinator {
	return ledger.NewCoordinator(runner, store.Products(), store.Suppliers(), store.Users(), store.Transactions(), nil, nil)
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), f.product.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.StockQuantity
}

func (f *fixture) transactionCount(t *testing.T) int64 {
	t.Helper()
	_, total, err := f.store.Transactions().Search(context.Background(), repository.TransactionFilter{Limit: 1})
	require.NoError(t, err)
	return total
}

func ptr[T any](v T) *T { return &v }

// failingInsertRunner envuelve el store y hace fallar la inserción de la transacción
// después de que el motor ya aplicó el delta.
type failingInsertRunner struct {
	store *memory.Store
	err   error
}

func (r failingInsertRunner) Run(ctx context.Context, fn func(repository.ProductRepository, repository.TransactionRepository) error) error {
	return r.store.Run(ctx, func(products repository.ProductRepository, txs repository.TransactionRepository) error {
		return fn(products, failingTransactions{TransactionRepository: txs, err: r.err})
	})
}

type failingTransactions struct {
	repository.TransactionRepository
	err error
}

func (f failingTransactions) Create(context.Context, *entity.Transaction) error { return f.err }

func fixedClock(ts time.Time) func() time.Time { return func() time.Time { return ts } }
