package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Store almacenamiento en memoria para desarrollo y tests.
// Un mutex de todo el store serializa las transacciones; Run trabaja sobre una copia (staged)
// que solo reemplaza al estado vigente si fn termina sin error.
type Store struct {
	mu sync.Mutex
	st *state
}

var _ ledger.TxRunner = (*Store)(nil)

type state struct {
	products     map[int64]entity.Product
	transactions map[int64]entity.Transaction
	suppliers    map[int64]entity.Supplier
	categories   map[int64]entity.Category
	users        map[int64]entity.User
	seq          map[string]int64
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{st: &state{
		products:     map[int64]entity.Product{},
		transactions: map[int64]entity.Transaction{},
		suppliers:    map[int64]entity.Supplier{},
		categories:   map[int64]entity.Category{},
		users:        map[int64]entity.User{},
		seq:          map[string]int64{},
	}}
}

// stage copia lo que una transacción del ledger puede escribir; el resto se comparte.
func (st *state) stage() *state {
	out := *st
	out.products = make(map[int64]entity.Product, len(st.products))
	for k, v := range st.products {
		out.products[k] = v
	}
	out.transactions = make(map[int64]entity.Transaction, len(st.transactions))
	for k, v := range st.transactions {
		out.transactions[k] = v
	}
	out.seq = make(map[string]int64, len(st.seq))
	for k, v := range st.seq {
		out.seq[k] = v
	}
	return &out
}

func (st *state) nextID(table string) int64 {
	st.seq[table]++
	return st.seq[table]
}

// Run ejecuta fn con repositorios atados a una copia del estado. Commit = reemplazar el estado.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	transactionRepo repository.TransactionRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	staged := s.st.stage()
	v := view{store: s, staged: staged}
	if err := fn(&ProductRepository{v: v}, &TransactionRepository{v: v}); err != nil {
		return err
	}
	// Cancelación antes del commit descarta los cambios.
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = staged
	return nil
}

// Products devuelve el repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepository { return &ProductRepository{v: view{store: s}} }

// Transactions devuelve el repositorio de transacciones fuera de transacción.
func (s *Store) Transactions() *TransactionRepository {
	return &TransactionRepository{v: view{store: s}}
}

// Suppliers devuelve el repositorio de proveedores.
func (s *Store) Suppliers() *SupplierRepository { return &SupplierRepository{v: view{store: s}} }

// Categories devuelve el repositorio de categorías.
func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{v: view{store: s}} }

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() *UserRepository { return &UserRepository{v: view{store: s}} }

// view resuelve sobre qué estado opera un repositorio: el staged de una tx (lock ya tomado por Run)
// o el vigente, tomando el lock por operación.
type view struct {
	store  *Store
	staged *state
}

func (v view) do(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if v.staged != nil {
		return fn(v.staged)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}
