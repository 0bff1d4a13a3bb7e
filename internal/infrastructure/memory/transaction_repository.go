package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TransactionRepository implementación en memoria de repository.TransactionRepository.
type TransactionRepository struct {
	v view
}

var _ repository.TransactionRepository = (*TransactionRepository)(nil)

func copyTransaction(t entity.Transaction) *entity.Transaction {
	if t.SupplierID != nil {
		id := *t.SupplierID
		t.SupplierID = &id
	}
	return &t
}

func (r *TransactionRepository) Create(ctx context.Context, t *entity.Transaction) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.products[t.ProductID]; !ok {
			return domain.NewNotFound("Product", t.ProductID)
		}
		t.ID = st.nextID("transactions")
		st.transactions[t.ID] = *copyTransaction(*t)
		return nil
	})
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*entity.Transaction, error) {
	var out *entity.Transaction
	err := r.v.do(ctx, func(st *state) error {
		if t, ok := st.transactions[id]; ok {
			out = copyTransaction(t)
		}
		return nil
	})
	return out, err
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, id int64, status entity.TransactionStatus, updatedAt time.Time) (*entity.Transaction, error) {
	var out *entity.Transaction
	err := r.v.do(ctx, func(st *state) error {
		t, ok := st.transactions[id]
		if !ok {
			return nil
		}
		t.Status = status
		t.UpdatedAt = updatedAt
		st.transactions[id] = t
		out = copyTransaction(t)
		return nil
	})
	return out, err
}

func (r *TransactionRepository) Search(ctx context.Context, f repository.TransactionFilter) ([]*entity.Transaction, int64, error) {
	matches, err := r.collect(ctx, func(t entity.Transaction) bool {
		return containsFold(t.Description, f.Text) || containsFold(t.Note, f.Text)
	})
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(matches))
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Offset >= len(matches) {
		return []*entity.Transaction{}, total, nil
	}
	end := len(matches)
	if f.Limit > 0 && f.Limit < end-f.Offset {
		end = f.Offset + f.Limit
	}
	return matches[f.Offset:end], total, nil
}

func (r *TransactionRepository) ListByPeriod(ctx context.Context, from, to time.Time) ([]*entity.Transaction, error) {
	return r.collect(ctx, func(t entity.Transaction) bool {
		return inRange(t.CreatedAt, from, to)
	})
}

func (r *TransactionRepository) SummarizeByPeriod(ctx context.Context, from, to time.Time) ([]repository.TypeTotals, error) {
	items, err := r.ListByPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}
	totals := map[entity.TransactionType]*repository.TypeTotals{}
	for _, t := range items {
		agg, ok := totals[t.Type]
		if !ok {
			agg = &repository.TypeTotals{Type: t.Type, TotalPrice: decimal.Zero}
			totals[t.Type] = agg
		}
		agg.Count++
		agg.Units += int64(t.TotalProducts)
		agg.TotalPrice = agg.TotalPrice.Add(t.TotalPrice)
	}
	out := make([]repository.TypeTotals, 0, len(totals))
	for _, tt := range entity.TransactionTypes {
		if agg, ok := totals[tt]; ok {
			out = append(out, *agg)
		}
	}
	return out, nil
}

// collect devuelve las transacciones que cumplen keep, id descendente.
func (r *TransactionRepository) collect(ctx context.Context, keep func(entity.Transaction) bool) ([]*entity.Transaction, error) {
	out := []*entity.Transaction{}
	err := r.v.do(ctx, func(st *state) error {
		for _, t := range st.transactions {
			if keep(t) {
				out = append(out, copyTransaction(t))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, err
}

func inRange(ts, from, to time.Time) bool {
	return !ts.Before(from) && ts.Before(to)
}
