package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ProductRepository implementación en memoria de repository.ProductRepository.
type ProductRepository struct {
	v view
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func copyProduct(p entity.Product) *entity.Product {
	if p.ExpiryDate != nil {
		d := *p.ExpiryDate
		p.ExpiryDate = &d
	}
	return &p
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	return r.v.do(ctx, func(st *state) error {
		for _, existing := range st.products {
			if existing.SKU == p.SKU {
				return fmt.Errorf("sku %q: %w", p.SKU, domain.ErrDuplicate)
			}
		}
		if p.CategoryID != 0 {
			if _, ok := st.categories[p.CategoryID]; !ok {
				return domain.NewNotFound("Category", p.CategoryID)
			}
		}
		p.ID = st.nextID("products")
		st.products[p.ID] = *copyProduct(*p)
		return nil
	})
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(ctx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = copyProduct(p)
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a GetByID: el lock de Run ya serializa la transacción.
func (r *ProductRepository) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) UpdateStock(ctx context.Context, id int64, stock int, updatedAt time.Time) error {
	return r.v.do(ctx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.NewNotFound("Product", id)
		}
		if stock < 0 {
			return fmt.Errorf("stock negativo para producto %d: %w", id, domain.ErrConflict)
		}
		p.StockQuantity = stock
		p.UpdatedAt = updatedAt
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	return r.v.do(ctx, func(st *state) error {
		current, ok := st.products[p.ID]
		if !ok {
			return domain.NewNotFound("Product", p.ID)
		}
		for id, existing := range st.products {
			if id != p.ID && existing.SKU == p.SKU {
				return fmt.Errorf("sku %q: %w", p.SKU, domain.ErrDuplicate)
			}
		}
		updated := *copyProduct(*p)
		updated.StockQuantity = current.StockQuantity
		updated.CreatedAt = current.CreatedAt
		st.products[p.ID] = updated
		return nil
	})
}

func (r *ProductRepository) List(ctx context.Context) ([]*entity.Product, error) {
	return r.filter(ctx, func(entity.Product) bool { return true })
}

func (r *ProductRepository) Search(ctx context.Context, text string) ([]*entity.Product, error) {
	return r.filter(ctx, func(p entity.Product) bool {
		return containsFold(p.Name, text) || containsFold(p.Description, text)
	})
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	return r.v.do(ctx, func(st *state) error {
		for _, t := range st.transactions {
			if t.ProductID == id {
				return fmt.Errorf("producto %d tiene transacciones: %w", id, domain.ErrConflict)
			}
		}
		delete(st.products, id)
		return nil
	})
}

func (r *ProductRepository) filter(ctx context.Context, keep func(entity.Product) bool) ([]*entity.Product, error) {
	out := []*entity.Product{}
	err := r.v.do(ctx, func(st *state) error {
		for _, p := range st.products {
			if keep(p) {
				out = append(out, copyProduct(p))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, err
}
