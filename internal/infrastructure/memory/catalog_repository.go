package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// SupplierRepository implementación en memoria de repository.SupplierRepository.
type SupplierRepository struct {
	v view
}

var _ repository.SupplierRepository = (*SupplierRepository)(nil)

func (r *SupplierRepository) Create(ctx context.Context, s *entity.Supplier) error {
	return r.v.do(ctx, func(st *state) error {
		s.ID = st.nextID("suppliers")
		st.suppliers[s.ID] = *s
		return nil
	})
}

func (r *SupplierRepository) GetByID(ctx context.Context, id int64) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.v.do(ctx, func(st *state) error {
		if s, ok := st.suppliers[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepository) List(ctx context.Context) ([]*entity.Supplier, error) {
	out := []*entity.Supplier{}
	err := r.v.do(ctx, func(st *state) error {
		for _, s := range st.suppliers {
			s := s
			out = append(out, &s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, err
}

func (r *SupplierRepository) Update(ctx context.Context, s *entity.Supplier) error {
	return r.v.do(ctx, func(st *state) error {
		current, ok := st.suppliers[s.ID]
		if !ok {
			return domain.NewNotFound("Supplier", s.ID)
		}
		updated := *s
		updated.CreatedAt = current.CreatedAt
		st.suppliers[s.ID] = updated
		return nil
	})
}

func (r *SupplierRepository) Delete(ctx context.Context, id int64) error {
	return r.v.do(ctx, func(st *state) error {
		for _, t := range st.transactions {
			if t.SupplierID != nil && *t.SupplierID == id {
				return fmt.Errorf("proveedor %d tiene transacciones: %w", id, domain.ErrConflict)
			}
		}
		delete(st.suppliers, id)
		return nil
	})
}

// CategoryRepository implementación en memoria de repository.CategoryRepository.
type CategoryRepository struct {
	v view
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	return r.v.do(ctx, func(st *state) error {
		if err := uniqueCategoryName(st, 0, c.Name); err != nil {
			return err
		}
		c.ID = st.nextID("categories")
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.do(ctx, func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	out := []*entity.Category{}
	err := r.v.do(ctx, func(st *state) error {
		for _, c := range st.categories {
			c := c
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, err
}

func (r *CategoryRepository) Update(ctx context.Context, c *entity.Category) error {
	return r.v.do(ctx, func(st *state) error {
		current, ok := st.categories[c.ID]
		if !ok {
			return domain.NewNotFound("Category", c.ID)
		}
		if err := uniqueCategoryName(st, c.ID, c.Name); err != nil {
			return err
		}
		current.Name = c.Name
		st.categories[c.ID] = current
		return nil
	})
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.v.do(ctx, func(st *state) error {
		for _, p := range st.products {
			if p.CategoryID == id {
				return fmt.Errorf("categoría %d tiene productos: %w", id, domain.ErrConflict)
			}
		}
		delete(st.categories, id)
		return nil
	})
}

func uniqueCategoryName(st *state, selfID int64, name string) error {
	for id, c := range st.categories {
		if id != selfID && strings.EqualFold(c.Name, name) {
			return fmt.Errorf("categoría %q: %w", name, domain.ErrDuplicate)
		}
	}
	return nil
}
