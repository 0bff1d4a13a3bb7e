package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación de SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador de proveedores.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (name, contact_info, address, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, s.Name, s.ContactInfo, s.Address, s.CreatedAt).Scan(&s.ID); err != nil {
		return wrapWriteError("insert supplier", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id int64) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.q.QueryRow(ctx, `SELECT id, name, contact_info, address, created_at FROM suppliers WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.ContactInfo, &s.Address, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.StoreError("get supplier", err)
	}
	return &s, nil
}

func (r *SupplierRepo) List(ctx context.Context) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, contact_info, address, created_at FROM suppliers ORDER BY id DESC`)
	if err != nil {
		return nil, domain.StoreError("list suppliers", err)
	}
	defer rows.Close()

	out := []*entity.Supplier{}
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.ContactInfo, &s.Address, &s.CreatedAt); err != nil {
			return nil, domain.StoreError("scan supplier", err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("list suppliers", err)
	}
	return out, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	tag, err := r.q.Exec(ctx, `UPDATE suppliers SET name = $2, contact_info = $3, address = $4 WHERE id = $1`,
		s.ID, s.Name, s.ContactInfo, s.Address)
	if err != nil {
		return wrapWriteError("update supplier", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("Supplier", s.ID)
	}
	return nil
}

func (r *SupplierRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id); err != nil {
		return wrapWriteError("delete supplier", err)
	}
	return nil
}
