package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, category_id, sku, name, description, price, stock_quantity, expiry_date, image_url, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var categoryID *int64
	err := row.Scan(
		&p.ID, &categoryID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.StockQuantity,
		&p.ExpiryDate, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	return &p, nil
}

func nullableID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

// Create persiste un nuevo producto con su stock inicial y asigna ID.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (category_id, sku, name, description, price, stock_quantity, expiry_date, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		nullableID(p.CategoryID), p.SKU, p.Name, p.Description, p.Price, p.StockQuantity,
		p.ExpiryDate, p.ImageURL, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return wrapWriteError("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.StoreError("get product", err)
	}
	return p, nil
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE). Solo tiene efecto dentro de una tx.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.StoreError("get product for update", err)
	}
	return p, nil
}

// UpdateStock escribe el nuevo stock. El CHECK (stock_quantity >= 0) de la tabla es la última barrera.
func (r *ProductRepo) UpdateStock(ctx context.Context, id int64, stock int, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET stock_quantity = $2, updated_at = $3 WHERE id = $1`, id, stock, updatedAt)
	if err != nil {
		return wrapWriteError("update stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("Product", id)
	}
	return nil
}

// Update persiste los campos descriptivos del producto; stock_quantity no se toca.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET category_id = $2, sku = $3, name = $4, description = $5, price = $6,
		    expiry_date = $7, image_url = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, nullableID(p.CategoryID), p.SKU, p.Name, p.Description, p.Price,
		p.ExpiryDate, p.ImageURL, p.UpdatedAt,
	)
	if err != nil {
		return wrapWriteError("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("Product", p.ID)
	}
	return nil
}

// List devuelve todos los productos, más recientes primero.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY id DESC`)
}

// Search busca por nombre o descripción sin distinguir mayúsculas.
func (r *ProductRepo) Search(ctx context.Context, text string) ([]*entity.Product, error) {
	return r.list(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE name ILIKE $1 OR description ILIKE $1
		ORDER BY id DESC`, likePattern(text))
}

// Delete elimina el producto. Falla con ErrConflict si tiene transacciones.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return wrapWriteError("delete product", err)
	}
	return nil
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.StoreError("list products", err)
	}
	defer rows.Close()

	out := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, domain.StoreError("scan product", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("list products", err)
	}
	return out, nil
}
