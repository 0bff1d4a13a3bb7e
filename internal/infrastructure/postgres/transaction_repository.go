package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const transactionColumns = `id, total_products, total_price, transaction_type, status, description, note,
	product_id, user_id, supplier_id, created_at, updated_at`

// TransactionRepo implementación de TransactionRepository sobre PostgreSQL (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var t entity.Transaction
	var txType, status string
	err := row.Scan(
		&t.ID, &t.TotalProducts, &t.TotalPrice, &txType, &status, &t.Description, &t.Note,
		&t.ProductID, &t.UserID, &t.SupplierID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Type = entity.TransactionType(txType)
	t.Status = entity.TransactionStatus(status)
	return &t, nil
}

// Create inserta el registro y asigna ID.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO transactions (total_products, total_price, transaction_type, status, description, note,
			product_id, user_id, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		t.TotalProducts, t.TotalPrice, string(t.Type), string(t.Status), t.Description, t.Note,
		t.ProductID, t.UserID, t.SupplierID, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if err != nil {
		return wrapWriteError("insert transaction", err)
	}
	return nil
}

// GetByID obtiene una transacción por ID.
func (r *TransactionRepo) GetByID(ctx context.Context, id int64) (*entity.Transaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.StoreError("get transaction", err)
	}
	return t, nil
}

// UpdateStatus cambia el estado y devuelve la fila resultante; (nil, nil) si no existe.
func (r *TransactionRepo) UpdateStatus(ctx context.Context, id int64, status entity.TransactionStatus, updatedAt time.Time) (*entity.Transaction, error) {
	query := `UPDATE transactions SET status = $2, updated_at = $3 WHERE id = $1 RETURNING ` + transactionColumns
	t, err := scanTransaction(r.q.QueryRow(ctx, query, id, string(status), updatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapWriteError("update transaction status", err)
	}
	return t, nil
}

// Search aplica el filtro ILIKE sobre descripción o nota y pagina por id descendente.
// Página y total salen de la misma sentencia (count(*) OVER()), así comparten snapshot.
func (r *TransactionRepo) Search(ctx context.Context, f repository.TransactionFilter) ([]*entity.Transaction, int64, error) {
	where := ``
	args := []any{}
	if f.Text != "" {
		where = ` WHERE description ILIKE $1 OR note ILIKE $1`
		args = append(args, likePattern(f.Text))
	}

	n := len(args)
	query := `SELECT ` + transactionColumns + `, count(*) OVER() FROM transactions` + where +
		` ORDER BY id DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	rows, err := r.q.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, domain.StoreError("search transactions", err)
	}
	defer rows.Close()

	var total int64
	items := []*entity.Transaction{}
	for rows.Next() {
		var t entity.Transaction
		var txType, status string
		if err := rows.Scan(
			&t.ID, &t.TotalProducts, &t.TotalPrice, &txType, &status, &t.Description, &t.Note,
			&t.ProductID, &t.UserID, &t.SupplierID, &t.CreatedAt, &t.UpdatedAt, &total,
		); err != nil {
			return nil, 0, domain.StoreError("scan transaction", err)
		}
		t.Type = entity.TransactionType(txType)
		t.Status = entity.TransactionStatus(status)
		items = append(items, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.StoreError("search transactions", err)
	}

	// Página vacía más allá del final: el total se consulta aparte.
	if len(items) == 0 && f.Offset > 0 {
		if err := r.q.QueryRow(ctx, `SELECT count(*) FROM transactions`+where, args...).Scan(&total); err != nil {
			return nil, 0, domain.StoreError("count transactions", err)
		}
	}
	return items, total, nil
}

// ListByPeriod devuelve las transacciones con created_at en [from, to).
func (r *TransactionRepo) ListByPeriod(ctx context.Context, from, to time.Time) ([]*entity.Transaction, error) {
	return r.list(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY id DESC`, from, to)
}

// SummarizeByPeriod agrega por tipo las transacciones con created_at en [from, to).
func (r *TransactionRepo) SummarizeByPeriod(ctx context.Context, from, to time.Time) ([]repository.TypeTotals, error) {
	rows, err := r.q.Query(ctx, `
		SELECT transaction_type, count(*), COALESCE(sum(total_products), 0)::bigint, COALESCE(sum(total_price), 0)
		FROM transactions
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY transaction_type`, from, to)
	if err != nil {
		return nil, domain.StoreError("summarize transactions", err)
	}
	defer rows.Close()

	out := []repository.TypeTotals{}
	for rows.Next() {
		var tt repository.TypeTotals
		var txType string
		if err := rows.Scan(&txType, &tt.Count, &tt.Units, &tt.TotalPrice); err != nil {
			return nil, domain.StoreError("scan summary", err)
		}
		tt.Type = entity.TransactionType(txType)
		out = append(out, tt)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("summarize transactions", err)
	}
	return out, nil
}

func (r *TransactionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Transaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.StoreError("list transactions", err)
	}
	defer rows.Close()

	out := []*entity.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, domain.StoreError("scan transaction", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("list transactions", err)
	}
	return out, nil
}
