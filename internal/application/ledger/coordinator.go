package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// RestockInput entrada para una compra a proveedor.
type RestockInput struct {
	ProductID   int64
	SupplierID  *int64
	Quantity    int
	Description string
	Note        string
}

// SellInput entrada para una venta.
type SellInput struct {
	ProductID   int64
	Quantity    int
	Description string
	Note        string
}

// ReturnInput entrada para una devolución a proveedor.
type ReturnInput struct {
	ProductID   int64
	SupplierID  *int64
	Quantity    int
	Description string
	Note        string
}

// Coordinator orquesta cada operación del ledger: valida referencias, aplica el delta de stock con
// StockEngine y registra la transacción, todo dentro de un mismo TxRunner.Run.
type Coordinator struct {
	txRunner     TxRunner
	engine       *StockEngine
	products     repository.ProductRepository
	suppliers    repository.SupplierRepository
	users        repository.UserRepository
	transactions repository.TransactionRepository
	log          *logger.Logger
	metrics      Recorder
	now          func() time.Time
}

// NewCoordinator construye el coordinador. metrics puede ser nil.
func NewCoordinator(
	txRunner TxRunner,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	users repository.UserRepository,
	transactions repository.TransactionRepository,
	log *logger.Logger,
	metrics Recorder,
) *Coordinator {
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &Coordinator{
		txRunner:     txRunner,
		engine:       NewStockEngine(),
		products:     products,
		suppliers:    suppliers,
		users:        users,
		transactions: transactions,
		log:          log.Named("ledger"),
		metrics:      metrics,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj usado para createdAt/updatedAt.
func (c *Coordinator) WithClock(now func() time.Time) *Coordinator {
	c.now = now
	return c
}

// Restock registra una compra: suma quantity al stock y crea una transacción PURCHASE COMPLETED.
func (c *Coordinator) Restock(ctx context.Context, in RestockInput, actorID int64) (*entity.Transaction, error) {
	start := time.Now()
	tx, err := c.restock(ctx, in, actorID)
	c.finish(OpRestock, start, tx, err)
	return tx, err
}

func (c *Coordinator) restock(ctx context.Context, in RestockInput, actorID int64) (*entity.Transaction, error) {
	if in.SupplierID == nil {
		return nil, domain.NewValidation("Supplier Id is Required")
	}
	if err := validateQuantity(in.Quantity); err != nil {
		return nil, err
	}
	if err := c.requireProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if err := c.requireSupplier(ctx, *in.SupplierID); err != nil {
		return nil, err
	}
	if err := c.requireUser(ctx, actorID); err != nil {
		return nil, err
	}
	supplierID := *in.SupplierID
	return c.record(ctx, in.ProductID, in.Quantity, func(p *entity.Product) *entity.Transaction {
		return &entity.Transaction{
			TotalProducts: in.Quantity,
			TotalPrice:    inventory.LineTotal(p.Price, in.Quantity),
			Type:          entity.TransactionPurchase,
			Status:        entity.StatusCompleted,
			Description:   in.Description,
			Note:          in.Note,
			ProductID:     p.ID,
			UserID:        actorID,
			SupplierID:    &supplierID,
		}
	})
}

// Sell registra una venta: resta quantity del stock y crea una transacción SALE COMPLETED sin proveedor.
func (c *Coordinator) Sell(ctx context.Context, in SellInput, actorID int64) (*entity.Transaction, error) {
	start := time.Now()
	tx, err := c.sell(ctx, in, actorID)
	c.finish(OpSell, start, tx, err)
	return tx, err
}

func (c *Coordinator) sell(ctx context.Context, in SellInput, actorID int64) (*entity.Transaction, error) {
	if err := validateQuantity(in.Quantity); err != nil {
		return nil, err
	}
	if err := c.requireProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if err := c.requireUser(ctx, actorID); err != nil {
		return nil, err
	}
	// El stock suficiente lo decide StockEngine con la fila bloqueada.
	return c.record(ctx, in.ProductID, -in.Quantity, func(p *entity.Product) *entity.Transaction {
		return &entity.Transaction{
			TotalProducts: in.Quantity,
			TotalPrice:    inventory.LineTotal(p.Price, in.Quantity),
			Type:          entity.TransactionSale,
			Status:        entity.StatusCompleted,
			Description:   in.Description,
			Note:          in.Note,
			ProductID:     p.ID,
			UserID:        actorID,
		}
	})
}

// ReturnToSupplier registra una devolución: resta quantity del stock y crea una transacción
// RETURN_TO_SUPPLIER PROCESSING con precio total cero.
func (c *Coordinator) ReturnToSupplier(ctx context.Context, in ReturnInput, actorID int64) (*entity.Transaction, error) {
	start := time.Now()
	tx, err := c.returnToSupplier(ctx, in, actorID)
	c.finish(OpReturn, start, tx, err)
	return tx, err
}

func (c *Coordinator) returnToSupplier(ctx context.Context, in ReturnInput, actorID int64) (*entity.Transaction, error) {
	if in.SupplierID == nil {
		return nil, domain.NewValidation("Supplier Id is Required")
	}
	if err := validateQuantity(in.Quantity); err != nil {
		return nil, err
	}
	if err := c.requireProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if err := c.requireSupplier(ctx, *in.SupplierID); err != nil {
		return nil, err
	}
	if err := c.requireUser(ctx, actorID); err != nil {
		return nil, err
	}
	supplierID := *in.SupplierID
	return c.record(ctx, in.ProductID, -in.Quantity, func(p *entity.Product) *entity.Transaction {
		return &entity.Transaction{
			TotalProducts: in.Quantity,
			TotalPrice:    decimal.Zero,
			Type:          entity.TransactionReturnToSupplier,
			Status:        entity.StatusProcessing,
			Description:   in.Description,
			Note:          in.Note,
			ProductID:     p.ID,
			UserID:        actorID,
			SupplierID:    &supplierID,
		}
	})
}

// UpdateStatus cambia el estado de una transacción. Cualquier estado válido puede fijarse desde cualquier otro.
func (c *Coordinator) UpdateStatus(ctx context.Context, transactionID int64, status entity.TransactionStatus) (*entity.Transaction, error) {
	start := time.Now()
	tx, err := c.updateStatus(ctx, transactionID, status)
	c.finish(OpUpdateStatus, start, tx, err)
	return tx, err
}

func (c *Coordinator) updateStatus(ctx context.Context, transactionID int64, status entity.TransactionStatus) (*entity.Transaction, error) {
	if !status.Valid() {
		return nil, domain.NewValidation("invalid transaction status: %q", string(status))
	}
	tx, err := c.transactions.UpdateStatus(ctx, transactionID, status, c.now())
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.NewNotFound("Transaction", transactionID)
	}
	return tx, nil
}

// GetByID devuelve la transacción o *NotFoundError.
func (c *Coordinator) GetByID(ctx context.Context, id int64) (*entity.Transaction, error) {
	tx, err := c.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.NewNotFound("Transaction", id)
	}
	return tx, nil
}

// record aplica delta al producto y persiste la transacción construida por build en la misma tx.
func (c *Coordinator) record(
	ctx context.Context,
	productID int64,
	delta int,
	build func(p *entity.Product) *entity.Transaction,
) (*entity.Transaction, error) {
	now := c.now()
	var out *entity.Transaction
	err := c.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		transactionRepo repository.TransactionRepository,
	) error {
		product, err := c.engine.ApplyDelta(ctx, productRepo, productID, delta, now)
		if err != nil {
			return err
		}
		tx := build(product)
		tx.CreatedAt = now
		tx.UpdatedAt = now
		if err := transactionRepo.Create(ctx, tx); err != nil {
			return err
		}
		out = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Coordinator) requireProduct(ctx context.Context, id int64) error {
	p, err := c.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.NewNotFound("Product", id)
	}
	return nil
}

func (c *Coordinator) requireSupplier(ctx context.Context, id int64) error {
	s, err := c.suppliers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.NewNotFound("Supplier", id)
	}
	return nil
}

func (c *Coordinator) requireUser(ctx context.Context, id int64) error {
	u, err := c.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.NewNotFound("User", id)
	}
	return nil
}

func validateQuantity(q int) error {
	if q <= 0 {
		return domain.NewValidation("quantity must be greater than zero")
	}
	if q > inventory.MaxStock {
		return domain.NewValidation("quantity must not exceed %d", inventory.MaxStock)
	}
	return nil
}

func (c *Coordinator) finish(op string, start time.Time, tx *entity.Transaction, err error) {
	c.metrics.ObserveOperation(op, time.Since(start), err)
	switch {
	case err == nil:
		c.log.Info().
			Str("op", op).
			Int64("transaction_id", tx.ID).
			Int64("product_id", tx.ProductID).
			Str("type", string(tx.Type)).
			Str("status", string(tx.Status)).
			Int("quantity", tx.TotalProducts).
			Msg("operación del ledger confirmada")
	case isDomainRejection(err):
		c.log.Debug().Str("op", op).Err(err).Msg("operación del ledger rechazada")
	default:
		c.log.Error().Str("op", op).Err(err).Msg("fallo de almacenamiento en el ledger")
	}
}

func isDomainRejection(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInsufficientStock)
}
