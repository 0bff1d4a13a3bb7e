package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// TransactionHandler expone el ledger: altas de stock, consultas y cambio de estado.
type TransactionHandler struct {
	coord   *ledger.Coordinator
	query   *ledger.QueryService
	reports *ledger.ReportUseCase
	log     *logger.Logger
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(coord *ledger.Coordinator, query *ledger.QueryService, reports *ledger.ReportUseCase, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{coord: coord, query: query, reports: reports, log: log}
}

// Restock godoc
// @Summary      Registrar compra a proveedor
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave de idempotencia"
// @Param        body  body  dto.RestockRequest  true  "Compra"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions/restock [post]
func (h *TransactionHandler) Restock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	tx, err := h.coord.Restock(c.UserContext(), ledger.RestockInput{
		ProductID:   in.ProductID,
		SupplierID:  in.SupplierID,
		Quantity:    in.Quantity,
		Description: in.Description,
		Note:        in.Note,
	}, GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
}

// Sell godoc
// @Summary      Registrar venta
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave de idempotencia"
// @Param        body  body  dto.SellRequest  true  "Venta"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions/sell [post]
func (h *TransactionHandler) Sell(c *fiber.Ctx) error {
	var in dto.SellRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	tx, err := h.coord.Sell(c.UserContext(), ledger.SellInput{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		Description: in.Description,
		Note:        in.Note,
	}, GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
}

// Return godoc
// @Summary      Registrar devolución a proveedor
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave de idempotencia"
// @Param        body  body  dto.ReturnRequest  true  "Devolución"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions/return [post]
func (h *TransactionHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	tx, err := h.coord.ReturnToSupplier(c.UserContext(), ledger.ReturnInput{
		ProductID:   in.ProductID,
		SupplierID:  in.SupplierID,
		Quantity:    in.Quantity,
		Description: in.Description,
		Note:        in.Note,
	}, GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
}

// Search godoc
// @Summary      Buscar transacciones (paginado, más recientes primero)
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        page    query  int     false  "Página (desde 1)"  default(1)
// @Param        size    query  int     false  "Tamaño de página"  default(10)
// @Param        filter  query  string  false  "Texto en descripción o nota"
// @Success      200     {object}  dto.TransactionPageResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) Search(c *fiber.Ctx) error {
	page, err := h.query.Search(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("size", 0), c.Query("filter"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.TransactionPageResponse{
		Items:         toTransactionResponses(page.Items),
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	})
}

// ByPeriod godoc
// @Summary      Transacciones de un mes (UTC)
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        month  query  int  true  "Mes 1-12"
// @Param        year   query  int  true  "Año"
// @Success      200    {object}  dto.ListResponse[dto.TransactionResponse]
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/transactions/period [get]
func (h *TransactionHandler) ByPeriod(c *fiber.Ctx) error {
	items, err := h.query.FindByPeriod(c.UserContext(), c.QueryInt("month"), c.QueryInt("year"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewListResponse(toTransactionResponses(items)))
}

// PeriodSummary godoc
// @Summary      Totales del mes por tipo de transacción
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        month  query  int  true  "Mes 1-12"
// @Param        year   query  int  true  "Año"
// @Success      200    {object}  dto.PeriodSummaryResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/transactions/period/summary [get]
func (h *TransactionHandler) PeriodSummary(c *fiber.Ctx) error {
	s, err := h.query.SummarizePeriod(c.UserContext(), c.QueryInt("month"), c.QueryInt("year"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.PeriodSummaryResponse{
		Month:      s.Month,
		Year:       s.Year,
		From:       s.From,
		To:         s.To,
		ByType:     make([]dto.TypeSummaryResponse, 0, len(s.ByType)),
		Count:      s.Count,
		Units:      s.Units,
		TotalPrice: s.TotalPrice,
	}
	for _, t := range s.ByType {
		out.ByType = append(out.ByType, dto.TypeSummaryResponse{
			TransactionType: string(t.Type),
			Count:           t.Count,
			Units:           t.Units,
			TotalPrice:      t.TotalPrice,
		})
	}
	return c.JSON(out)
}

// PeriodReport godoc
// @Summary      Reporte PDF del mes
// @Tags         transactions
// @Security     Bearer
// @Produce      application/pdf
// @Param        month  query  int  true  "Mes 1-12"
// @Param        year   query  int  true  "Año"
// @Success      200    {file}  binary
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/transactions/period/report [get]
func (h *TransactionHandler) PeriodReport(c *fiber.Ctx) error {
	pdf, filename, err := h.reports.PeriodReport(c.UserContext(), c.QueryInt("month"), c.QueryInt("year"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// GetByID godoc
// @Summary      Obtener transacción por ID
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	tx, err := h.coord.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toTransactionResponse(tx))
}

// UpdateStatus godoc
// @Summary      Cambiar el estado de una transacción
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la transacción"
// @Param        body  body  dto.UpdateStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/status [patch]
func (h *TransactionHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "id")
	if !ok {
		return err
	}
	var in dto.UpdateStatusRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	status, ok := entity.ParseTransactionStatus(in.Status)
	if !ok {
		return writeError(c, h.log, domain.NewValidation("invalid status: %q", in.Status))
	}
	tx, err := h.coord.UpdateStatus(c.UserContext(), id, status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toTransactionResponse(tx))
}

func toTransactionResponse(t *entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:              t.ID,
		TotalProducts:   t.TotalProducts,
		TotalPrice:      t.TotalPrice,
		TransactionType: string(t.Type),
		Status:          string(t.Status),
		Description:     t.Description,
		Note:            t.Note,
		ProductID:       t.ProductID,
		UserID:          t.UserID,
		SupplierID:      t.SupplierID,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func toTransactionResponses(list []*entity.Transaction) []dto.TransactionResponse {
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTransactionResponse(t))
	}
	return out
}
