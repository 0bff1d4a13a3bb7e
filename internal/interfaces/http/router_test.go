package http_test

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

func TestSell_ReducesStockAndRecordsSale(t *testing.T) {
	env := newTestEnv(t, 5, nil)

	resp := env.do(t, http.MethodPost, "/api/transactions/sell", env.mgrToken, fiber.Map{
		"productId":   env.productID,
		"quantity":    3,
		"description": "venta mostrador",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tx := decode[dto.TransactionResponse](t, resp)

	assert.Equal(t, "SALE", tx.TransactionType)
	assert.Equal(t, "COMPLETED", tx.Status)
	assert.Equal(t, 3, tx.TotalProducts)
	assert.True(t, decimal.RequireFromString("30.00").Equal(tx.TotalPrice), "totalPrice = %s", tx.TotalPrice)
	assert.Nil(t, tx.SupplierID)
	assert.Equal(t, env.productID, tx.ProductID)
	assert.Equal(t, fixedNow, tx.CreatedAt.UTC())
	assert.Equal(t, 2, env.stock(t))
}

func TestSell_InsufficientStock(t *testing.T) {
	env := newTestEnv(t, 2, nil)

	resp := env.do(t, http.MethodPost, "/api/transactions/sell", env.mgrToken, fiber.Map{
		"productId": env.productID,
		"quantity":  5,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeError(t, resp)

	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Equal(t, "Insufficient stock. Available: 2", body.Message)
	require.NotNil(t, body.Available)
	assert.Equal(t, 2, *body.Available)
	assert.Equal(t, 2, env.stock(t))
	assert.Zero(t, env.transactionCount(t))
}

func TestRestock_RequiresSupplier(t *testing.T) {
	env := newTestEnv(t, 5, nil)

	resp := env.do(t, http.MethodPost, "/api/transactions/restock", env.mgrToken, fiber.Map{
		"productId": env.productID,
		"quantity":  4,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, "Supplier Id is Required", body.Message)
	assert.Equal(t, 5, env.stock(t))

	resp = env.do(t, http.MethodPost, "/api/transactions/restock", env.mgrToken, fiber.Map{
		"productId":  env.productID,
		"supplierId": env.supplierID,
		"quantity":   4,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tx := decode[dto.TransactionResponse](t, resp)
	assert.Equal(t, "PURCHASE", tx.TransactionType)
	require.NotNil(t, tx.SupplierID)
	assert.Equal(t, env.supplierID, *tx.SupplierID)
	assert.Equal(t, 9, env.stock(t))
}

func TestReturn_RecordsProcessingWithZeroPrice(t *testing.T) {
	env := newTestEnv(t, 5, nil)

	resp := env.do(t, http.MethodPost, "/api/transactions/return", env.mgrToken, fiber.Map{
		"productId":  env.productID,
		"supplierId": env.supplierID,
		"quantity":   2,
		"note":       "lote dañado",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tx := decode[dto.TransactionResponse](t, resp)
	assert.Equal(t, "RETURN_TO_SUPPLIER", tx.TransactionType)
	assert.Equal(t, "PROCESSING", tx.Status)
	assert.True(t, tx.TotalPrice.IsZero())
	assert.Equal(t, 3, env.stock(t))
}

func TestLedger_NotFoundAndValidation(t *testing.T) {
	env := newTestEnv(t, 5, nil)

	resp := env.do(t, http.MethodPost, "/api/transactions/sell", env.mgrToken, fiber.Map{"productId": 999, "quantity": 1})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Product Not Found", decodeError(t, resp).Message)

	resp = env.do(t, http.MethodPost, "/api/transactions/sell", env.mgrToken, fiber.Map{"productId": env.productID, "quantity": 0})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)

	resp = env.do(t, http.MethodPost, "/api/transactions/restock", env.mgrToken,
		fiber.Map{"productId": env.productID, "supplierId": env.supplierID, "quantity": int64(1) << 40})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	oversized := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", oversized.Code)
	require.Len(t, oversized.Details, 1)
	assert.Equal(t, "quantity", oversized.Details[0].Field)
	assert.Equal(t, 5, env.stock(t))

	resp = env.do(t, http.MethodPost, "/api/transactions/sell", env.mgrToken, fiber.Map{"quantity": 1})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeError(t, resp)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "productId", body.Details[0].Field)

	resp = env.do(t, http.MethodGet, "/api/transactions/77", env.mgrToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Transaction Not Found", decodeError(t, resp).Message)

	resp = env.do(t, http.MethodGet, "/api/transactions/abc", env.mgrToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTransactions_RoundTripAndStatus(t *testing.T) {
	env := newTestEnv(t, 5, nil)
	created := decode[dto.TransactionResponse](t, env.do(t, http.MethodPost, "/api/transactions/sell", env.mgrToken,
		fiber.Map{"productId": env.productID, "quantity": 1}))
	path := "/api/transactions/" + strconv.FormatInt(created.ID, 10)

	got := decode[dto.TransactionResponse](t, env.do(t, http.MethodGet, path, env.mgrToken, nil))
	assert.Equal(t, created.TransactionType, got.TransactionType)
	assert.True(t, created.TotalPrice.Equal(got.TotalPrice))
	assert.Equal(t, created.ProductID, got.ProductID)
	assert.Equal(t, created.UserID, got.UserID)

	resp := env.do(t, http.MethodPatch, path+"/status", env.mgrToken, fiber.Map{"status": "pending"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "PENDING", decode[dto.TransactionResponse](t, resp).Status)

	resp = env.do(t, http.MethodPatch, path+"/status", env.mgrToken, fiber.Map{"status": "DONE"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	invalid := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", invalid.Code)
	assert.Equal(t, `invalid status: "DONE"`, invalid.Message)

	resp = env.do(t, http.MethodPatch, "/api/transactions/999/status", env.mgrToken, fiber.Map{"status": "COMPLETED"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTransactions_SearchPagesAndFilters(t *testing.T) {
	env := newTestEnv(t, 10, nil)
	for _, desc := range []string{"Venta A", "venta b", "ajuste"} {
		resp := env.do(t, http.MethodPost, "/api/transactions/sell", env.mgrToken,
			fiber.Map{"productId": env.productID, "quantity": 1, "description": desc})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	page := decode[dto.TransactionPageResponse](t, env.do(t, http.MethodGet, "/api/transactions?page=1&size=2", env.mgrToken, nil))
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Items, 2)
	assert.Greater(t, page.Items[0].ID, page.Items[1].ID, "más recientes primero")

	page = decode[dto.TransactionPageResponse](t, env.do(t, http.MethodGet, "/api/transactions?page=2&size=2", env.mgrToken, nil))
	assert.Len(t, page.Items, 1)

	page = decode[dto.TransactionPageResponse](t, env.do(t, http.MethodGet, "/api/transactions?filter=VENTA", env.mgrToken, nil))
	assert.Equal(t, int64(2), page.TotalElements)
	assert.Equal(t, 10, page.Size)
}

func TestTransactions_Period(t *testing.T) {
	env := newTestEnv(t, 10, nil)
	for _, q := range []int{1, 2} {
		resp := env.do(t, http.MethodPost, "/api/transactions/sell", env.mgrToken, fiber.Map{"productId": env.productID, "quantity": q})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	list := decode[dto.ListResponse[dto.TransactionResponse]](t, env.do(t, http.MethodGet, "/api/transactions/period?month=3&year=2024", env.mgrToken, nil))
	assert.Equal(t, 2, list.Total)

	list = decode[dto.ListResponse[dto.TransactionResponse]](t, env.do(t, http.MethodGet, "/api/transactions/period?month=4&year=2024", env.mgrToken, nil))
	assert.Equal(t, 0, list.Total)
	assert.NotNil(t, list.Items)

	summary := decode[dto.PeriodSummaryResponse](t, env.do(t, http.MethodGet, "/api/transactions/period/summary?month=3&year=2024", env.mgrToken, nil))
	require.Len(t, summary.ByType, 3)
	assert.Equal(t, "SALE", summary.ByType[1].TransactionType)
	assert.Equal(t, int64(2), summary.ByType[1].Count)
	assert.Equal(t, int64(3), summary.Units)
	assert.True(t, decimal.NewFromInt(30).Equal(summary.TotalPrice))

	resp := env.do(t, http.MethodGet, "/api/transactions/period?month=13&year=2024", env.mgrToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/transactions/period/report?month=3&year=2024", env.mgrToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "ledger-2024-03.pdf")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}

func TestCatalog_WritesRequireAdmin(t *testing.T) {
	env := newTestEnv(t, 5, nil)
	product := fiber.Map{"sku": "TE-01", "name": "Té", "price": "4.50", "stockQuantity": 3}

	resp := env.do(t, http.MethodPost, "/api/products", env.mgrToken, product)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/products", env.adminToken, product)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, 3, created.StockQuantity)

	resp = env.do(t, http.MethodPost, "/api/products", env.adminToken, product)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	list := decode[dto.ListResponse[dto.ProductResponse]](t, env.do(t, http.MethodGet, "/api/products?search=t%C3%A9", env.mgrToken, nil))
	assert.Equal(t, 1, list.Total)

	resp = env.do(t, http.MethodPost, "/api/suppliers", env.adminToken, fiber.Map{"name": "Sin contacto"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/categories", env.adminToken, fiber.Map{"name": "Bebidas"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestProducts_DeleteWithTransactionsConflicts(t *testing.T) {
	env := newTestEnv(t, 5, nil)
	resp := env.do(t, http.MethodPost, "/api/transactions/sell", env.mgrToken, fiber.Map{"productId": env.productID, "quantity": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/api/products/"+strconv.FormatInt(env.productID, 10), env.adminToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decodeError(t, resp).Code)
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, 5, nil)

	resp := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/api/transactions/sell", env.mgrToken, fiber.Map{"productId": env.productID, "quantity": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `ledger_operations_total{operation="sell",outcome="ok"} 1`)
	assert.Contains(t, string(raw), "http_requests_total")
}

func TestAPI_RequiresToken(t *testing.T) {
	env := newTestEnv(t, 5, nil)
	resp := env.do(t, http.MethodGet, "/api/transactions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestMemoryStore_BootstrapAdminCanOperate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 5, Issuer: testIssuer})
	token, _, err := authUC.Bootstrap(ctx, auth.ProvisionInput{
		Email: "admin@example.com", Password: "admin123", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)
	env := &testEnv{app: buildApp(store, nil), store: store, adminToken: "Bearer " + token}

	resp := env.do(t, http.MethodPost, "/api/suppliers", env.adminToken, fiber.Map{"name": "Andina", "contactInfo": "ventas@andina.co"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	supplier := decode[dto.SupplierResponse](t, resp)

	resp = env.do(t, http.MethodPost, "/api/products", env.adminToken, fiber.Map{"sku": "TE-01", "name": "Té", "price": "4.50"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	env.productID = decode[dto.ProductResponse](t, resp).ID

	resp = env.do(t, http.MethodPost, "/api/transactions/restock", env.adminToken,
		fiber.Map{"productId": env.productID, "supplierId": supplier.ID, "quantity": 4})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/api/transactions/sell", env.adminToken, fiber.Map{"productId": env.productID, "quantity": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(t, 3, env.stock(t))
	assert.Equal(t, int64(2), env.transactionCount(t))
}
