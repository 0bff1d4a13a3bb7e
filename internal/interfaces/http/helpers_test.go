package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

// testEnv API completa sobre el store en memoria, con un producto (precio 10.00),
// un proveedor, un ADMIN y un MANAGER.
type testEnv struct {
	app        *fiber.App
	store      *memory.Store
	adminToken string
	mgrToken   string
	productID  int64
	supplierID int64
}

func newTestEnv(t *testing.T, stock int, idem apphttp.IdempotencyStore) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	p := &entity.Product{SKU: "CAF-001", Name: "Café", Price: decimal.RequireFromString("10.00"), StockQuantity: stock}
	require.NoError(t, store.Products().Create(ctx, p))
	s := &entity.Supplier{Name: "Proveedor Andino", ContactInfo: "ventas@andino.co"}
	require.NoError(t, store.Suppliers().Create(ctx, s))
	admin := &entity.User{Name: "Admin", Email: "admin@example.com", Role: entity.RoleAdmin}
	require.NoError(t, store.Users().Create(ctx, admin))
	mgr := &entity.User{Name: "Ana", Email: "ana@example.com", Role: entity.RoleManager}
	require.NoError(t, store.Users().Create(ctx, mgr))

	return &testEnv{
		app:        buildApp(store, idem),
		store:      store,
		adminToken: tokenFor(t, admin.ID, entity.RoleAdmin),
		mgrToken:   tokenFor(t, mgr.ID, entity.RoleManager),
		productID:  p.ID,
		supplierID: s.ID,
	}
}

// buildApp arma el router completo sobre store, como lo hace cmd/api con LEDGER_STORE=memory.
func buildApp(store *memory.Store, idem apphttp.IdempotencyStore) *fiber.App {
	reg := prometheus.NewRegistry()
	log := logger.Nop()
	coord := ledger.NewCoordinator(store, store.Products(), store.Suppliers(), store.Users(), store.Transactions(),
		log, metrics.NewLedgerMetrics(reg)).
		WithClock(func() time.Time { return fixedNow })
	query := ledger.NewQueryService(store.Transactions(), 10, 100)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	deps := apphttp.RouterDeps{
		ProductUC:      usecase.NewProductUseCase(store.Products(), store.Categories()),
		SupplierUC:     usecase.NewSupplierUseCase(store.Suppliers()),
		CategoryUC:     usecase.NewCategoryUseCase(store.Categories()),
		Coordinator:    coord,
		Query:          query,
		Reports:        ledger.NewReportUseCase(query, pdf.NewLedgerReportGenerator("")),
		IdempotencyTTL: time.Hour,
		JWTSecret:      testJWTSecret,
		ServiceName:    "ledger-test",
		Log:            log,
		HTTPMetrics:    metrics.NewHTTPMetrics(reg),
		Gatherer:       reg,
	}
	if idem != nil {
		deps.Idempotency = idem
	}
	apphttp.Router(app, deps)
	return app
}

// do lanza la petición con el token y cabeceras indicadas. body puede ser nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body any, headers ...string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) stock(t *testing.T) int {
	t.Helper()
	p, err := e.store.Products().GetByID(context.Background(), e.productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.StockQuantity
}

func (e *testEnv) transactionCount(t *testing.T) int64 {
	t.Helper()
	_, total, err := e.store.Transactions().Search(context.Background(), repositoryFilterAll)
	require.NoError(t, err)
	return total
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	return decode[dto.ErrorResponse](t, resp)
}

var repositoryFilterAll = repository.TransactionFilter{Limit: 1000}
