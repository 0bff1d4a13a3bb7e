package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// HealthCheck verifica una dependencia externa (PostgreSQL, Redis) para /health.
type HealthCheck func(ctx context.Context) error

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	SupplierUC  *usecase.SupplierUseCase
	CategoryUC  *usecase.CategoryUseCase
	Coordinator *ledger.Coordinator
	Query       *ledger.QueryService
	Reports     *ledger.ReportUseCase

	Idempotency    IdempotencyStore // nil desactiva Idempotency-Key
	IdempotencyTTL time.Duration

	JWTSecret    string
	ServiceName  string
	Log          *logger.Logger
	HTTPMetrics  *metrics.HTTPMetrics
	Gatherer     prometheus.Gatherer // nil desactiva /metrics
	HealthChecks map[string]HealthCheck
}

// Router registra middlewares globales y las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	app.Use(RequestLogger(log, deps.HTTPMetrics))

	app.Get("/health", healthHandler(deps.ServiceName, deps.HealthChecks))
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin, entity.RoleManager))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Ledger
	transactions := api.Group("/transactions")
	txHandler := NewTransactionHandler(deps.Coordinator, deps.Query, deps.Reports, log)
	idem := Idempotency(deps.Idempotency, deps.IdempotencyTTL, log)
	transactions.Post("/restock", idem, txHandler.Restock)
	transactions.Post("/sell", idem, txHandler.Sell)
	transactions.Post("/return", idem, txHandler.Return)
	transactions.Get("/", txHandler.Search)
	transactions.Get("/period", txHandler.ByPeriod)
	transactions.Get("/period/summary", txHandler.PeriodSummary)
	transactions.Get("/period/report", txHandler.PeriodReport)
	transactions.Get("/:id", txHandler.GetByID)
	transactions.Patch("/:id/status", txHandler.UpdateStatus)

	// Products (escritura solo ADMIN)
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, log)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Suppliers
	suppliers := api.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC, log)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", adminOnly, supplierHandler.Create)
	suppliers.Put("/:id", adminOnly, supplierHandler.Update)
	suppliers.Delete("/:id", adminOnly, supplierHandler.Delete)

	// Categories
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, log)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", adminOnly, categoryHandler.Create)
	categories.Put("/:id", adminOnly, categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)
}

func healthHandler(service string, checks map[string]HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		status := "ok"
		results := make(fiber.Map, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = "degraded"
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}
		code := fiber.StatusOK
		if status != "ok" {
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{"status": status, "service": service, "checks": results})
	}
}
