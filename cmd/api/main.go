package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/inventario-ledger/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
	"github.com/jhoicas/inventario-ledger/pkg/migrate"
)

// stores agrupa los repositorios y el TxRunner del backend elegido (postgres | memory).
type stores struct {
	txRunner     ledger.TxRunner
	products     repository.ProductRepository
	suppliers    repository.SupplierRepository
	categories   repository.CategoryRepository
	users        repository.UserRepository
	transactions repository.TransactionRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Ledger.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()
	healthChecks := map[string]httpRouter.HealthCheck{}

	var st stores
	switch cfg.Ledger.Store {
	case config.StoreMemory:
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		mem := memory.NewStore()
		st = stores{
			txRunner:     mem,
			products:     mem.Products(),
			suppliers:    mem.Suppliers(),
			categories:   mem.Categories(),
			users:        mem.Users(),
			transactions: mem.Transactions(),
		}
		bootstrapAdmin(ctx, log, cfg, mem.Users())
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			runMigrations(ctx, log, pool)
		}
		healthChecks["postgres"] = pool.Ping
		st = stores{
			txRunner:     postgres.NewTxRunner(pool),
			products:     postgres.NewProductRepository(pool),
			suppliers:    postgres.NewSupplierRepository(pool),
			categories:   postgres.NewCategoryRepository(pool),
			users:        postgres.NewUserRepository(pool),
			transactions: postgres.NewTransactionRepository(pool),
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	coordinator := ledger.NewCoordinator(
		st.txRunner, st.products, st.suppliers, st.users, st.transactions,
		log, metrics.NewLedgerMetrics(reg),
	)
	query := ledger.NewQueryService(st.transactions, cfg.Ledger.DefaultPageSize, cfg.Ledger.MaxPageSize)
	reports := ledger.NewReportUseCase(query, infrapdf.NewLedgerReportGenerator(cfg.App.Name))

	deps := httpRouter.RouterDeps{
		ProductUC:      usecase.NewProductUseCase(st.products, st.categories),
		SupplierUC:     usecase.NewSupplierUseCase(st.suppliers),
		CategoryUC:     usecase.NewCategoryUseCase(st.categories),
		Coordinator:    coordinator,
		Query:          query,
		Reports:        reports,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		JWTSecret:      cfg.JWT.Secret,
		ServiceName:    cfg.App.Name,
		Log:            log,
		HTTPMetrics:    metrics.NewHTTPMetrics(reg),
		Gatherer:       reg,
		HealthChecks:   healthChecks,
	}

	// Idempotency-Key solo con Redis configurado.
	if cfg.Redis.Enabled() {
		idem, err := infraredis.New(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer idem.Close()
		deps.Idempotency = idem
		healthChecks["redis"] = idem.Ping
	} else {
		log.Info().Msg("REDIS_URL no configurado: Idempotency-Key deshabilitado")
	}

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: todas las rutas /api responderán 401")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if cfg.Docs.Enabled {
		if _, err := os.Stat(cfg.Docs.FilePath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.Docs.FilePath,
				Path:     "docs",
				Title:    "Inventario Ledger API",
			}))
		} else {
			log.Warn().Str("file", cfg.Docs.FilePath).Msg("documentación OpenAPI no encontrada, /docs deshabilitado")
		}
	}

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func runMigrations(ctx context.Context, log *logger.Logger, pool *pgxpool.Pool) {
	db := migrate.OpenDB(pool)
	defer db.Close()
	if err := migrate.Up(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	log.Info().Msg("migraciones aplicadas")
}

// bootstrapAdmin crea el ADMIN configurado en el store en memoria y registra su token,
// ya que sin usuarios ninguna operación del ledger tiene actor.
func bootstrapAdmin(ctx context.Context, log *logger.Logger, cfg *config.Config, users repository.UserRepository) {
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: no se crea el usuario ADMIN inicial")
		return
	}
	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	token, user, err := authUC.Bootstrap(ctx, auth.ProvisionInput{
		Name:     "Administrador",
		Email:    cfg.Ledger.BootstrapEmail,
		Password: cfg.Ledger.BootstrapPassword,
		Role:     entity.RoleAdmin,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear usuario ADMIN inicial")
	}
	log.Info().
		Int64("user_id", user.ID).
		Str("email", user.Email).
		Str("token", token).
		Msg("usuario ADMIN inicial listo")
}
