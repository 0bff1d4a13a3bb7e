// seed carga datos de demostración en PostgreSQL (categoría, proveedor, producto y un usuario ADMIN)
// e imprime un JWT para ese usuario.
//
// Uso: go run ./cmd/seed -email admin@example.com -password admin123
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	email := flag.String("email", "admin@example.com", "email del usuario ADMIN")
	password := flag.String("password", "admin123", "contraseña del usuario ADMIN")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET es requerido para emitir el token")
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	token, user, err := authUC.Bootstrap(ctx, auth.ProvisionInput{
		Name:     "Administrador",
		Email:    *email,
		Password: *password,
		Role:     entity.RoleAdmin,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear usuario")
	}

	categoryUC := usecase.NewCategoryUseCase(postgres.NewCategoryRepository(pool))
	supplierUC := usecase.NewSupplierUseCase(postgres.NewSupplierRepository(pool))
	productUC := usecase.NewProductUseCase(postgres.NewProductRepository(pool), postgres.NewCategoryRepository(pool))

	var categoryID int64
	cat, err := categoryUC.Create(ctx, dto.CategoryRequest{Name: "Bebidas"})
	switch {
	case err == nil:
		categoryID = cat.ID
	case errors.Is(err, domain.ErrDuplicate):
		log.Info().Msg("categoría demo ya existe")
	default:
		log.Fatal().Err(err).Msg("crear categoría")
	}

	supplier, err := supplierUC.Create(ctx, dto.CreateSupplierRequest{
		Name:        "Distribuidora Andina",
		ContactInfo: "ventas@andina.example",
		Address:     "Cra 7 # 45-10, Bogotá",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear proveedor")
	}

	product, err := productUC.Create(ctx, dto.CreateProductRequest{
		SKU:           "CAF-001",
		Name:          "Café de origen 500g",
		Description:   "Café tostado en grano",
		Price:         decimal.RequireFromString("10.00"),
		StockQuantity: 25,
		CategoryID:    categoryID,
	})
	switch {
	case err == nil:
		log.Info().Int64("product_id", product.ID).Msg("producto demo creado")
	case errors.Is(err, domain.ErrDuplicate):
		log.Info().Msg("producto demo ya existe")
	default:
		log.Fatal().Err(err).Msg("crear producto")
	}

	log.Info().
		Int64("user_id", user.ID).
		Int64("supplier_id", supplier.ID).
		Msg("datos de demostración listos")
	fmt.Println(token)
}
