package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
	"github.com/jhoicas/inventario-ledger/pkg/migrate"
)

func main() {
	cmd := flag.String("cmd", "up", "comando: up|down|status|version|redo|reset|validate")
	version := flag.String("version", "", "versión destino (YYYYMMDDHHMMSS) para -cmd=version")
	flag.Parse()

	// validate no necesita DB ni configuración.
	if *cmd == "validate" {
		if err := migrate.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "validación de migraciones fallida: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("migraciones válidas")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	db := migrate.OpenDB(pool)
	defer db.Close()

	switch *cmd {
	case "version":
		if *version == "" {
			log.Fatal().Msg("falta -version para -cmd=version")
		}
		err = migrate.MigrateToVersion(ctx, db, *version)
	default:
		err = migrate.Run(ctx, db, *cmd)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", *cmd).Msg("migración fallida")
	}
	log.Info().Str("cmd", *cmd).Msg("migración completada")
}
