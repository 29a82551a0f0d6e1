package main

import (
	"database/sql"
	"flag"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/induplast/produccion-api/pkg/config"
	"github.com/induplast/produccion-api/pkg/logger"
)

// Runner de migraciones: `go run ./cmd/migrate -dir up` aplica todas las
// pendientes; `-dir down -steps 1` revierte la última.
func main() {
	var (
		dir   = flag.String("dir", "up", "dirección: up | down")
		steps = flag.Int("steps", 0, "cantidad de migraciones (0 = todas)")
		path  = flag.String("path", "migrations", "directorio con los .sql")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	db, err := sql.Open("pgx", cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir conexión")
	}
	defer db.Close()

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("driver de migraciones")
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", *path), "postgres", driver)
	if err != nil {
		log.Fatal().Err(err).Msg("instancia de migrate")
	}
	defer m.Close()

	switch {
	case *steps != 0:
		n := *steps
		if *dir == "down" && n > 0 {
			n = -n
		}
		err = m.Steps(n)
	case *dir == "down":
		err = m.Down()
	default:
		err = m.Up()
	}
	if err != nil && err != migrate.ErrNoChange {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	if err == migrate.ErrNoChange {
		log.Info().Msg("sin migraciones pendientes")
		return
	}

	version, dirty, verr := m.Version()
	if verr != nil && verr != migrate.ErrNilVersion {
		log.Fatal().Err(verr).Msg("versión de migraciones")
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migraciones aplicadas")
}
