package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/jhoicas/Validade-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Validade-api/pkg/config"
	"github.com/jhoicas/Validade-api/pkg/logger"
)

func main() {
	log := logger.New(logger.Config{Env: os.Getenv("APP_ENV"), Level: os.Getenv("LOG_LEVEL")})

	app := &cli.App{
		Name:  "validade-migrate",
		Usage: "aplica las migraciones del esquema del ledger (products, movements)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "DSN de PostgreSQL; por defecto DATABASE_URL o DB_HOST/DB_PORT/...",
				EnvVars: []string{"DATABASE_URL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "aplica todas las migraciones pendientes",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *postgres.Migrator) error {
						if err := m.Up(); err != nil {
							return err
						}
						return printVersion(m, log)
					})
				},
			},
			{
				Name:  "down",
				Usage: "revierte las últimas N migraciones",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "cantidad de migraciones a revertir"},
				},
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *postgres.Migrator) error {
						if err := m.Down(c.Int("steps")); err != nil {
							return err
						}
						return printVersion(m, log)
					})
				},
			},
			{
				Name:  "version",
				Usage: "muestra la versión aplicada",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *postgres.Migrator) error {
						return printVersion(m, log)
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("migración fallida")
	}
}

func withMigrator(c *cli.Context, fn func(*postgres.Migrator) error) error {
	dsn := c.String("database-url")
	if dsn == "" {
		dsn = config.LoadDB().ConnectionString()
	}
	m, err := postgres.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

func printVersion(m *postgres.Migrator, log *logger.Logger) error {
	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("leer versión: %w", err)
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("esquema")
	return nil
}
