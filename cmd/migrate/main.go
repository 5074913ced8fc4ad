package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/joho/godotenv"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"lmscontent/internal/config"
	"lmscontent/internal/repository/postgres"
	"lmscontent/internal/repository/postgres/migrations"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	var (
		dsn     = flag.String("dsn", cfg.DatabaseURL, "Database connection string (defaults to DATABASE_URL)")
		prefix  = flag.String("prefix", cfg.TablePrefix, "Table prefix (defaults to TABLE_PREFIX or the environment's)")
		up      = flag.Bool("up", false, "Run all up migrations")
		down    = flag.Bool("down", false, "Run all down migrations")
		steps   = flag.Int("steps", 0, "Number of migrations (positive=up, negative=down)")
		version = flag.Bool("version", false, "Print current migration version")
		force   = flag.Int("force", -1, "Force set version (use with caution)")
	)
	flag.Parse()

	forceSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "force" {
			forceSet = true
		}
	})

	if *dsn == "" {
		log.Fatal("no database: pass -dsn or set DATABASE_URL")
	}

	source, err := migrations.Render(*prefix)
	if err != nil {
		log.Fatalf("failed to render migrations: %v", err)
	}
	src, err := iofs.New(source, ".")
	if err != nil {
		log.Fatalf("failed to create migration source: %v", err)
	}

	target, err := withMigrationsTable(*dsn, postgres.NewTableNames(*prefix).Migrations)
	if err != nil {
		log.Fatalf("invalid dsn: %v", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, target)
	if err != nil {
		log.Fatalf("failed to create migrator: %v", err)
	}
	defer m.Close()

	switch {
	case *version:
		v, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("failed to get version: %v", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", v, dirty)
	case forceSet:
		if err := m.Force(*force); err != nil {
			log.Fatalf("failed to force version: %v", err)
		}
		fmt.Printf("forced to version %d\n", *force)
	case *up:
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("failed to run up migrations: %v", err)
		}
		fmt.Println("migrations applied successfully")
	case *down:
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("failed to run down migrations: %v", err)
		}
		fmt.Println("migrations reverted successfully")
	case *steps != 0:
		if err := m.Steps(*steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("failed to run migrations: %v", err)
		}
		fmt.Printf("applied %d migration steps\n", *steps)
	default:
		fmt.Println("usage: migrate [-dsn <connection-string>] [-prefix dev_] [-up|-down|-steps N|-version|-force N]")
		flag.PrintDefaults()
	}
}

// withMigrationsTable keeps each prefix's migration history separate.
func withMigrationsTable(dsn, table string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	q := u.Query()
	if q.Get("x-migrations-table") == "" {
		q.Set("x-migrations-table", table)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
