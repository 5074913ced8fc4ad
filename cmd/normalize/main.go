package main

import (
	"context"
	"flag"
	"log"
	"os"

	"lmscontent/internal/config"
	models "lmscontent/internal/domain/models/content"
	"lmscontent/internal/domain/repositories"
	contentRepo "lmscontent/internal/domain/repositories/content"
	"lmscontent/internal/repository/mongo"
	"lmscontent/internal/repository/postgres"

	"github.com/joho/godotenv"
)

func main() {
	dry := flag.Bool("dry", true, "Report what would change without writing")
	apply := flag.Bool("apply", false, "Patch records in place (overrides -dry)")
	allowProd := flag.Bool("allow-prod", false, "Permit -apply against the production environment")
	limit := flag.Int("show", 50, "Maximum number of diffs to print (0 prints all)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := config.NewLogger(cfg, os.Stdout)

	// SAFETY: Prevent unattended rewrites in production
	if *apply && cfg.Environment == "prod" && !*allowProd {
		log.Fatalf("🚫 BLOCKED: Refusing to rewrite records in production without -allow-prod")
	}
	if !*apply && !*dry {
		log.Println("Neither -dry nor -apply set; running as a dry run")
	}

	ctx := context.Background()
	collections := models.Collections{Folders: cfg.FoldersCollection, Items: cfg.ContentCollection}

	var (
		store contentRepo.RecordStore
		tx    repositories.TransactionManager = noTx{}
	)
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()
		store = postgres.NewRecordStore(&postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		})
		tx = postgres.NewTransactionManager(pool, logger)
	case "mongo":
		client, err := mongo.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to mongo: %v", err)
		}
		defer client.Disconnect(ctx)
		store = mongo.NewRecordStore(client.Database(cfg.MongoDatabase), logger)
	default:
		log.Fatalf("STORE_BACKEND %q cannot be normalized (use postgres or mongo)", cfg.StoreBackend)
	}

	log.Printf("🔍 Scanning %s and %s (backend: %s)", collections.Folders, collections.Items, cfg.StoreBackend)
	rep, err := normalizeRecords(ctx, store, tx, collections, *apply)
	if err != nil {
		log.Fatalf("Normalization failed: %v", err)
	}

	for i, d := range rep.Diffs {
		if *limit > 0 && i >= *limit {
			log.Printf("... and %d more", len(rep.Diffs)-i)
			break
		}
		log.Println(d.String())
	}

	if rep.Applied {
		log.Printf("✅ Patched %d of %d records", len(rep.Diffs), rep.Scanned)
		return
	}
	log.Printf("📝 %d of %d records would change (rerun with -apply to write)", len(rep.Diffs), rep.Scanned)
}

// noTx runs fn directly for stores without transactions.
type noTx struct{}

func (noTx) ExecTx(ctx context.Context, fn repositories.TxFn) error { return fn(ctx) }
