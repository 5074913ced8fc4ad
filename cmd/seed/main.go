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
	courseID := flag.String("course", "101", "Course id to seed")
	batchID := flag.String("batch", "7", "Batch id to seed")
	clearOnly := flag.Bool("clear-data", false, "Remove the demo batch's records and exit")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := config.NewLogger(cfg, os.Stdout)

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" {
		log.Fatalf("🚫 BLOCKED: Cannot seed demo content in production environment")
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
		log.Fatalf("STORE_BACKEND %q cannot be seeded (use postgres or mongo)", cfg.StoreBackend)
	}

	log.Printf("🧹 Clearing course %s batch %s (backend: %s)", *courseID, *batchID, cfg.StoreBackend)
	removed, err := clearBatch(ctx, store, tx, collections, *courseID, *batchID)
	if err != nil {
		log.Fatalf("Failed to clear data: %v", err)
	}
	log.Printf("✅ Removed %d records", removed)
	if *clearOnly {
		return
	}

	log.Println("🌱 Seeding legacy-shaped folders and content...")
	folders, items := demoRecords(*courseID, *batchID)
	if err := seed(ctx, store, tx, collections, folders, items); err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}
	log.Printf("🎉 Seeded %d folders and %d files", len(folders), len(items))
}

// noTx runs fn directly for stores without transactions.
type noTx struct{}

func (noTx) ExecTx(ctx context.Context, fn repositories.TxFn) error { return fn(ctx) }
