// Package repository opens the configured storage backends.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"lmscontent/internal/config"
	contentRepo "lmscontent/internal/domain/repositories/content"
	"lmscontent/internal/repository/memory"
	"lmscontent/internal/repository/mongo"
	"lmscontent/internal/repository/objectstore/azure"
	objectMemory "lmscontent/internal/repository/objectstore/memory"
	"lmscontent/internal/repository/objectstore/minio"
	"lmscontent/internal/repository/objectstore/s3"
	"lmscontent/internal/repository/postgres"
)

// OpenRecordStore connects the configured document backend. The returned
// func releases its connections.
func OpenRecordStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (contentRepo.RecordStore, func(), error) {
	switch cfg.StoreBackend {
	case "memory":
		logger.Warn("using in-memory record store, data is lost on restart")
		return memory.NewRecordStore(), func() {}, nil

	case "postgres":
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		tables := postgres.NewTableNames(cfg.TablePrefix)
		logger.Info("database connected", "table", tables.Records)
		store := postgres.NewRecordStore(&postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		})
		return store, pool.Close, nil

	case "mongo":
		client, err := mongo.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("mongo connected", "database", cfg.MongoDatabase)
		store := mongo.NewRecordStore(client.Database(cfg.MongoDatabase), logger)
		return store, func() { _ = client.Disconnect(context.Background()) }, nil
	}
	return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
}

func OpenObjectStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (contentRepo.ObjectStore, error) {
	switch cfg.ObjectBackend {
	case "memory":
		logger.Warn("using in-memory object store, uploads are lost on restart")
		return objectMemory.New(cfg.ObjectBucket), nil

	case "minio":
		return minio.New(minio.Config{
			Endpoint:      cfg.MinioEndpoint,
			Region:        cfg.S3Region,
			AccessKey:     cfg.MinioAccessKey,
			SecretKey:     cfg.MinioSecretKey,
			Bucket:        cfg.ObjectBucket,
			UseSSL:        cfg.MinioUseSSL,
			PublicBaseURL: cfg.ObjectPublicURL,
			URLExpiry:     cfg.URLExpiry,
		}, logger)

	case "s3":
		return s3.New(ctx, s3.Config{
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.ObjectBucket,
			PublicBaseURL: cfg.ObjectPublicURL,
			URLExpiry:     cfg.URLExpiry,
		}, logger)

	case "azure":
		return azure.New(azure.Config{
			ConnectionString: cfg.AzureConnectionString,
			Container:        cfg.ObjectBucket,
			PublicBaseURL:    cfg.ObjectPublicURL,
			URLExpiry:        cfg.URLExpiry,
		}, logger)
	}
	return nil, fmt.Errorf("unknown OBJECT_BACKEND %q", cfg.ObjectBackend)
}
