package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"lmscontent/internal/auth"
	"lmscontent/internal/config"
	authModels "lmscontent/internal/domain/models"
	models "lmscontent/internal/domain/models/content"
	"lmscontent/internal/handler"
	"lmscontent/internal/mediatypes"
	"lmscontent/internal/middleware"
	"lmscontent/internal/repository"
	authService "lmscontent/internal/service/auth"
	"lmscontent/internal/service/content"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging, optionally teeing into a rotated log file
	var out io.Writer = os.Stdout
	if cfg.LogDir != "" {
		f, err := config.SetupLogFile(cfg.LogDir, "server", cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer f.Close()
		out = io.MultiWriter(os.Stdout, f)
	}
	logger := config.NewLogger(cfg, out)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store_backend", cfg.StoreBackend,
		"object_backend", cfg.ObjectBackend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, closeRecords, err := repository.OpenRecordStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open record store: %v", err)
	}
	defer closeRecords()

	objects, err := repository.OpenObjectStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open object store: %v", err)
	}

	policy, err := content.ParseDeletePolicy(cfg.FolderDeletePolicy)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	registry, err := mediatypes.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load media types: %v", err)
	}

	collections := models.Collections{
		Folders: cfg.FoldersCollection,
		Items:   cfg.ContentCollection,
	}
	normalizer := content.NewNormalizer(registry)
	authorizer := authService.NewSurfaceAuthorizer()

	queryService := content.NewQueryService(records, collections, normalizer, authorizer, logger)
	mutationService := content.NewMutationService(records, objects, queryService, collections, normalizer, authorizer,
		content.MutationOptions{
			DeletePolicy:   policy,
			MaxUploadBytes: cfg.MaxUploadBytes,
			URLCacheSize:   cfg.URLCacheSize,
			URLCacheTTL:    cfg.URLCacheTTL(),
		}, logger)

	logger.Info("services initialized", "delete_policy", policy)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Folder: handler.NewFolderHandler(queryService, mutationService, logger),
		File:   handler.NewFileHandler(queryService, mutationService, cfg.MaxUploadBytes, logger),
		Tree:   handler.NewTreeHandler(queryService, logger),
	})

	// Build middleware chain
	// Order: CORS → Recovery → Auth → Routes
	var h http.Handler = mux
	if cfg.AuthDisabled {
		surface := authModels.ParseSurface(cfg.DevSurface)
		logger.Warn("DEV MODE: authentication disabled (NEVER use in production!)", "surface", surface)
		h = middleware.DevAuthMiddleware(surface, "dev-user")(h)
	} else {
		verifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer verifier.Close()
		h = middleware.AuthMiddleware(verifier, logger)(h)
	}
	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.SurfaceHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  5 * time.Minute, // uploads
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
