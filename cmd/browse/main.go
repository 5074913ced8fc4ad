// Command browse walks a batch's content tree from the terminal the way the
// dashboards do: breadcrumbs, folder lists and scoped file lists with the
// ANY fallback.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"lmscontent/internal/config"
	authModels "lmscontent/internal/domain/models"
	models "lmscontent/internal/domain/models/content"
	"lmscontent/internal/mediatypes"
	"lmscontent/internal/repository"
	"lmscontent/internal/service/auth"
	"lmscontent/internal/service/content"
	"lmscontent/internal/service/navigation"

	"github.com/joho/godotenv"
)

func main() {
	courseID := flag.String("course", "", "Course id to open")
	batchID := flag.String("batch", "", "Batch id to open")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	logger, logFile, err := setupLogger(cfg)
	if err != nil {
		fmt.Printf("Failed to setup logger: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger.Info("session started", "log_file", logFile.Name())

	ctx := authModels.WithActor(context.Background(), authModels.Actor{
		UserID:  "browse-cli",
		Surface: authModels.ParseSurface(cfg.DevSurface),
	})

	records, closeRecords, err := repository.OpenRecordStore(ctx, cfg, logger)
	if err != nil {
		fmt.Printf("%s❌ Failed to open record store: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
	defer closeRecords()

	collections := models.Collections{Folders: cfg.FoldersCollection, Items: cfg.ContentCollection}
	query := content.NewQueryService(records, collections, content.NewNormalizer(mediatypes.MustDefault()),
		auth.NewSurfaceAuthorizer(), logger)

	cli := &CLI{
		ctx:     ctx,
		query:   query,
		browser: navigation.NewBrowser(navigation.NewState(*courseID, *batchID), query, logger),
		scanner: bufio.NewScanner(os.Stdin),
		out:     os.Stdout,
		logger:  logger,
	}
	cli.run()
}

// setupLogger keeps the console quiet and sends debug output to a rotated
// log file.
func setupLogger(cfg *config.Config) (*slog.Logger, *os.File, error) {
	dir := cfg.LogDir
	if dir == "" {
		dir = "logs"
	}
	f, err := config.SetupLogFile(dir, "browse", cfg.LogMaxFiles)
	if err != nil {
		return nil, nil, err
	}

	console := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	file := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug, AddSource: true})
	return slog.New(&multiHandler{handlers: []slog.Handler{console, file}}), f, nil
}

// multiHandler writes to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
