package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-importer/cmd"
	"recipe-importer/internal/api"
	"recipe-importer/internal/config"
	"recipe-importer/internal/notify"
	"recipe-importer/internal/recipes"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const noticeBuffer = 256

func createServer(cfg *config.Config, service *api.ImportService) *http.Server {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			service.AddRoutes(r)
		})
		service.AddStreamRoutes(r)
	})

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}
}

func main() {
	cfg, err := config.LoadConfig(cmd.ParseEnvFlag())
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	cfg.SetupLogging()

	notices := notify.NewQueueNotifier(noticeBuffer)
	notifier := notify.Multi{notify.NewConsoleNotifier(os.Stderr), notices}

	app, err := cmd.NewApp(context.Background(), cfg, notifier)
	if err != nil {
		log.Fatalf("error initializing import workflow: %v", err)
	}

	app.Uploader.Busy().OnChange(func(busy bool) {
		slog.Debug("import busy state changed", "busy", busy)
	})

	service := api.NewImportService(app.Uploader, app.Files, app.Gallery, notices).WithModelConfig(app.Lab)
	if app.Journal != nil {
		service.WithHistory(app.Journal)
	}

	server := createServer(cfg, service)

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if cfg.WatchDir != "" {
		go func() {
			if err := app.Files.Watch(watchCtx, cfg.WatchDir, recipes.WatchOptions{Settle: cfg.WatchSettle}); err != nil {
				slog.Error("recipe folder watch stopped", "dir", cfg.WatchDir, "error", err)
			}
		}()
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		stopWatch()
		// Ends open notice streams.
		notices.Close()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	slog.Info("server started", "port", cfg.Port, "lab_api", cfg.LabAPIURL, "journal", app.Journal != nil)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %d: %v\n", cfg.Port, err)
	}

	slog.Info("server stopped")
}
