package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/PhilipFalla/pokecollect-gui/internal/api"
	"github.com/PhilipFalla/pokecollect-gui/internal/database"
	"github.com/PhilipFalla/pokecollect-gui/internal/logger"
	"github.com/PhilipFalla/pokecollect-gui/internal/metrics"
	"github.com/PhilipFalla/pokecollect-gui/internal/services"
)

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("ignoring invalid integer setting", slog.String("name", name), slog.String("value", v))
		return def
	}
	return n
}

func main() {
	log := logger.Setup(logger.FromEnv())

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./pokecollect.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Error("failed to initialize database", slog.Any("error", err))
		os.Exit(1)
	}

	priceService, err := services.NewPriceService(db, envInt("PRICE_CACHE_SIZE", services.DefaultPriceCacheSize))
	if err != nil {
		log.Error("failed to initialize price service", slog.Any("error", err))
		os.Exit(1)
	}
	passwordService := services.NewPasswordService(services.DefaultPasswordCost)
	imageStorageService := services.NewImageStorageService(os.Getenv("CARD_IMAGES_DIR"))
	snapshotService := services.NewSnapshotService(db, priceService, envInt("SNAPSHOT_HOUR", 23))

	if total, err := priceService.TotalValue(); err == nil {
		metrics.UpdateCollectionMetrics(db, total.InexactFloat64())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Snapshot service restarts after a panic
	go func() {
		for {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Error("panic in snapshot service, restarting in 30 seconds", slog.Any("panic", r))
					}
				}()
				snapshotService.Start(ctx)
			}()

			select {
			case <-ctx.Done():
				return
			case <-time.After(30 * time.Second):
				log.Info("snapshot service restarting after panic recovery")
			}
		}
	}()

	router := api.SetupRouter(api.ConfigFromEnv(), api.Services{
		DB:           db,
		Prices:       priceService,
		Passwords:    passwordService,
		ImageStorage: imageStorageService,
		Snapshots:    snapshotService,
		Logger:       log,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", slog.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", slog.Any("error", err))
	}

	log.Info("server exited")
}
