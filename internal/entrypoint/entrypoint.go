// Package entrypoint wires the long-running serve mode: record store,
// enrichment stack, task queue, schedulers and the admin HTTP server.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RC170373/bookie-melissa-sub001/internal/config"
	"github.com/RC170373/bookie-melissa-sub001/internal/database"
	http_controllers "github.com/RC170373/bookie-melissa-sub001/internal/http"
	"github.com/RC170373/bookie-melissa-sub001/internal/maintenance"
	"github.com/RC170373/bookie-melissa-sub001/internal/metadata"
	"github.com/RC170373/bookie-melissa-sub001/internal/scheduler"
	"github.com/RC170373/bookie-melissa-sub001/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run starts serve mode with the given configuration.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookie v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	client := metadata.NewGoogleBooksClient(cfg.GoogleBooks)
	resolver := metadata.NewResolver(client)
	enricher := metadata.NewEnricher(resolver, db, cfg.Enrichment.BatchSize)
	service := maintenance.NewService(db, enricher, cfg.Global.LockPath)

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	var tasksClient *tasks.Client
	if cfg.Tasks.Enabled {
		tasksClient, err = tasks.NewClient(cfg.Database.Path, tasks.FromAppConfig(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer tasksClient.Close()

		tasksClient.Register(tasks.NewEnrichBookQueue(enricher))
		go tasksClient.Start(runCtx)
	}

	maintenanceScheduler := scheduler.NewMaintenanceScheduler(service, cfg)
	if err := maintenanceScheduler.Start(runCtx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	var enqueuer http_controllers.TaskEnqueuer
	if tasksClient != nil {
		enqueuer = tasksClient
	}
	router := http_controllers.NewRouter(db, service, enqueuer, version)

	Serve(router, cfg, func(ctx context.Context) {
		maintenanceScheduler.Stop()
		cancelRun()
		if tasksClient != nil {
			tasksClient.Stop(ctx)
		}
	})
}
