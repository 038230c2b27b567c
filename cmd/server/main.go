package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vspheremap/internal/adapter"
	"vspheremap/internal/config"
	"vspheremap/internal/handler"
	"vspheremap/internal/hub"
	"vspheremap/internal/logging"
	"vspheremap/internal/metrics"
	"vspheremap/internal/repository/sqlite"
	"vspheremap/internal/service"
	"vspheremap/internal/watcher"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "Config file path (default: search standard locations)")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	exportPath := flag.String("export", "", "Collector export file (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, path, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *exportPath != "" {
		cfg.Collector.Path = *exportPath
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	log, flush, err := logging.Setup(logging.Options{
		Development: cfg.Logging.Development,
		Level:       cfg.Logging.Level,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer flush()

	if path != "" {
		log.Info("Loaded config", "path", path)
	}
	log.V(1).Info("Configuration\n" + cfg.Summary())

	if err := run(cfg, log); err != nil {
		log.Error(err, "Server failed")
		flush()
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func run(cfg *config.Config, log logr.Logger) error {
	log.Info("Starting vspheremap server")

	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()
	log.Info("Database opened", "path", cfg.Database.Path)

	collector, err := adapter.NewFileCollector(cfg.Collector.Path, log)
	if err != nil {
		return fmt.Errorf("failed to create collector: %w", err)
	}

	m := metrics.New()
	eventBus := service.NewEventBus()
	svc := service.NewInventoryService(collector, log, service.Options{
		Repository:    repo,
		EventBus:      eventBus,
		Metrics:       m,
		KeepSnapshots: cfg.Database.KeepSnapshots,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	restored, err := svc.Restore(ctx)
	if err != nil {
		log.Error(err, "Failed to restore last snapshot")
	}

	sseHub := hub.New(log)
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)

	scheduler := adapter.NewScheduler(svc, cfg.Collector.PollInterval.Duration(),
		!restored || cfg.Collector.CollectOnStart, log)

	mux := http.NewServeMux()
	handler.NewInventoryHandler(svc, log).Register(mux)
	mux.Handle("GET /events", sseHub)
	mux.Handle("GET /metrics", m.Handler())

	server := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: handler.Chain(mux,
			handler.Recover(log),
			handler.CORS(cfg.Server.AllowedOrigins),
			handler.Logger(log.WithName("http"), m),
		),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  cfg.Server.IdleTimeout.Duration(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sseHub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case event := <-eventChan:
				sseHub.Broadcast(event)
			}
		}
	})

	if cfg.Collector.Watch {
		w := watcher.New(cfg.Collector.Path, func() {
			if err := svc.TriggerRefresh(gctx, adapter.TriggerWatch); err != nil {
				log.V(1).Info("Skipping watch refresh", "reason", err.Error())
			}
		}, log)
		g.Go(func() error {
			if err := w.Watch(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("watcher: %w", err)
			}
			return nil
		})
	}

	scheduler.Start(gctx)

	g.Go(func() error {
		log.Info("Server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")

		scheduler.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error(err, "Server shutdown error")
		}
		svc.Wait()
		return nil
	})

	err = g.Wait()
	log.Info("Server stopped")
	return err
}
