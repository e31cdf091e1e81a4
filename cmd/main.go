package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/gamemash/internal/adapters/http/api"
	"github.com/okian/gamemash/internal/adapters/http/site"
	"github.com/okian/gamemash/internal/adapters/http/swagger"
	"github.com/okian/gamemash/internal/adapters/persistence"
	"github.com/okian/gamemash/internal/adapters/repository"
	app "github.com/okian/gamemash/internal/app"
	"github.com/okian/gamemash/internal/config"
	"github.com/okian/gamemash/internal/domain/catalog"
	"github.com/okian/gamemash/internal/domain/sampler"
	"github.com/okian/gamemash/internal/errs"
	"github.com/okian/gamemash/pkg/logger"
	"github.com/okian/gamemash/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (dotenv -> defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "gamemash stopped with error", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

// run starts the service and serves HTTP until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc, err := newService(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "shutting down server...")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		log.Info(context.Background(), "server stopped")
		return nil
	})

	g.Go(func() error {
		startSystemMetricsUpdater(gctx)
		return nil
	})

	g.Go(func() error {
		startServiceMetricsUpdater(gctx, svc)
		return nil
	})

	return g.Wait()
}

// newService builds the service from configuration: catalog, blob store,
// codec and sampler.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	cat, err := catalog.Load(ctx, cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	codec, err := repository.NewCodec(cfg.StoreCodec)
	if err != nil {
		return nil, fmt.Errorf("store codec: %w", err)
	}

	blobs, err := openBlobStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	var sopts []sampler.Option
	if cfg.SamplerSeed != 0 {
		sopts = append(sopts, sampler.WithSeed(cfg.SamplerSeed))
	}

	return app.New(
		app.WithLogger(log.Named("service")),
		app.WithCatalog(cat),
		app.WithBlobStore(blobs),
		app.WithCodec(codec),
		app.WithInitialRating(cfg.InitialRating),
		app.WithSampler(sampler.New(sopts...)),
		app.WithExportTopN(cfg.ExportTopN),
		app.WithDedupeSize(cfg.DedupeSize),
	), nil
}

// openBlobStore opens the configured backend. A backend that is configured
// but unreachable is replaced by the memory store so the service still
// starts; configuration mistakes stay fatal.
func openBlobStore(ctx context.Context, cfg *config.Config, log logger.Logger) (persistence.BlobStore, error) {
	blobs, err := persistence.Open(ctx, cfg.Persistence())
	if err == nil {
		return blobs, nil
	}
	if !errors.Is(err, errs.ErrPersistence) {
		return nil, fmt.Errorf("open blob store: %w", err)
	}
	log.Warn(ctx, "blob store unreachable; ratings will not survive a restart",
		logger.String("backend", cfg.StoreBackend),
		logger.Error(err),
	)
	metrics.RecordStateLoad("fallback")
	return persistence.NewMemoryStore(), nil
}

// newHandler registers docs, API and the static page on one mux.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) http.Handler {
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc,
		api.WithLeaderboardLimits(cfg.DefaultLeaderboardLimit, cfg.MaxLeaderboardLimit),
	)
	apiServer.Register(ctx, mux)

	// Catch-all last: more specific patterns above win.
	site.Register(ctx, mux)

	return api.RequestIDMiddleware(mux)
}

// startSystemMetricsUpdater updates system metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater refreshes service gauges until ctx is done.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats refreshes the partition and catalog gauges.
			_ = svc.GetStats()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
