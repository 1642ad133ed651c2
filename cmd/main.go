// careers-service
//
// Careers microsite backend. Serves the job listing and job detail pages,
// the JSON API their scripts call, and per-job page-view counters:
//   - GET  /careers, /careers/{shortcode}    server-rendered pages
//   - GET  /api/jobs, /api/jobs/{shortcode}  Workable catalog proxy
//   - GET  /api/views/{shortcode}, /api/views view counts
//   - POST /api/incr                          record one view
//
// Jobs come from the Workable SPI; counters live in Redis (default),
// Postgres, SQLite or memory. With Redis and DATABASE_URL set, counters are
// periodically copied into Postgres.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"jobmate/careers-service/internal/api"
	"jobmate/careers-service/internal/config"
	"jobmate/careers-service/internal/counter"
	"jobmate/careers-service/internal/db"
	"jobmate/careers-service/internal/grpcserver"
	"jobmate/careers-service/internal/logging"
	"jobmate/careers-service/internal/mcptools"
	"jobmate/careers-service/internal/scheduler"
	"jobmate/careers-service/internal/shutdown"
	"jobmate/careers-service/internal/telemetry"
	"jobmate/careers-service/internal/views"
	"jobmate/careers-service/internal/web"
	"jobmate/careers-service/internal/workable"
)

const (
	serviceName = "careers-service"
	version     = "1.0.0"
)

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[careers-service] Config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", serviceName)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "err", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logging.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Tracing ─────────────────────────────────────────────────────────────
	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelEndpoint, serviceName, version)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	// ── Counter store ───────────────────────────────────────────────────────
	stores, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stores.close()

	viewSvc := views.NewService(stores.primary, logger, cfg.IncrementTimeout)

	// ── Workable ────────────────────────────────────────────────────────────
	catalog, err := workable.NewClient(workable.Config{
		BaseURL: cfg.WorkableBaseURL,
		Token:   cfg.WorkableAPIToken,
		HTTPClient: &http.Client{
			Timeout:   cfg.WorkableTimeout,
			Transport: telemetry.HTTPTransport(http.DefaultTransport),
		},
	}, logger)
	if err != nil {
		return err
	}

	// ── HTTP server ─────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	api.NewHandler(catalog, viewSvc, logger).RegisterRoutes(mux)
	web.NewHandler(catalog, viewSvc, logger).RegisterRoutes(mux)
	if cfg.MCPEnabled {
		mux.Handle("/mcp", mcptools.Handler(mcptools.NewServer(catalog, viewSvc, version, logger)))
		logger.Info("MCP tools enabled", "path", "/mcp")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           telemetry.HTTPHandler(api.Middleware(logger)(mux), serviceName),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "version", version, "port", cfg.Port, "counter_backend", cfg.CounterBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "err", err)
			serveErr <- err
			cancel()
		}
	}()

	// ── gRPC health ─────────────────────────────────────────────────────────
	var healthSrv *grpcserver.Server
	if cfg.HealthGRPCEnabled() {
		lis, err := net.Listen("tcp", ":"+cfg.HealthGRPCPort)
		if err != nil {
			return fmt.Errorf("health listener: %w", err)
		}
		healthSrv = grpcserver.NewServer(logger)
		go func() {
			if err := healthSrv.Serve(lis); err != nil {
				logger.Error("gRPC health server error", "err", err)
			}
		}()
	}

	// ── Scheduler ───────────────────────────────────────────────────────────
	sched := scheduler.New(logger)
	if healthSrv != nil {
		sched.AddHealthProbe(stores.primary, healthSrv.SetServing)
	}
	if stores.backupSink != nil {
		sched.AddBackup(stores.redis, stores.backupSink, views.KeyPrefix(), cfg.BackupInterval)
		logger.Info("counter backup enabled", "interval", cfg.BackupInterval.String())
	}
	if err := sched.Start(ctx); err != nil {
		return err
	}

	// ── Graceful shutdown ───────────────────────────────────────────────────
	shutdownErr := shutdown.Graceful(ctx, []os.Signal{syscall.SIGINT, syscall.SIGTERM}, 15*time.Second, logger,
		shutdown.Step{Name: "http", Stop: srv.Shutdown},
		shutdown.Step{Name: "scheduler", Stop: func(context.Context) error { sched.Stop(); return nil }},
		shutdown.Step{Name: "grpc", Stop: func(context.Context) error {
			if healthSrv != nil {
				healthSrv.Stop()
			}
			return nil
		}},
		shutdown.Step{Name: "pending views", Stop: func(ctx context.Context) error { return waitViews(ctx, viewSvc) }},
		shutdown.Step{Name: "tracing", Stop: shutdownTracing},
	)

	select {
	case err := <-serveErr:
		return errors.Join(fmt.Errorf("http server: %w", err), shutdownErr)
	default:
		return shutdownErr
	}
}

// counterStores holds the selected counter backend plus the optional backup pair.
type counterStores struct {
	primary    counter.Store
	redis      *counter.RedisStore
	backupSink *counter.PostgresStore
	closers    []func()
}

func (s *counterStores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStores connects the backend named by COUNTER_BACKEND and, when backup
// is enabled, the Postgres sink.
func openStores(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*counterStores, error) {
	s := &counterStores{}
	switch cfg.CounterBackend {
	case config.BackendRedis:
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		s.closers = append(s.closers, func() { _ = rdb.Close() })
		s.redis = counter.NewRedisStore(rdb)
		s.primary = s.redis
		logger.Info("redis connected")

		if cfg.BackupEnabled() {
			pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
			if err != nil {
				s.close()
				return nil, fmt.Errorf("postgres backup sink: %w", err)
			}
			s.closers = append(s.closers, pool.Close)
			s.backupSink = counter.NewPostgresStore(pool)
			logger.Info("postgres backup sink connected")
		}

	case config.BackendPostgres:
		pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		s.primary = counter.NewPostgresStore(pool)
		logger.Info("postgres connected")

	case config.BackendSQLite:
		sqlDB, err := db.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		s.closers = append(s.closers, func() { _ = sqlDB.Close() })
		s.primary = counter.NewSQLiteStore(sqlDB)
		logger.Info("sqlite opened", "path", cfg.SQLitePath)

	case config.BackendMemory:
		s.primary = counter.NewMemoryStore()
		logger.Warn("using in-memory counters; views are lost on restart")

	default:
		return nil, fmt.Errorf("unknown counter backend %q", cfg.CounterBackend)
	}
	return s, nil
}

// waitViews waits for in-flight increments or until ctx ends.
func waitViews(ctx context.Context, svc *views.Service) error {
	done := make(chan struct{})
	go func() {
		svc.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("pending view increments: %w", ctx.Err())
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": serviceName,
		"version": version,
	})
}
