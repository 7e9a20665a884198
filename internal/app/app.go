// Package app assembles the activities service: directory, audit backends,
// HTTP routes and middleware, and the server lifecycle.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mergington-activities/internal/activities"
	"mergington-activities/internal/audit"
	appaws "mergington-activities/internal/common/aws"
	"mergington-activities/internal/common/config"
	"mergington-activities/internal/common/database"
	apperrors "mergington-activities/internal/common/errors"
	apphttp "mergington-activities/internal/common/http"
	"mergington-activities/internal/common/logger"
	"mergington-activities/internal/common/observability"
	"mergington-activities/pkg/catalog"
)

const defaultRecentLimit = 20

// Options carries the process-level collaborators built by main.
type Options struct {
	Config        *config.Config
	Logger        logger.Logger
	Observability *observability.Observability
	// Catalog overrides config.Catalog.SeedFile when set.
	Catalog *catalog.Catalog
	// Retries and RetryDelay control audit backend connection attempts.
	Retries    int
	RetryDelay time.Duration
}

type App struct {
	cfg        *config.Config
	logger     logger.Logger
	directory  *activities.Directory
	service    *activities.Service
	handler    http.Handler
	httpServer *http.Server
	closers    []func() error
	recent     *audit.RedisSink
	ready      atomic.Bool
}

// New builds the application. Audit backends that are enabled must be
// reachable within the retry budget or New fails.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if opts.Retries <= 0 {
		opts.Retries = 5
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 2 * time.Second
	}

	a := &App{cfg: opts.Config, logger: log}

	seed := opts.Catalog
	if seed == nil {
		var err error
		seed, err = loadCatalog(opts.Config.Catalog)
		if err != nil {
			return nil, err
		}
	}
	a.directory = activities.NewDirectory(seed)
	log.Info("activity directory seeded", map[string]interface{}{
		"activities": len(seed.Activities),
	})

	sink, err := a.buildAuditSink(ctx, opts)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.service = activities.NewService(activities.ServiceDependencies{
		Directory:     a.directory,
		Audit:         sink,
		AuditTimeout:  config.GetDuration(opts.Config.Audit.Timeout),
		Observability: opts.Observability,
		Logger:        log,
	})
	a.handler = a.routes()
	a.ready.Store(true)
	return a, nil
}

func loadCatalog(cfg config.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.SeedFile == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.Load(cfg.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed catalog %s: %w", cfg.SeedFile, err)
	}
	return c, nil
}

func (a *App) buildAuditSink(ctx context.Context, opts Options) (audit.Sink, error) {
	var sinks audit.MultiSink
	auditCfg := opts.Config.Audit

	if auditCfg.Postgres.Enabled {
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(auditCfg.Postgres.PostgresConfig)
			if err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				_ = pg.Close()
				return err
			}
			return nil
		}, opts.Retries, opts.RetryDelay, a.logger, "PostgreSQL connection")
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pg.Close)

		pgSink := audit.NewPostgresSink(pg.DB)
		if err := pgSink.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare audit table: %w", err)
		}
		sinks = append(sinks, pgSink)
		a.logger.Info("postgres audit sink enabled", map[string]interface{}{
			"host":     auditCfg.Postgres.Host,
			"database": auditCfg.Postgres.Database,
		})
	}

	if auditCfg.Redis.Enabled {
		var rc *database.RedisClient
		err := retryWithBackoff(func() error {
			var err error
			rc, err = database.NewRedis(auditCfg.Redis.RedisConfig)
			if err != nil {
				return err
			}
			if err := rc.Ping(ctx); err != nil {
				_ = rc.Close()
				return err
			}
			return nil
		}, opts.Retries, opts.RetryDelay, a.logger, "Redis connection")
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rc.Close)

		a.recent = audit.NewRedisSink(rc.Client,
			auditCfg.Redis.Channel, auditCfg.Redis.RecentKey, auditCfg.Redis.RecentLimit)
		sinks = append(sinks, a.recent)
		a.logger.Info("redis audit sink enabled", map[string]interface{}{
			"address": auditCfg.Redis.Address,
			"channel": auditCfg.Redis.Channel,
		})
	}

	if auditCfg.Kafka.Enabled {
		kafkaSink := audit.NewKafkaSink(auditCfg.Kafka.Brokers, auditCfg.Kafka.Topic)
		a.closers = append(a.closers, kafkaSink.Close)
		sinks = append(sinks, kafkaSink)
		a.logger.Info("kafka audit sink enabled", map[string]interface{}{
			"brokers": auditCfg.Kafka.Brokers,
			"topic":   auditCfg.Kafka.Topic,
		})
	}

	if auditCfg.SNS.Enabled {
		client, err := appaws.NewSNSClient(ctx, auditCfg.SNS.Region)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, audit.NewSNSSink(client, auditCfg.SNS.TopicARN))
		a.logger.Info("sns audit sink enabled", map[string]interface{}{
			"region":   auditCfg.SNS.Region,
			"topicArn": auditCfg.SNS.TopicARN,
		})
	}

	if auditCfg.Email.Enabled {
		client, err := appaws.NewSESClient(ctx, auditCfg.Email.Region)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, audit.NewEmailNotifier(client, auditCfg.Email.FromEmail))
		a.logger.Info("confirmation emails enabled", map[string]interface{}{
			"region": auditCfg.Email.Region,
			"from":   auditCfg.Email.FromEmail,
		})
	}

	switch len(sinks) {
	case 0:
		return audit.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return sinks, nil
	}
}

func (a *App) routes() http.Handler {
	mux := http.NewServeMux()
	activities.NewHandler(a.service, a.logger).Register(mux)

	mux.HandleFunc("GET /health", a.healthHandler)
	mux.HandleFunc("GET /ready", a.readyHandler)
	if a.cfg.Metrics.Enabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	if a.recent != nil {
		mux.HandleFunc("GET /audit/recent", a.recentEventsHandler)
	}

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
	})
	if dir := a.cfg.Server.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))
		} else {
			a.logger.Warn("static directory not found, static files disabled", map[string]interface{}{
				"dir": dir,
			})
		}
	}

	return apphttp.Chain(mux,
		apphttp.RequestID(),
		apphttp.Instrument(a.logger),
		apphttp.Recover(a.logger),
	)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, "healthy")
}

func (a *App) readyHandler(w http.ResponseWriter, r *http.Request) {
	if !a.ready.Load() {
		writeStatus(w, http.StatusServiceUnavailable, "shutting_down")
		return
	}
	writeStatus(w, http.StatusOK, "ready")
}

// recentEventsHandler lists the newest roster changes kept in Redis.
func (a *App) recentEventsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if err != nil || limit <= 0 {
		limit = defaultRecentLimit
	}

	events, err := a.recent.Recent(r.Context(), limit)
	if err != nil {
		apperrors.NewErrorHandler(a.logger).WriteHTTPError(w, r, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(events)
}

func writeStatus(w http.ResponseWriter, status int, state string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"status": state,
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Handler returns the fully wrapped HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

func (a *App) Directory() *activities.Directory { return a.directory }

// Start begins serving on the configured address. It returns once the
// listener goroutine is running; serve errors are logged.
func (a *App) Start() {
	srv := a.cfg.Server
	a.httpServer = &http.Server{
		Addr:         srv.Address,
		Handler:      a.handler,
		ReadTimeout:  config.GetDuration(srv.ReadTimeout),
		WriteTimeout: config.GetDuration(srv.WriteTimeout),
	}

	go func() {
		a.logger.Info("HTTP server listening", map[string]interface{}{"address": srv.Address})
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server failed", map[string]interface{}{"error": err})
		}
	}()
}

// Shutdown marks the app not ready, drains in-flight requests and closes
// audit backends.
func (a *App) Shutdown(ctx context.Context) error {
	a.ready.Store(false)

	var errs []error
	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Close releases audit backend connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
