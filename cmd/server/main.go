package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/benvon/taskboard/internal/config"
	"github.com/benvon/taskboard/internal/handlers"
	"github.com/benvon/taskboard/internal/logger"
	"github.com/benvon/taskboard/internal/metrics"
	"github.com/benvon/taskboard/internal/middleware"
	"github.com/benvon/taskboard/internal/queue"
	"github.com/benvon/taskboard/internal/storage"
	"github.com/benvon/taskboard/internal/store"
	"github.com/benvon/taskboard/internal/telemetry"
	"github.com/benvon/taskboard/internal/workers"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

const serviceName = "taskboard-api"

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync(zapLogger) }()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("storage_backend", cfg.StorageBackend),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTELEnabled {
		tp, err := telemetry.InitTracer(ctx, serviceName, cfg.OTELEndpoint)
		if err != nil {
			zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
		} else {
			zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
					zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
				}
			}()
		}
	}

	m := metrics.New()

	kv, err := storage.Open(ctx, cfg, m)
	if err != nil {
		zapLogger.Fatal("failed_to_open_storage", zap.Error(err))
	}
	defer func() {
		if err := kv.Close(); err != nil {
			zapLogger.Warn("failed_to_close_storage", zap.Error(err))
		}
	}()

	s, err := store.New(ctx, storage.NewJSONPersister(kv), storeOptions(cfg, zapLogger)...)
	if err != nil {
		zapLogger.Fatal("failed_to_load_store", zap.Error(err))
	}
	zapLogger.Info("store_loaded",
		zap.Int("projects", len(s.Projects())),
		zap.Int("tasks", len(s.Tasks())),
		zap.Int("deadlines", len(s.Deadlines())),
	)

	// Reminders go to RabbitMQ when configured, otherwise straight to the log
	var (
		jobQueue  queue.JobQueue
		queuePing handlers.Pinger
		notifier  workers.Notifier = workers.NewLogNotifier(zapLogger, s.Location())
	)
	if cfg.RabbitMQURL != "" {
		jobQueue, err = connectQueue(cfg.RabbitMQURL, zapLogger)
		if err != nil {
			zapLogger.Fatal("failed_to_connect_to_rabbitmq_after_retries", zap.Error(err))
		}
		defer func() {
			if err := jobQueue.Close(); err != nil {
				zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
			}
		}()
		notifier = workers.NewQueueNotifier(jobQueue)
		queuePing = handlers.PingFunc(jobQueue.HealthCheck)
	}

	scheduler := workers.NewReminderScheduler(s, notifier, cfg.ReminderInterval, zapLogger, m)
	go func() {
		if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zapLogger.Error("reminder_scheduler_stopped_with_error", zap.Error(err))
		}
	}()

	// Rate limit counters live in Redis when it is the storage backend
	var redisClient *redis.Client
	if rk, ok := kv.Unwrap().(*storage.RedisKV); ok {
		redisClient = rk.Client()
	}
	rateLimitMW, err := middleware.RateLimit(cfg.RateLimit, redisClient)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}

	r := mux.NewRouter()

	// Middleware registered first runs outermost
	if cfg.OTELEnabled {
		r.Use(otelmux.Middleware(serviceName))
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cfg.FrontendURL))
	r.Use(middleware.Logging(zapLogger, m))
	r.Use(middleware.ErrorHandler(zapLogger))

	healthChecker := handlers.NewHealthChecker(s, queuePing)
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.Handle("/metrics", m.Handler()).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(rateLimitMW)
	apiRouter.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	apiRouter.Use(middleware.ContentType)
	apiRouter.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	handlers.RegisterAPI(apiRouter, s, zapLogger)

	// Preflight requests are answered by the CORS middleware
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   middleware.DefaultRequestTimeout + 5*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("server_shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

func storeOptions(cfg *config.Config, log *zap.Logger) []store.Option {
	opts := []store.Option{
		store.WithLogger(log),
		store.WithLocation(cfg.Timezone),
	}
	if !cfg.SeedSampleData {
		opts = append(opts, store.WithoutSampleData())
	}
	if cfg.StrictIDs {
		opts = append(opts, store.WithStrictIDs())
	}
	return opts
}

// connectQueue retries with exponential backoff to ride out RabbitMQ startup
func connectQueue(url string, log *zap.Logger) (queue.JobQueue, error) {
	const maxRetries = 10
	const initialDelay = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		q, err := queue.NewRabbitMQQueue(url)
		if err == nil {
			log.Info("connected_to_rabbitmq")
			return q, nil
		}
		lastErr = err

		delay := min(initialDelay*time.Duration(1<<uint(attempt)), 30*time.Second)
		log.Warn("failed_to_connect_to_rabbitmq_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
			zap.Duration("retry_delay", delay),
		)
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("failed to connect to rabbitmq after %d attempts: %w", maxRetries, lastErr)
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"version":%q,"timestamp":"%s"}`, telemetry.Version, time.Now().UTC().Format(time.RFC3339))
}
