package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"doghouse/dogs"
	"doghouse/dogs/application"
	"doghouse/middleware/ratelimit"
	"doghouse/observability"
)

// version é sobrescrita no build: -ldflags "-X main.version=1.2.3"
var version = "1.0.1"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := readConfig()

	root := &cobra.Command{
		Use:          "doghouse",
		Short:        "Dogs House service",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.storeDriver, "store", cfg.storeDriver, "record store: sqlite, postgres or memory (STORE_DRIVER)")
	flags.StringVar(&cfg.sqlitePath, "sqlite-path", cfg.sqlitePath, "sqlite database file (SQLITE_PATH)")
	flags.StringVar(&cfg.databaseURL, "database-url", cfg.databaseURL, "postgres connection url (DATABASE_URL)")
	flags.StringVar(&cfg.logLevel, "log-level", cfg.logLevel, "debug, info, warn or error (LOG_LEVEL)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.validate(); err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	serve.Flags().StringVar(&cfg.listenAddr, "listen", cfg.listenAddr, "listen address (LISTEN_ADDR)")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the dogs schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.validate(); err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			return runMigrate(cmd.Context(), cfg)
		},
	}

	root.AddCommand(serve, migrateCmd)
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	return root
}

func runMigrate(ctx context.Context, cfg config) error {
	logger := observability.NewLogger(os.Stdout, cfg.logLevel)
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := migrate(ctx, store); err != nil {
		return err
	}
	logger.Info("schema ready", "store", cfg.storeDriver)
	return nil
}

func runServe(parent context.Context, cfg config) error {
	logger := observability.NewLogger(os.Stdout, cfg.logLevel)
	slog.SetDefault(logger)

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	if err := migrate(ctx, store); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg, "doghouse")

	throttle, closeStats, err := buildThrottle(ctx, cfg, metrics, logger)
	if err != nil {
		return err
	}
	defer closeStats()

	health := observability.NewHealthHandler(store)
	handler := dogs.NewHandler(
		application.NewService(store),
		logger,
		dogs.WithVersion(version),
		dogs.WithMetrics(metrics),
		dogs.WithExposeStoreErrors(cfg.exposeStoreErrors),
	)

	srv := &http.Server{
		Addr: cfg.listenAddr,
		Handler: dogs.NewRouter(dogs.RouterConfig{
			Handler:           handler,
			HealthHandler:     health,
			Metrics:           metrics,
			Logger:            logger,
			TrustProxyHeaders: cfg.trustProxyHeaders,
			Throttle:          throttle,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		health.SetReady(false)
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("doghouse listening",
		"addr", cfg.listenAddr, "version", version, "store", cfg.storeDriver)
	logger.Info("rate limit",
		"enabled", cfg.rateEnabled, "rps", cfg.rateRPS, "burst", cfg.rateBurst,
		"key_header", cfg.rateKeyHeader, "trust_xff", cfg.trustXFF)
	logger.Info("concurrency", "max", cfg.concurrencyMax, "acquire_timeout", cfg.concurrencyTimeout)

	health.SetReady(true)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("doghouse stopped")
	return nil
}

// buildThrottle monta rate limit (externo) e limite de concorrência (interno).
// O func devolvido fecha o cliente Redis das estatísticas, se houver.
func buildThrottle(ctx context.Context, cfg config, metrics *observability.Metrics, logger *slog.Logger) ([]func(http.Handler) http.Handler, func(), error) {
	closeStats := func() {}
	var mws []func(http.Handler) http.Handler

	if cfg.rateEnabled {
		store := ratelimit.NewLimiterStore(cfg.rateRPS, cfg.rateBurst, ratelimit.WithRetryAfter(cfg.retryAfter))
		store.StartJanitor(ctx)

		mem := ratelimit.NewMemoryStats()
		if err := metrics.TrackRateLimit(store, mem); err != nil {
			return nil, closeStats, fmt.Errorf("register rate limit metrics: %w", err)
		}
		var stats ratelimit.Recorder = mem
		if cfg.rateStatsEnabled {
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.rateStatsRedisAddr,
				Password: cfg.rateStatsRedisPassword,
				DB:       cfg.rateStatsRedisDB,
			})
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			err := rdb.Ping(pingCtx).Err()
			cancel()
			if err != nil {
				_ = rdb.Close()
				return nil, closeStats, fmt.Errorf("redis stats ping error: %w", err)
			}
			closeStats = func() { _ = rdb.Close() }
			stats = ratelimit.Recorders{mem, ratelimit.NewRedisStats(rdb,
				ratelimit.WithStatsPrefix(cfg.rateStatsPrefix),
				ratelimit.WithStatsTTL(cfg.rateStatsTTL),
				ratelimit.WithStatsTrackKeys(cfg.rateStatsTrackKeys),
			)}
			logger.Info("rate stats", "redis_addr", cfg.rateStatsRedisAddr, "ttl", cfg.rateStatsTTL)
		}

		mws = append(mws, ratelimit.Middleware(ratelimit.Options{
			Store:               store,
			Stats:               stats,
			KeyHeader:           cfg.rateKeyHeader,
			TrustXForwardedFor:  cfg.trustXFF,
			AddRateLimitHeaders: cfg.addHeaders,
			StatsTimeout:        cfg.rateStatsTimeout,
			OnReject:            metrics.Throttled("rate"),
		}))
	}

	mws = append(mws, ratelimit.Concurrency(ratelimit.ConcurrencyOptions{
		Max:            cfg.concurrencyMax,
		AcquireTimeout: cfg.concurrencyTimeout,
		OnReject:       metrics.Throttled("concurrency"),
	}))
	return mws, closeStats, nil
}
