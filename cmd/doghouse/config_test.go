package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doghouse/dogs/domain"
	"doghouse/dogs/infra"
	"doghouse/observability"
)

func TestReadConfig_Defaults(t *testing.T) {
	cfg := readConfig()

	assert.Equal(t, ":8080", cfg.listenAddr)
	assert.Equal(t, "sqlite", cfg.storeDriver)
	assert.Equal(t, "doghouse.db", cfg.sqlitePath)
	assert.True(t, cfg.exposeStoreErrors)
	assert.True(t, cfg.rateEnabled)
	assert.Equal(t, 10.0, cfg.rateRPS)
	assert.Equal(t, 20, cfg.rateBurst)
	assert.Equal(t, time.Second, cfg.retryAfter)
	assert.Equal(t, 100, cfg.concurrencyMax)
	assert.Equal(t, 100*time.Millisecond, cfg.rateStatsTimeout)
	assert.NoError(t, cfg.validate())
}

func TestReadConfig_FromEnv(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/dogs")
	t.Setenv("EXPOSE_STORE_ERRORS", "false")
	t.Setenv("RATE_RPS", "0.5")
	t.Setenv("RETRY_AFTER", "3s")
	t.Setenv("CONCURRENCY_MAX", "not-a-number")

	cfg := readConfig()
	assert.Equal(t, ":9090", cfg.listenAddr)
	assert.Equal(t, "postgres", cfg.storeDriver)
	assert.False(t, cfg.exposeStoreErrors)
	assert.Equal(t, 0.5, cfg.rateRPS)
	// RPS < 1 sem RATE_BURST explícito cai para burst 1
	assert.Equal(t, 1, cfg.rateBurst)
	assert.Equal(t, 3*time.Second, cfg.retryAfter)
	assert.Equal(t, 100, cfg.concurrencyMax)
	assert.NoError(t, cfg.validate())
}

func TestConfig_Validate(t *testing.T) {
	cases := map[string]func(*config){
		"unknown driver":       func(c *config) { c.storeDriver = "mongo" },
		"postgres without url": func(c *config) { c.storeDriver = "postgres"; c.databaseURL = " " },
		"stats without redis":  func(c *config) { c.rateStatsEnabled = true },
		"zero rps":             func(c *config) { c.rateRPS = 0 },
		"zero burst":           func(c *config) { c.rateBurst = 0 },
		"negative concurrency": func(c *config) { c.concurrencyMax = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := readConfig()
			mutate(&cfg)
			assert.Error(t, cfg.validate())
		})
	}
}

func TestOpenStore_SQLiteMigrates(t *testing.T) {
	cfg := readConfig()
	cfg.sqlitePath = filepath.Join(t.TempDir(), "dogs.db")

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, migrate(ctx, store))
	_, err = store.Append(ctx, domain.Dog{Name: "Neo", TailLength: 1, Weight: 1})
	require.NoError(t, err)
	assert.NoError(t, store.Ping(ctx))
}

func TestOpenStore_Memory(t *testing.T) {
	cfg := readConfig()
	cfg.storeDriver = "memory"

	store, err := openStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &infra.MemoryStore{}, store)
	assert.NoError(t, migrate(context.Background(), store))
}

func TestBuildThrottle_RateThenConcurrency(t *testing.T) {
	cfg := readConfig()
	cfg.rateRPS = 0.02
	cfg.rateBurst = 1

	metrics := observability.NewMetrics(prometheus.NewRegistry(), "test")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mws, closeStats, err := buildThrottle(ctx, cfg, metrics, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer closeStats()
	require.Len(t, mws, 2)

	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/Dogs", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)

	// decisões chegam aos contadores em memória expostos em /metrics
	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `test_ratelimit_decisions_total{result="allowed"} 1`)
	assert.Contains(t, w.Body.String(), `test_ratelimit_decisions_total{result="denied"} 1`)
	assert.Contains(t, w.Body.String(), "test_ratelimit_tracked_keys 1")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ThrottledRequests.WithLabelValues("rate")))
}

func TestBuildThrottle_RateDisabled(t *testing.T) {
	cfg := readConfig()
	cfg.rateEnabled = false

	metrics := observability.NewMetrics(prometheus.NewRegistry(), "test")
	mws, _, err := buildThrottle(context.Background(), cfg, metrics, slog.Default())
	require.NoError(t, err)
	assert.Len(t, mws, 1)
}

func TestBuildThrottle_UnreachableRedisFails(t *testing.T) {
	cfg := readConfig()
	cfg.rateStatsEnabled = true
	cfg.rateStatsRedisAddr = "127.0.0.1:1"

	metrics := observability.NewMetrics(prometheus.NewRegistry(), "test")
	_, _, err := buildThrottle(context.Background(), cfg, metrics, slog.Default())
	assert.ErrorContains(t, err, "redis stats ping error")
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := newRootCmd()
	names := []string{}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")
	assert.NotNil(t, root.Flags().Lookup("listen"))
	assert.NotNil(t, root.PersistentFlags().Lookup("store"))
}

func TestRunMigrate_Memory(t *testing.T) {
	cfg := readConfig()
	cfg.storeDriver = "memory"
	assert.NoError(t, runMigrate(context.Background(), cfg))
}
