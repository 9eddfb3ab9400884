package main

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type config struct {
	listenAddr string
	logLevel   string

	storeDriver       string
	sqlitePath        string
	databaseURL       string
	dbMaxConns        int
	exposeStoreErrors bool
	trustProxyHeaders bool

	rateEnabled        bool
	rateRPS            float64
	rateBurst          int
	rateKeyHeader      string
	trustXFF           bool
	retryAfter         time.Duration
	addHeaders         bool
	concurrencyMax     int
	concurrencyTimeout time.Duration

	rateStatsEnabled       bool
	rateStatsRedisAddr     string
	rateStatsRedisPassword string
	rateStatsRedisDB       int
	rateStatsPrefix        string
	rateStatsTTL           time.Duration
	rateStatsTrackKeys     bool
	rateStatsTimeout       time.Duration
}

// readConfig lê o ambiente; valores inválidos caem no padrão. A validação fica em validate,
// depois que as flags do cobra tiverem sobrescrito o que for preciso.
func readConfig() config {
	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.logLevel = getenvDefault("LOG_LEVEL", "info")

	cfg.storeDriver = strings.ToLower(getenvDefault("STORE_DRIVER", "sqlite"))
	cfg.sqlitePath = getenvDefault("SQLITE_PATH", "doghouse.db")
	cfg.databaseURL = os.Getenv("DATABASE_URL")
	cfg.dbMaxConns = getenvIntDefault("DB_MAX_CONNS", 10)
	cfg.exposeStoreErrors = getenvBoolDefault("EXPOSE_STORE_ERRORS", true)
	cfg.trustProxyHeaders = getenvBoolDefault("TRUST_PROXY_HEADERS", false)

	// o app original limitava por IP; os padrões seguem um limite folgado por cliente
	cfg.rateEnabled = getenvBoolDefault("RATE_ENABLED", true)
	cfg.rateRPS = getenvFloatDefault("RATE_RPS", 10)
	// IMPORTANTE: com RPS < 1 o burst padrão de 20 esconde o limite nas primeiras requisições.
	if burst, ok := getenvInt("RATE_BURST"); ok {
		cfg.rateBurst = burst
	} else {
		cfg.rateBurst = 20
		if getenvIsSet("RATE_RPS") && cfg.rateRPS > 0 && cfg.rateRPS < 1 {
			cfg.rateBurst = 1
		}
	}
	cfg.rateKeyHeader = os.Getenv("RATE_KEY_HEADER")
	cfg.trustXFF = getenvBoolDefault("TRUST_XFF", false)
	cfg.retryAfter = getenvDurationDefault("RETRY_AFTER", 1*time.Second)
	cfg.addHeaders = getenvBoolDefault("ADD_RATELIMIT_HEADERS", false)
	cfg.concurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 100)
	cfg.concurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 0)

	cfg.rateStatsEnabled = getenvBoolDefault("RATE_STATS_ENABLED", false)
	cfg.rateStatsRedisAddr = os.Getenv("RATE_STATS_REDIS_ADDR")
	cfg.rateStatsRedisPassword = os.Getenv("RATE_STATS_REDIS_PASSWORD")
	cfg.rateStatsRedisDB = getenvIntDefault("RATE_STATS_REDIS_DB", 0)
	cfg.rateStatsPrefix = getenvDefault("RATE_STATS_PREFIX", "doghouse:ratelimit")
	cfg.rateStatsTTL = getenvDurationDefault("RATE_STATS_TTL", 24*time.Hour)
	cfg.rateStatsTrackKeys = getenvBoolDefault("RATE_STATS_TRACK_KEYS", false)
	cfg.rateStatsTimeout = getenvDurationDefault("RATE_STATS_TIMEOUT", 100*time.Millisecond)
	return cfg
}

func (cfg config) validate() error {
	switch cfg.storeDriver {
	case "sqlite", "memory":
	case "postgres":
		if strings.TrimSpace(cfg.databaseURL) == "" {
			return errors.New("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return errors.New("STORE_DRIVER must be one of sqlite, postgres, memory")
	}
	if cfg.rateStatsEnabled && strings.TrimSpace(cfg.rateStatsRedisAddr) == "" {
		return errors.New("RATE_STATS_REDIS_ADDR is required when RATE_STATS_ENABLED=true")
	}
	if cfg.rateRPS <= 0 {
		return errors.New("RATE_RPS must be > 0")
	}
	if cfg.rateBurst <= 0 {
		return errors.New("RATE_BURST must be > 0")
	}
	if cfg.concurrencyMax < 0 {
		return errors.New("CONCURRENCY_MAX must be >= 0")
	}
	return nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	if i, ok := getenvInt(k); ok {
		return i
	}
	return def
}

func getenvInt(k string) (int, bool) {
	v, ok := os.LookupEnv(k)
	if !ok || v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

func getenvIsSet(k string) bool {
	v, ok := os.LookupEnv(k)
	return ok && v != ""
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
