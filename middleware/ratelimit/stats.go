package ratelimit

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event é uma decisão do rate limit.
//
// Cuidado com cardinalidade: Key e Path sem controle podem explodir o número de chaves no Redis.
type Event struct {
	Key     string
	Allowed bool

	Method string
	Path   string

	At time.Time
}

// Recorder persiste estatísticas das decisões.
// O middleware trata erro como best-effort (não derruba request).
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

type Counters struct {
	Allowed int64
	Denied  int64
}

func (c *Counters) add(allowed bool) {
	if allowed {
		c.Allowed++
		return
	}
	c.Denied++
}

// MemoryStats guarda contadores em memória, sem expiração, no total e por rota.
// Os contadores são lidos pelas métricas do processo (ver observability.Metrics.TrackRateLimit).
type MemoryStats struct {
	mu      sync.Mutex
	total   Counters
	byRoute map[string]Counters
}

func NewMemoryStats() *MemoryStats {
	return &MemoryStats{byRoute: make(map[string]Counters)}
}

func (s *MemoryStats) Record(_ context.Context, ev Event) error {
	route := ev.Method + " " + ev.Path

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total.add(ev.Allowed)
	c := s.byRoute[route]
	c.add(ev.Allowed)
	s.byRoute[route] = c
	return nil
}

func (s *MemoryStats) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// ByRoute devolve uma cópia dos contadores por "METHOD /path".
func (s *MemoryStats) ByRoute() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.byRoute)
}

// RedisStats grava contadores em hashes do Redis:
//
//	{prefix}:total              allowed/denied, cumulativo
//	{prefix}:minute:YYYYMMDDhhmm allowed/denied por minuto, expira em ttl
//	{prefix}:route              "METHOD /path:allowed|denied"
//	{prefix}:key:{key}          por cliente, só com trackKeys
type RedisStats struct {
	rdb       *redis.Client
	prefix    string
	ttl       time.Duration
	trackKeys bool
}

type RedisStatsOption func(*RedisStats)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStats) { s.prefix = strings.Trim(prefix, ":") }
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStats) { s.ttl = d }
}

func WithStatsTrackKeys(track bool) RedisStatsOption {
	return func(s *RedisStats) { s.trackKeys = track }
}

func NewRedisStats(rdb *redis.Client, opts ...RedisStatsOption) *RedisStats {
	s := &RedisStats{
		rdb:    rdb,
		prefix: "doghouse:ratelimit",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStats) Record(ctx context.Context, ev Event) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	field := "denied"
	if ev.Allowed {
		field = "allowed"
	}

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	minuteKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
	pipe.HIncrBy(ctx, minuteKey, field, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, minuteKey, s.ttl)
	}

	if route := strings.TrimSpace(ev.Method + " " + ev.Path); route != "" {
		pipe.HIncrBy(ctx, s.prefix+":route", route+":"+field, 1)
	}

	if k := strings.TrimSpace(ev.Key); s.trackKeys && k != "" {
		keyKey := s.prefix + ":key:" + k
		pipe.HIncrBy(ctx, keyKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, keyKey, s.ttl)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Recorders repassa o evento a vários Recorder e devolve o primeiro erro.
type Recorders []Recorder

func (rs Recorders) Record(ctx context.Context, ev Event) error {
	var first error
	for _, r := range rs {
		if err := r.Record(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
