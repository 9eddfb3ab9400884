package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Decision é o resultado de uma consulta ao LimiterStore.
type Decision struct {
	Allowed bool
	// RetryAfter só é preenchido quando Allowed=false.
	RetryAfter time.Duration
}

// LimiterStore mantém um token bucket por chave, com limpeza periódica das chaves ociosas.
type LimiterStore struct {
	mu           sync.Mutex
	entries      map[string]*limiterEntry
	rps          rate.Limit
	burst        int
	retryAfter   time.Duration
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type StoreOption func(*LimiterStore)

func WithIdleTTL(d time.Duration) StoreOption {
	return func(s *LimiterStore) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) StoreOption {
	return func(s *LimiterStore) { s.cleanupEvery = d }
}

// WithRetryAfter define o valor sugerido ao cliente bloqueado (padrão 1s).
func WithRetryAfter(d time.Duration) StoreOption {
	return func(s *LimiterStore) {
		if d > 0 {
			s.retryAfter = d
		}
	}
}

func NewLimiterStore(rps float64, burst int, opts ...StoreOption) *LimiterStore {
	s := &LimiterStore{
		entries:      make(map[string]*limiterEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		retryAfter:   time.Second,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LimiterStore) RPS() float64 { return float64(s.rps) }
func (s *LimiterStore) Burst() int   { return s.burst }

// Decide consome um token da chave, criando o bucket na primeira vez.
func (s *LimiterStore) Decide(key string) Decision {
	if s.limiter(key).Allow() {
		return Decision{Allowed: true}
	}
	return Decision{Allowed: false, RetryAfter: s.retryAfter}
}

func (s *LimiterStore) limiter(key string) *rate.Limiter {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

// Len devolve o número de chaves rastreadas.
func (s *LimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Cleanup remove chaves sem uso há mais de idleTTL.
func (s *LimiterStore) Cleanup() {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor roda Cleanup a cada cleanupEvery até o ctx encerrar.
func (s *LimiterStore) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
