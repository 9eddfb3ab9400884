package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

type Options struct {
	Store               *LimiterStore
	Stats               Recorder
	KeyFn               KeyFunc
	KeyHeader           string
	TrustXForwardedFor  bool
	RejectStatus        int
	AddRateLimitHeaders bool
	// StatsTimeout é o prazo de cada Stats.Record (padrão 100ms).
	StatsTimeout time.Duration
	// OnReject é chamado a cada bloqueio (ex.: contador Prometheus).
	OnReject func(r *http.Request)
}

const defaultStatsTimeout = 100 * time.Millisecond

// Middleware aplica o LimiterStore por cliente. Sem Store, não limita nada.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.Store == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.StatsTimeout <= 0 {
		opts.StatsTimeout = defaultStatsTimeout
	}
	if opts.KeyFn == nil {
		opts.KeyFn = ClientKey(opts.KeyHeader, opts.TrustXForwardedFor)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-Key", key)
				w.Header().Set("X-RateLimit-RPS", strconv.FormatFloat(opts.Store.RPS(), 'f', -1, 64))
				w.Header().Set("X-RateLimit-Burst", strconv.Itoa(opts.Store.Burst()))
			}

			dec := opts.Store.Decide(key)
			if opts.Stats != nil {
				// best-effort: erro de estatística não derruba a requisição
				ctx, cancel := context.WithTimeout(r.Context(), opts.StatsTimeout)
				_ = opts.Stats.Record(ctx, Event{
					Key:     key,
					Allowed: dec.Allowed,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      time.Now(),
				})
				cancel()
			}
			if !dec.Allowed {
				if opts.OnReject != nil {
					opts.OnReject(r)
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(dec.RetryAfter.Seconds())))
				http.Error(w, http.StatusText(opts.RejectStatus), opts.RejectStatus)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
