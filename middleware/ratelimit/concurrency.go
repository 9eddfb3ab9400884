package ratelimit

import (
	"context"
	"net/http"
	"time"
)

type ConcurrencyOptions struct {
	Max            int
	RejectStatus   int
	AcquireTimeout time.Duration
	OnReject       func(r *http.Request)
}

// slots é um semáforo baseado em channel.
type slots chan struct{}

// acquire espera uma vaga até o ctx encerrar. Com timeout > 0 a espera é limitada.
func (s slots) acquire(ctx context.Context, timeout time.Duration) (release func(), ok bool) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	select {
	case s <- struct{}{}:
		return func() { <-s }, true
	case <-ctx.Done():
		return nil, false
	}
}

// Concurrency limita requisições simultâneas a opts.Max. Max <= 0 desliga o limite.
func Concurrency(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}

	sem := make(slots, opts.Max)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, ok := sem.acquire(r.Context(), opts.AcquireTimeout)
			if !ok {
				if opts.OnReject != nil {
					opts.OnReject(r)
				}
				http.Error(w, http.StatusText(opts.RejectStatus), opts.RejectStatus)
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
