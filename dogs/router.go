package dogs

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"doghouse/observability"
)

type RouterConfig struct {
	Handler       *Handler
	HealthHandler *observability.HealthHandler
	Metrics       *observability.Metrics
	Logger        *slog.Logger
	// TrustProxyHeaders troca RemoteAddr por X-Real-IP/X-Forwarded-For (chi RealIP).
	TrustProxyHeaders bool
	// Throttle envolve só as rotas da API (Ping, Dogs, Dog), na ordem dada.
	Throttle []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(canonicalPaths)
	r.Use(middleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)

	if cfg.Logger != nil {
		r.Use(observability.LoggingMiddleware(cfg.Logger))
	}
	if cfg.Metrics != nil {
		r.Use(observability.MetricsMiddleware(cfg.Metrics))
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.Health)
		r.Get("/ready", cfg.HealthHandler.Ready)
	}

	r.Group(func(r chi.Router) {
		r.Use(cfg.Throttle...)

		r.Get("/Ping", cfg.Handler.Ping)
		r.Get("/Dogs", cfg.Handler.Dogs)
		r.Post("/Dog", cfg.Handler.Dog)
	})

	return r
}

// apiPaths são as rotas da API na grafia registrada no router.
var apiPaths = map[string]string{
	"/ping": "/Ping",
	"/dogs": "/Dogs",
	"/dog":  "/Dog",
}

// canonicalPaths aceita as rotas da API em qualquer caixa (/dogs, /DOGS) reescrevendo
// o path para a grafia registrada antes do roteamento.
func canonicalPaths(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := apiPaths[strings.ToLower(r.URL.Path)]; ok && p != r.URL.Path {
			r.URL.Path = p
			r.URL.RawPath = ""
		}
		next.ServeHTTP(w, r)
	})
}
