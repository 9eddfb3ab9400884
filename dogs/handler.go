package dogs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"doghouse/dogs/application"
	"doghouse/dogs/domain"
	"doghouse/observability"
)

const (
	defaultVersion   = "1.0.1"
	maxBodyBytes     = 1 << 20
	storeUnavailable = "storage unavailable"
)

// Service é o que o handler precisa de application.Service.
type Service interface {
	ListDogs(ctx context.Context, p application.ListParams) ([]domain.Dog, error)
	CreateDog(ctx context.Context, c domain.Candidate) (domain.Dog, error)
}

type Handler struct {
	svc               Service
	logger            *slog.Logger
	metrics           *observability.Metrics
	version           string
	exposeStoreErrors bool
}

type HandlerOption func(*Handler)

func WithVersion(v string) HandlerOption {
	return func(h *Handler) {
		if v != "" {
			h.version = v
		}
	}
}

func WithMetrics(m *observability.Metrics) HandlerOption {
	return func(h *Handler) { h.metrics = m }
}

// WithExposeStoreErrors controla se o texto cru do erro do store vai para o cliente (padrão true).
// Com false o cliente recebe "storage unavailable"; o erro completo vai só para o log.
func WithExposeStoreErrors(expose bool) HandlerOption {
	return func(h *Handler) { h.exposeStoreErrors = expose }
}

func NewHandler(svc Service, logger *slog.Logger, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		svc:               svc,
		logger:            logger,
		version:           defaultVersion,
		exposeStoreErrors: true,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "Dogs House service. Version "+h.version)
}

func (h *Handler) Dogs(w http.ResponseWriter, r *http.Request) {
	dogs, err := h.svc.ListDogs(r.Context(), listParams(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dogs); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) Dog(w http.ResponseWriter, r *http.Request) {
	c, err := decodeCandidate(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.fail(w, r, &domain.Rejection{Reason: domain.ReasonMalformedRequest})
		return
	}

	dog, err := h.svc.CreateDog(r.Context(), c)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.DogsCreated.Inc()
	}
	observability.LoggerFromContext(r.Context()).Info("dog created", "dog_id", dog.ID, "name", dog.Name)
	writeText(w, http.StatusOK, "Created")
}

// fail traduz qualquer erro em 400 text/plain.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger := observability.LoggerFromContext(r.Context())

	var rej *domain.Rejection
	if errors.As(err, &rej) {
		if h.metrics != nil {
			h.metrics.DogsRejected.WithLabelValues(rej.Reason.String()).Inc()
		}
		logger.Warn("dog rejected", "reason", rej.Reason.String())
		writeText(w, http.StatusBadRequest, rej.Message())
		return
	}

	msg := err.Error()
	var sf *domain.StoreFailure
	if errors.As(err, &sf) {
		if h.metrics != nil {
			h.metrics.StoreFailures.WithLabelValues(sf.Op).Inc()
		}
		msg = sf.Err.Error()
	}
	logger.Error("request failed", "error", err)

	if !h.exposeStoreErrors {
		msg = storeUnavailable
	}
	writeText(w, http.StatusBadRequest, msg)
}

// decodeCandidate exige exatamente um valor JSON no corpo; qualquer resto é erro.
func decodeCandidate(body io.Reader) (domain.Candidate, error) {
	var c domain.Candidate
	dec := json.NewDecoder(body)
	if err := dec.Decode(&c); err != nil {
		return domain.Candidate{}, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return domain.Candidate{}, errors.New("trailing data after request body")
	}
	return c, nil
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
