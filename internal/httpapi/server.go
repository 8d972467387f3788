package httpapi

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"entity-notifier/internal/core"
	"entity-notifier/internal/notifier"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 1 << 20

// Forwarder mirrors locally published events to other processes.
type Forwarder interface {
	Forward(ctx context.Context, ev core.Event) error
}

// Option configures the HTTP surface.
type Option func(*server)

// WithForwarder forwards every event accepted on POST /events.
func WithForwarder(f Forwarder) Option { return func(s *server) { s.forwarder = f } }

// WithGatherer selects the registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option { return func(s *server) { s.gatherer = g } }

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option { return func(s *server) { s.logger = l } }

type server struct {
	n         *notifier.Notifier
	forwarder Forwarder
	gatherer  prometheus.Gatherer
	logger    zerolog.Logger
}

// NewMux registers /healthz, /metrics, /topics and /events.
func NewMux(n *notifier.Notifier, opts ...Option) http.Handler {
	s := &server{n: n, gatherer: prometheus.DefaultGatherer, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/topics", s.handleTopics)
	r.Post("/events", s.handleEvents)
	return r
}

func (s *server) handleTopics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.n.Topics())
}

// eventRequest is the body accepted by POST /events.
type eventRequest struct {
	EntityType     string         `json:"entity_type"`
	EntityID       string         `json:"entity_id"`
	Operation      core.Operation `json:"operation"`
	AttributeName  string         `json:"attribute_name"`
	AttributeValue interface{}    `json:"attribute_value"`
}

type eventResponse struct {
	ID         string `json:"id"`
	Deliveries int    `json:"deliveries"`
	Forwarded  bool   `json:"forwarded"`
}

func (s *server) handleEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req eventRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ev, err := core.NewEvent(req.EntityType, req.EntityID, req.Operation, req.AttributeName, req.AttributeValue)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp := eventResponse{ID: ev.ID, Deliveries: s.n.Publish(ev)}
	if s.forwarder != nil {
		if err := s.forwarder.Forward(r.Context(), ev); err != nil {
			s.logger.Warn().Err(err).Str("event", ev.ID).Msg("forward failed")
		} else {
			resp.Forwarded = true
		}
	}
	writeJSON(w, http.StatusAccepted, resp)
}
