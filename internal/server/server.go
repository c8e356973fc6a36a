package server

import (
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dreamware/stranalyzer/internal/api"
	"github.com/dreamware/stranalyzer/internal/observability"
	"github.com/dreamware/stranalyzer/internal/storage"
	"github.com/dreamware/stranalyzer/internal/telemetry"
)

// HealthMessage is returned by GET / and GET /health
const HealthMessage = "String Analyzer API is running."

// Route patterns
const (
	routeStrings = "/strings"
	routeNLQuery = "/strings/filter-by-natural-language"
	routeRecord  = "/strings/:value"
	routeMetrics = "/metrics"
)

// Server serves the string analyzer HTTP API over a Store it owns.
type Server struct {
	store    storage.Store
	logger   *slog.Logger
	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
	tp       trace.TracerProvider
	tracer   trace.Tracer
	engine   *gin.Engine

	serviceName string
	closed      atomic.Bool
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger for access and mutation logs
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics records request and query metrics into m and serves
// gatherer on GET /metrics.
func WithMetrics(m *observability.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithTracerProvider overrides the global OpenTelemetry provider
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) { s.tp = tp }
}

// WithServiceName names the server in request spans
func WithServiceName(name string) Option {
	return func(s *Server) { s.serviceName = name }
}

// New builds a Server around store. The server takes ownership of the
// store and closes it in Close.
func New(store storage.Store, opts ...Option) *Server {
	s := &Server{
		store:       store,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		serviceName: "stranalyzer",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tp == nil {
		s.tp = otel.GetTracerProvider()
	}
	s.tracer = s.tp.Tracer(telemetry.TracerName)
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(
		requestID(),
		s.accessLog(),
		s.recovery(),
		otelgin.Middleware(s.serviceName, otelgin.WithTracerProvider(s.tp)),
		s.unavailable(),
	)

	r.GET("/", s.handleHealth)
	r.GET(api.PathHealth, s.handleHealth)

	r.POST(routeStrings, s.handleCreate)
	r.GET(routeStrings, s.handleList)

	r.GET(routeNLQuery, s.handleNLQuery)
	// Without this the DELETE tree would route the path to handleDelete.
	r.DELETE(routeNLQuery, s.handleMethodNotAllowed)

	r.GET(routeRecord, s.handleGet)
	r.DELETE(routeRecord, s.handleDelete)

	if s.gatherer != nil {
		r.GET(routeMetrics, gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	r.NoMethod(s.handleMethodNotAllowed)
	r.NoRoute(func(c *gin.Context) {
		respondError(c, &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: MsgRouteNotFound})
	})

	return r
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Store returns the store the server owns
func (s *Server) Store() storage.Store {
	return s.store
}

// Close marks the server unavailable and closes its store. Requests
// arriving afterwards receive 503. Close is idempotent.
func (s *Server) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.store.Close()
}
