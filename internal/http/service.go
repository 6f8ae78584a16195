package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/graphql-crm/internal/config"
	"github.com/tuanvumaihuynh/graphql-crm/internal/http/metric"
	"github.com/tuanvumaihuynh/graphql-crm/internal/http/middleware"
	"github.com/tuanvumaihuynh/graphql-crm/internal/http/playground"
	"github.com/tuanvumaihuynh/graphql-crm/internal/storage/db"
)

const (
	GraphQLPath = "/graphql"
	HealthPath  = "/healthz"

	maxRequestBytes = 1 << 20 // 1 MB
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg        config.HTTP
	graphqlCfg config.GraphQL
	logger     *slog.Logger
	metrics    *metric.Metrics

	schema graphql.Schema
	health db.HealthChecker
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	graphqlCfg config.GraphQL,
	log *slog.Logger,
	schema graphql.Schema,
	health db.HealthChecker,
) *Service {
	return &Service{
		cfg:        cfg,
		graphqlCfg: graphqlCfg,
		logger:     log.With(slog.String("service", "http")),
		metrics:    metric.New(),
		schema:     schema,
		health:     health,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	return s.RunWithServer(ctx, s.Handler())
}

// Handler returns the router with every middleware and route registered.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Playground {
		playground.Register(r, GraphQLPath)
	}

	s.RegisterHandlers(r)

	return r
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.CORSOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	gqlHandler := handler.New(&handler.Config{
		Schema:           &s.schema,
		Pretty:           s.graphqlCfg.Pretty,
		ResultCallbackFn: s.onResult,
	})

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.RequestSize(maxRequestBytes))
		r.Method(http.MethodGet, GraphQLPath, queryOnly(gqlHandler))
		r.Method(http.MethodPost, GraphQLPath, gqlHandler)
	})

	r.Get(HealthPath, s.handleHealth)

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

// onResult records the outcome of every executed operation. The metric is
// labelled by operation type only; operation names come from the client.
func (s *Service) onResult(ctx context.Context, params *graphql.Params, result *graphql.Result, _ []byte) {
	opType := operationType(params.RequestString, params.OperationName)

	outcome := "ok"
	if result.HasErrors() {
		outcome = "error"
		s.logger.DebugContext(ctx, "graphql operation failed",
			slog.String("operation_type", opType),
			slog.String("operation_name", params.OperationName),
			slog.Any("errors", result.Errors))
	}

	s.metrics.GraphQLOperations.WithLabelValues(opType, outcome).Inc()
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	res := healthResponse{Status: "ok"}
	status := http.StatusOK

	healthy, err := s.health.IsHealthy(r.Context())
	if err != nil || !healthy {
		s.logger.WarnContext(r.Context(), "database is unhealthy", slog.Any("error", err))
		res.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.WarnContext(r.Context(), "error encoding health response",
			slog.Any("error", err))
	}
}
