package rest

import (
	"net/http"

	"postgraph/application/ports"
	"postgraph/infrastructure/config"
	"postgraph/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	graphql http.Handler
	pinger  ports.StorePinger
	cfg     *config.Config
	logger  *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	graphqlHandler http.Handler,
	pinger ports.StorePinger,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		graphql: graphqlHandler,
		pinger:  pinger,
		cfg:     cfg,
		logger:  logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	// Health and readiness
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// The GraphQL endpoint. API Gateway forwards both the bare route and an
	// ANY-method wildcard ({proxy+}) shape; register both so either proxy
	// configuration lands on the executor.
	router.Handle("/graphql", rt.graphql)
	router.Handle("/graphql/*", rt.graphql)

	return router
}

// healthCheck reports process liveness without touching dependencies
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck verifies the posts table answers a DescribeTable call, so a
// ready signal means a query has a real chance of succeeding.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := rt.pinger.Ping(req.Context()); err != nil {
		rt.logger.Warn("readiness check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
