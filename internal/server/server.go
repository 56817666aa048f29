package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/lexziconAI/eco-dairy-bot/internal/chat"
	"github.com/lexziconAI/eco-dairy-bot/internal/db"
	"github.com/lexziconAI/eco-dairy-bot/internal/lens"
)

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	CORSOrigins []string // empty allows local origins only
}

// Server is the HTTP front end for the lens engine and the chat socket.
type Server struct {
	cfg        Config
	db         *db.DB
	engine     *lens.Engine
	logger     *zap.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all routes mounted. database may be nil when the
// engine runs without a store.
func New(cfg Config, database *db.DB, engine *lens.Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:    cfg,
		db:     database,
		engine: engine,
		logger: logger,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(s.cfg.CORSOrigins) > 0 {
		corsOpts.AllowedOrigins = s.cfg.CORSOrigins
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", s.handleHealth)

	// The chat socket is long-lived, so only the JSON API gets a timeout.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		lens.RegisterRoutes(r, s.engine)
	})
	chat.RegisterRoutes(r, s.engine, s.logger)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			s.logger.Error("health check", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
}

// Start begins listening on the configured address.
func (s *Server) Start() error {
	addr := s.Addr()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("ecodairy server listening", zap.String("addr", addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
