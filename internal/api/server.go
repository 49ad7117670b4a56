package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/driverhub/driverhub/internal/config"
	"github.com/driverhub/driverhub/internal/storage"
)

type Server struct {
	cfg    config.ServerConfig
	store  storage.Storage
	router *chi.Mux
	log    zerolog.Logger
	http   *http.Server
}

func NewServer(cfg config.ServerConfig, httpCfg config.HTTPConfig, store storage.Storage, log zerolog.Logger) *Server {
	s := &Server{
		cfg:   cfg,
		store: store,
		log:   log,
	}
	s.router = s.buildRouter(httpCfg)
	return s
}

func (s *Server) buildRouter(httpCfg config.HTTPConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware(s.log))
	// The driver app is a browser client served from a different origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	dlvHandler := NewDeliveryHandler(s.store, httpCfg.ListLimit)
	msgHandler := NewMessageHandler(s.store, httpCfg.ListLimit)
	infoHandler := NewInfoHandler()

	r.Get("/", infoHandler.Root)
	r.Get("/health", infoHandler.Health)

	r.Post("/messages", msgHandler.Send)
	r.Get("/messages/{driverId}", msgHandler.List)
	r.Get("/messages/{driverId}/{customerName}", msgHandler.Conversation)

	r.Post("/deliveries", dlvHandler.Create)
	r.Get("/deliveries/{driverId}", dlvHandler.List)
	r.Put("/deliveries/{deliveryId}/status", dlvHandler.UpdateStatus)

	r.Get("/driver/{driverId}/active-customers", dlvHandler.ActiveCustomers)

	return r
}

// Router exposes the routing tree for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	s.log.Info().Str("addr", addr).Msg("starting HTTP server")
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}
