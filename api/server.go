// Package api exposes the HTTP surface of the cloud price comparison
// gateway: provider passthrough endpoints, per-scenario comparison
// endpoints, and token issuance.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/tejkiranyenugunti-spec/CMPE272-CloudAnalytics-API-Gateway/internal/auth"
	"github.com/tejkiranyenugunti-spec/CMPE272-CloudAnalytics-API-Gateway/internal/compare"
	"github.com/tejkiranyenugunti-spec/CMPE272-CloudAnalytics-API-Gateway/internal/pricing"
	"github.com/tejkiranyenugunti-spec/CMPE272-CloudAnalytics-API-Gateway/pkg/platform"
)

const version = "1.0.0"

// Config holds server configuration.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns default server configuration, overridable through
// the environment.
func DefaultConfig() *Config {
	return &Config{
		Port:         8080,
		ReadTimeout:  platform.GetEnvDuration("HTTP_READ_TIMEOUT", 30*time.Second),
		WriteTimeout: platform.GetEnvDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
	}
}

// Server is the HTTP API server.
type Server struct {
	httpServer *http.Server
	config     *Config
	engine     *compare.Engine
	awsSource  *pricing.AWSSource
	azure      *pricing.AzureSource
	auth       *auth.Service
}

// NewServer wires the comparison engine, provider sources, and auth
// service into an HTTP server.
func NewServer(config *Config, engine *compare.Engine, awsSource *pricing.AWSSource, azure *pricing.AzureSource, authSvc *auth.Service) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	return &Server{
		config:    config,
		engine:    engine,
		awsSource: awsSource,
		azure:     azure,
		auth:      authSvc,
	}
}

// Routes builds the router. Comparison and provider endpoints sit behind
// the bearer-token gate; health, version, and auth endpoints do not.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/token", s.handleToken)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware)

		r.Get("/aws/prices", s.handleAWSPrices)
		r.Get("/azure/prices", s.handleAzurePrices)

		r.Route("/compare", func(r chi.Router) {
			r.Post("/service", s.handleCompareService)
			r.Get("/db-sql", s.handleCompareDatabase)
			r.Get("/egress", s.handleCompareEgress)
			r.Get("/block-storage", s.handleCompareBlockStorage)
			r.Get("/load-balancer", s.handleCompareLoadBalancer)
			r.Get("/dns", s.handleCompareDNS)
			r.Get("/az-coverage", s.handleAZCoverage)
		})
	})

	return r
}

// Start runs the server until the listener fails or is shut down.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.Routes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	log.Info().Int("port", s.config.Port).Str("version", version).Msg("starting cloud analytics gateway")
	return s.httpServer.ListenAndServe()
}

// StartWithGracefulShutdown runs the server and drains it on SIGINT/SIGTERM.
func (s *Server) StartWithGracefulShutdown() error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.Start(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-quit:
		log.Info().Msg("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "cloud-analytics-gateway",
		"version": version,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"version": version,
		"service": "cloud-analytics-gateway",
	})
}
