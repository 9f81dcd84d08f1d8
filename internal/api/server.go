package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/samistat08/ro-process-dashboard/internal/service"
)

// Server exposes the dashboard data service over HTTP.
type Server struct {
	httpServer *http.Server
	service    *service.DataService
	logger     *zap.Logger
}

func NewServer(addr string, svc *service.DataService, logger *zap.Logger) *Server {
	s := &Server{
		service: svc,
		logger:  logger,
	}

	router := mux.NewRouter()
	router.Use(s.loggingMiddleware, s.metricsMiddleware)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/sites", s.handleSites).Methods(http.MethodGet)
	v1.HandleFunc("/readings", s.handleReadings).Methods(http.MethodGet)
	v1.HandleFunc("/sites/{id}/latest", s.handleLatest).Methods(http.MethodGet)
	v1.HandleFunc("/sites/{id}/kpis", s.handleKPIs).Methods(http.MethodGet)
	v1.HandleFunc("/sites/{id}/stats", s.handleStats).Methods(http.MethodGet)
	v1.HandleFunc("/sites/{id}/correlation", s.handleCorrelation).Methods(http.MethodGet)
	v1.HandleFunc("/sites/{id}/maintenance", s.handleMaintenance).Methods(http.MethodGet)
	v1.HandleFunc("/export", s.handleExport).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
