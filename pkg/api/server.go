/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/carverauto/sensora/pkg/benchmark"
	sensoraHTTP "github.com/carverauto/sensora/pkg/http"
	"github.com/carverauto/sensora/pkg/logger"
	"github.com/carverauto/sensora/pkg/models"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 2 * time.Minute
	defaultIdleTimeout  = 60 * time.Second
	maxRequestBody      = 1 << 20
)

// Server routes integration requests to the status, device, benchmark and
// ingestion components.
type Server struct {
	integrationID string
	router        *mux.Router
	corsConfig    models.CORSConfig
	logger        logger.Logger

	status  StatusQuerier
	devices DeviceManager
	runner  benchmark.Runner
	sensors SensorSource
	metrics http.Handler

	mu     sync.Mutex
	srv    *http.Server
	closed bool
}

// NewServer creates a new API server instance for one integration.
func NewServer(integrationID string, cors models.CORSConfig, log logger.Logger, options ...func(*Server)) *Server {
	s := &Server{
		integrationID: integrationID,
		router:        mux.NewRouter(),
		corsConfig:    cors,
		logger:        log,
	}

	for _, o := range options {
		o(s)
	}

	s.setupRoutes()

	return s
}

// WithStatusQuerier adds the status query service.
func WithStatusQuerier(q StatusQuerier) func(*Server) {
	return func(s *Server) {
		s.status = q
	}
}

// WithDeviceManager adds the device service.
func WithDeviceManager(m DeviceManager) func(*Server) {
	return func(s *Server) {
		s.devices = m
	}
}

// WithRunner adds the benchmark orchestrator.
func WithRunner(r benchmark.Runner) func(*Server) {
	return func(s *Server) {
		s.runner = r
	}
}

// WithSensorSource adds the ingestion cache.
func WithSensorSource(src SensorSource) func(*Server) {
	return func(s *Server) {
		s.sensors = src
	}
}

// WithMetricsHandler exposes h on /metrics.
func WithMetricsHandler(h http.Handler) func(*Server) {
	return func(s *Server) {
		s.metrics = h
	}
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics).Methods(http.MethodGet)
	}

	api := s.router.PathPrefix("/{integration}").Subrouter()
	api.Use(s.integrationMiddleware)

	if s.status != nil {
		api.HandleFunc("/active-count", s.activeCount).Methods(http.MethodGet)
		api.HandleFunc("/report", s.report).Methods(http.MethodGet)
		api.HandleFunc("/detect-status", s.detectStatus).Methods(http.MethodGet)
		api.HandleFunc("/devices/{identifier}/status", s.deviceStatus).Methods(http.MethodGet)
		api.HandleFunc("/devices/{identifier}/status/online", s.setOnline).Methods(http.MethodPost)
	}

	if s.runner != nil {
		api.HandleFunc("/benchmark", s.runBenchmark).Methods(http.MethodPost)
	}

	if s.devices != nil {
		api.HandleFunc("/device", s.addDevice).Methods(http.MethodPost)
		api.HandleFunc("/devices", s.searchDevices).Methods(http.MethodGet)
		api.HandleFunc("/devices/{identifier}", s.deleteDevice).Methods(http.MethodDelete)
	}

	if s.sensors != nil {
		api.HandleFunc("/sensor-data", s.sensorData).Methods(http.MethodGet)
	}
}

// integrationMiddleware rejects paths addressed to another integration.
func (s *Server) integrationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["integration"] != s.integrationID {
			writeError(w, "Integration not found", http.StatusNotFound)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// Handler returns the router wrapped in the common middleware chain.
func (s *Server) Handler() http.Handler {
	return sensoraHTTP.RecoveryMiddleware(s.logger)(
		sensoraHTTP.CommonMiddleware(s.router, s.corsConfig, s.logger),
	)
}

// Start listens on addr and blocks until the server is shut down.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()

		return nil
	}

	s.srv = srv
	s.mu.Unlock()

	s.logger.Info().Str("addr", addr).Msg("Starting HTTP API")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown gracefully stops the server. A later Start returns immediately.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.closed = true
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}

func (s *Server) writeJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("Error encoding response")
	}
}

func writeText(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write([]byte(message + "\n"))
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(statusCode)

	errResponse := models.ErrorResponse{
		Message: message,
		Status:  statusCode,
	}

	if err := json.NewEncoder(w).Encode(errResponse); err != nil {
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrSweepInProgress):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidDevice):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code != http.StatusInternalServerError {
		writeError(w, err.Error(), code)

		return
	}

	s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	writeError(w, "Internal server error", code)
}
