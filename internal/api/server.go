// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"vp21rc/internal/logger"
	"vp21rc/internal/projector"
)

// PortLister enumerates the serial ports a client may open
type PortLister func() ([]projector.PortInfo, error)

// Server exposes the projector session over HTTP
type Server struct {
	remote *projector.Remote
	ports  PortLister
	jwt    *JWTService
	logger zerolog.Logger
	server *http.Server
}

// NewServer creates an API server. Authentication is disabled when jwt is nil.
func NewServer(remote *projector.Remote, ports PortLister, jwt *JWTService) *Server {
	return &Server{
		remote: remote,
		ports:  ports,
		jwt:    jwt,
		logger: logger.Component("api"),
	}
}

// Handler builds the router
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.requestIDMiddleware)
	router.Use(s.loggingMiddleware)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.HandleFunc("/health", s.handleHealth).Methods("GET")

	protected := apiRouter.NewRoute().Subrouter()
	if s.jwt != nil {
		protected.Use(s.jwt.RequireAuth)
	}

	protected.HandleFunc("/ports", s.handlePorts).Methods("GET")
	protected.HandleFunc("/buttons", s.handleButtons).Methods("GET")

	protected.HandleFunc("/session", s.handleGetSession).Methods("GET")
	protected.HandleFunc("/session", s.handleOpenSession).Methods("POST")
	protected.HandleFunc("/session", s.handleCloseSession).Methods("DELETE")

	protected.HandleFunc("/keys/{button}", s.handleKey).Methods("POST")
	protected.HandleFunc("/power", s.handlePowerStatus).Methods("GET")
	protected.HandleFunc("/power/toggle", s.handlePowerToggle).Methods("POST")
	protected.HandleFunc("/action", s.handleAction).Methods("POST")

	return router
}

// Run serves on address until ctx is cancelled
func (s *Server) Run(ctx context.Context, address string) error {
	s.server = &http.Server{
		Addr:         address,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("address", address).
			Bool("auth", s.jwt != nil).
			Msg("Starting API server")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

const requestIDHeader = "X-Request-ID"

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info().
			Str("request_id", r.Header.Get(requestIDHeader)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("API request")
	})
}

// Response helpers
func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, map[string]interface{}{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// sendProjectorError maps session errors to status codes
func sendProjectorError(w http.ResponseWriter, err error) {
	var cerr *projector.ConnectionError
	var serr *projector.SendError

	switch {
	case errors.Is(err, projector.ErrNotFound):
		sendError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, projector.ErrNotConnected):
		sendError(w, http.StatusConflict, err.Error())
	case errors.As(err, &cerr), errors.As(err, &serr):
		sendError(w, http.StatusBadGateway, err.Error())
	default:
		sendError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"connected": s.remote.Session().IsOpen(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handlePorts(w http.ResponseWriter, r *http.Request) {
	ports, err := s.ports()
	if err != nil {
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"ports": ports,
		"count": len(ports),
	})
}

func (s *Server) handleButtons(w http.ResponseWriter, r *http.Request) {
	type buttonInfo struct {
		Name string `json:"name"`
		Code string `json:"code,omitempty"`
	}

	buttons := make([]buttonInfo, 0, len(projector.Buttons()))
	for _, b := range projector.Buttons() {
		code, _ := projector.Lookup(b)
		buttons = append(buttons, buttonInfo{Name: b.String(), Code: string(code)})
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{"buttons": buttons})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, s.remote.GetDeviceInfo())
}

func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Port string `json:"port"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Port == "" {
		sendError(w, http.StatusBadRequest, "port is required")
		return
	}

	if err := s.remote.Session().Open(req.Port); err != nil {
		sendProjectorError(w, err)
		return
	}
	s.logger.Info().Str("client", clientName(r)).Str("port", req.Port).Msg("Session opened")
	sendJSON(w, http.StatusOK, s.remote.GetDeviceInfo())
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	s.remote.Session().Close()
	s.logger.Info().Str("client", clientName(r)).Msg("Session closed")
	sendJSON(w, http.StatusOK, s.remote.GetDeviceInfo())
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	button, err := projector.ParseButton(mux.Vars(r)["button"])
	if err != nil {
		sendProjectorError(w, err)
		return
	}

	msg, err := s.remote.Press(button)
	if err != nil {
		sendProjectorError(w, err)
		return
	}

	s.logger.Info().
		Str("client", clientName(r)).
		Str("button", button.String()).
		Msg("Button pressed")
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"button":  button.String(),
		"message": msg,
	})
}

func (s *Server) handlePowerStatus(w http.ResponseWriter, r *http.Request) {
	on, err := s.remote.Session().PowerStatus()
	if err != nil {
		sendProjectorError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{"powered": on})
}

func (s *Server) handlePowerToggle(w http.ResponseWriter, r *http.Request) {
	state, err := s.remote.Session().TogglePower()
	if err != nil {
		sendProjectorError(w, err)
		return
	}
	s.logger.Info().Str("client", clientName(r)).Str("requested", string(state)).Msg("Power toggled")
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"requested": state,
	})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	if err != nil {
		sendError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	response, err := s.remote.Process(body)
	if err != nil {
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if !response.Success {
		status = http.StatusUnprocessableEntity
	}
	sendJSON(w, status, response)
}
