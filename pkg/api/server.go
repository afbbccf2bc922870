// Package api exposes the search session, favorites store and detail
// projection over HTTP. Stateless endpoints serve one-shot searches;
// the WebSocket endpoint runs a full per-connection search session with
// server-side debouncing and request cancellation.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/openshelf/openshelf/pkg/favorites"
	"github.com/openshelf/openshelf/pkg/log"
	"github.com/openshelf/openshelf/pkg/openlibrary"
	"github.com/openshelf/openshelf/pkg/session"
)

var logger = log.For("api")

// Server holds the shared dependencies of all handlers.
type Server struct {
	client      *openlibrary.Client
	favorites   *favorites.Store
	sessionOpts session.Options
}

// NewServer creates a server around the provider client and favorites
// store. sessionOpts configures the per-connection live sessions.
func NewServer(client *openlibrary.Client, favs *favorites.Store, sessionOpts session.Options) *Server {
	return &Server{
		client:      client,
		favorites:   favs,
		sessionOpts: sessionOpts,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

// CorsMiddleware allows the search page (or any origin) to call the
// API from the browser.
func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequestIDMiddleware tags every request with an id for log
// correlation.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-ID", id)
		logger.Debugf("request %s: %s %s", id, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
