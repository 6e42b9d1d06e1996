// Package server exposes the checker over HTTP: a stateless JSON API with a
// single check endpoint and a health probe. There is no authentication and
// nothing is persisted; each request is parsed, solved, and forgotten.
package server

import (
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
)

// PathPrefix is the prefix of all paths in the API. Routers should mount a
// sub-router that routes all requests to the API at this path.
const PathPrefix = "/api/v1"

// Server serves the check API. Create one with New and pass it to
// http.ListenAndServe or similar.
type Server struct {
	router chi.Router

	// MaxDepth caps the tableau depth of every request that does not set
	// its own; 0 means unlimited.
	MaxDepth uint64

	// DisableSAT turns the propositional accelerator off for all requests.
	DisableSAT bool
}

// New creates a Server with its routes mounted.
func New() *Server {
	s := &Server{}

	r := chi.NewRouter()
	r.Use(recovery)
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, "no such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.Route(PathPrefix, func(r chi.Router) {
		r.Post("/check", s.handleCheck)
		r.Get("/health", s.handleHealth)
	})
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	s.router.ServeHTTP(w, req)
	log.Printf("%s %s (%s)", req.Method, req.URL.Path, time.Since(start).Round(time.Microsecond))
}

// recovery turns handler panics into HTTP-500 responses instead of dropped
// connections.
func recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				log.Printf("panic serving %s %s: %v\n%s", req.Method, req.URL.Path, p, debug.Stack())
				writeError(w, http.StatusInternalServerError, "an internal server error occurred")
			}
		}()
		next.ServeHTTP(w, req)
	})
}
