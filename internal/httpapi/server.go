// Package httpapi exposes the Conversation Engine over HTTP (spec §6),
// grounded on the teacher's internal/httpapi package: a Server holding a
// *http.ServeMux built with Go 1.22+ method-pattern routing, plain
// respondJSON/respondError helpers, and a statusFromError classifier
// (generalized here to read apperr.StatusCode instead of switching on
// sentinel errors, since this domain's errors already carry a typed kind).
package httpapi

import (
	"net/http"

	"github.com/ford-at-home/storygen-sub000/internal/engine"
)

// Server serves the storygen conversation API.
type Server struct {
	engine *engine.Engine
	mux    *http.ServeMux
}

// NewServer builds a Server wired to eng, with request logging applied.
func NewServer(eng *engine.Engine) *Server {
	s := &Server{engine: eng, mux: http.NewServeMux()}
	s.registerRoutes()
	return s
}

// ServeHTTP satisfies http.Handler, applying the logging middleware around
// the registered routes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	loggingMiddleware(http.HandlerFunc(s.mux.ServeHTTP)).ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /styles", s.handleStyles)

	s.mux.HandleFunc("POST /conversation/start", s.handleStart)
	s.mux.HandleFunc("POST /conversation/continue/{id}", s.handleContinue)
	s.mux.HandleFunc("POST /conversation/select-option/{id}", s.handleSelectOption)
	s.mux.HandleFunc("POST /conversation/generate-final/{id}", s.handleGenerateFinal)
	s.mux.HandleFunc("GET /conversation/session/{id}", s.handleGetSession)
	s.mux.HandleFunc("GET /conversation/sessions/active", s.handleListActive)
}
