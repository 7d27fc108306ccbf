package server

import (
	"net/http"

	"github.com/bobmcallan/toolgate/internal/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Stream binding: /mcp, /sse and the SSE message endpoint, gated by
	// the bearer secret inside the handler.
	for _, path := range s.app.MCPHandler.MountPaths() {
		mux.Handle(path, s.app.MCPHandler)
	}

	// Direct-call binding
	tools := s.app.ToolsHandler
	mux.HandleFunc("/rpc", tools.HandleRPC)
	mux.HandleFunc("/api/tools", tools.HandleList)
	mux.HandleFunc("/api/tools/", func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, MethodRouter{
			http.MethodGet:  tools.HandleToolGet,
			http.MethodPost: tools.HandleToolPost,
		})
	})

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)
	mux.Handle("/metrics", promhttp.HandlerFor(s.app.Registry, promhttp.HandlerOpts{}))

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteError(w, http.StatusNotFound, "The requested endpoint does not exist")
}
