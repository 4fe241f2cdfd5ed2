package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Device endpoints
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/state", s.handleGetDeviceState)
				r.Post("/activate", s.deviceAction(s.controller.Activate))
				r.Post("/deactivate", s.deviceAction(s.controller.Deactivate))
				r.Post("/error", s.deviceAction(s.controller.ReportError))
				r.Post("/reset", s.deviceAction(s.controller.Reset))
				r.Post("/maintenance/start", s.deviceAction(s.controller.StartMaintenance))
				r.Post("/maintenance/complete", s.deviceAction(s.controller.CompleteMaintenance))
			})
		})

		// Command history endpoints
		r.Get("/history", s.handleHistory)
		r.Route("/commands", func(r chi.Router) {
			r.Post("/undo", s.handleUndo)
			r.Post("/redo", s.handleRedo)
		})

		// Automation and pipeline inspection
		r.Get("/rules", s.handleListRules)
		r.Get("/pipeline/handlers", s.handlePipelineHandlers)

		// WebSocket event stream
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
