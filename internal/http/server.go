// Package http exposes the budget engine to the rendering layer as a
// JSON API. Handlers run each command to completion synchronously; the
// engine guarantees write-through persistence before a response is sent.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cashmentor/internal/engine"
	"cashmentor/internal/export"
	applog "cashmentor/internal/log"
)

// Server wraps the HTTP listener with the engine and export sink it
// serves.
type Server struct {
	http.Server
	eng    *engine.Engine
	sink   export.Sink
	logger *applog.Logger
}

// NewServer wires the routes and returns a ready-to-run server.
func NewServer(addr string, eng *engine.Engine, sink export.Sink, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.New(applog.Config{Component: applog.ComponentHTTP})
	}

	s := &Server{
		eng:    eng,
		sink:   sink,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(requestID, securityHeaders, requestLogger(logger))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", s.handleCategories)
		r.Get("/summary", s.handleSummary)
		r.Get("/expenses", s.handleListExpenses)
		r.Post("/expenses", s.handleAddExpense)
		r.Put("/income", s.handleUpdateIncome)
		r.Post("/reset", s.handleReset)
		r.Post("/export", s.handleExport)
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
