package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mathbuddy/mathbuddy/internal/gemini"
	"github.com/mathbuddy/mathbuddy/internal/services"
)

type Server struct {
	ProblemService services.ProblemService
	HistoryService services.HistoryService
	Gemini         gemini.CompletionClient // nil when no credential is configured
	StaticDir      string
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/", s.handleIndex)
	r.Post("/problem", s.handleGenerateProblem)
	r.Post("/problem/submit", s.handleSubmitAnswer)
	r.Get("/problem/history", s.handleHistory)
	r.Get("/models", s.handleListModels)
	r.Get("/health", s.handleHealth)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir()))))
	return r
}

func (s *Server) staticDir() string {
	if s.StaticDir != "" {
		return s.StaticDir
	}
	return "web/static"
}
