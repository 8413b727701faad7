package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/amrgaberM/codesense/internal/analyzer"
	"github.com/amrgaberM/codesense/internal/config"
	"github.com/amrgaberM/codesense/internal/core"
	"github.com/amrgaberM/codesense/internal/server/handler"
)

// NewRouter creates and configures a new HTTP router with middleware and API routes.
func NewRouter(cfg *config.Config, a *analyzer.Analyzer, dispatcher core.JobDispatcher, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Configure middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(150 * time.Second))

	// Service info
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteJSON(w, http.StatusOK, map[string]string{
			"service": "CodeSense AI",
			"version": Version,
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"version": Version,
		})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		reviewHandler := handler.NewReviewHandler(a, logger)
		r.Post("/review", reviewHandler.Review)
		r.Post("/review/security", reviewHandler.ReviewWithType(core.AnalysisSecurity))
		r.Post("/review/performance", reviewHandler.ReviewWithType(core.AnalysisPerformance))
		r.Get("/languages", reviewHandler.Languages)
		r.Get("/detect-language", reviewHandler.DetectLanguage)

		webhookHandler := handler.NewWebhookHandler(cfg, dispatcher, logger)
		r.Post("/webhook/github", webhookHandler.Handle)
	})

	return r
}
