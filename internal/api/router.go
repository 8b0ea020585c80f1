package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/subtitle-studio/backend/internal/api/handlers"
	"github.com/subtitle-studio/backend/internal/api/middleware"
	"github.com/subtitle-studio/backend/internal/auth"
	"github.com/subtitle-studio/backend/internal/config"
	"github.com/subtitle-studio/backend/internal/db"
	"github.com/subtitle-studio/backend/internal/job"
)

func NewRouter(database *db.Database, jwtService *auth.JWTService, cfg *config.Config, jobQueue *job.JobQueue) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	// Handlers
	authHandler := handlers.NewAuthHandler(database, jwtService)
	mediaHandler := handlers.NewMediaHandler(cfg.MediaPath, cfg.MaxUploadMB)
	subtitleHandler := handlers.NewSubtitleHandler(cfg.MediaPath, cfg.SubtitlePath, jobQueue, database)
	jobHandler := handlers.NewJobHandler(jobQueue)
	settingsHandler := handlers.NewSettingsHandler(database)
	presetHandler := handlers.NewPresetHandler(database)
	geminiModelsHandler := handlers.NewGeminiModelsHandler(database)

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	jsonBodyLimit := middleware.MaxBodySize(8 << 20)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Auth (public, rate limited)
		r.With(loginLimiter.Handler, jsonBodyLimit).Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtService))

			r.Get("/auth/me", authHandler.Me)

			// Media library
			r.Get("/media/tree", mediaHandler.GetTree)
			r.Get("/media/tree/*", mediaHandler.GetTree)
			r.Get("/media/search", mediaHandler.Search)
			r.Post("/media/upload", mediaHandler.Upload)
			r.Post("/media/upload/*", mediaHandler.Upload)

			// Subtitles
			r.Get("/subtitle/list/*", subtitleHandler.ListSubtitles)
			r.Get("/subtitle/content/*", subtitleHandler.ServeSubtitle)
			r.Get("/subtitle/export/*", subtitleHandler.ExportSubtitle)
			r.With(jsonBodyLimit).Put("/subtitle/save/*", subtitleHandler.SaveSubtitle)
			r.With(jsonBodyLimit).Post("/subtitle/segments", subtitleHandler.Segments)
			r.With(jsonBodyLimit).Post("/subtitle/generate/*", subtitleHandler.GenerateSubtitle)
			r.With(jsonBodyLimit).Post("/subtitle/translate/*", subtitleHandler.TranslateSubtitle)
			r.With(jsonBodyLimit).Post("/subtitle/bulk-translate", subtitleHandler.BulkTranslate)
			r.With(jsonBodyLimit).Post("/subtitle/consolidate/*", subtitleHandler.Consolidate)
			r.With(jsonBodyLimit).Post("/subtitle/summarize/*", subtitleHandler.Summarize)

			// Jobs
			r.Get("/jobs", jobHandler.ListJobs)
			r.Get("/jobs/{id}", jobHandler.GetJob)
			r.Delete("/jobs/{id}", jobHandler.CancelJob)
			r.Post("/jobs/{id}/retry", jobHandler.RetryJob)

			// Settings (admin only)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole("admin"))
				r.Get("/settings", settingsHandler.GetSettings)
				r.With(jsonBodyLimit).Put("/settings", settingsHandler.UpdateSettings)
			})

			// Prompt presets
			r.Get("/presets", presetHandler.ListPresets)
			r.With(jsonBodyLimit).Post("/presets", presetHandler.CreatePreset)
			r.Delete("/presets/{id}", presetHandler.DeletePreset)

			// Model discovery
			r.Get("/gemini/models", geminiModelsHandler.ListModels)
		})
	})

	return r
}
