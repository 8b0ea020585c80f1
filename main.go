package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subtitle-studio/backend/internal/api"
	"github.com/subtitle-studio/backend/internal/auth"
	"github.com/subtitle-studio/backend/internal/config"
	"github.com/subtitle-studio/backend/internal/db"
	"github.com/subtitle-studio/backend/internal/document"
	"github.com/subtitle-studio/backend/internal/job"
	"github.com/subtitle-studio/backend/internal/subtitle/transcribe"
	"github.com/subtitle-studio/backend/internal/subtitle/translate"
)

func main() {
	cfg := config.Load()

	// Ensure data directories exist
	os.MkdirAll(cfg.DataPath, 0755)
	os.MkdirAll(cfg.SubtitlePath, 0755)

	// Initialize database
	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Ensure admin user exists
	if err := database.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	log.Printf("Admin user ensured: %s", cfg.AdminUsername)

	// Settings resolved per call so key/model changes apply without restart
	geminiKey := func() string { return database.GetSetting("gemini_api_key", os.Getenv("GEMINI_API_KEY")) }
	geminiModel := func() string { return database.GetSetting("gemini_model", "gemini-2.0-flash") }

	// Job queue and services
	jobQueue := job.NewJobQueue(database.DB())

	transcribeService := transcribe.NewService(cfg.MediaPath, cfg.SubtitlePath,
		transcribe.NewGeminiTranscriber(geminiKey, geminiModel))
	translateService := translate.NewService(cfg.MediaPath, cfg.SubtitlePath, geminiKey, geminiModel)
	documentService := document.NewService(cfg.MediaPath, cfg.SubtitlePath, geminiKey, geminiModel)

	jobQueue.RegisterHandler(job.JobTranscribe, transcribeService.HandleJob)
	jobQueue.RegisterHandler(job.JobTranslate, translateService.HandleJob)
	jobQueue.RegisterHandler(job.JobBulkTranslate, translateService.HandleBulkJob)
	jobQueue.RegisterHandler(job.JobConsolidate, documentService.HandleConsolidateJob)
	jobQueue.RegisterHandler(job.JobSummarize, documentService.HandleSummarizeJob)
	defer jobQueue.Stop()

	// JWT service
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Router
	router := api.NewRouter(database, jwtService, cfg, jobQueue)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: router}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("Starting server on %s", addr)
	log.Printf("Media path: %s", cfg.MediaPath)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}
