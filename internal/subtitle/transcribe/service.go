package transcribe

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/subtitle-studio/backend/internal/job"
	"github.com/subtitle-studio/backend/internal/subtitle"
)

// Service runs transcription jobs and stores the resulting subtitles
type Service struct {
	engine       Transcriber
	mediaPath    string
	subtitlePath string
}

// NewService creates a transcription service backed by the given engine
func NewService(mediaPath, subtitlePath string, engine Transcriber) *Service {
	log.Printf("[transcribe] registered %s engine", engine.Name())
	return &Service{
		engine:       engine,
		mediaPath:    mediaPath,
		subtitlePath: subtitlePath,
	}
}

// HandleJob processes a transcription job
func (s *Service) HandleJob(ctx context.Context, j *job.Job, updateProgress func(float64)) error {
	var params job.TranscribeParams
	if err := json.Unmarshal(j.Params, &params); err != nil {
		return fmt.Errorf("unmarshal params: %w", err)
	}

	fullPath := filepath.Join(s.mediaPath, j.FilePath)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", j.FilePath)
	}

	log.Printf("[transcribe] starting: engine=%s file=%s language=%s",
		s.engine.Name(), j.FilePath, params.Language)

	updateProgress(0.1)

	result, err := s.engine.Transcribe(ctx, Request{
		FilePath: fullPath,
		Language: params.Language,
		Model:    params.Model,
	})
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}
	if len(result.Cues) == 0 {
		return fmt.Errorf("no speech found in %s", j.FilePath)
	}

	updateProgress(0.9)

	// Save VTT to subtitle output directory
	hash := videoHash(j.FilePath)
	outDir := filepath.Join(s.subtitlePath, hash)
	os.MkdirAll(outDir, 0755)

	lang := result.Language
	if lang == "" {
		lang = "auto"
	}
	outFile := filepath.Join(outDir, fmt.Sprintf("transcript_%s.vtt", lang))

	if err := os.WriteFile(outFile, []byte(subtitle.FormatVTT(result.Cues)), 0644); err != nil {
		return fmt.Errorf("save subtitle: %w", err)
	}

	log.Printf("[transcribe] complete: %s (%d cues)", outFile, len(result.Cues))

	resultJSON, _ := json.Marshal(job.TranscribeResult{
		OutputPath: fmt.Sprintf("generated:transcript_%s.vtt", lang),
		Language:   lang,
	})
	j.Result = resultJSON

	updateProgress(1.0)
	return nil
}

func videoHash(videoPath string) string {
	h := sha256.Sum256([]byte(videoPath))
	return fmt.Sprintf("%x", h[:8])
}
