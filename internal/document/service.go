package document

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
	"github.com/subtitle-studio/backend/internal/subtitle/translate"
)

// SettingResolver returns a current configuration value from settings
type SettingResolver func() string

// Service turns stored subtitles into consolidated documents and summaries
type Service struct {
	mediaPath    string
	subtitlePath string
	apiKey       SettingResolver
	model        SettingResolver
}

func NewService(mediaPath, subtitlePath string, apiKey, model SettingResolver) *Service {
	return &Service{
		mediaPath:    mediaPath,
		subtitlePath: subtitlePath,
		apiKey:       apiKey,
		model:        model,
	}
}

// HandleConsolidateJob rewrites a transcript into a flowing document
func (s *Service) HandleConsolidateJob(ctx context.Context, j *job.Job, updateProgress func(float64)) error {
	return s.run(ctx, j, updateProgress, "consolidated",
		"You are an editor. Rewrite the following transcript into a clean, well-structured document. "+
			"Fix punctuation and sentence boundaries, merge fragments, remove filler words and repetitions, "+
			"and organize the content into coherent paragraphs. Do not add information that is not in the transcript.")
}

// HandleSummarizeJob produces a summary of a transcript
func (s *Service) HandleSummarizeJob(ctx context.Context, j *job.Job, updateProgress func(float64)) error {
	return s.run(ctx, j, updateProgress, "summary",
		"You are a summarizer. Write a concise summary of the following transcript. "+
			"Capture the main topics, key points, and conclusions. Use short paragraphs and, "+
			"where it helps, a brief bullet list. Do not add information that is not in the transcript.")
}

func (s *Service) run(ctx context.Context, j *job.Job, updateProgress func(float64), kind, systemPrompt string) error {
	var params job.DocumentParams
	if err := json.Unmarshal(j.Params, &params); err != nil {
		return fmt.Errorf("unmarshal params: %w", err)
	}

	apiKey := s.apiKey()
	if apiKey == "" {
		return fmt.Errorf("Gemini API key not configured")
	}
	model := s.model()
	if model == "" {
		model = "gemini-2.0-flash"
	}

	cues, err := s.loadCues(j.FilePath, params.SubtitleID)
	if err != nil {
		return err
	}
	if len(cues) == 0 {
		return fmt.Errorf("no subtitle cues found in source")
	}

	if params.Language != "" {
		systemPrompt += fmt.Sprintf(" Write the output in %s.", translate.LangName(params.Language))
	}

	transcript := BuildTranscript(cues)
	updateProgress(0.2)

	log.Printf("[document] %s: %d cues, %d chars, model=%s", kind, len(cues), len(transcript), model)

	output, err := generate(ctx, apiKey, model, systemPrompt, transcript)
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	updateProgress(0.9)

	hash := videoHash(j.FilePath)
	outDir := filepath.Join(s.subtitlePath, hash)
	os.MkdirAll(outDir, 0755)

	outFile := filepath.Join(outDir, kind+".txt")
	if err := os.WriteFile(outFile, []byte(output), 0644); err != nil {
		return fmt.Errorf("save %s: %w", kind, err)
	}

	log.Printf("[document] %s complete: %s", kind, outFile)

	resultJSON, _ := json.Marshal(job.DocumentResult{
		OutputPath: fmt.Sprintf("generated:%s.txt", kind),
	})
	j.Result = resultJSON

	updateProgress(1.0)
	return nil
}

func (s *Service) loadCues(videoPath, subtitleID string) ([]subtitle.Cue, error) {
	if len(subtitleID) <= len("generated:") || subtitleID[:len("generated:")] != "generated:" {
		return nil, fmt.Errorf("unknown subtitle type: %s", subtitleID)
	}
	filename := subtitleID[len("generated:"):]
	subPath := filepath.Join(s.subtitlePath, videoHash(videoPath), filename)
	data, err := os.ReadFile(subPath)
	if err != nil {
		return nil, fmt.Errorf("read subtitle: %w", err)
	}
	return subtitle.ParseVTT(string(data)), nil
}

func videoHash(videoPath string) string {
	h := sha256.Sum256([]byte(videoPath))
	return fmt.Sprintf("%x", h[:8])
}
