package translate

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/subtitle-studio/backend/internal/job"
	"github.com/subtitle-studio/backend/internal/subtitle"
)

// segmentRetries is how many times a single segment request is retried
// before the whole job fails.
const segmentRetries = 2

// Service manages translation engines and processes translation jobs
type Service struct {
	engines      map[string]Engine
	mediaPath    string
	subtitlePath string
}

// NewService creates a translation service with available engines
func NewService(mediaPath, subtitlePath string, geminiKey, geminiModel SettingResolver) *Service {
	s := &Service{
		engines:      make(map[string]Engine),
		mediaPath:    mediaPath,
		subtitlePath: subtitlePath,
	}

	s.engines["gemini"] = NewGeminiEngine(geminiKey, geminiModel)
	log.Printf("[translate] registered Gemini engine (key and model resolved dynamically from settings)")

	s.engines["googletrans"] = NewGoogleTransEngine()
	log.Printf("[translate] registered Google Translate engine")

	return s
}

// RegisterEngine adds an engine under its own name; used by tests
func (s *Service) RegisterEngine(e Engine) {
	s.engines[e.Name()] = e
}

// HandleJob processes a translation job for one subtitle file
func (s *Service) HandleJob(ctx context.Context, j *job.Job, updateProgress func(float64)) error {
	var params job.TranslateParams
	if err := json.Unmarshal(j.Params, &params); err != nil {
		return fmt.Errorf("unmarshal params: %w", err)
	}

	outputID, err := s.translateFile(ctx, j.FilePath, params, updateProgress)
	if err != nil {
		return err
	}

	resultJSON, _ := json.Marshal(job.TranslateResult{OutputPaths: []string{outputID}})
	j.Result = resultJSON

	updateProgress(1.0)
	return nil
}

// HandleBulkJob processes a bulk translation job across several subtitle files
func (s *Service) HandleBulkJob(ctx context.Context, j *job.Job, updateProgress func(float64)) error {
	var params job.BulkTranslateParams
	if err := json.Unmarshal(j.Params, &params); err != nil {
		return fmt.Errorf("unmarshal params: %w", err)
	}
	if len(params.SubtitleIDs) == 0 {
		return fmt.Errorf("no subtitles selected")
	}

	log.Printf("[translate] bulk job: %d files, engine=%s targets=%v",
		len(params.SubtitleIDs), params.Options.Engine, params.Options.TargetLangs)

	outputs := make([]string, 0, len(params.SubtitleIDs))
	total := float64(len(params.SubtitleIDs))

	for i, subtitleID := range params.SubtitleIDs {
		fileParams := params.Options
		fileParams.SubtitleID = subtitleID

		base := float64(i) / total
		outputID, err := s.translateFile(ctx, j.FilePath, fileParams, func(p float64) {
			updateProgress(base + p/total)
		})
		if err != nil {
			return fmt.Errorf("translate %s: %w", subtitleID, err)
		}
		outputs = append(outputs, outputID)
	}

	resultJSON, _ := json.Marshal(job.TranslateResult{OutputPaths: outputs})
	j.Result = resultJSON

	updateProgress(1.0)
	return nil
}

// translateFile loads one subtitle, translates it into every target
// language, composes the multi-language output, and writes the result.
// It returns the subtitle ID of the written file.
func (s *Service) translateFile(ctx context.Context, videoPath string, params job.TranslateParams, updateProgress func(float64)) (string, error) {
	engine, ok := s.engines[params.Engine]
	if !ok {
		return "", fmt.Errorf("unknown translation engine: %s", params.Engine)
	}
	if len(params.TargetLangs) == 0 {
		return "", fmt.Errorf("no target languages")
	}

	content, err := s.loadSubtitle(videoPath, params.SubtitleID)
	if err != nil {
		return "", fmt.Errorf("load subtitle: %w", err)
	}

	cues := subtitle.ParseVTT(content)
	if len(cues) == 0 {
		return "", fmt.Errorf("no subtitle cues found in source")
	}

	sourceLang := detectSourceLang(params.SubtitleID)
	segments := subtitle.ComputeSegments(cues, params.SplitDuration)

	log.Printf("[translate] %d cues in %d segments: engine=%s source=%s targets=%v preset=%s",
		len(cues), len(segments), params.Engine, sourceLang, params.TargetLangs, params.Preset)

	variants := make([][]subtitle.Cue, 0, len(params.TargetLangs))
	totalSteps := float64(len(segments) * len(params.TargetLangs))
	step := 0

	for _, lang := range params.TargetLangs {
		opts := Options{
			SourceLang:   sourceLang,
			TargetLang:   lang,
			Preset:       params.Preset,
			CustomPrompt: params.CustomPrompt,
		}

		translated := make([]subtitle.Cue, 0, len(cues))
		for _, seg := range segments {
			part, err := s.translateSegment(ctx, engine, subtitle.SliceBySegment(cues, seg), opts)
			if err != nil {
				return "", fmt.Errorf("segment %d/%d (%s): %w", seg.Index, len(segments), lang, err)
			}
			translated = append(translated, part...)

			step++
			updateProgress(float64(step) / totalSteps)
		}
		variants = append(variants, translated)
	}

	composed := ComposeMultiLang(variants, ComposeOptions{
		Delimiter:    params.Delimiter,
		UseBrackets:  params.UseBrackets,
		BracketOpen:  params.BracketOpen,
		BracketClose: params.BracketClose,
	})

	// Save translated VTT
	hash := videoHash(videoPath)
	outDir := filepath.Join(s.subtitlePath, hash)
	os.MkdirAll(outDir, 0755)

	outName := outputName(params)
	outFile := filepath.Join(outDir, outName)

	if err := os.WriteFile(outFile, []byte(subtitle.FormatVTT(composed)), 0644); err != nil {
		return "", fmt.Errorf("save translated subtitle: %w", err)
	}

	log.Printf("[translate] translation complete: %s", outFile)
	return "generated:" + outName, nil
}

// outputName builds the stored filename for a translation. The source's
// base name is part of it so that bulk jobs over several subtitles of the
// same video do not overwrite each other.
func outputName(params job.TranslateParams) string {
	langTag := strings.Join(params.TargetLangs, "-")

	src := params.SubtitleID
	for _, prefix := range []string{"generated:", "external:"} {
		src = strings.TrimPrefix(src, prefix)
	}
	src = filepath.Base(src)
	src = strings.TrimSuffix(src, filepath.Ext(src))

	return fmt.Sprintf("translate_%s_%s_%s.vtt", langTag, params.Engine, src)
}

// translateSegment runs one segment request with bounded retries. A
// cancelled context stops retrying immediately.
func (s *Service) translateSegment(ctx context.Context, engine Engine, cues []subtitle.Cue, opts Options) ([]subtitle.Cue, error) {
	var lastErr error
	for attempt := 0; attempt <= segmentRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		part, err := engine.Translate(ctx, cues, opts)
		if err == nil {
			return part, nil
		}
		lastErr = err
		log.Printf("[translate] segment attempt %d/%d failed: %v", attempt+1, segmentRetries+1, err)
	}
	return nil, lastErr
}

// loadSubtitle reads subtitle content from the appropriate source
func (s *Service) loadSubtitle(videoPath, subtitleID string) (string, error) {
	if strings.HasPrefix(subtitleID, "generated:") {
		// Load from generated subtitles directory
		filename := strings.TrimPrefix(subtitleID, "generated:")
		hash := videoHash(videoPath)
		subPath := filepath.Join(s.subtitlePath, hash, filename)
		data, err := os.ReadFile(subPath)
		if err != nil {
			return "", fmt.Errorf("read generated subtitle: %w", err)
		}
		return string(data), nil
	}

	if strings.HasPrefix(subtitleID, "external:") {
		// Load from media directory
		filename := strings.TrimPrefix(subtitleID, "external:")
		fullPath := filepath.Join(s.mediaPath, videoPath)
		videoDir := filepath.Dir(fullPath)
		subPath := filepath.Join(videoDir, filename)
		data, err := os.ReadFile(subPath)
		if err != nil {
			return "", fmt.Errorf("read external subtitle: %w", err)
		}
		// Convert SRT to VTT framing if needed; the parser handles both
		if strings.HasSuffix(strings.ToLower(filename), ".srt") {
			return "WEBVTT\n\n" + strings.ReplaceAll(string(data), "\r\n", "\n"), nil
		}
		return string(data), nil
	}

	return "", fmt.Errorf("unknown subtitle type: %s", subtitleID)
}

func detectSourceLang(subtitleID string) string {
	// "generated:transcript_ja.vtt" → "ja"
	// "generated:translate_ko_gemini.vtt" → "ko"
	// "external:video.en.srt" → "en"
	name := subtitleID
	for _, prefix := range []string{"generated:", "external:"} {
		name = strings.TrimPrefix(name, prefix)
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))

	if strings.HasPrefix(name, "transcript_") {
		return strings.TrimPrefix(name, "transcript_")
	}
	if strings.HasPrefix(name, "translate_") {
		parts := strings.SplitN(strings.TrimPrefix(name, "translate_"), "_", 2)
		if len(parts) >= 1 {
			return parts[0]
		}
	}

	// Try to extract from "video.en" pattern
	parts := strings.Split(name, ".")
	if len(parts) >= 2 {
		lang := parts[len(parts)-1]
		if len(lang) == 2 || len(lang) == 3 {
			return lang
		}
	}

	return "auto"
}

func videoHash(videoPath string) string {
	h := sha256.Sum256([]byte(videoPath))
	return fmt.Sprintf("%x", h[:8])
}
