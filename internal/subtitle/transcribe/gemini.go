package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"google.golang.org/genai"

	"github.com/subtitle-studio/backend/internal/subtitle"
)

// SettingResolver returns a current configuration value from settings
type SettingResolver func() string

// GeminiTranscriber transcribes media through the Gemini Files API and
// structured JSON output.
type GeminiTranscriber struct {
	apiKey        SettingResolver
	modelResolver SettingResolver
}

func NewGeminiTranscriber(apiKey, model SettingResolver) *GeminiTranscriber {
	return &GeminiTranscriber{apiKey: apiKey, modelResolver: model}
}

func (g *GeminiTranscriber) Name() string {
	return "gemini"
}

// transcriptSchema constrains the model to a language plus timed segments.
var transcriptSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"language": {
			Type: genai.TypeString,
		},
		"segments": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"start": {Type: genai.TypeNumber},
					"end":   {Type: genai.TypeNumber},
					"text":  {Type: genai.TypeString},
				},
				Required: []string{"start", "end", "text"},
			},
		},
	},
	Required: []string{"language", "segments"},
}

func (g *GeminiTranscriber) currentModel(req Request) string {
	if req.Model != "" {
		return req.Model
	}
	if g.modelResolver != nil {
		if m := g.modelResolver(); m != "" {
			return m
		}
	}
	return "gemini-2.0-flash"
}

func (g *GeminiTranscriber) Transcribe(ctx context.Context, req Request) (*Result, error) {
	apiKey := ""
	if g.apiKey != nil {
		apiKey = g.apiKey()
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	uploaded, err := client.Files.UploadFromPath(ctx, req.FilePath, nil)
	if err != nil {
		return nil, fmt.Errorf("upload media to Gemini: %w", err)
	}

	prompt := "Generate a transcript of the audio with accurate start and end times in seconds for each segment."
	if req.Language != "" && req.Language != "auto" {
		prompt += fmt.Sprintf(" The spoken language is %s.", req.Language)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromURI(uploaded.URI, uploaded.MIMEType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	model := g.currentModel(req)
	log.Printf("[transcribe] model=%s file=%s", model, req.FilePath)

	result, err := client.Models.GenerateContent(ctx, model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   transcriptSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini transcription: %w", err)
	}

	var parsed struct {
		Language string `json:"language"`
		Segments []struct {
			Start float64 `json:"start"`
			End   float64 `json:"end"`
			Text  string  `json:"text"`
		} `json:"segments"`
	}
	if err := json.Unmarshal([]byte(result.Text()), &parsed); err != nil {
		return nil, fmt.Errorf("parse transcript response: %w", err)
	}

	cues := make([]subtitle.Cue, 0, len(parsed.Segments))
	for i, seg := range parsed.Segments {
		if seg.Text == "" {
			continue
		}
		cues = append(cues, subtitle.Cue{
			Index: i + 1,
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}

	return &Result{Cues: cues, Language: parsed.Language}, nil
}
