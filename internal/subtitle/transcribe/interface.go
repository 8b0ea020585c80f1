package transcribe

import (
	"context"

	"github.com/subtitle-studio/backend/internal/subtitle"
)

// Request is the input for a transcription
type Request struct {
	FilePath string // absolute path to the media file
	Language string // "auto" or a hint like "ko", "en", "ja"
	Model    string // model name, "" uses the configured default
}

// Result is the output of a transcription
type Result struct {
	Cues     []subtitle.Cue
	Language string // detected language
}

// Transcriber converts audio/video into timed cues
type Transcriber interface {
	Transcribe(ctx context.Context, req Request) (*Result, error)
	Name() string
}
