package translate

import (
	"context"

	"github.com/subtitle-studio/backend/internal/subtitle"
)

// Options configures a single translation request for one target language.
type Options struct {
	SourceLang   string `json:"source_lang"`
	TargetLang   string `json:"target_lang"`
	Preset       string `json:"preset"`        // "anime", "movie", "documentary", "custom"
	CustomPrompt string `json:"custom_prompt"` // for "custom" preset
}

// Engine is the common interface for all translation engines. Engines
// translate one chunk of cues at a time; chunking, retry, and progress
// are the service's concern.
type Engine interface {
	Translate(ctx context.Context, cues []subtitle.Cue, opts Options) ([]subtitle.Cue, error)
	Name() string
}
