package translate

import (
	"context"
	"fmt"
	"os"
	"strings"

	translator "github.com/Conight/go-googletrans"

	"github.com/subtitle-studio/backend/internal/subtitle"
)

// GoogleTransEngine translates via the free Google Translate web endpoint.
// No API key needed; useful as a fallback when no Gemini key is configured.
// Prompt presets do not apply to this engine.
type GoogleTransEngine struct {
	client *translator.Translator
}

func NewGoogleTransEngine() *GoogleTransEngine {
	return &GoogleTransEngine{
		client: translator.New(translator.Config{
			Proxy: os.Getenv("http_proxy"),
		}),
	}
}

func (g *GoogleTransEngine) Name() string {
	return "googletrans"
}

// cueSeparator keeps cue boundaries recoverable in a single request. The
// web endpoint translates around it without touching the line itself.
const cueSeparator = "\n@@@\n"

func (g *GoogleTransEngine) Translate(ctx context.Context, cues []subtitle.Cue, opts Options) ([]subtitle.Cue, error) {
	if len(cues) == 0 {
		return nil, nil
	}

	src := opts.SourceLang
	if src == "" {
		src = "auto"
	}

	texts := make([]string, len(cues))
	for i, cue := range cues {
		texts[i] = strings.ReplaceAll(cue.Text, "\n", " ")
	}

	translated, err := g.client.Translate(strings.Join(texts, cueSeparator), src, opts.TargetLang)
	if err != nil {
		return nil, fmt.Errorf("google translate: %w", err)
	}

	parts := strings.Split(translated.Text, "@@@")
	if len(parts) != len(cues) {
		return nil, fmt.Errorf("google translate returned %d parts, want %d", len(parts), len(cues))
	}

	result := make([]subtitle.Cue, len(cues))
	for i, cue := range cues {
		result[i] = subtitle.Cue{
			Index: cue.Index,
			Start: cue.Start,
			End:   cue.End,
			Text:  strings.TrimSpace(parts[i]),
		}
		if result[i].Text == "" {
			result[i].Text = cue.Text
		}
	}
	return result, nil
}
