package translate

import (
	"strings"

	"github.com/subtitle-studio/backend/internal/subtitle"
)

// ComposeOptions control how translations into several target languages are
// merged into one cue text.
type ComposeOptions struct {
	Delimiter    string // between language variants; defaults to a single space
	UseBrackets  bool   // wrap every variant after the first instead of delimiting
	BracketOpen  string // defaults to "("
	BracketClose string // defaults to ")"
}

func (o ComposeOptions) normalized() ComposeOptions {
	if o.Delimiter == "" {
		o.Delimiter = " "
	}
	if o.BracketOpen == "" {
		o.BracketOpen = "("
	}
	if o.BracketClose == "" {
		o.BracketClose = ")"
	}
	return o
}

// ComposeMultiLang merges per-language translations of the same cue list into
// one list. The first language supplies timing and leads each cue's text;
// further languages are appended with the delimiter, or bracketed when
// UseBrackets is set. Variant lists shorter than the first are padded with
// nothing rather than failing, so a partially failed language degrades to
// missing lines instead of shifting cues.
func ComposeMultiLang(variants [][]subtitle.Cue, opts ComposeOptions) []subtitle.Cue {
	if len(variants) == 0 {
		return nil
	}
	opts = opts.normalized()

	base := variants[0]
	result := make([]subtitle.Cue, len(base))
	copy(result, base)

	for _, variant := range variants[1:] {
		for i := range result {
			if i >= len(variant) {
				break
			}
			text := strings.TrimSpace(variant[i].Text)
			if text == "" {
				continue
			}
			if opts.UseBrackets {
				result[i].Text += "\n" + opts.BracketOpen + text + opts.BracketClose
			} else {
				result[i].Text += opts.Delimiter + text
			}
		}
	}

	return result
}
