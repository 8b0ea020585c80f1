package document

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/subtitle-studio/backend/internal/subtitle"
)

// Sentence boundaries: whitespace preceded by terminal punctuation,
// including CJK full stops. The lookbehind needs regexp2.
var sentenceBoundaryRe = regexp2.MustCompile(`(?<=[.!?。！？])\s+`, regexp2.None)

// sentencesPerParagraph groups flowing text for readability in the
// consolidated document.
const sentencesPerParagraph = 5

// SplitSentences splits flowing text on sentence boundaries. Match offsets
// from regexp2 count runes, so the scan works on a rune slice rather than
// the raw string.
func SplitSentences(text string) []string {
	var sentences []string
	rest := []rune(strings.TrimSpace(text))

	for len(rest) > 0 {
		m, err := sentenceBoundaryRe.FindRunesMatch(rest)
		if err != nil || m == nil {
			sentences = append(sentences, string(rest))
			break
		}
		sentence := strings.TrimSpace(string(rest[:m.Index]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		rest = rest[m.Index+m.Length:]
	}

	return sentences
}

// BuildTranscript flattens cue text into paragraphs, dropping timing. This
// is the raw material handed to the model for consolidation or summary.
func BuildTranscript(cues []subtitle.Cue) string {
	var joined strings.Builder
	for i, cue := range cues {
		if i > 0 {
			joined.WriteString(" ")
		}
		joined.WriteString(strings.ReplaceAll(cue.Text, "\n", " "))
	}

	sentences := SplitSentences(joined.String())

	var sb strings.Builder
	for i, sentence := range sentences {
		if i > 0 {
			if i%sentencesPerParagraph == 0 {
				sb.WriteString("\n\n")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(sentence)
	}
	return sb.String()
}
