package document

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/subtitle-studio/backend/internal/subtitle"
)

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("First one. Second one! Third? Fourth")
	want := []string{"First one.", "Second one!", "Third?", "Fourth"}
	if len(got) != len(want) {
		t.Fatalf("got %d sentences: %v", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d: %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitSentencesCJK(t *testing.T) {
	got := SplitSentences("これは文です。 次の文です。 最後。")
	want := []string{"これは文です。", "次の文です。", "最後。"}
	if len(got) != len(want) {
		t.Fatalf("got %d sentences: %v", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d: %q, want %q", i, got[i], want[i])
		}
		if !utf8.ValidString(got[i]) {
			t.Errorf("sentence %d is not valid UTF-8: %q", i, got[i])
		}
	}
}

func TestSplitSentencesMixedWidth(t *testing.T) {
	got := SplitSentences("ASCII first. 日本語が続きます。 Then ASCII again.")
	want := []string{"ASCII first.", "日本語が続きます。", "Then ASCII again."}
	if len(got) != len(want) {
		t.Fatalf("got %d sentences: %v", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d: %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitSentencesNoBoundary(t *testing.T) {
	got := SplitSentences("no terminal punctuation here")
	if len(got) != 1 || got[0] != "no terminal punctuation here" {
		t.Fatalf("got %v", got)
	}
	if out := SplitSentences("   "); len(out) != 0 {
		t.Fatalf("blank input: %v", out)
	}
}

func TestBuildTranscriptParagraphs(t *testing.T) {
	var cues []subtitle.Cue
	for i := 0; i < 6; i++ {
		cues = append(cues, subtitle.Cue{Index: i + 1, Start: float64(i), End: float64(i + 1), Text: "Sentence here."})
	}

	out := BuildTranscript(cues)
	paragraphs := strings.Split(out, "\n\n")
	if len(paragraphs) != 2 {
		t.Fatalf("got %d paragraphs:\n%s", len(paragraphs), out)
	}
	if strings.Count(paragraphs[0], "Sentence here.") != sentencesPerParagraph {
		t.Errorf("first paragraph:\n%s", paragraphs[0])
	}
}

func TestBuildTranscriptFlattensNewlines(t *testing.T) {
	out := BuildTranscript([]subtitle.Cue{
		{Index: 1, Start: 0, End: 1, Text: "Two\nlines."},
		{Index: 2, Start: 1, End: 2, Text: "Next."},
	})
	if strings.Contains(out, "\n") && !strings.Contains(out, "\n\n") {
		t.Errorf("cue-internal newlines should be flattened: %q", out)
	}
	if !strings.HasPrefix(out, "Two lines.") {
		t.Errorf("transcript: %q", out)
	}
}
