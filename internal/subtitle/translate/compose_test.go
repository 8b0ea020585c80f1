package translate

import (
	"testing"

	"github.com/subtitle-studio/backend/internal/subtitle"
)

func variant(texts ...string) []subtitle.Cue {
	cues := make([]subtitle.Cue, len(texts))
	for i, text := range texts {
		cues[i] = subtitle.Cue{Index: i + 1, Start: float64(i * 2), End: float64(i*2 + 1), Text: text}
	}
	return cues
}

func TestComposeMultiLangSingle(t *testing.T) {
	out := ComposeMultiLang([][]subtitle.Cue{variant("Hello", "World")}, ComposeOptions{})
	if len(out) != 2 || out[0].Text != "Hello" || out[1].Text != "World" {
		t.Fatalf("single language should pass through: %+v", out)
	}
}

func TestComposeMultiLangDelimiter(t *testing.T) {
	out := ComposeMultiLang([][]subtitle.Cue{
		variant("Hello", "World"),
		variant("Bonjour", "Monde"),
	}, ComposeOptions{Delimiter: " | "})

	if out[0].Text != "Hello | Bonjour" {
		t.Errorf("cue 1: %q", out[0].Text)
	}
	if out[1].Text != "World | Monde" {
		t.Errorf("cue 2: %q", out[1].Text)
	}
	// Timing comes from the first variant.
	if out[0].Start != 0 || out[1].Start != 2 {
		t.Errorf("timing: %+v", out)
	}
}

func TestComposeMultiLangBrackets(t *testing.T) {
	out := ComposeMultiLang([][]subtitle.Cue{
		variant("Hello"),
		variant("Bonjour"),
		variant("Hallo"),
	}, ComposeOptions{UseBrackets: true, BracketOpen: "[", BracketClose: "]"})

	if out[0].Text != "Hello\n[Bonjour]\n[Hallo]" {
		t.Errorf("bracketed: %q", out[0].Text)
	}
}

func TestComposeMultiLangDefaults(t *testing.T) {
	out := ComposeMultiLang([][]subtitle.Cue{
		variant("Hi"),
		variant("Salut"),
	}, ComposeOptions{UseBrackets: true})

	if out[0].Text != "Hi\n(Salut)" {
		t.Errorf("default brackets: %q", out[0].Text)
	}
}

func TestComposeMultiLangShortVariant(t *testing.T) {
	// A shorter secondary variant must not shift or drop base cues.
	out := ComposeMultiLang([][]subtitle.Cue{
		variant("One", "Two", "Three"),
		variant("Uno"),
	}, ComposeOptions{Delimiter: " / "})

	if out[0].Text != "One / Uno" || out[1].Text != "Two" || out[2].Text != "Three" {
		t.Errorf("short variant: %+v", out)
	}
}

func TestLangName(t *testing.T) {
	cases := map[string]string{
		"ko":   "Korean",
		"en":   "English",
		"ja":   "Japanese",
		"auto": "auto-detected language",
		"":     "auto-detected language",
	}
	for code, want := range cases {
		if got := LangName(code); got != want {
			t.Errorf("LangName(%q) = %q, want %q", code, got, want)
		}
	}
}
