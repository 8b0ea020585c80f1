package subtitle

import (
	"strings"
	"testing"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:03,500
Hello there.

2
00:00:04,250 --> 00:00:06,000
Two lines
of text.

3
00:01:02,100 --> 00:01:04,000
Last cue.
`

func TestParseSRT(t *testing.T) {
	cues := ParseSRT(sampleSRT)
	if len(cues) != 3 {
		t.Fatalf("got %d cues, want 3", len(cues))
	}

	if cues[0].Start != 1.0 || cues[0].End != 3.5 {
		t.Errorf("cue 1 timing: start=%v end=%v", cues[0].Start, cues[0].End)
	}
	if cues[1].Text != "Two lines\nof text." {
		t.Errorf("cue 2 text: %q", cues[1].Text)
	}
	if cues[2].Start != 62.1 {
		t.Errorf("cue 3 start: %v", cues[2].Start)
	}
	for i, cue := range cues {
		if cue.Index != i+1 {
			t.Errorf("cue %d has index %d", i, cue.Index)
		}
	}
}

func TestParseVTTSkipsHeader(t *testing.T) {
	vtt := "WEBVTT\n\n00:00:00.500 --> 00:00:02.000\nFirst.\n\n00:00:02.500 --> 00:00:04.000\nSecond.\n"
	cues := ParseVTT(vtt)
	if len(cues) != 2 {
		t.Fatalf("got %d cues, want 2", len(cues))
	}
	if cues[0].Start != 0.5 || cues[0].Text != "First." {
		t.Errorf("cue 1: %+v", cues[0])
	}
}

func TestFormatSRT(t *testing.T) {
	cues := []Cue{
		{Index: 1, Start: 1, End: 3.5, Text: "Hello there."},
		{Index: 2, Start: 4.25, End: 6, Text: "Two lines\nof text."},
	}
	out := FormatSRT(cues)

	if !strings.Contains(out, "00:00:01,000 --> 00:00:03,500") {
		t.Errorf("missing SRT timestamp line:\n%s", out)
	}
	if !strings.Contains(out, "00:00:04,250 --> 00:00:06,000") {
		t.Errorf("missing second timestamp line:\n%s", out)
	}

	// Round trip through the parser preserves timing and text.
	parsed := ParseSRT(out)
	if len(parsed) != len(cues) {
		t.Fatalf("round trip: got %d cues, want %d", len(parsed), len(cues))
	}
	if parsed[1].Text != cues[1].Text {
		t.Errorf("round trip text: %q", parsed[1].Text)
	}
}

func TestFormatVTTHeader(t *testing.T) {
	out := FormatVTT([]Cue{{Index: 1, Start: 0, End: 1, Text: "hi"}})
	if !strings.HasPrefix(out, "WEBVTT\n\n") {
		t.Errorf("missing WEBVTT header:\n%s", out)
	}
	if !strings.Contains(out, "00:00:00.000 --> 00:00:01.000") {
		t.Errorf("missing dot-separated timestamp:\n%s", out)
	}
}

func TestExport(t *testing.T) {
	cues := []Cue{
		{Index: 1, Start: 0, End: 2, Text: "One\ntwo."},
		{Index: 2, Start: 3, End: 4, Text: "Three."},
	}

	content, contentType, err := Export(cues, "txt")
	if err != nil {
		t.Fatal(err)
	}
	if content != "One two.\nThree.\n" {
		t.Errorf("txt export: %q", content)
	}
	if !strings.HasPrefix(contentType, "text/plain") {
		t.Errorf("txt content type: %q", contentType)
	}

	content, contentType, err = Export(cues, "json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(content, `"text": "Three."`) {
		t.Errorf("json export: %s", content)
	}
	if !strings.HasPrefix(contentType, "application/json") {
		t.Errorf("json content type: %q", contentType)
	}

	if _, _, err := Export(cues, "docx"); err == nil {
		t.Error("unknown format should error")
	}
}
