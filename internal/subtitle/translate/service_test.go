package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/subtitle-studio/backend/internal/job"
	"github.com/subtitle-studio/backend/internal/subtitle"
)

// fakeEngine upcases cue text, records chunk sizes, and can fail its
// first failures calls.
type fakeEngine struct {
	chunks   []int
	failures int
	calls    int
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Translate(ctx context.Context, cues []subtitle.Cue, opts Options) ([]subtitle.Cue, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, fmt.Errorf("transient failure %d", f.calls)
	}
	f.chunks = append(f.chunks, len(cues))
	out := make([]subtitle.Cue, len(cues))
	for i, cue := range cues {
		out[i] = cue
		out[i].Text = strings.ToUpper(cue.Text) + " [" + opts.TargetLang + "]"
	}
	return out, nil
}

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	subtitlePath := t.TempDir()
	s := &Service{
		engines:      make(map[string]Engine),
		mediaPath:    t.TempDir(),
		subtitlePath: subtitlePath,
	}
	return s, subtitlePath
}

func writeSourceVTT(t *testing.T, subtitlePath, videoPath string, starts []float64) {
	t.Helper()
	cues := make([]subtitle.Cue, len(starts))
	for i, start := range starts {
		cues[i] = subtitle.Cue{Index: i + 1, Start: start, End: start + 2, Text: fmt.Sprintf("line %d", i+1)}
	}
	dir := filepath.Join(subtitlePath, videoHash(videoPath))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "transcript_en.vtt"), []byte(subtitle.FormatVTT(cues)), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestTranslateFileChunksBySegment(t *testing.T) {
	s, subtitlePath := newTestService(t)
	engine := &fakeEngine{}
	s.RegisterEngine(engine)

	// Starts 0,30,70,200,210 with a 1-minute window split as 2/1/2.
	writeSourceVTT(t, subtitlePath, "show.mp4", []float64{0, 30, 70, 200, 210})

	var progress []float64
	outputID, err := s.translateFile(context.Background(), "show.mp4", job.TranslateParams{
		SubtitleID:    "generated:transcript_en.vtt",
		TargetLangs:   []string{"ko"},
		Engine:        "fake",
		SplitDuration: 1,
	}, func(p float64) { progress = append(progress, p) })
	if err != nil {
		t.Fatal(err)
	}

	wantChunks := []int{2, 1, 2}
	if len(engine.chunks) != len(wantChunks) {
		t.Fatalf("got %d requests (%v), want %v", len(engine.chunks), engine.chunks, wantChunks)
	}
	for i, n := range wantChunks {
		if engine.chunks[i] != n {
			t.Errorf("request %d had %d cues, want %d", i, engine.chunks[i], n)
		}
	}

	if outputID != "generated:translate_ko_fake_transcript_en.vtt" {
		t.Errorf("output ID: %q", outputID)
	}

	// Progress advances per segment and reaches 1.0
	if len(progress) != 3 || progress[len(progress)-1] != 1.0 {
		t.Errorf("progress: %v", progress)
	}

	// Output file contains the translated text in cue order.
	data, err := os.ReadFile(filepath.Join(subtitlePath, videoHash("show.mp4"), "translate_ko_fake_transcript_en.vtt"))
	if err != nil {
		t.Fatal(err)
	}
	out := subtitle.ParseVTT(string(data))
	if len(out) != 5 {
		t.Fatalf("output has %d cues, want 5", len(out))
	}
	if out[0].Text != "LINE 1 [ko]" || out[4].Text != "LINE 5 [ko]" {
		t.Errorf("output cues: %q ... %q", out[0].Text, out[4].Text)
	}
}

func TestTranslateFileNoSplitSingleRequest(t *testing.T) {
	s, subtitlePath := newTestService(t)
	engine := &fakeEngine{}
	s.RegisterEngine(engine)

	writeSourceVTT(t, subtitlePath, "movie.mkv", []float64{0, 500, 2000, 5000})

	_, err := s.translateFile(context.Background(), "movie.mkv", job.TranslateParams{
		SubtitleID:  "generated:transcript_en.vtt",
		TargetLangs: []string{"fr"},
		Engine:      "fake",
	}, func(float64) {})
	if err != nil {
		t.Fatal(err)
	}

	if len(engine.chunks) != 1 || engine.chunks[0] != 4 {
		t.Errorf("split duration 0 should issue one request, got %v", engine.chunks)
	}
}

func TestTranslateSegmentRetries(t *testing.T) {
	s, subtitlePath := newTestService(t)
	engine := &fakeEngine{failures: 2}
	s.RegisterEngine(engine)

	writeSourceVTT(t, subtitlePath, "clip.mp4", []float64{0, 5})

	_, err := s.translateFile(context.Background(), "clip.mp4", job.TranslateParams{
		SubtitleID:  "generated:transcript_en.vtt",
		TargetLangs: []string{"de"},
		Engine:      "fake",
	}, func(float64) {})
	if err != nil {
		t.Fatalf("two transient failures should be retried: %v", err)
	}
	if engine.calls != 3 {
		t.Errorf("engine called %d times, want 3", engine.calls)
	}
}

func TestTranslateSegmentExhaustsRetries(t *testing.T) {
	s, subtitlePath := newTestService(t)
	engine := &fakeEngine{failures: 10}
	s.RegisterEngine(engine)

	writeSourceVTT(t, subtitlePath, "clip.mp4", []float64{0, 5})

	_, err := s.translateFile(context.Background(), "clip.mp4", job.TranslateParams{
		SubtitleID:  "generated:transcript_en.vtt",
		TargetLangs: []string{"de"},
		Engine:      "fake",
	}, func(float64) {})
	if err == nil {
		t.Fatal("persistent failure should fail the job")
	}
}

func TestTranslateFileMultiLang(t *testing.T) {
	s, subtitlePath := newTestService(t)
	engine := &fakeEngine{}
	s.RegisterEngine(engine)

	writeSourceVTT(t, subtitlePath, "doc.mp4", []float64{0, 10})

	outputID, err := s.translateFile(context.Background(), "doc.mp4", job.TranslateParams{
		SubtitleID:  "generated:transcript_en.vtt",
		TargetLangs: []string{"ko", "ja"},
		Engine:      "fake",
		Delimiter:   " // ",
	}, func(float64) {})
	if err != nil {
		t.Fatal(err)
	}
	if outputID != "generated:translate_ko-ja_fake_transcript_en.vtt" {
		t.Errorf("output ID: %q", outputID)
	}

	data, err := os.ReadFile(filepath.Join(subtitlePath, videoHash("doc.mp4"), "translate_ko-ja_fake_transcript_en.vtt"))
	if err != nil {
		t.Fatal(err)
	}
	out := subtitle.ParseVTT(string(data))
	if out[0].Text != "LINE 1 [ko] // LINE 1 [ja]" {
		t.Errorf("multi-language cue: %q", out[0].Text)
	}
}

func TestHandleBulkJobDistinctOutputs(t *testing.T) {
	s, subtitlePath := newTestService(t)
	s.RegisterEngine(&fakeEngine{})

	dir := filepath.Join(subtitlePath, videoHash("show.mp4"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	sources := map[string]string{
		"transcript_en.vtt": "english source",
		"transcript_ja.vtt": "japanese source",
	}
	for name, text := range sources {
		cues := []subtitle.Cue{{Index: 1, Start: 0, End: 2, Text: text}}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(subtitle.FormatVTT(cues)), 0644); err != nil {
			t.Fatal(err)
		}
	}

	params, _ := json.Marshal(job.BulkTranslateParams{
		SubtitleIDs: []string{"generated:transcript_en.vtt", "generated:transcript_ja.vtt"},
		Options: job.TranslateParams{
			TargetLangs: []string{"ko"},
			Engine:      "fake",
		},
	})
	j := &job.Job{ID: "bulk-1", Type: job.JobBulkTranslate, FilePath: "show.mp4", Params: params}

	if err := s.HandleBulkJob(context.Background(), j, func(float64) {}); err != nil {
		t.Fatal(err)
	}

	var result job.TranslateResult
	if err := json.Unmarshal(j.Result, &result); err != nil {
		t.Fatal(err)
	}
	if len(result.OutputPaths) != 2 {
		t.Fatalf("got %d outputs: %v", len(result.OutputPaths), result.OutputPaths)
	}
	if result.OutputPaths[0] == result.OutputPaths[1] {
		t.Fatalf("both files report the same output ID: %v", result.OutputPaths)
	}

	// Each output file survives on disk with its own source's translation.
	wantText := map[string]string{
		"translate_ko_fake_transcript_en.vtt": "ENGLISH SOURCE [ko]",
		"translate_ko_fake_transcript_ja.vtt": "JAPANESE SOURCE [ko]",
	}
	for name, want := range wantText {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("missing output %s: %v", name, err)
		}
		out := subtitle.ParseVTT(string(data))
		if len(out) != 1 || out[0].Text != want {
			t.Errorf("%s: got %v, want one cue %q", name, out, want)
		}
	}
}

func TestDetectSourceLang(t *testing.T) {
	cases := map[string]string{
		"generated:transcript_ja.vtt":      "ja",
		"generated:translate_ko_gemini.vtt": "ko",
		"external:video.en.srt":            "en",
		"external:video.srt":               "auto",
	}
	for id, want := range cases {
		if got := detectSourceLang(id); got != want {
			t.Errorf("detectSourceLang(%q) = %q, want %q", id, got, want)
		}
	}
}
