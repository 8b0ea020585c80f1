package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/subtitle-studio/backend/internal/db"
	"github.com/subtitle-studio/backend/internal/job"
)

func newTestSubtitleHandler(t *testing.T) (*SubtitleHandler, *db.Database) {
	t.Helper()
	database, err := db.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	queue := job.NewJobQueue(database.DB())
	t.Cleanup(queue.Stop)

	return NewSubtitleHandler(t.TempDir(), t.TempDir(), queue, database), database
}

func postTranslate(t *testing.T, h *SubtitleHandler, body string) job.TranslateParams {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/api/subtitle/translate/*", h.TranslateSubtitle)

	req := httptest.NewRequest("POST", "/api/subtitle/translate/show.mp4", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != 202 {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var j job.Job
	if err := json.NewDecoder(w.Body).Decode(&j); err != nil {
		t.Fatal(err)
	}
	var params job.TranslateParams
	if err := json.Unmarshal(j.Params, &params); err != nil {
		t.Fatal(err)
	}
	return params
}

func TestTranslateSplitDurationExplicitZero(t *testing.T) {
	h, database := newTestSubtitleHandler(t)
	if err := database.SetSetting("default_split_duration", "5"); err != nil {
		t.Fatal(err)
	}

	params := postTranslate(t, h,
		`{"subtitle_id":"generated:transcript_en.vtt","target_langs":["ko"],"split_duration":0}`)
	if params.SplitDuration != 0 {
		t.Errorf("explicit 0 must disable splitting, got %d", params.SplitDuration)
	}
}

func TestTranslateSplitDurationDefaultApplied(t *testing.T) {
	h, database := newTestSubtitleHandler(t)
	if err := database.SetSetting("default_split_duration", "5"); err != nil {
		t.Fatal(err)
	}

	params := postTranslate(t, h,
		`{"subtitle_id":"generated:transcript_en.vtt","target_langs":["ko"]}`)
	if params.SplitDuration != 5 {
		t.Errorf("omitted split_duration should use the default, got %d", params.SplitDuration)
	}
}

func TestTranslateSplitDurationClamped(t *testing.T) {
	h, _ := newTestSubtitleHandler(t)

	params := postTranslate(t, h,
		`{"subtitle_id":"generated:transcript_en.vtt","target_langs":["ko"],"split_duration":99}`)
	if params.SplitDuration != maxSplitDuration {
		t.Errorf("got %d, want clamp to %d", params.SplitDuration, maxSplitDuration)
	}
}
