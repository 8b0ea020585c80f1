package handlers

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/subtitle-studio/backend/internal/db"
	"github.com/subtitle-studio/backend/internal/job"
	"github.com/subtitle-studio/backend/internal/storage"
	"github.com/subtitle-studio/backend/internal/subtitle"
)

// maxSplitDuration caps the per-request chunk window, matching the range
// offered by the duration control.
const maxSplitDuration = 20

type SubtitleHandler struct {
	mediaPath    string
	subtitlePath string
	queue        *job.JobQueue
	database     *db.Database
}

func NewSubtitleHandler(mediaPath, subtitlePath string, queue *job.JobQueue, database *db.Database) *SubtitleHandler {
	return &SubtitleHandler{
		mediaPath:    mediaPath,
		subtitlePath: subtitlePath,
		queue:        queue,
		database:     database,
	}
}

type SubtitleEntry struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Language string `json:"language"`
	Type     string `json:"type"`   // "generated" or "external"
	Format   string `json:"format"` // file extension
}

// ListSubtitles returns available subtitles (generated + external) for a media file
func (h *SubtitleHandler) ListSubtitles(w http.ResponseWriter, r *http.Request) {
	path := extractPath(r)
	fullPath := filepath.Join(h.mediaPath, path)

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		jsonError(w, "file not found", http.StatusNotFound)
		return
	}

	var entries []SubtitleEntry

	// 1. Generated subtitles and documents for this media file
	genDir := filepath.Join(h.subtitlePath, videoHash(path))
	if dirEntries, err := os.ReadDir(genDir); err == nil {
		for _, entry := range dirEntries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			entries = append(entries, SubtitleEntry{
				ID:       "generated:" + name,
				Label:    strings.TrimSuffix(name, filepath.Ext(name)),
				Language: langFromGeneratedName(name),
				Type:     "generated",
				Format:   strings.TrimPrefix(filepath.Ext(name), "."),
			})
		}
	}

	// 2. External subtitle files next to the media file
	videoDir := filepath.Dir(fullPath)
	videoBase := strings.TrimSuffix(filepath.Base(fullPath), filepath.Ext(fullPath))

	if dirEntries, err := os.ReadDir(videoDir); err == nil {
		for _, entry := range dirEntries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !storage.IsSubtitleFile(name) {
				continue
			}
			subBase := strings.TrimSuffix(name, filepath.Ext(name))
			if !strings.HasPrefix(subBase, videoBase) {
				continue
			}

			// Language hint from filename, e.g. "video.ko.srt" -> "ko"
			label := name
			lang := ""
			suffix := strings.TrimPrefix(subBase, videoBase)
			suffix = strings.TrimPrefix(suffix, ".")
			if suffix != "" {
				lang = suffix
				label = suffix + " (" + filepath.Ext(name)[1:] + ")"
			}

			entries = append(entries, SubtitleEntry{
				ID:       "external:" + name,
				Label:    label,
				Language: lang,
				Type:     "external",
				Format:   strings.TrimPrefix(filepath.Ext(name), "."),
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	jsonResponse(w, entries, http.StatusOK)
}

// ServeSubtitle serves a subtitle as WebVTT (or a document as plain text)
func (h *SubtitleHandler) ServeSubtitle(w http.ResponseWriter, r *http.Request) {
	path := extractPath(r)
	subtitleID := r.URL.Query().Get("id")
	if subtitleID == "" {
		jsonError(w, "subtitle id required", http.StatusBadRequest)
		return
	}

	data, ext, err := h.readSubtitle(path, subtitleID)
	if err != nil {
		jsonError(w, "subtitle not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Cache-Control", "max-age=3600")

	switch ext {
	case ".vtt":
		w.Header().Set("Content-Type", "text/vtt; charset=utf-8")
		w.Write(data)
	case ".srt":
		w.Header().Set("Content-Type", "text/vtt; charset=utf-8")
		cues := subtitle.ParseSRT(string(data))
		w.Write([]byte(subtitle.FormatVTT(cues)))
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write(data)
	}
}

type saveSubtitleRequest struct {
	SubtitleID string         `json:"subtitle_id"`
	Cues       []subtitle.Cue `json:"cues"`
}

// SaveSubtitle persists edited cues from the timeline editor back to a
// generated subtitle file.
func (h *SubtitleHandler) SaveSubtitle(w http.ResponseWriter, r *http.Request) {
	path := extractPath(r)

	var req saveSubtitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !strings.HasPrefix(req.SubtitleID, "generated:") {
		jsonError(w, "only generated subtitles can be saved", http.StatusBadRequest)
		return
	}
	if len(req.Cues) == 0 {
		jsonError(w, "no cues to save", http.StatusBadRequest)
		return
	}

	// Keep cues ordered by start time regardless of editor ordering;
	// downstream segmentation assumes sorted input.
	sort.SliceStable(req.Cues, func(i, j int) bool { return req.Cues[i].Start < req.Cues[j].Start })

	filename := filepath.Base(strings.TrimPrefix(req.SubtitleID, "generated:"))
	outDir := filepath.Join(h.subtitlePath, videoHash(path))
	os.MkdirAll(outDir, 0755)

	outFile := filepath.Join(outDir, filename)
	if err := os.WriteFile(outFile, []byte(subtitle.FormatVTT(req.Cues)), 0644); err != nil {
		jsonError(w, "failed to save subtitle", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]string{"status": "saved", "subtitle_id": req.SubtitleID}, http.StatusOK)
}

// ExportSubtitle downloads a subtitle in the requested format (srt/vtt/json/txt)
func (h *SubtitleHandler) ExportSubtitle(w http.ResponseWriter, r *http.Request) {
	path := extractPath(r)
	subtitleID := r.URL.Query().Get("id")
	format := r.URL.Query().Get("format")
	if subtitleID == "" {
		jsonError(w, "subtitle id required", http.StatusBadRequest)
		return
	}
	if format == "" {
		format = subtitle.FormatNameSRT
	}

	data, _, err := h.readSubtitle(path, subtitleID)
	if err != nil {
		jsonError(w, "subtitle not found", http.StatusNotFound)
		return
	}

	cues := subtitle.ParseVTT(string(data))
	content, contentType, err := subtitle.Export(cues, format)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, base, strings.ToLower(format)))
	w.Write([]byte(content))
}

type segmentsRequest struct {
	Cues          []subtitle.Cue `json:"cues"`
	SplitDuration int            `json:"split_duration"`
}

// Segments returns the segment plan for a cue list and split duration,
// used by the preview list and per-segment retry controls.
func (h *SubtitleHandler) Segments(w http.ResponseWriter, r *http.Request) {
	var req segmentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"segments": subtitle.ComputeSegments(req.Cues, clampSplitDuration(req.SplitDuration)),
	}, http.StatusOK)
}

// GenerateSubtitle enqueues a transcription job
func (h *SubtitleHandler) GenerateSubtitle(w http.ResponseWriter, r *http.Request) {
	path := extractPath(r)

	var params job.TranscribeParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if params.Language == "" {
		params.Language = "auto"
	}

	j, err := h.queue.Enqueue(job.JobTranscribe, path, params)
	if err != nil {
		jsonError(w, "failed to enqueue job: "+err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, j, http.StatusAccepted)
}

// translateRequest wraps TranslateParams so an omitted split_duration can
// be told apart from an explicit 0, which disables splitting.
type translateRequest struct {
	job.TranslateParams
	SplitDuration *int `json:"split_duration"`
}

// TranslateSubtitle enqueues a translation job
func (h *SubtitleHandler) TranslateSubtitle(w http.ResponseWriter, r *http.Request) {
	path := extractPath(r)

	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.SubtitleID == "" {
		jsonError(w, "subtitle_id required", http.StatusBadRequest)
		return
	}
	params, err := h.resolveTranslateParams(req)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	j, err := h.queue.Enqueue(job.JobTranslate, path, params)
	if err != nil {
		jsonError(w, "failed to enqueue job: "+err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, j, http.StatusAccepted)
}

type bulkTranslateRequest struct {
	FilePath    string           `json:"file_path"`
	SubtitleIDs []string         `json:"subtitle_ids"`
	Options     translateRequest `json:"options"`
}

// BulkTranslate enqueues one job translating several subtitle files
func (h *SubtitleHandler) BulkTranslate(w http.ResponseWriter, r *http.Request) {
	var req bulkTranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.SubtitleIDs) == 0 {
		jsonError(w, "no subtitles selected", http.StatusBadRequest)
		return
	}
	options, err := h.resolveTranslateParams(req.Options)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	j, err := h.queue.Enqueue(job.JobBulkTranslate, req.FilePath, job.BulkTranslateParams{
		SubtitleIDs: req.SubtitleIDs,
		Options:     options,
	})
	if err != nil {
		jsonError(w, "failed to enqueue job: "+err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, j, http.StatusAccepted)
}

// Consolidate enqueues a document consolidation job
func (h *SubtitleHandler) Consolidate(w http.ResponseWriter, r *http.Request) {
	h.enqueueDocumentJob(w, r, job.JobConsolidate)
}

// Summarize enqueues a summarization job
func (h *SubtitleHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	h.enqueueDocumentJob(w, r, job.JobSummarize)
}

func (h *SubtitleHandler) enqueueDocumentJob(w http.ResponseWriter, r *http.Request, jobType job.JobType) {
	path := extractPath(r)

	var params job.DocumentParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if params.SubtitleID == "" {
		jsonError(w, "subtitle_id required", http.StatusBadRequest)
		return
	}

	j, err := h.queue.Enqueue(jobType, path, params)
	if err != nil {
		jsonError(w, "failed to enqueue job: "+err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, j, http.StatusAccepted)
}

// resolveTranslateParams fills defaults from settings and validates. An
// absent split_duration falls back to the configured default; an explicit
// 0 stays 0 and disables splitting.
func (h *SubtitleHandler) resolveTranslateParams(req translateRequest) (job.TranslateParams, error) {
	params := req.TranslateParams
	if len(params.TargetLangs) == 0 {
		return params, fmt.Errorf("target_langs required")
	}
	if params.Engine == "" {
		params.Engine = h.database.GetSetting("default_engine", "gemini")
	}
	if req.SplitDuration != nil {
		params.SplitDuration = *req.SplitDuration
	} else {
		params.SplitDuration = h.database.GetSettingInt("default_split_duration", 0)
	}
	params.SplitDuration = clampSplitDuration(params.SplitDuration)
	if params.Delimiter == "" && !params.UseBrackets {
		params.Delimiter = h.database.GetSetting("default_delimiter", " ")
	}
	return params, nil
}

func clampSplitDuration(minutes int) int {
	if minutes < 0 {
		return 0
	}
	if minutes > maxSplitDuration {
		return maxSplitDuration
	}
	return minutes
}

// readSubtitle loads raw subtitle bytes for a media path + subtitle ID
func (h *SubtitleHandler) readSubtitle(path, subtitleID string) ([]byte, string, error) {
	if strings.HasPrefix(subtitleID, "generated:") {
		filename := filepath.Base(strings.TrimPrefix(subtitleID, "generated:"))
		subPath := filepath.Join(h.subtitlePath, videoHash(path), filename)
		data, err := os.ReadFile(subPath)
		return data, strings.ToLower(filepath.Ext(filename)), err
	}

	if strings.HasPrefix(subtitleID, "external:") {
		filename := filepath.Base(strings.TrimPrefix(subtitleID, "external:"))
		videoDir := filepath.Dir(filepath.Join(h.mediaPath, path))
		data, err := os.ReadFile(filepath.Join(videoDir, filename))
		return data, strings.ToLower(filepath.Ext(filename)), err
	}

	return nil, "", fmt.Errorf("unknown subtitle type: %s", subtitleID)
}

func langFromGeneratedName(name string) string {
	// "transcript_ja.vtt" → "ja", "translate_ko_gemini.vtt" → "ko"
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if strings.HasPrefix(base, "transcript_") {
		return strings.TrimPrefix(base, "transcript_")
	}
	if strings.HasPrefix(base, "translate_") {
		parts := strings.SplitN(strings.TrimPrefix(base, "translate_"), "_", 2)
		if len(parts) >= 1 {
			return parts[0]
		}
	}
	return ""
}

func videoHash(videoPath string) string {
	h := sha256.Sum256([]byte(videoPath))
	return fmt.Sprintf("%x", h[:8])
}
