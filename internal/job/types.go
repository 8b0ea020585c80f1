package job

import (
	"context"
	"encoding/json"
	"time"
)

// JobType represents the kind of job
type JobType string

const (
	JobTranscribe    JobType = "transcribe"
	JobTranslate     JobType = "translate"
	JobBulkTranslate JobType = "bulk_translate"
	JobConsolidate   JobType = "consolidate"
	JobSummarize     JobType = "summarize"
)

// JobStatus represents the current state of a job
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// Job represents a queued task (transcription, translation, or document generation)
type Job struct {
	ID          string          `json:"id"`
	Type        JobType         `json:"type"`
	Status      JobStatus       `json:"status"`
	FilePath    string          `json:"file_path"`
	Params      json.RawMessage `json:"params"`
	Progress    float64         `json:"progress"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// TranscribeParams are parameters for a Gemini transcription job
type TranscribeParams struct {
	Model    string `json:"model"`    // e.g. "gemini-2.0-flash"
	Language string `json:"language"` // "auto" or a hint like "ko", "en", "ja"
}

// TranslateParams are parameters for a translation job
type TranslateParams struct {
	SubtitleID    string   `json:"subtitle_id"`    // source subtitle (e.g. "generated:transcript_ja.vtt")
	TargetLangs   []string `json:"target_langs"`   // one or more target languages
	Engine        string   `json:"engine"`         // "gemini", "googletrans"
	Preset        string   `json:"preset"`         // "anime", "movie", "documentary", "custom"
	CustomPrompt  string   `json:"custom_prompt"`  // for "custom" preset
	SplitDuration int      `json:"split_duration"` // minutes per request chunk, 0 = single request
	Delimiter     string   `json:"delimiter"`      // separator between languages in multi-language output
	UseBrackets   bool     `json:"use_brackets"`   // wrap secondary languages instead of delimiting
	BracketOpen   string   `json:"bracket_open"`   // defaults to "("
	BracketClose  string   `json:"bracket_close"`  // defaults to ")"
}

// BulkTranslateParams translate several stored subtitle files with one set of options
type BulkTranslateParams struct {
	SubtitleIDs []string        `json:"subtitle_ids"` // per-file source subtitles, same options for all
	Options     TranslateParams `json:"options"`      // SubtitleID field ignored
}

// DocumentParams are parameters for consolidation and summarization jobs
type DocumentParams struct {
	SubtitleID string `json:"subtitle_id"` // source subtitle to consolidate or summarize
	Language   string `json:"language"`    // output language, "" keeps the source language
}

// TranscribeResult is the output of a successful transcription
type TranscribeResult struct {
	OutputPath string `json:"output_path"` // subtitle ID of the generated VTT
	Language   string `json:"language"`    // detected or specified language
}

// TranslateResult is the output of a successful translation
type TranslateResult struct {
	OutputPaths []string `json:"output_paths"` // one subtitle ID per translated file
}

// DocumentResult is the output of a consolidation or summarization
type DocumentResult struct {
	OutputPath string `json:"output_path"` // path of the generated text document
}

// JobHandler processes a job. Implementations are provided by the
// transcribe, translate, and document packages.
type JobHandler func(ctx context.Context, job *Job, updateProgress func(float64)) error
