package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/subtitle-studio/backend/internal/db"
)

type PresetHandler struct {
	database *db.Database
}

func NewPresetHandler(database *db.Database) *PresetHandler {
	return &PresetHandler{database: database}
}

// ListPresets returns saved custom prompt presets
func (h *PresetHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := h.database.ListPromptPresets()
	if err != nil {
		jsonError(w, "failed to list presets", http.StatusInternalServerError)
		return
	}
	if presets == nil {
		presets = []db.PromptPreset{}
	}
	jsonResponse(w, presets, http.StatusOK)
}

type createPresetRequest struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

// CreatePreset saves a new custom prompt preset
func (h *PresetHandler) CreatePreset(w http.ResponseWriter, r *http.Request) {
	var req createPresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Name == "" || req.Prompt == "" {
		jsonError(w, "name and prompt required", http.StatusBadRequest)
		return
	}

	id, err := h.database.CreatePromptPreset(req.Name, req.Prompt)
	if err != nil {
		jsonError(w, "failed to create preset", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, db.PromptPreset{ID: id, Name: req.Name, Prompt: req.Prompt}, http.StatusCreated)
}

// DeletePreset removes a custom prompt preset
func (h *PresetHandler) DeletePreset(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonError(w, "invalid preset id", http.StatusBadRequest)
		return
	}
	if err := h.database.DeletePromptPreset(id); err != nil {
		jsonError(w, "failed to delete preset", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]string{"status": "deleted"}, http.StatusOK)
}
