package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/subtitle-studio/backend/internal/db"
)

// settingKeys is the allowlist of configurable keys.
var settingKeys = map[string]bool{
	"gemini_api_key":         true,
	"gemini_model":           true,
	"default_engine":         true,
	"default_split_duration": true,
	"default_delimiter":      true,
	"default_target_langs":   true,
}

// secretKeys are returned masked
var secretKeys = map[string]bool{
	"gemini_api_key": true,
}

type SettingsHandler struct {
	database *db.Database
}

func NewSettingsHandler(database *db.Database) *SettingsHandler {
	return &SettingsHandler{database: database}
}

// GetSettings returns all settings with secrets masked
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.database.GetAllSettings()
	if err != nil {
		jsonError(w, "failed to load settings", http.StatusInternalServerError)
		return
	}

	result := make(map[string]string)
	for key := range settingKeys {
		val := settings[key]
		if secretKeys[key] && val != "" {
			val = maskSecret(val)
		}
		result[key] = val
	}
	jsonResponse(w, result, http.StatusOK)
}

// UpdateSettings updates one or more settings
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var updates map[string]string
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	for key, value := range updates {
		if !settingKeys[key] {
			jsonError(w, "unknown setting: "+key, http.StatusBadRequest)
			return
		}
		// A masked value round-tripped from GetSettings means "unchanged"
		if secretKeys[key] && strings.Contains(value, "****") {
			continue
		}
		if err := h.database.SetSetting(key, value); err != nil {
			jsonError(w, "failed to save setting", http.StatusInternalServerError)
			return
		}
	}

	jsonResponse(w, map[string]string{"status": "saved"}, http.StatusOK)
}

func maskSecret(val string) string {
	if len(val) <= 8 {
		return "********"
	}
	return val[:4] + "****" + val[len(val)-4:]
}
