package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/subtitle-studio/backend/internal/db"
)

// GeminiModel describes a selectable text model
type GeminiModel struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

type GeminiModelsHandler struct {
	database *db.Database

	mu        sync.Mutex
	cached    []GeminiModel
	cacheTime time.Time
}

func NewGeminiModelsHandler(database *db.Database) *GeminiModelsHandler {
	return &GeminiModelsHandler{database: database}
}

// ListModels fetches Gemini text models usable for translation and documents
func (h *GeminiModelsHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	apiKey := h.database.GetSetting("gemini_api_key", "")
	if apiKey == "" {
		jsonResponse(w, []GeminiModel{}, http.StatusOK)
		return
	}

	models, err := h.getModels(r.Context(), apiKey)
	if err != nil {
		jsonError(w, "failed to fetch Gemini models: "+err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, models, http.StatusOK)
}

func (h *GeminiModelsHandler) getModels(ctx context.Context, apiKey string) ([]GeminiModel, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.cached) > 0 && time.Since(h.cacheTime) < time.Hour {
		return append([]GeminiModel(nil), h.cached...), nil
	}

	client := &http.Client{Timeout: 10 * time.Second}
	url := "https://generativelanguage.googleapis.com/v1beta/models?pageSize=100"

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		if len(h.cached) > 0 {
			return append([]GeminiModel(nil), h.cached...), nil
		}
		return nil, fmt.Errorf("Google API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if len(h.cached) > 0 {
			return append([]GeminiModel(nil), h.cached...), nil
		}
		return nil, fmt.Errorf("Google API: status %d", resp.StatusCode)
	}

	var apiResp struct {
		Models []struct {
			Name                       string   `json:"name"`
			DisplayName                string   `json:"displayName"`
			Description                string   `json:"description"`
			SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("parse Google API response: %w", err)
	}

	var models []GeminiModel
	seen := make(map[string]bool)

	for _, m := range apiResp.Models {
		if !supportsGenerateContent(m.SupportedGenerationMethods) {
			continue
		}

		id := strings.TrimPrefix(m.Name, "models/")
		if !strings.HasPrefix(id, "gemini-") || isNonTextModel(id) || seen[id] {
			continue
		}
		seen[id] = true

		models = append(models, GeminiModel{
			ID:          id,
			DisplayName: m.DisplayName,
			Description: m.Description,
		})
	}

	// newer versions sort first
	sort.Slice(models, func(i, j int) bool { return models[i].ID > models[j].ID })

	h.cached = models
	h.cacheTime = time.Now()
	return append([]GeminiModel(nil), models...), nil
}

func supportsGenerateContent(methods []string) bool {
	for _, m := range methods {
		if m == "generateContent" {
			return true
		}
	}
	return false
}

func isNonTextModel(id string) bool {
	for _, marker := range []string{"embedding", "aqa", "imagen", "veo", "lyria", "learnlm", "tts", "image"} {
		if strings.Contains(id, marker) {
			return true
		}
	}
	return false
}
