package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"govassess/internal/llm"
	"govassess/internal/service"
)

// ProviderHandler handles LLM provider configuration and the
// recommendation pipeline endpoints.
type ProviderHandler struct {
	recommendSvc *service.RecommendationService
}

// NewProviderHandler creates a new provider handler.
func NewProviderHandler(recommendSvc *service.RecommendationService) *ProviderHandler {
	return &ProviderHandler{recommendSvc: recommendSvc}
}

// providerConfigRequest is the PUT body. The API key is accepted on
// write but never echoed back.
type providerConfigRequest struct {
	Provider       string `json:"provider"`
	Model          string `json:"model"`
	BaseURL        string `json:"baseUrl"`
	APIKey         string `json:"apiKey"`
	OllamaNative   *bool  `json:"ollamaNative"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// providerConfigView is what GET and PUT return; Config's key field is
// excluded from serialization, KeyConfigured says whether one resolves.
type providerConfigView struct {
	llm.Config
	TimeoutSeconds int  `json:"timeoutSeconds"`
	KeyConfigured  bool `json:"keyConfigured"`
}

func viewOf(cfg llm.Config) providerConfigView {
	return providerConfigView{
		Config:         cfg,
		TimeoutSeconds: int(cfg.Timeout / time.Second),
		KeyConfigured:  cfg.ResolveAPIKey() != "",
	}
}

// GetConfig handles GET /v1/provider
func (h *ProviderHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewOf(h.recommendSvc.Config()))
}

// PutConfig handles PUT /v1/provider
func (h *ProviderHandler) PutConfig(w http.ResponseWriter, r *http.Request) {
	var req providerConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind, err := llm.ParseKind(req.Provider)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg := llm.DefaultConfig(kind)
	if req.Model != "" {
		cfg.Model = req.Model
	}
	if req.BaseURL != "" {
		cfg.BaseURL = req.BaseURL
	}
	if req.APIKey != "" {
		cfg.APIKey = req.APIKey
	}
	if req.OllamaNative != nil {
		cfg.OllamaNative = *req.OllamaNative
	}
	if req.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}

	if err := h.recommendSvc.SetConfig(cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, viewOf(cfg))
}

// Generate handles POST /v1/recommendations
func (h *ProviderHandler) Generate(w http.ResponseWriter, r *http.Request) {
	rec, err := h.recommendSvc.Generate(r.Context())
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// TestConnection handles POST /v1/provider/test
func (h *ProviderHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	rec, err := h.recommendSvc.TestConnection(r.Context())
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
