package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"govassess/internal/llm"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// pipelineErrorResponse surfaces a classified provider failure with its
// remediation message. The process stays up and idle; the caller may
// simply re-trigger.
type pipelineErrorResponse struct {
	Error    string `json:"error"`
	Kind     string `json:"kind"`
	Provider string `json:"provider,omitempty"`
	Status   int    `json:"status,omitempty"`
	Body     string `json:"body,omitempty"`
}

func writePipelineError(w http.ResponseWriter, err error) {
	var provErr *llm.Error
	if !errors.As(err, &provErr) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusBadGateway
	switch provErr.Kind {
	case llm.ErrMissingCredential, llm.ErrUnsupportedProvider:
		status = http.StatusBadRequest
	case llm.ErrServerBusy:
		status = http.StatusServiceUnavailable
	case llm.ErrTimeout:
		status = http.StatusGatewayTimeout
	}

	writeJSON(w, status, pipelineErrorResponse{
		Error:    provErr.Message,
		Kind:     string(provErr.Kind),
		Provider: string(provErr.Provider),
		Status:   provErr.Status,
		Body:     provErr.Body,
	})
}
