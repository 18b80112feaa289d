package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ShuvashreeBharati/FYP-22067184/internal/store"
)

// symptomList accepts both forms the frontend has sent over time: a JSON
// array of strings and a single comma-separated string.
type symptomList []string

func (s *symptomList) UnmarshalJSON(data []byte) error {
	var asList []string
	if err := json.Unmarshal(data, &asList); err == nil {
		*s = asList
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		var parts []string
		for _, part := range strings.Split(asString, ",") {
			if part = strings.TrimSpace(part); part != "" {
				parts = append(parts, part)
			}
		}
		*s = parts
		return nil
	}
	return errors.New(`symptoms must be a list of strings, e.g. ["fever","headache"]`)
}

type DiagnoseRequest struct {
	Symptoms symptomList `json:"symptoms"`
}

type DiagnoseResponse struct {
	Success     bool                      `json:"success"`
	Predictions []store.DiseasePrediction `json:"predictions"`
}

func (h *APIHandler) DiagnoseHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	var req DiagnoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid symptoms format", err)
		return
	}

	predictions, err := h.diagnosisService.Diagnose(r.Context(), userID, req.Symptoms)
	if err != nil {
		h.writeServiceError(w, err, "Diagnosis failed")
		return
	}

	h.writeJSON(w, http.StatusOK, DiagnoseResponse{Success: true, Predictions: predictions})
}

type HistoryResponse struct {
	Success bool                 `json:"success"`
	History []store.HistoryEntry `json:"history"`
}

func (h *APIHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	history, err := h.diagnosisService.History(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to fetch history")
		return
	}
	if history == nil {
		history = []store.HistoryEntry{}
	}

	h.writeJSON(w, http.StatusOK, HistoryResponse{Success: true, History: history})
}
