package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ShuvashreeBharati/FYP-22067184/internal/store"
)

type FeedbackRequest struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

func (h *APIHandler) SubmitFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	fb, err := h.feedbackService.Submit(r.Context(), userID, req.Comment, req.Rating)
	if err != nil {
		h.writeServiceError(w, err, "Failed to submit feedback")
		return
	}

	h.writeJSON(w, http.StatusCreated, fb)
}

func (h *APIHandler) ListFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.feedbackService.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "Failed to fetch feedback")
		return
	}
	if feedbacks == nil {
		feedbacks = []store.Feedback{}
	}
	h.writeJSON(w, http.StatusOK, feedbacks)
}

type EnquiryRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// EnquiryHandler accepts contact-form submissions. A valid bearer token
// attributes the enquiry to the user; without one it is stored anonymously.
func (h *APIHandler) EnquiryHandler(w http.ResponseWriter, r *http.Request) {
	var req EnquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var userID *string
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if id, err := h.issuer.Validate(tokenString); err == nil {
			userID = &id
		}
	}

	if _, err := h.enquiryService.Submit(r.Context(), userID, req.Subject, req.Message); err != nil {
		h.writeServiceError(w, err, "Failed to submit enquiry")
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "Enquiry submitted successfully"})
}
