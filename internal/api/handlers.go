package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ShuvashreeBharati/FYP-22067184/internal/auth"
	"github.com/ShuvashreeBharati/FYP-22067184/internal/core"
)

type ctxKey string

const userIDKey ctxKey = "userID"

type APIHandler struct {
	authService      *core.AuthService
	diagnosisService *core.DiagnosisService
	profileService   *core.ProfileService
	feedbackService  *core.FeedbackService
	enquiryService   *core.EnquiryService
	issuer           *auth.Issuer
	uploadDir        string
	production       bool
}

func NewAPIHandler(
	authService *core.AuthService,
	diagnosisService *core.DiagnosisService,
	profileService *core.ProfileService,
	feedbackService *core.FeedbackService,
	enquiryService *core.EnquiryService,
	issuer *auth.Issuer,
	uploadDir string,
	production bool,
) *APIHandler {
	return &APIHandler{
		authService:      authService,
		diagnosisService: diagnosisService,
		profileService:   profileService,
		feedbackService:  feedbackService,
		enquiryService:   enquiryService,
		issuer:           issuer,
		uploadDir:        uploadDir,
		production:       production,
	}
}

// JWTAuthMiddleware gates every protected route: header present, bearer
// prefix, valid signature, user id claim, user still in the store. Each gate
// short-circuits with 401.
func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			h.writeError(w, http.StatusUnauthorized, "No token provided", nil)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			h.writeError(w, http.StatusUnauthorized, "Authorization header must use the Bearer scheme", nil)
			return
		}

		userID, err := h.issuer.Validate(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrMissingClaim) {
				h.writeError(w, http.StatusUnauthorized, "Token missing user ID", nil)
				return
			}
			h.writeError(w, http.StatusUnauthorized, "Invalid or expired token", nil)
			return
		}

		user, err := h.authService.GetUser(r.Context(), userID)
		if err != nil {
			log.Printf("Error in JWTAuthMiddleware for user %s: %v", userID, err)
			h.writeError(w, http.StatusInternalServerError, "Failed to process user identity", err)
			return
		}
		if user == nil {
			h.writeError(w, http.StatusUnauthorized, "User not found", nil)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestUserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError sends the generic JSON error envelope. The cause is only echoed
// back in the details field outside production builds.
func (h *APIHandler) writeError(w http.ResponseWriter, status int, message string, cause error) {
	resp := errorResponse{Success: false, Error: message}
	if cause != nil && !h.production {
		resp.Details = cause.Error()
	}
	h.writeJSON(w, status, resp)
}

// writeServiceError maps the core error taxonomy onto status codes. Anything
// unrecognized is logged server-side and answered with the fallback message.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, core.ErrValidation):
		h.writeError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, core.ErrEmailTaken):
		h.writeError(w, http.StatusConflict, "Email already in use", nil)
	case errors.Is(err, core.ErrInvalidCredentials):
		h.writeError(w, http.StatusUnauthorized, "Invalid email or password", nil)
	case errors.Is(err, core.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "Not found", nil)
	case errors.Is(err, core.ErrUpstream):
		log.Printf("Upstream prediction failure: %v", err)
		h.writeError(w, http.StatusBadGateway, "Prediction service unavailable", err)
	default:
		log.Printf("%s: %v", fallback, err)
		h.writeError(w, http.StatusInternalServerError, fallback, err)
	}
}
