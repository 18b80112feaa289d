package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxUploadBytes = 5 << 20 // 5 MiB

// requireSelf ensures the {userID} route param matches the authenticated
// user. Profile routes are strictly self-service.
func (h *APIHandler) requireSelf(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := chi.URLParam(r, "userID")
	if userID != requestUserID(r) {
		h.writeError(w, http.StatusForbidden, "Cannot access another user's profile", nil)
		return "", false
	}
	return userID, true
}

func (h *APIHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireSelf(w, r)
	if !ok {
		return
	}

	user, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to fetch profile")
		return
	}

	h.writeJSON(w, http.StatusOK, user)
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *APIHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireSelf(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.profileService.UpdateProfile(r.Context(), userID, req.Name, req.Email); err != nil {
		h.writeServiceError(w, err, "Failed to update profile")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Profile updated successfully",
		"name":    req.Name,
		"email":   req.Email,
	})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *APIHandler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireSelf(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.authService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.writeServiceError(w, err, "Failed to change password")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Password updated successfully"})
}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// UploadPictureHandler accepts a single multipart image, stores it under the
// upload directory and persists the relative path on the user record.
func (h *APIHandler) UploadPictureHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireSelf(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid upload: file too large or malformed form", err)
		return
	}

	file, header, err := r.FormFile("profile_picture")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "profile_picture file is required", err)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		h.writeError(w, http.StatusBadRequest, "Only jpg, jpeg, png and gif files are accepted", nil)
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		log.Printf("Failed to create upload dir: %v", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to store picture", err)
		return
	}

	filename := uuid.NewString() + ext
	dstPath := filepath.Join(h.uploadDir, filename)
	dst, err := os.Create(dstPath)
	if err != nil {
		log.Printf("Failed to create upload file: %v", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to store picture", err)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		log.Printf("Failed to write upload file: %v", err)
		os.Remove(dstPath)
		h.writeError(w, http.StatusInternalServerError, "Failed to store picture", err)
		return
	}

	relPath := "uploads/" + filename
	if err := h.profileService.SetProfilePicture(r.Context(), userID, relPath); err != nil {
		os.Remove(dstPath)
		h.writeServiceError(w, err, "Failed to update profile picture")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "profile_picture": relPath})
}
