package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"blogsphere/internal/models"
)

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	user, err := h.UserService.GetProfile(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	WriteSuccess(w, UserResponse{Status: statusSuccess, User: user}, http.StatusOK)
}

func (h *Handlers) GetAuthors(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListAuthors(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	WriteSuccess(w, AuthorsResponse{Status: statusSuccess, Authors: users}, http.StatusOK)
}

func (h *Handlers) ChangeAvatar(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	if err := h.parseMultipart(w, r, h.Cfg.Upload.MaxAvatarSize); err != nil {
		h.respondError(w, r, err)
		return
	}
	defer cleanupForm(r)

	avatar, closeFile, err := formUpload(r, "avatar")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	defer closeFile()

	ref, err := h.UserService.ChangeAvatar(r.Context(), sess.UserID, avatar)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	WriteSuccess(w, AvatarResponse{Status: statusSuccess, Message: "Avatar updated successfully", Avatar: ref}, http.StatusOK)
}

func (h *Handlers) EditUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req models.EditUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.EditProfile(r.Context(), sess.UserID, req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	WriteSuccess(w, UserResponse{Status: statusSuccess, Message: "User info updated successfully", User: user}, http.StatusOK)
}
