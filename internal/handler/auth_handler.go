package handlers

import (
	"encoding/json"
	"net/http"

	"blogsphere/internal/models"
	"blogsphere/internal/session"
)

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.AuthService.Register(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	WriteSuccess(w, UserResponse{Status: statusSuccess, Message: "Registration successful", User: user}, http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.AuthService.Login(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	WriteSuccess(w, LoginResponse{Status: statusSuccess, LoginResponse: *resp}, http.StatusOK)
}

// currentSession returns the caller's session, writing a 401 when the
// request was not authenticated.
func currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		WriteError(w, "Unauthorized. No token found", http.StatusUnauthorized)
		return nil, false
	}
	return sess, true
}
