package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"blogsphere/internal/apperror"
)

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WriteError sends a JSON error body with the given status.
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	WriteSuccess(w, ErrorResponse{Status: "error", Message: message}, statusCode)
}

// WriteAppError sends err with the status and message it carries.
func WriteAppError(w http.ResponseWriter, err error) {
	WriteError(w, apperror.MessageOf(err), apperror.StatusOf(err))
}

func WriteSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError reports err with the status it carries. Causes of 5xx errors
// are logged and never sent to the client.
func (h *Handlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.StatusOf(err)
	if status >= http.StatusInternalServerError {
		h.Log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	WriteAppError(w, err)
}

func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "Not found", http.StatusNotFound)
	})
}

func MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
}
