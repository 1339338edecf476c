package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"blogsphere/internal/models"
)

func postInput(r *http.Request) models.PostInput {
	return models.PostInput{
		Title:    r.FormValue("title"),
		Category: r.FormValue("category"),
		Desc:     r.FormValue("desc"),
	}
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	if err := h.parseMultipart(w, r, h.Cfg.Upload.MaxThumbnailSize); err != nil {
		h.respondError(w, r, err)
		return
	}
	defer cleanupForm(r)

	thumbnail, closeFile, err := formUpload(r, "thumbnail")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	defer closeFile()

	post, err := h.PostService.CreatePost(r.Context(), sess.UserID, postInput(r), thumbnail)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	WriteSuccess(w, PostResponse{Status: statusSuccess, Message: "Post created successfully", Post: post}, http.StatusCreated)
}

func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.ListPosts(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	WriteSuccess(w, PostsResponse{Status: statusSuccess, Posts: posts}, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.GetPost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	WriteSuccess(w, PostResponse{Status: statusSuccess, Post: post}, http.StatusOK)
}

func (h *Handlers) GetCategoryPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.ListByCategory(r.Context(), mux.Vars(r)["category"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	WriteSuccess(w, PostsResponse{Status: statusSuccess, Posts: posts}, http.StatusOK)
}

func (h *Handlers) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.ListByAuthor(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	WriteSuccess(w, PostsResponse{Status: statusSuccess, Posts: posts}, http.StatusOK)
}

func (h *Handlers) EditPost(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	if err := h.parseMultipart(w, r, h.Cfg.Upload.MaxThumbnailSize); err != nil {
		h.respondError(w, r, err)
		return
	}
	defer cleanupForm(r)

	thumbnail, closeFile, err := formUpload(r, "thumbnail")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	defer closeFile()

	post, err := h.PostService.EditPost(r.Context(), sess.UserID, mux.Vars(r)["id"], postInput(r), thumbnail)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	WriteSuccess(w, PostResponse{Status: statusSuccess, Message: "Post updated successfully", Post: post}, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	postID := mux.Vars(r)["id"]
	if err := h.PostService.DeletePost(r.Context(), sess.UserID, postID); err != nil {
		h.respondError(w, r, err)
		return
	}

	WriteSuccess(w, DeletePostResponse{
		Status:  statusSuccess,
		Message: "Post deleted successfully",
		PostID:  postID,
	}, http.StatusOK)
}
