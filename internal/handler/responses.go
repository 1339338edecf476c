package handlers

import "blogsphere/internal/models"

// Every successful API response carries status "success" next to its payload.
const statusSuccess = "success"

type UserResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	User    *models.User `json:"user"`
}

type LoginResponse struct {
	Status string `json:"status"`
	models.LoginResponse
}

type AuthorsResponse struct {
	Status  string        `json:"status"`
	Authors []models.User `json:"authors"`
}

type AvatarResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Avatar  models.ImageRef `json:"avatar"`
}

type PostResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Post    *models.Post `json:"post"`
}

type PostsResponse struct {
	Status string        `json:"status"`
	Posts  []models.Post `json:"posts"`
}

type DeletePostResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	PostID  string `json:"postId"`
}
