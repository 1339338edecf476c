package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

const DefaultCategory = "Uncategorized"

type ImageKind string

const (
	ImageLocal  ImageKind = "local"
	ImageRemote ImageKind = "remote"
)

// ImageRef points at a stored image. Key is what the store needs to delete
// it, URL is the public address fixed when the image was written.
type ImageRef struct {
	Kind ImageKind `json:"kind"`
	Key  string    `json:"key"`
	URL  string    `json:"url"`
}

func (r ImageRef) IsZero() bool {
	return r.Key == ""
}

// Value stores the reference as a JSON document.
func (r ImageRef) Value() (driver.Value, error) {
	if r.IsZero() {
		return nil, nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *ImageRef) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*r = ImageRef{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported image reference type %T", src)
	}

	if err := json.Unmarshal(data, r); err != nil {
		return fmt.Errorf("invalid image reference: %w", err)
	}
	if r.Kind != ImageLocal && r.Kind != ImageRemote {
		return errors.New("invalid image reference kind")
	}
	return nil
}

type User struct {
	UserID       string    `json:"id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Avatar       *ImageRef `json:"avatar" db:"avatar"`
	Posts        int       `json:"posts" db:"posts"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

type Post struct {
	PostID    string    `json:"id" db:"post_id"`
	Title     string    `json:"title" db:"title"`
	Category  string    `json:"category" db:"category"`
	Desc      string    `json:"desc" db:"description"`
	Thumbnail ImageRef  `json:"thumbnail" db:"thumbnail"`
	CreatorID string    `json:"creator" db:"creator_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type RegisterRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type EditUserRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Name  string `json:"name"`
}

type PostInput struct {
	Title    string `validate:"required" label:"Title"`
	Category string `validate:"required" label:"Category"`
	Desc     string `validate:"required" label:"Description"`
}

// Upload is an image file received from a client.
type Upload struct {
	FileName string
	Size     int64
	Content  io.ReadSeeker
}
