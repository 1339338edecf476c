package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"blogsphere/internal/apperror"
	"blogsphere/internal/models"
)

const (
	FolderThumbnails = "thumbnails"
	FolderAvatars    = "avatars"
)

// Store keeps uploaded images and hands back a reference that is enough to
// serve and later delete them.
type Store interface {
	Save(ctx context.Context, folder, fileName string, file io.Reader, size int64) (models.ImageRef, error)
	Delete(ctx context.Context, ref models.ImageRef) error
}

// ErrForeignImage is returned when a store is asked to delete an image that
// another backend wrote.
var ErrForeignImage = errors.New("image belongs to another store")

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ValidateImage checks the size of upload and sniffs its content. The reader
// is rewound before returning so the caller can store it.
func ValidateImage(upload *models.Upload, maxSize int64) (string, error) {
	if upload == nil || upload.Content == nil {
		return "", apperror.Validation("Please choose an image")
	}

	if upload.Size > maxSize {
		return "", apperror.Validation(fmt.Sprintf(
			"File size too big. File should be less than %s", humanize.Bytes(uint64(maxSize))))
	}

	mtype, err := mimetype.DetectReader(upload.Content)
	if err != nil {
		return "", apperror.Internal("failed to read uploaded file", err)
	}
	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return "", apperror.Internal("failed to read uploaded file", err)
	}

	ext, ok := allowedImageTypes[mtype.String()]
	if !ok {
		return "", apperror.Validation(fmt.Sprintf("Unsupported image type %s", mtype.String()))
	}

	// keep the client's extension only when it agrees with the content
	if !mtype.Is(mimeForExt(filepath.Ext(upload.FileName))) {
		upload.FileName = strings.TrimSuffix(filepath.Base(upload.FileName), filepath.Ext(upload.FileName)) + ext
	}

	return mtype.String(), nil
}

func mimeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return ""
}

// cleanName strips directories and anything outside [A-Za-z0-9_-] from the
// base of fileName.
func cleanName(fileName string) (string, string) {
	base := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	stem = strings.Trim(b.String(), "_")
	if stem == "" || stem == "." {
		stem = "image"
	}
	if mimeForExt(ext) == "" {
		ext = ".jpg"
	}

	return stem, ext
}
