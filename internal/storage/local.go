package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"blogsphere/internal/models"
)

type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore serves files written to dir under baseURL + "/uploads/".
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: baseURL}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(_ context.Context, folder, fileName string, file io.Reader, _ int64) (models.ImageRef, error) {
	stem, ext := cleanName(fileName)
	name := fmt.Sprintf("%s-%s-%s%s", folder, stem, uuid.New().String(), ext)
	path := filepath.Join(s.dir, name)

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return models.ImageRef{}, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return models.ImageRef{}, fmt.Errorf("failed to write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return models.ImageRef{}, fmt.Errorf("failed to write file: %w", err)
	}

	return models.ImageRef{
		Kind: models.ImageLocal,
		Key:  name,
		URL:  s.baseURL + "/uploads/" + name,
	}, nil
}

// Delete removes the file behind ref. A file that is already gone is fine.
func (s *LocalStore) Delete(_ context.Context, ref models.ImageRef) error {
	if ref.IsZero() {
		return nil
	}
	if ref.Kind != models.ImageLocal {
		return fmt.Errorf("local store cannot delete %s image %s: %w", ref.Kind, ref.Key, ErrForeignImage)
	}

	err := os.Remove(filepath.Join(s.dir, filepath.Base(ref.Key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
