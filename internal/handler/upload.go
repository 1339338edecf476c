package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dustin/go-humanize"

	"blogsphere/internal/apperror"
	"blogsphere/internal/models"
)

// formOverhead leaves room for the text fields next to the file.
const formOverhead = 1 << 20

// parseMultipart reads a multipart body whose file part may be at most
// maxFile bytes.
func (h *Handlers) parseMultipart(w http.ResponseWriter, r *http.Request, maxFile int64) error {
	limit := maxFile + formOverhead
	if r.ContentLength > limit {
		return fileTooBig(maxFile)
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(h.Cfg.Upload.MultipartMaxMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return fileTooBig(maxFile)
		}
		return apperror.New(http.StatusBadRequest, "Invalid form data")
	}
	return nil
}

func fileTooBig(maxFile int64) error {
	return apperror.Validation(fmt.Sprintf(
		"File size too big. File should be less than %s", humanize.Bytes(uint64(maxFile))))
}

// formUpload returns the file sent under field, or nil when there is none.
func formUpload(r *http.Request, field string) (*models.Upload, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, func() {}, nil
		}
		return nil, func() {}, apperror.New(http.StatusBadRequest, "Invalid form data")
	}

	upload := &models.Upload{
		FileName: header.Filename,
		Size:     header.Size,
		Content:  file,
	}
	return upload, func() { file.Close() }, nil
}

func cleanupForm(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}
