package test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"blogsphere/internal/apperror"
	"blogsphere/internal/config"
	handlers "blogsphere/internal/handler"
	"blogsphere/internal/service"
	"blogsphere/internal/session"
)

type mocks struct {
	auth   *MockAuthService
	user   *MockUserService
	post   *MockPostService
	tables *MockTablesService
	db     *MockDB
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:       "test-secret",
		RateLimitPerMinute: 30,
		Upload: config.Upload{
			Driver:             config.UploadDriverLocal,
			MaxThumbnailSize:   2_000_000,
			MaxAvatarSize:      5_000_000,
			MultipartMaxMemory: 8 << 20,
		},
	}
}

func newHandlers() (*handlers.Handlers, *mocks) {
	m := &mocks{
		auth:   new(MockAuthService),
		user:   new(MockUserService),
		post:   new(MockPostService),
		tables: new(MockTablesService),
		db:     new(MockDB),
	}

	svc := &service.Service{
		User:   m.user,
		Post:   m.post,
		Auth:   m.auth,
		Tables: m.tables,
	}

	return handlers.NewHandlers(svc, m.db, testConfig(), zap.NewNop()), m
}

// withSession marks r as authenticated by userID.
func withSession(r *http.Request, userID string) *http.Request {
	sess := &session.Session{UserID: userID, Name: "Ann", ExpiresAt: time.Now().Add(time.Hour)}
	return r.WithContext(session.WithSession(r.Context(), sess))
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// multipartBody builds a form with the given fields and an optional file.
func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, content []byte) (io.Reader, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "error", resp.Status)
	return resp
}

func TestNewHandlers(t *testing.T) {
	h, _ := newHandlers()

	assert.NotNil(t, h.UserService)
	assert.NotNil(t, h.AuthService)
	assert.NotNil(t, h.PostService)
	assert.NotNil(t, h.TablesService)
	assert.NotNil(t, h.DB)
	assert.NotNil(t, h.Cfg)
	assert.NotNil(t, h.Log)
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	handlers.WriteError(rr, "Post does not exist", http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "Post does not exist", decodeError(t, rr).Message)
}

func TestWriteAppError(t *testing.T) {
	rr := httptest.NewRecorder()
	handlers.WriteAppError(rr, apperror.TooManyRequests("Too many requests, please try again later"))

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "Too many requests, please try again later", decodeError(t, rr).Message)

	rr = httptest.NewRecorder()
	handlers.WriteAppError(rr, apperror.Internal("Failed to create post", errors.New("pq: connection refused")))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "connection refused")
}
