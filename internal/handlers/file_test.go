package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chat-api/internal/middleware"
	"chat-api/internal/mocks"
	"chat-api/internal/models"
)

func setupFileRouter(handler *FileHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, "u1")
		c.Next()
	})
	r.POST("/files", handler.Upload)
	r.GET("/files", handler.List)
	r.GET("/files/:file_id", handler.Get)
	r.GET("/files/:file_id/download", handler.Download)
	r.DELETE("/files/:file_id", handler.Delete)
	return r
}

func multipartUpload(t *testing.T, filename string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadFileStoresPayload(t *testing.T) {
	fileRepo := new(mocks.FileRepositoryMock)
	handler := NewFileHandler(fileRepo, nil)
	router := setupFileRouter(handler)

	payload := bytes.Repeat([]byte("a"), 1024)
	fileRepo.On("CreateFile", mock.Anything, "notes.txt", mock.Anything, payload, "u1").
		Return(models.File{ID: "f1", Filename: "notes.txt", Size: 1024, UploadedBy: "u1", Data: payload}, nil).Once()

	body, contentType := multipartUpload(t, "notes.txt", payload)
	req := httptest.NewRequest(http.MethodPost, "/files", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "f1", resp["id"])
	// payload bytes stay out of metadata responses
	require.NotContains(t, resp, "data")

	fileRepo.AssertExpectations(t)
}

func TestUploadFileOverLimitRejected(t *testing.T) {
	fileRepo := new(mocks.FileRepositoryMock)
	handler := NewFileHandler(fileRepo, nil)
	router := setupFileRouter(handler)

	payload := bytes.Repeat([]byte("a"), MaxFileSize+1)
	body, contentType := multipartUpload(t, "big.bin", payload)
	req := httptest.NewRequest(http.MethodPost, "/files", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	fileRepo.AssertNotCalled(t, "CreateFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadFileAtLimitAccepted(t *testing.T) {
	fileRepo := new(mocks.FileRepositoryMock)
	handler := NewFileHandler(fileRepo, nil)
	router := setupFileRouter(handler)

	payload := bytes.Repeat([]byte("a"), MaxFileSize)
	fileRepo.On("CreateFile", mock.Anything, "exact.bin", mock.Anything, payload, "u1").
		Return(models.File{ID: "f1", Filename: "exact.bin", Size: MaxFileSize, UploadedBy: "u1"}, nil).Once()

	body, contentType := multipartUpload(t, "exact.bin", payload)
	req := httptest.NewRequest(http.MethodPost, "/files", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	fileRepo.AssertExpectations(t)
}

func TestUploadMissingFileField(t *testing.T) {
	handler := NewFileHandler(new(mocks.FileRepositoryMock), nil)
	router := setupFileRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/files", bytes.NewBufferString("not multipart"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadFileReturnsRawBytes(t *testing.T) {
	fileRepo := new(mocks.FileRepositoryMock)
	handler := NewFileHandler(fileRepo, nil)
	router := setupFileRouter(handler)

	payload := []byte("hello world")
	fileRepo.On("GetFile", mock.Anything, "f1").
		Return(models.File{ID: "f1", Filename: "hello.txt", ContentType: "text/plain", Size: int64(len(payload)), Data: payload, UploadedBy: "u1"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/files/f1/download", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, payload, rec.Body.Bytes())
	require.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "hello.txt")

	fileRepo.AssertExpectations(t)
}

func TestDeleteFileUploaderOnly(t *testing.T) {
	fileRepo := new(mocks.FileRepositoryMock)
	handler := NewFileHandler(fileRepo, nil)
	router := setupFileRouter(handler)

	fileRepo.On("GetFile", mock.Anything, "f1").
		Return(models.File{ID: "f1", UploadedBy: "someone-else"}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/files/f1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	fileRepo.AssertNotCalled(t, "DeleteFile", mock.Anything, mock.Anything)
}

func TestDeleteFileByUploader(t *testing.T) {
	fileRepo := new(mocks.FileRepositoryMock)
	handler := NewFileHandler(fileRepo, nil)
	router := setupFileRouter(handler)

	fileRepo.On("GetFile", mock.Anything, "f1").
		Return(models.File{ID: "f1", UploadedBy: "u1"}, nil).Once()
	fileRepo.On("DeleteFile", mock.Anything, "f1").Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/files/f1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	fileRepo.AssertExpectations(t)
}
