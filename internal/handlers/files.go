package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-api/internal/middleware"
	"chat-api/internal/repositories"
	"chat-api/internal/telemetry"
)

// MaxFileSize caps uploaded attachments at 50 KiB.
const MaxFileSize = 50 * 1024

// FileHandler serves small-blob attachment endpoints.
type FileHandler struct {
	fileRepo repositories.FileRepository
	audit    *telemetry.AuditEmitter
}

// NewFileHandler constructs a FileHandler.
func NewFileHandler(fileRepo repositories.FileRepository, audit *telemetry.AuditEmitter) *FileHandler {
	return &FileHandler{fileRepo: fileRepo, audit: audit}
}

// Upload handles POST /files as multipart form data under the "file" field.
func (h *FileHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}
	if header.Size > MaxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("file exceeds %d byte limit", MaxFileSize)})
		return
	}

	src, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxFileSize+1))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(data) > MaxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("file exceeds %d byte limit", MaxFileSize)})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	file, err := h.fileRepo.CreateFile(c.Request.Context(), header.Filename, contentType, data, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "file uploaded")
	c.JSON(http.StatusCreated, file)
}

// List handles GET /files, returning metadata without payloads.
func (h *FileHandler) List(c *gin.Context) {
	skip, limit := paginationParams(c)
	files, err := h.fileRepo.ListFiles(c.Request.Context(), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

// Get handles GET /files/:file_id (metadata only).
func (h *FileHandler) Get(c *gin.Context) {
	file, err := h.fileRepo.GetFile(c.Request.Context(), c.Param("file_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

// Download handles GET /files/:file_id/download, returning the raw bytes.
func (h *FileHandler) Download(c *gin.Context) {
	file, err := h.fileRepo.GetFile(c.Request.Context(), c.Param("file_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Delete handles DELETE /files/:file_id. Only the uploader may delete.
func (h *FileHandler) Delete(c *gin.Context) {
	file, err := h.fileRepo.GetFile(c.Request.Context(), c.Param("file_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if file.UploadedBy != middleware.CallerID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the uploader can delete a file"})
		return
	}

	if err := h.fileRepo.DeleteFile(c.Request.Context(), file.ID); err != nil {
		respondError(c, err)
		return
	}

	emitAudit(c, h.audit, "INFO", "file deleted")
	c.Status(http.StatusNoContent)
}
