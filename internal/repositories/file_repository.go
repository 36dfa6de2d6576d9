package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"chat-api/internal/apperrors"
	"chat-api/internal/models"
)

var ErrFileNotFound = fmt.Errorf("file %w", apperrors.ErrNotFound)

// FileRepository abstracts small-blob persistence.
type FileRepository interface {
	CreateFile(ctx context.Context, filename, contentType string, data []byte, uploadedBy string) (models.File, error)
	GetFile(ctx context.Context, fileID string) (models.File, error)
	ListFiles(ctx context.Context, skip, limit int) ([]models.File, error)
	DeleteFile(ctx context.Context, fileID string) error
}

// FileRepo is a sqlx implementation of FileRepository.
type FileRepo struct {
	db *sqlx.DB
}

// NewFileRepo constructs a FileRepo.
func NewFileRepo(db *sqlx.DB) *FileRepo {
	return &FileRepo{db: db}
}

// CreateFile stores the blob with its metadata.
func (r *FileRepo) CreateFile(ctx context.Context, filename, contentType string, data []byte, uploadedBy string) (models.File, error) {
	var file models.File
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO files (id, filename, content_type, size, data, uploaded_by) VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, filename, content_type, size, data, uploaded_by, uploaded_at`,
		uuid.NewString(), filename, contentType, len(data), data, uploadedBy).StructScan(&file)
	return file, err
}

// GetFile fetches the file including its payload.
func (r *FileRepo) GetFile(ctx context.Context, fileID string) (models.File, error) {
	var file models.File
	err := r.db.GetContext(ctx, &file,
		`SELECT id, filename, content_type, size, data, uploaded_by, uploaded_at FROM files WHERE id=$1`, fileID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.File{}, ErrFileNotFound
	}
	return file, err
}

// ListFiles returns file metadata without payloads, newest first.
func (r *FileRepo) ListFiles(ctx context.Context, skip, limit int) ([]models.File, error) {
	var files []models.File
	err := r.db.SelectContext(ctx, &files,
		`SELECT id, filename, content_type, size, ''::bytea AS data, uploaded_by, uploaded_at
        FROM files ORDER BY uploaded_at DESC OFFSET $1 LIMIT $2`, skip, limit)
	return files, err
}

// DeleteFile removes the blob. Messages referencing it keep their file_id.
func (r *FileRepo) DeleteFile(ctx context.Context, fileID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id=$1`, fileID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrFileNotFound
	}
	return nil
}
