package repositories

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"chat-api/internal/apperrors"
	"chat-api/internal/models"
)

var (
	ErrAPIKeyNotFound = fmt.Errorf("api key %w", apperrors.ErrNotFound)
	ErrAPIKeyInvalid  = fmt.Errorf("invalid api key: %w", apperrors.ErrUnauthenticated)
)

const apiKeyColumns = `id, key, name, user_id, is_active, created_at, last_used_at`

// APIKeyRepository abstracts API key persistence.
type APIKeyRepository interface {
	CreateKey(ctx context.Context, userID, name string) (models.APIKey, error)
	ListKeys(ctx context.Context, userID string) ([]models.APIKey, error)
	DeleteKey(ctx context.Context, keyID, userID string) error
	GetActiveByKey(ctx context.Context, key string) (models.APIKey, error)
	TouchLastUsed(ctx context.Context, keyID string) error
}

// APIKeyRepo is a sqlx implementation of APIKeyRepository.
type APIKeyRepo struct {
	db *sqlx.DB
}

// NewAPIKeyRepo constructs an APIKeyRepo.
func NewAPIKeyRepo(db *sqlx.DB) *APIKeyRepo {
	return &APIKeyRepo{db: db}
}

// CreateKey mints a fresh random secret for the user.
func (r *APIKeyRepo) CreateKey(ctx context.Context, userID, name string) (models.APIKey, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return models.APIKey{}, err
	}

	var key models.APIKey
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO api_keys (id, key, name, user_id) VALUES ($1, $2, $3, $4) RETURNING `+apiKeyColumns,
		uuid.NewString(), hex.EncodeToString(secret), name, userID).StructScan(&key)
	return key, err
}

// ListKeys returns the user's keys, newest first.
func (r *APIKeyRepo) ListKeys(ctx context.Context, userID string) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := r.db.SelectContext(ctx, &keys,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	return keys, err
}

// DeleteKey removes a key owned by the user.
func (r *APIKeyRepo) DeleteKey(ctx context.Context, keyID, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id=$1 AND user_id=$2`, keyID, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrAPIKeyNotFound
	}
	return nil
}

// GetActiveByKey resolves an active key by its secret.
func (r *APIKeyRepo) GetActiveByKey(ctx context.Context, key string) (models.APIKey, error) {
	var apiKey models.APIKey
	err := r.db.GetContext(ctx, &apiKey,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE key=$1 AND is_active = TRUE`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return models.APIKey{}, ErrAPIKeyInvalid
	}
	return apiKey, err
}

// TouchLastUsed records a successful use of the key.
func (r *APIKeyRepo) TouchLastUsed(ctx context.Context, keyID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used_at = NOW() WHERE id=$1`, keyID)
	return err
}
