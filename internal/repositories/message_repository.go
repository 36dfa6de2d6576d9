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

var ErrMessageNotFound = fmt.Errorf("message %w", apperrors.ErrNotFound)

const messageColumns = `id, chat_id, sender_id, content, file_id, created_at, updated_at`

// MessageRepository abstracts message and delivery-status persistence.
type MessageRepository interface {
	CreateMessage(ctx context.Context, chatID, senderID, content string, fileID *string) (models.Message, error)
	ListMessages(ctx context.Context, chatID string, skip, limit int) ([]models.Message, error)
	GetMessage(ctx context.Context, messageID string) (models.Message, error)
	GetLastMessage(ctx context.Context, chatID string) (*models.Message, error)
	UpdateContent(ctx context.Context, messageID, content string) (models.Message, error)
	DeleteMessage(ctx context.Context, messageID string) error
	UpsertStatus(ctx context.Context, messageID, userID, status string) (models.MessageStatus, error)
	ListStatusViews(ctx context.Context, messageID string) ([]models.MessageStatusView, error)
}

// MessageRepo is a sqlx implementation of MessageRepository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage inserts a message and fans out one status row per chat
// member in the same transaction: the sender's row starts at seen, every
// other member's at sent. Members are read inside the transaction so the
// fan-out matches the roster at the instant the message is created.
func (r *MessageRepo) CreateMessage(ctx context.Context, chatID, senderID, content string, fileID *string) (models.Message, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Message{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if fileID != nil {
		var exists bool
		if err = tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM files WHERE id=$1)`, *fileID); err != nil {
			return models.Message{}, err
		}
		if !exists {
			err = ErrFileNotFound
			return models.Message{}, err
		}
	}

	var msg models.Message
	if err = tx.QueryRowxContext(ctx,
		`INSERT INTO messages (id, chat_id, sender_id, content, file_id) VALUES ($1, $2, $3, $4, $5) RETURNING `+messageColumns,
		uuid.NewString(), chatID, senderID, content, fileID).StructScan(&msg); err != nil {
		return models.Message{}, err
	}

	var memberIDs []string
	if err = tx.SelectContext(ctx, &memberIDs,
		`SELECT user_id FROM chat_members WHERE chat_id=$1 ORDER BY user_id`, chatID); err != nil {
		return models.Message{}, err
	}

	for _, memberID := range memberIDs {
		status := models.StatusSent
		if memberID == senderID {
			status = models.StatusSeen
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO message_statuses (id, message_id, user_id, status) VALUES ($1, $2, $3, $4)`,
			uuid.NewString(), msg.ID, memberID, status); err != nil {
			return models.Message{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// ListMessages returns a skip/limit window of the chat's messages, newest
// first.
func (r *MessageRepo) ListMessages(ctx context.Context, chatID string, skip, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT `+messageColumns+` FROM messages WHERE chat_id=$1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`,
		chatID, skip, limit)
	return msgs, err
}

// GetMessage fetches a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID string) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// GetLastMessage returns the most recently created message in the chat, or
// nil when the chat has none.
func (r *MessageRepo) GetLastMessage(ctx context.Context, chatID string) (*models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg,
		`SELECT `+messageColumns+` FROM messages WHERE chat_id=$1 ORDER BY created_at DESC LIMIT 1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// UpdateContent replaces the message body and bumps its updated timestamp.
func (r *MessageRepo) UpdateContent(ctx context.Context, messageID, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx,
		`UPDATE messages SET content=$2, updated_at=NOW() WHERE id=$1 RETURNING `+messageColumns,
		messageID, content).StructScan(&msg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// DeleteMessage removes the message together with its status rows in one
// transaction.
func (r *MessageRepo) DeleteMessage(ctx context.Context, messageID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM message_statuses WHERE message_id=$1`, messageID); err != nil {
		return err
	}

	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM messages WHERE id=$1`, messageID); err != nil {
		return err
	}
	var count int64
	if count, err = res.RowsAffected(); err != nil {
		return err
	}
	if count == 0 {
		err = ErrMessageNotFound
		return err
	}

	return tx.Commit()
}

// UpsertStatus writes the caller's delivery status for the message, creating
// the row when the caller joined after the message was sent. Transitions are
// deliberately unordered: a recipient may move between sent, delivered and
// seen in any direction.
func (r *MessageRepo) UpsertStatus(ctx context.Context, messageID, userID, status string) (models.MessageStatus, error) {
	var row models.MessageStatus
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO message_statuses (id, message_id, user_id, status) VALUES ($1, $2, $3, $4)
        ON CONFLICT (message_id, user_id) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
        RETURNING id, message_id, user_id, status, updated_at`,
		uuid.NewString(), messageID, userID, status).StructScan(&row)
	return row, err
}

// ListStatusViews returns every status row for the message.
func (r *MessageRepo) ListStatusViews(ctx context.Context, messageID string) ([]models.MessageStatusView, error) {
	var statuses []models.MessageStatusView
	err := r.db.SelectContext(ctx, &statuses,
		`SELECT user_id, status, updated_at FROM message_statuses WHERE message_id=$1 ORDER BY user_id`, messageID)
	return statuses, err
}
