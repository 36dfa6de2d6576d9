package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"chat-api/internal/apperrors"
	"chat-api/internal/models"
)

var (
	ErrChatNotFound   = fmt.Errorf("chat %w", apperrors.ErrNotFound)
	ErrNotGroupChat   = fmt.Errorf("not a group chat: %w", apperrors.ErrInvalidOperation)
	ErrAlreadyMember  = fmt.Errorf("user is already a member: %w", apperrors.ErrConflict)
	ErrMemberNotFound = fmt.Errorf("chat member %w", apperrors.ErrNotFound)
)

const chatColumns = `id, name, is_group, pair_key, created_at, updated_at`

// ChatRepository abstracts chat lifecycle and membership persistence.
type ChatRepository interface {
	CreateChat(ctx context.Context, requesterID string, name *string, isGroup bool, memberIDs []string) (models.Chat, error)
	GetChat(ctx context.Context, chatID string) (models.Chat, error)
	ListChatsForUser(ctx context.Context, userID string) ([]models.Chat, error)
	UpdateChatName(ctx context.Context, chatID, name string) (models.Chat, error)
	DeleteChat(ctx context.Context, chatID string) error
	AddMember(ctx context.Context, chatID, userID string) error
	RemoveMember(ctx context.Context, chatID, userID string) error
	IsMember(ctx context.Context, chatID, userID string) (bool, error)
	IsAdmin(ctx context.Context, chatID, userID string) (bool, error)
	ListMemberViews(ctx context.Context, chatID string) ([]models.ChatMemberView, error)
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	db *sqlx.DB
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(db *sqlx.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

// CreateChat creates a chat and its membership roster atomically. The
// requester is always part of the roster and is the only initial admin.
// A two-party non-group chat is deduplicated: when a non-group chat with
// exactly the same two members already exists it is returned instead of
// creating a second one, so repeated calls are idempotent in either order.
func (r *ChatRepo) CreateChat(ctx context.Context, requesterID string, name *string, isGroup bool, memberIDs []string) (models.Chat, error) {
	memberSet := map[string]struct{}{requesterID: {}}
	for _, id := range memberIDs {
		memberSet[id] = struct{}{}
	}
	ids := make([]string, 0, len(memberSet))
	for id := range memberSet {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Chat{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var known int
	if err = tx.GetContext(ctx, &known, `SELECT COUNT(*) FROM users WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return models.Chat{}, err
	}
	if known != len(ids) {
		err = ErrUserNotFound
		return models.Chat{}, err
	}

	if !isGroup && len(ids) == 2 {
		var existing models.Chat
		existing, err = findIndividualChat(ctx, tx, requesterID, ids)
		if err == nil {
			if err = tx.Commit(); err != nil {
				return models.Chat{}, err
			}
			return existing, nil
		}
		if !errors.Is(err, ErrChatNotFound) {
			return models.Chat{}, err
		}
		err = nil
	}

	var pairKey *string
	if !isGroup && len(ids) == 2 {
		key := pairKeyFor(ids)
		pairKey = &key
	}

	var chat models.Chat
	if err = tx.QueryRowxContext(ctx,
		`INSERT INTO chats (id, name, is_group, pair_key) VALUES ($1, $2, $3, $4) RETURNING `+chatColumns,
		uuid.NewString(), name, isGroup, pairKey).StructScan(&chat); err != nil {
		return models.Chat{}, err
	}

	for _, id := range ids {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO chat_members (id, chat_id, user_id, is_admin) VALUES ($1, $2, $3, $4)`,
			uuid.NewString(), chat.ID, id, id == requesterID); err != nil {
			return models.Chat{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Chat{}, err
	}
	return chat, nil
}

// findIndividualChat scans the requester's non-group chats for one whose
// member set equals exactly the two given users.
func findIndividualChat(ctx context.Context, tx *sqlx.Tx, requesterID string, pair []string) (models.Chat, error) {
	var candidates []models.Chat
	err := tx.SelectContext(ctx, &candidates,
		`SELECT c.id, c.name, c.is_group, c.pair_key, c.created_at, c.updated_at FROM chats c
        INNER JOIN chat_members cm ON cm.chat_id = c.id
        WHERE c.is_group = FALSE AND cm.user_id=$1`, requesterID)
	if err != nil {
		return models.Chat{}, err
	}

	for _, candidate := range candidates {
		var members []string
		if err := tx.SelectContext(ctx, &members,
			`SELECT user_id FROM chat_members WHERE chat_id=$1`, candidate.ID); err != nil {
			return models.Chat{}, err
		}
		sort.Strings(members)
		if len(members) == 2 && members[0] == pair[0] && members[1] == pair[1] {
			return candidate, nil
		}
	}
	return models.Chat{}, ErrChatNotFound
}

// pairKeyFor builds the canonical sorted-pair key for a two-party chat.
func pairKeyFor(sortedIDs []string) string {
	return strings.Join(sortedIDs, ":")
}

// GetChat fetches a chat by id.
func (r *ChatRepo) GetChat(ctx context.Context, chatID string) (models.Chat, error) {
	var chat models.Chat
	err := r.db.GetContext(ctx, &chat, `SELECT `+chatColumns+` FROM chats WHERE id=$1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, ErrChatNotFound
	}
	return chat, err
}

// ListChatsForUser returns every chat the user is a member of, newest
// created first. The ordering is deliberate: the source system guaranteed
// none, so creation time keeps the list deterministic.
func (r *ChatRepo) ListChatsForUser(ctx context.Context, userID string) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.SelectContext(ctx, &chats,
		`SELECT c.id, c.name, c.is_group, c.pair_key, c.created_at, c.updated_at FROM chats c
        INNER JOIN chat_members cm ON cm.chat_id = c.id
        WHERE cm.user_id=$1 ORDER BY c.created_at DESC`, userID)
	return chats, err
}

// UpdateChatName renames the chat and bumps its updated timestamp.
func (r *ChatRepo) UpdateChatName(ctx context.Context, chatID, name string) (models.Chat, error) {
	var chat models.Chat
	err := r.db.QueryRowxContext(ctx,
		`UPDATE chats SET name=$2, updated_at=NOW() WHERE id=$1 RETURNING `+chatColumns,
		chatID, name).StructScan(&chat)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, ErrChatNotFound
	}
	return chat, err
}

// DeleteChat removes the chat with its members, messages and status rows in
// one transaction. The cascade is explicit rather than left to the schema.
func (r *ChatRepo) DeleteChat(ctx context.Context, chatID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	statements := []string{
		`DELETE FROM message_statuses WHERE message_id IN (SELECT id FROM messages WHERE chat_id=$1)`,
		`DELETE FROM messages WHERE chat_id=$1`,
		`DELETE FROM chat_members WHERE chat_id=$1`,
	}
	for _, stmt := range statements {
		if _, err = tx.ExecContext(ctx, stmt, chatID); err != nil {
			return err
		}
	}

	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM chats WHERE id=$1`, chatID); err != nil {
		return err
	}
	var count int64
	if count, err = res.RowsAffected(); err != nil {
		return err
	}
	if count == 0 {
		err = ErrChatNotFound
		return err
	}

	return tx.Commit()
}

// AddMember adds a user to a group chat as a non-admin.
func (r *ChatRepo) AddMember(ctx context.Context, chatID, userID string) error {
	chat, err := r.GetChat(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsGroup {
		return ErrNotGroupChat
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`, userID); err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO chat_members (id, chat_id, user_id, is_admin) VALUES ($1, $2, $3, FALSE)`,
		uuid.NewString(), chatID, userID)
	if isUniqueViolation(err) {
		return ErrAlreadyMember
	}
	return err
}

// RemoveMember removes a user from a group chat.
func (r *ChatRepo) RemoveMember(ctx context.Context, chatID, userID string) error {
	chat, err := r.GetChat(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsGroup {
		return ErrNotGroupChat
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM chat_members WHERE chat_id=$1 AND user_id=$2`, chatID, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// IsMember checks whether the user holds a membership row in the chat.
func (r *ChatRepo) IsMember(ctx context.Context, chatID, userID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM chat_members WHERE chat_id=$1 AND user_id=$2)`, chatID, userID)
	return exists, err
}

// IsAdmin checks whether the user is an admin of the chat.
func (r *ChatRepo) IsAdmin(ctx context.Context, chatID, userID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM chat_members WHERE chat_id=$1 AND user_id=$2 AND is_admin = TRUE)`, chatID, userID)
	return exists, err
}

// ListMemberViews returns the roster with usernames, oldest joiner first.
func (r *ChatRepo) ListMemberViews(ctx context.Context, chatID string) ([]models.ChatMemberView, error) {
	var members []models.ChatMemberView
	err := r.db.SelectContext(ctx, &members,
		`SELECT cm.user_id, u.username, cm.is_admin, cm.joined_at
        FROM chat_members cm INNER JOIN users u ON u.id = cm.user_id
        WHERE cm.chat_id=$1 ORDER BY cm.joined_at ASC`, chatID)
	return members, err
}
