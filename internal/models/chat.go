package models

import "time"

// Chat is a conversation. Name is only meaningful for group chats; a
// two-party chat leaves it null. PairKey is the canonical sorted member-pair
// key used to enforce individual-chat uniqueness at the storage layer.
type Chat struct {
	ID        string    `db:"id" json:"id"`
	Name      *string   `db:"name" json:"name"`
	IsGroup   bool      `db:"is_group" json:"is_group"`
	PairKey   *string   `db:"pair_key" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ChatMember links a user to a chat. At most one row exists per (chat, user).
type ChatMember struct {
	ID       string    `db:"id" json:"id"`
	ChatID   string    `db:"chat_id" json:"chat_id"`
	UserID   string    `db:"user_id" json:"user_id"`
	IsAdmin  bool      `db:"is_admin" json:"is_admin"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

// ChatMemberView is the member entry rendered inside a ChatView.
type ChatMemberView struct {
	UserID   string    `db:"user_id" json:"user_id"`
	Username string    `db:"username" json:"username"`
	IsAdmin  bool      `db:"is_admin" json:"is_admin"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

// ChatView is the assembled API shape of a chat: metadata, the full member
// roster and the most recent message, if any.
type ChatView struct {
	ID          string           `json:"id"`
	Name        *string          `json:"name"`
	IsGroup     bool             `json:"is_group"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Members     []ChatMemberView `json:"members"`
	LastMessage *MessageView     `json:"last_message"`
}
