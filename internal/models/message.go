package models

import "time"

// Delivery status values for a message recipient.
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusSeen      = "seen"
)

// ValidStatus reports whether s is a recognised delivery status.
func ValidStatus(s string) bool {
	return s == StatusSent || s == StatusDelivered || s == StatusSeen
}

// Message is a chat message with an optional file attachment.
type Message struct {
	ID        string    `db:"id" json:"id"`
	ChatID    string    `db:"chat_id" json:"chat_id"`
	SenderID  string    `db:"sender_id" json:"sender_id"`
	Content   string    `db:"content" json:"content"`
	FileID    *string   `db:"file_id" json:"file_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// MessageStatus tracks per-recipient delivery state. Exactly one row exists
// per (message, member-at-send-time); members joining later gain a row on
// their first status update.
type MessageStatus struct {
	ID        string    `db:"id" json:"id"`
	MessageID string    `db:"message_id" json:"message_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Status    string    `db:"status" json:"status"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// MessageStatusView is a status row rendered inside a MessageView.
type MessageStatusView struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Status    string    `db:"status" json:"status"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// MessageView is the assembled API shape of a message with every status row.
type MessageView struct {
	ID        string              `json:"id"`
	ChatID    string              `json:"chat_id"`
	SenderID  string              `json:"sender_id"`
	Content   string              `json:"content"`
	FileID    *string             `json:"file_id,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	Statuses  []MessageStatusView `json:"statuses"`
}
