package models

import "time"

// APIKey is an opaque credential owned by a user. The secret is returned
// once on creation and on the owner's own listing.
type APIKey struct {
	ID         string     `db:"id" json:"id"`
	Key        string     `db:"key" json:"key"`
	Name       string     `db:"name" json:"name"`
	UserID     string     `db:"user_id" json:"user_id"`
	IsActive   bool       `db:"is_active" json:"is_active"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	LastUsedAt *time.Time `db:"last_used_at" json:"last_used_at,omitempty"`
}
