package models

import "time"

// SessionEntry is one key of a server-side session.
type SessionEntry struct {
	SessionID string    `gorm:"primaryKey;size:36"`
	Key       string    `gorm:"primaryKey;size:32"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"index"`
}
