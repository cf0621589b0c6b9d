package session

import (
	"errors"
	"fmt"
	"time"

	"forumweb/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBStore keeps the entries of one session in the session_entries table.
// Only the opaque session id travels in the cookie.
type DBStore struct {
	db  *gorm.DB
	sid string
}

func NewDBStore(db *gorm.DB, sessionID string) *DBStore {
	return &DBStore{db: db, sid: sessionID}
}

func (d *DBStore) Get(key string) (string, bool, error) {
	var entry models.SessionEntry
	err := d.db.Where("session_id = ? AND key = ?", d.sid, key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load session key %q: %w", key, err)
	}
	return entry.Value, true, nil
}

func (d *DBStore) Set(key, value string) error {
	entry := models.SessionEntry{SessionID: d.sid, Key: key, Value: value, UpdatedAt: time.Now()}
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("save session key %q: %w", key, err)
	}
	return nil
}

func (d *DBStore) Remove(key string) error {
	err := d.db.Where("session_id = ? AND key = ?", d.sid, key).Delete(&models.SessionEntry{}).Error
	if err != nil {
		return fmt.Errorf("remove session key %q: %w", key, err)
	}
	return nil
}
