package db

import (
	"testing"
	"time"

	"forumweb/internal/forumtest"
	"forumweb/internal/models"
)

func TestMigrateIsRepeatable(t *testing.T) {
	db := forumtest.SessionDB(t)
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
}

func TestPurgeSessionsKeepsFreshRows(t *testing.T) {
	db := forumtest.SessionDB(t)
	now := time.Now()
	rows := []models.SessionEntry{
		{SessionID: "old", Key: "token", Value: "T1", UpdatedAt: now.Add(-48 * time.Hour)},
		{SessionID: "old", Key: "user", Value: "{}", UpdatedAt: now.Add(-48 * time.Hour)},
		{SessionID: "new", Key: "token", Value: "T2", UpdatedAt: now},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	n, err := PurgeSessions(db, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("PurgeSessions: %v", err)
	}
	if n != 2 {
		t.Errorf("purged %d rows, want 2", n)
	}

	var left []models.SessionEntry
	db.Find(&left)
	if len(left) != 1 || left[0].SessionID != "new" {
		t.Errorf("left = %+v", left)
	}
}

func TestSessionCleanupRunsUntilStopped(t *testing.T) {
	db := forumtest.SessionDB(t)
	old := models.SessionEntry{SessionID: "old", Key: "token", Value: "T1", UpdatedAt: time.Now().Add(-time.Hour)}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	stop := make(chan struct{})
	defer close(stop)
	StartSessionCleanup(db, time.Minute, 10*time.Millisecond, stop)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var n int64
		db.Model(&models.SessionEntry{}).Count(&n)
		if n == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("stale row not purged")
}
