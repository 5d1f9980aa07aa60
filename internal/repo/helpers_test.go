package repo

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/safevoice/safevoice-api/internal/domain"
)

// newTestDB opens a private in-memory database with foreign keys on and the
// full schema migrated. Pass migrate=false to get an empty database.
func newTestDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		t.Cleanup(func() { _ = sqlDB.Close() })
	}
	if migrate {
		if err := AutoMigrate(db); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

// seedStory inserts a story with a fixed creation time so ordering is stable.
func seedStory(t *testing.T, db *gorm.DB, id, author string, created time.Time, tags ...string) *domain.Story {
	t.Helper()
	if tags == nil {
		tags = []string{}
	}
	s := &domain.Story{
		ID:        id,
		Title:     "title " + id,
		Content:   "content " + id,
		Tags:      tags,
		MediaURLs: []string{},
		AuthorID:  author,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("seed story %s: %v", id, err)
	}
	return s
}
