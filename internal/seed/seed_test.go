package seed

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/safevoice/safevoice-api/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:seed_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		t.Cleanup(func() { _ = sqlDB.Close() })
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestRun_Idempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first, err := Run(ctx, db)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	want := Summary{Profiles: 1, Stories: len(stories), Testimonials: len(testimonials)}
	if first != want {
		t.Fatalf("first run = %+v, want %+v", first, want)
	}

	second, err := Run(ctx, db)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second != (Summary{}) {
		t.Fatalf("second run inserted rows: %+v", second)
	}

	n, err := repo.CountStories(ctx, db, repo.StoryFilter{AuthorID: AuthorID})
	if err != nil || n != int64(len(stories)) {
		t.Fatalf("CountStories = %d, %v", n, err)
	}
	got, err := repo.GetStory(ctx, db, stories[0].ID)
	if err != nil {
		t.Fatalf("GetStory: %v", err)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "Recovery" {
		t.Fatalf("tags = %v", got.Tags)
	}
}

func TestRun_NoSchema(t *testing.T) {
	dsn := fmt.Sprintf("file:seed_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, err := Run(context.Background(), db); err == nil {
		t.Fatal("expected error without tables")
	}
}
