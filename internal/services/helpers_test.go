package services

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/safevoice/safevoice-api/internal/domain"
	"github.com/safevoice/safevoice-api/internal/repo"
)

// ---------- test helpers ----------

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// storyRepo proxies the repo package, like the router's shim.
type storyRepo struct{}

func (storyRepo) CreateStory(ctx context.Context, db *gorm.DB, s *domain.Story) error {
	return repo.CreateStory(ctx, db, s)
}
func (storyRepo) GetStory(ctx context.Context, db *gorm.DB, id string) (*domain.Story, error) {
	return repo.GetStory(ctx, db, id)
}
func (storyRepo) UpdateStory(ctx context.Context, db *gorm.DB, id, authorID, title, content string, tags, media []string) error {
	return repo.UpdateStory(ctx, db, id, authorID, title, content, tags, media)
}
func (storyRepo) DeleteStory(ctx context.Context, db *gorm.DB, id, authorID string) error {
	return repo.DeleteStory(ctx, db, id, authorID)
}
func (storyRepo) DeleteReactionsByStory(ctx context.Context, db *gorm.DB, storyID string) error {
	return repo.DeleteReactionsByStory(ctx, db, storyID)
}
func (storyRepo) CountStories(ctx context.Context, db *gorm.DB, f repo.StoryFilter) (int64, error) {
	return repo.CountStories(ctx, db, f)
}
func (storyRepo) ListStoriesPage(ctx context.Context, db *gorm.DB, f repo.StoryFilter, offset, limit int) ([]domain.Story, error) {
	return repo.ListStoriesPage(ctx, db, f, offset, limit)
}
func (storyRepo) ListStoriesByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Story, error) {
	return repo.ListStoriesByIDs(ctx, db, ids)
}
func (storyRepo) ListStoriesExcluding(ctx context.Context, db *gorm.DB, exclude []string, limit int) ([]domain.Story, error) {
	return repo.ListStoriesExcluding(ctx, db, exclude, limit)
}
func (storyRepo) ListStoryTags(ctx context.Context, db *gorm.DB) ([][]string, error) {
	return repo.ListStoryTags(ctx, db)
}
func (storyRepo) StoriesStats(ctx context.Context, db *gorm.DB, f repo.StoryFilter) (repo.FeedStats, error) {
	return repo.StoriesStats(ctx, db, f)
}
func (storyRepo) CountReactionsByStories(ctx context.Context, db *gorm.DB, ids []string) (map[string]int64, error) {
	return repo.CountReactionsByStories(ctx, db, ids)
}
func (storyRepo) TopReactedStories(ctx context.Context, db *gorm.DB, limit int) ([]repo.StoryCount, error) {
	return repo.TopReactedStories(ctx, db, limit)
}

func mustCreateStory(t *testing.T, s *StoryService, userID, title string, tags ...string) *StoryView {
	t.Helper()
	v, err := s.Create(context.Background(), userID, StoryInput{Title: title, Content: "body of " + title, Tags: tags})
	if err != nil {
		t.Fatalf("create story %q: %v", title, err)
	}
	return v
}
