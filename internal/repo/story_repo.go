// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Story model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no business logic, only CRUD persistence and query composition.
//
// Error semantics:
//   - When a story is not found (or not owned by the caller for mutating
//     calls), functions return gorm.ErrRecordNotFound (ErrNotFound).
//   - On DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/safevoice/safevoice-api/internal/domain"
)

// StoryFilter narrows story listings. Tags match with OR semantics: a story
// qualifies when it carries at least one of them. Empty fields do not filter.
type StoryFilter struct {
	Tags     []string
	AuthorID string
}

// CreateStory inserts a new story with a UUID id and UTC timestamps.
func CreateStory(ctx context.Context, db *gorm.DB, s *domain.Story) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if s.MediaURLs == nil {
		s.MediaURLs = []string{}
	}
	return db.WithContext(ctx).Create(s).Error
}

// GetStory fetches a single story by id.
func GetStory(ctx context.Context, db *gorm.DB, id string) (*domain.Story, error) {
	var s domain.Story
	if err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateStory replaces the editable fields of a story owned by authorID.
// Returns ErrNotFound when no row matched.
func UpdateStory(ctx context.Context, db *gorm.DB, id, authorID string, title, content string, tags, media []string) error {
	if tags == nil {
		tags = []string{}
	}
	if media == nil {
		media = []string{}
	}
	res := db.WithContext(ctx).
		Model(&domain.Story{}).
		Where("id = ? AND author_id = ?", id, authorID).
		Updates(map[string]any{
			"title":      title,
			"content":    content,
			"tags":       jsonList(tags),
			"media_urls": jsonList(media),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteStory removes a story owned by authorID. Reactions must already be
// gone; see DeleteReactionsByStory.
func DeleteStory(ctx context.Context, db *gorm.DB, id, authorID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, authorID).
		Delete(&domain.Story{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountStories returns how many stories match f.
func CountStories(ctx context.Context, db *gorm.DB, f StoryFilter) (int64, error) {
	var total int64
	err := applyStoryFilter(db.WithContext(ctx).Model(&domain.Story{}), f).
		Count(&total).Error
	return total, err
}

// ListStoriesPage returns a page of stories matching f, newest first.
func ListStoriesPage(ctx context.Context, db *gorm.DB, f StoryFilter, offset, limit int) ([]domain.Story, error) {
	var out []domain.Story
	err := applyStoryFilter(db.WithContext(ctx).Model(&domain.Story{}), f).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListStoriesByIDs fetches the given stories in no particular order.
func ListStoriesByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Story, error) {
	if len(ids) == 0 {
		return []domain.Story{}, nil
	}
	var out []domain.Story
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// ListStoriesExcluding returns the newest stories whose ids are not in exclude.
func ListStoriesExcluding(ctx context.Context, db *gorm.DB, exclude []string, limit int) ([]domain.Story, error) {
	q := db.WithContext(ctx).Order("created_at desc").Limit(limit)
	if len(exclude) > 0 {
		q = q.Where("id NOT IN ?", exclude)
	}
	var out []domain.Story
	err := q.Find(&out).Error
	return out, err
}

// ListStoryTags returns the tag lists of every story (duplicates included).
func ListStoryTags(ctx context.Context, db *gorm.DB) ([][]string, error) {
	var rows []domain.Story
	if err := db.WithContext(ctx).Model(&domain.Story{}).Select("id", "tags").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Tags)
	}
	return out, nil
}

// IncrementReportCount atomically bumps report_count by one.
func IncrementReportCount(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.Story{}).
		Where("id = ?", id).
		UpdateColumn("report_count", gorm.Expr("report_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// applyStoryFilter adds author and tag predicates. The tag predicate is
// dialect specific because tags live in a JSON column.
func applyStoryFilter(q *gorm.DB, f StoryFilter) *gorm.DB {
	if f.AuthorID != "" {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	tags := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return q
	}
	if q.Dialector.Name() == "postgres" {
		parts := make([]string, len(tags))
		args := make([]any, len(tags))
		for i, t := range tags {
			parts[i] = "jsonb_exists(tags::jsonb, ?)"
			args[i] = t
		}
		return q.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
	return q.Where("EXISTS (SELECT 1 FROM json_each(stories.tags) WHERE json_each.value IN ?)", tags)
}

// jsonList wraps a string slice so map-based updates encode it as JSON.
func jsonList(v []string) datatypes.JSONSlice[string] {
	return datatypes.JSONSlice[string](v)
}
