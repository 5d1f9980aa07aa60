// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Reaction
// model and per-story reaction aggregates.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/safevoice/safevoice-api/internal/domain"
)

// StoryCount pairs a story id with its reaction count.
type StoryCount struct {
	StoryID string
	N       int64
}

// CreateReaction inserts a reaction. A repeated (story, user, type) triple
// yields ErrDuplicate.
func CreateReaction(ctx context.Context, db *gorm.DB, storyID, userID, typ string) (*domain.Reaction, error) {
	r := &domain.Reaction{
		ID:        uuid.NewString(),
		StoryID:   storyID,
		UserID:    userID,
		Type:      typ,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return r, nil
}

// DeleteReactionsByStory removes every reaction attached to storyID.
func DeleteReactionsByStory(ctx context.Context, db *gorm.DB, storyID string) error {
	return db.WithContext(ctx).
		Where("story_id = ?", storyID).
		Delete(&domain.Reaction{}).Error
}

// CountReactionsByStories returns story_id -> count for the given stories.
// Stories without reactions are absent from the map.
func CountReactionsByStories(ctx context.Context, db *gorm.DB, storyIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(storyIDs))
	if len(storyIDs) == 0 {
		return out, nil
	}
	var rows []StoryCount
	err := db.WithContext(ctx).
		Model(&domain.Reaction{}).
		Select("story_id, COUNT(*) AS n").
		Where("story_id IN ?", storyIDs).
		Group("story_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.StoryID] = r.N
	}
	return out, nil
}

// TopReactedStories returns up to limit (story_id, count) pairs ordered by
// count descending.
func TopReactedStories(ctx context.Context, db *gorm.DB, limit int) ([]StoryCount, error) {
	var rows []StoryCount
	err := db.WithContext(ctx).
		Model(&domain.Reaction{}).
		Select("story_id, COUNT(*) AS n").
		Group("story_id").
		Order("n desc").
		Order("story_id").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// CountReactions returns the total number of reactions.
func CountReactions(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Reaction{}).Count(&n).Error
	return n, err
}
