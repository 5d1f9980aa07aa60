// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/safevoice/safevoice-api/internal/domain"
)

// FeedStats summarizes the story feed for ETag purposes. Reactions is part
// of the tag because reacting changes reaction counts without touching
// stories.updated_at.
type FeedStats struct {
	Stories      int64
	Reactions    int64
	MaxUpdatedAt *time.Time
}

// StoriesStats returns the number of stories matching f, the total number of
// reactions, and the greatest story UpdatedAt (nil when there are no stories).
func StoriesStats(ctx context.Context, db *gorm.DB, f StoryFilter) (FeedStats, error) {
	var st FeedStats
	q := applyStoryFilter(db.WithContext(ctx).Model(&domain.Story{}), f)

	if err := q.Count(&st.Stories).Error; err != nil {
		return FeedStats{}, err
	}
	n, err := CountReactions(ctx, db)
	if err != nil {
		return FeedStats{}, err
	}
	st.Reactions = n
	if st.Stories == 0 {
		return st, nil
	}

	// Latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	q = applyStoryFilter(db.WithContext(ctx).Model(&domain.Story{}), f)
	if err := q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return FeedStats{}, err
	}
	st.MaxUpdatedAt = &row.UpdatedAt
	return st, nil
}
