package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/safevoice/safevoice-api/internal/domain"
)

// CreateTestimonial inserts a testimonial authored by authorID.
func CreateTestimonial(ctx context.Context, db *gorm.DB, authorID, content string) (*domain.Testimonial, error) {
	t := &domain.Testimonial{
		ID:        uuid.NewString(),
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// ListTestimonials returns the newest testimonials, at most limit.
func ListTestimonials(ctx context.Context, db *gorm.DB, limit int) ([]domain.Testimonial, error) {
	var out []domain.Testimonial
	err := db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}
