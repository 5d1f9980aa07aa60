package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/safevoice/safevoice-api/internal/domain"
	"github.com/safevoice/safevoice-api/internal/repo"
)

// TestimonialService lists and records short testimonials.
type TestimonialService struct {
	DB       *gorm.DB
	MaxRunes int
}

// List returns the newest testimonials, at most limit (default 20, cap 100).
func (s *TestimonialService) List(ctx context.Context, limit int) ([]domain.Testimonial, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return repo.ListTestimonials(ctx, s.DB, limit)
}

// Create stores a testimonial; content must be non-blank.
func (s *TestimonialService) Create(ctx context.Context, userID, content string) (*domain.Testimonial, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if s.MaxRunes > 0 && utf8.RuneCountInString(content) > s.MaxRunes {
		return nil, ErrTooLong
	}
	return repo.CreateTestimonial(ctx, s.DB, userID, content)
}
