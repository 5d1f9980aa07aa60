package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/safevoice/safevoice-api/internal/domain"
)

// CreateNGORequest stores a listing request in the pending state.
func CreateNGORequest(ctx context.Context, db *gorm.DB, r *domain.NGORequest) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = "pending"
	}
	r.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(r).Error
}

// ListNGORequests returns requests newest first, optionally by status.
func ListNGORequests(ctx context.Context, db *gorm.DB, status string, limit int) ([]domain.NGORequest, error) {
	q := db.WithContext(ctx).Order("created_at desc").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []domain.NGORequest
	err := q.Find(&out).Error
	return out, err
}
