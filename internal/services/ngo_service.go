package services

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"github.com/safevoice/safevoice-api/internal/domain"
)

// NGORequestStore persists listing requests.
type NGORequestStore interface {
	CreateNGORequest(ctx context.Context, r *domain.NGORequest) error
}

// NGOService serves the approved directory and accepts listing requests.
type NGOService struct {
	Store NGORequestStore
}

// Approved returns a copy of the approved NGO list.
func (s *NGOService) Approved(ctx context.Context) ([]domain.NGO, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.NGO, len(domain.ApprovedNGOs))
	copy(out, domain.ApprovedNGOs)
	return out, nil
}

// Submit validates that every field is present and stores the request.
func (s *NGOService) Submit(ctx context.Context, r domain.NGORequest) (*domain.NGORequest, error) {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Contact = strings.TrimSpace(r.Contact)
	r.Email = strings.TrimSpace(r.Email)
	r.RegistrationNumber = strings.TrimSpace(r.RegistrationNumber)

	err := validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.Contact, validation.Required),
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.RegistrationNumber, validation.Required),
	)
	if err != nil {
		return nil, ErrMissingFields
	}
	r.ID = ""
	r.Status = ""
	if err := s.Store.CreateNGORequest(ctx, &r); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Str("ngo_request_id", r.ID).Str("name", r.Name).Msg("ngo listing request received")
	return &r, nil
}
