// Package services – ReactionService
//
// ReactionService records heart/support reactions and inappropriate-content
// reports. A user may react at most once per type per story; reports only
// bump a counter and are never attributed.
package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/safevoice/safevoice-api/internal/domain"
	"github.com/safevoice/safevoice-api/internal/observability"
	"github.com/safevoice/safevoice-api/internal/repo"
)

// ReactionService implements reactions and reports.
type ReactionService struct {
	DB *gorm.DB
}

// React records a reaction of typ by userID on storyID.
//
// Errors: ErrInvalidReaction for unknown types, ErrStoryNotFound for a missing
// story, ErrAlreadyReacted when the same user already left this type.
func (s *ReactionService) React(ctx context.Context, userID, storyID, typ string) (*domain.Reaction, error) {
	ctx, span := tracer.Start(ctx, "ReactionService.React",
		trace.WithAttributes(attribute.String("story.id", storyID), attribute.String("reaction.type", typ)))
	defer span.End()

	if !domain.ValidReaction(typ) {
		return nil, ErrInvalidReaction
	}
	if _, err := repo.GetStory(ctx, s.DB, storyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	r, err := repo.CreateReaction(ctx, s.DB, storyID, userID, typ)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrAlreadyReacted
		}
		return nil, err
	}
	observability.Reactions.WithLabelValues(typ).Inc()
	return r, nil
}

// Report increments the story's report counter.
func (s *ReactionService) Report(ctx context.Context, userID, storyID string) error {
	ctx, span := tracer.Start(ctx, "ReactionService.Report", trace.WithAttributes(attribute.String("story.id", storyID)))
	defer span.End()

	if err := repo.IncrementReportCount(ctx, s.DB, storyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoryNotFound
		}
		return err
	}
	observability.Reports.Inc()
	log.Ctx(ctx).Info().Str("story_id", storyID).Str("reporter_id", userID).Msg("story reported")
	return nil
}
