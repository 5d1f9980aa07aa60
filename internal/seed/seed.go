// Package seed loads demo content into an empty SafeVoice database so a
// local install has a feed, a home page and testimonials to look at.
//
// Seeding is idempotent: rows are keyed by fixed ids and existing rows are
// left alone, so running it twice changes nothing.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/safevoice/safevoice-api/internal/domain"
	"github.com/safevoice/safevoice-api/internal/repo"
)

// AuthorID owns every seeded row.
const AuthorID = "seed-safevoice-team"

// Summary counts the rows a Run inserted.
type Summary struct {
	Profiles     int
	Stories      int
	Testimonials int
}

var stories = []domain.Story{
	{
		ID:      "6f0c1f2e-3b7a-4d5e-9a01-5c2b1e7d0a11",
		Title:   "The day I said it out loud",
		Content: "For years I kept it to myself. Writing it here was the first time the words felt real, and the first time they felt lighter.",
		Tags:    []string{"Recovery", "Healing"},
	},
	{
		ID:      "0d5e9b44-8c21-4f3a-b6d7-2a9e4c1f5b22",
		Title:   "Finding people who believed me",
		Content: "A support group changed everything. Nobody asked me to prove anything. They just listened.",
		Tags:    []string{"Support"},
	},
	{
		ID:      "a3b7c9d1-5e2f-4a6b-8c0d-9e1f2a3b4c33",
		Title:   "Small steps",
		Content: "Some days healing is just getting out of bed. That counts too.",
		Tags:    []string{"Healing"},
	},
}

var testimonials = []string{
	"Reading these stories made me feel less alone.",
	"Thank you for giving us a safe place to speak.",
}

// Run inserts the demo profile, stories and testimonials that are missing.
func Run(ctx context.Context, db *gorm.DB) (Summary, error) {
	var sum Summary

	if _, err := repo.GetProfile(ctx, db, AuthorID); errors.Is(err, repo.ErrNotFound) {
		p := &domain.Profile{ID: AuthorID, Username: "SafeVoice Team", Provider: domain.ProviderEmail}
		if err := repo.CreateProfile(ctx, db, p); err != nil {
			return sum, fmt.Errorf("seed profile: %w", err)
		}
		sum.Profiles++
	} else if err != nil {
		return sum, err
	}

	for _, s := range stories {
		_, err := repo.GetStory(ctx, db, s.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return sum, err
		}
		s.AuthorID = AuthorID
		if err := repo.CreateStory(ctx, db, &s); err != nil {
			return sum, fmt.Errorf("seed story %q: %w", s.Title, err)
		}
		sum.Stories++
	}

	existing, err := repo.ListTestimonials(ctx, db, 1)
	if err != nil {
		return sum, err
	}
	if len(existing) == 0 {
		for _, content := range testimonials {
			if _, err := repo.CreateTestimonial(ctx, db, AuthorID, content); err != nil {
				return sum, fmt.Errorf("seed testimonial: %w", err)
			}
			sum.Testimonials++
		}
	}

	log.Ctx(ctx).Info().
		Int("profiles", sum.Profiles).
		Int("stories", sum.Stories).
		Int("testimonials", sum.Testimonials).
		Msg("seed complete")
	return sum, nil
}
