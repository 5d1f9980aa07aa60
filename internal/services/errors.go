// Package services defines the business logic for stories, reactions,
// testimonials, identities, media, NGOs and the AI text operations.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// Story-related errors.
var (
	// ErrStoryNotFound indicates that the story does not exist or, for
	// mutating calls, is not owned by the caller.
	ErrStoryNotFound = errors.New("story not found")

	// ErrEmptyTitle is returned when a story title is blank after trimming.
	ErrEmptyTitle = errors.New("title is empty")

	// ErrEmptyContent is returned when story or testimonial content is blank.
	ErrEmptyContent = errors.New("content is empty")

	// ErrTooLong is returned when a title or body exceeds its rune limit.
	ErrTooLong = errors.New("text too long")
)

// Reaction-related errors.
var (
	// ErrInvalidReaction is returned for a type other than heart or support.
	ErrInvalidReaction = errors.New("reaction type must be heart or support")

	// ErrAlreadyReacted is returned when the (story, user, type) triple exists.
	ErrAlreadyReacted = errors.New("already reacted")
)

// Identity-related errors.
var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrEmailTaken         = errors.New("user already registered")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrProfileNotFound    = errors.New("profile not found")

	// ErrSocialUnavailable is returned when no identity verifier is configured.
	ErrSocialUnavailable = errors.New("social sign-in is not configured")
)

// Media-related errors.
var (
	ErrFileTooLarge      = errors.New("file too large")
	ErrUnsupportedMedia  = errors.New("only image, video and audio files are allowed")
	ErrForbiddenMediaKey = errors.New("media object belongs to another user")
)

// NGO and AI errors.
var (
	// ErrMissingFields is returned when an NGO listing request has a blank field.
	ErrMissingFields = errors.New("missing required fields in request")

	// ErrAINotConfigured is returned when no text generator is available.
	ErrAINotConfigured = errors.New("API key not configured on server")

	// ErrMissingText is returned when grammar correction gets blank content.
	ErrMissingText = errors.New("missing or invalid content")

	// ErrMissingTranslateInput is returned when content or target language is blank.
	ErrMissingTranslateInput = errors.New("missing or invalid content or targetLang")
)
