// Package services – AuthService
//
// AuthService implements e-mail/password sign-up and sign-in, social and
// phone sign-in through a third-party identity verifier, and session lookup.
// Sessions are stateless signed tokens; signing out is a client concern.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/safevoice/safevoice-api/internal/auth"
	"github.com/safevoice/safevoice-api/internal/domain"
	"github.com/safevoice/safevoice-api/internal/repo"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID, provider string) (string, time.Time, error)
}

// Session is the result of a successful sign-in.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Profile   *domain.Profile
}

// AuthService implements identity use-cases.
type AuthService struct {
	DB       *gorm.DB
	Tokens   TokenIssuer
	Verifier auth.IdentityVerifier // nil disables social sign-in
}

// SignUp registers an e-mail identity and creates its profile.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.Validate(email, validation.Required, is.EmailFormat); err != nil {
		return nil, ErrInvalidEmail
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	p := &domain.Profile{
		ID:           uuid.NewString(),
		Email:        &email,
		Username:     domain.UsernameFromEmail(email),
		Provider:     domain.ProviderEmail,
		PasswordHash: hash,
	}
	if err := repo.CreateProfile(ctx, s.DB, p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return s.session(p)
}

// SignIn checks e-mail and password. Unknown e-mails and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	p, err := repo.GetProfileByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if p.PasswordHash == "" || auth.CheckPassword(p.PasswordHash, password) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.session(p)
}

// SignInSocial verifies idToken and upserts the matching profile.
func (s *AuthService) SignInSocial(ctx context.Context, idToken string) (*Session, error) {
	if s.Verifier == nil {
		return nil, ErrSocialUnavailable
	}
	id, err := s.Verifier.Verify(ctx, strings.TrimSpace(idToken))
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Msg("identity token rejected")
		return nil, ErrInvalidCredentials
	}
	p := &domain.Profile{
		ID:       id.UID,
		Username: socialUsername(id),
		Provider: id.Provider,
		Avatar:   id.Picture,
	}
	if id.Email != "" {
		e := strings.ToLower(id.Email)
		p.Email = &e
	}
	if id.Phone != "" {
		ph := id.Phone
		p.Phone = &ph
	}
	if err := repo.UpsertProfile(ctx, s.DB, p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return s.session(p)
}

// Me returns the profile of userID.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := repo.GetProfile(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *AuthService) session(p *domain.Profile) (*Session, error) {
	tok, exp, err := s.Tokens.Issue(p.ID, p.Provider)
	if err != nil {
		return nil, err
	}
	return &Session{Token: tok, ExpiresAt: exp, Profile: p}, nil
}

// socialUsername prefers the display name, then the e-mail local part.
func socialUsername(id *auth.Identity) string {
	if n := strings.TrimSpace(id.Name); n != "" {
		return n
	}
	if id.Email != "" {
		return domain.UsernameFromEmail(id.Email)
	}
	return domain.AuthorAlias(id.UID)
}
