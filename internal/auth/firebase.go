package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/safevoice/safevoice-api/internal/config"
	"github.com/safevoice/safevoice-api/internal/domain"
)

// ErrIdentityRejected is returned when an identity token fails verification.
var ErrIdentityRejected = errors.New("identity token rejected")

// Identity is what a verified third-party token says about its holder.
type Identity struct {
	UID      string
	Email    string
	Phone    string
	Name     string
	Picture  string
	Provider string
}

// IdentityVerifier verifies an ID token from a sign-in provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// Firebase verifies Firebase Authentication ID tokens (Google and phone sign-in).
type Firebase struct {
	client idTokenVerifier
}

// NewFirebase initializes the Firebase Admin SDK from a service-account file.
func NewFirebase(ctx context.Context, cfg config.FirebaseConfig) (*Firebase, error) {
	var fc *firebase.Config
	if cfg.ProjectID != "" {
		fc = &firebase.Config{ProjectID: cfg.ProjectID}
	}
	app, err := firebase.NewApp(ctx, fc, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &Firebase{client: client}, nil
}

// Verify checks idToken and extracts the profile claims.
func (f *Firebase) Verify(ctx context.Context, idToken string) (*Identity, error) {
	tok, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityRejected, err)
	}
	return identityFromToken(tok), nil
}

func identityFromToken(tok *fbauth.Token) *Identity {
	id := &Identity{
		UID:      tok.UID,
		Provider: providerName(tok.Firebase.SignInProvider),
	}
	id.Email = claimString(tok.Claims, "email")
	id.Phone = claimString(tok.Claims, "phone_number")
	id.Name = claimString(tok.Claims, "name")
	id.Picture = claimString(tok.Claims, "picture")
	return id
}

func providerName(signIn string) string {
	switch signIn {
	case "google.com":
		return domain.ProviderGoogle
	case "phone":
		return domain.ProviderPhone
	case "password", "":
		return domain.ProviderEmail
	default:
		return signIn
	}
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
