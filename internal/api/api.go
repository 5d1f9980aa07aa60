// Package api holds the JSON shapes exchanged between the HTTP service and
// its Go client, plus the upload limits both sides enforce.
package api

import (
	"strings"
	"time"
)

// Upload limits shared by the media endpoint and the authoring controller.
const (
	MaxUploadBytes   int64 = 50 << 20
	MaxFilesPerStory       = 10
)

// IsMediaType reports whether contentType is an image, video or audio type.
// Parameters such as "; charset=" are ignored.
func IsMediaType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/") || strings.HasPrefix(ct, "audio/")
}

// ErrorResponse is the error envelope of the versioned API.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// Profile is the public view of an identity.
type Profile struct {
	ID       string  `json:"id"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Username string  `json:"username"`
	Provider string  `json:"provider"`
	Avatar   string  `json:"avatar,omitempty"`
}

// Credentials is the sign-up/sign-in payload.
type Credentials struct {
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"s3cretpass1"`
}

// SocialSignIn carries an ID token from Google or phone sign-in.
type SocialSignIn struct {
	IDToken string `json:"id_token"`
}

// SessionResponse is returned by every successful sign-in.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      Profile   `json:"user"`
}

// Story is a story as shown to readers. The author's identity is reduced to
// an alias; Mine is set when the caller wrote it.
type Story struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Tags           []string  `json:"tags"`
	MediaURLs      []string  `json:"media_urls"`
	AuthorAlias    string    `json:"author_alias"`
	ReactionsCount int64     `json:"reactions_count"`
	Mine           bool      `json:"mine,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StoryRequest is the create/update payload.
type StoryRequest struct {
	Title     string   `json:"title" example:"I found my voice"`
	Content   string   `json:"content" example:"It took years, but..."`
	Tags      []string `json:"tags" example:"Survivor,Healing"`
	MediaURLs []string `json:"media_urls"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// StoryPage wraps a page of stories.
type StoryPage struct {
	Stories    []Story    `json:"stories"`
	Pagination Pagination `json:"pagination"`
}

// ReactionRequest selects the reaction type.
type ReactionRequest struct {
	Type string `json:"type" example:"heart"`
}

// Reaction echoes a recorded reaction.
type Reaction struct {
	ID      string `json:"id"`
	StoryID string `json:"story_id"`
	Type    string `json:"type"`
}

// Media describes an uploaded object.
type Media struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Testimonial is a short public note of support.
type Testimonial struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TestimonialRequest is the create payload.
type TestimonialRequest struct {
	Content string `json:"content"`
}

// Home is the landing page payload.
type Home struct {
	Slogan     string   `json:"slogan"`
	Slogans    []string `json:"slogans"`
	TopStories []Story  `json:"top_stories"`
}

// NGO is an approved organization.
type NGO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NGORequest asks for an organization to be listed.
type NGORequest struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	Contact            string `json:"contact"`
	Email              string `json:"email"`
	RegistrationNumber string `json:"registrationNumber"`
}

// MessageResponse is the {"message": ...} body of the NGO request endpoint.
type MessageResponse struct {
	Message string `json:"message"`
}

// FunctionError is the {"error": ...} body of the stateless endpoints.
type FunctionError struct {
	Error string `json:"error"`
}

// GrammarRequest is the grammar correction payload.
type GrammarRequest struct {
	Content string `json:"content"`
}

// GrammarResponse carries the corrected text.
type GrammarResponse struct {
	CorrectedContent string `json:"correctedContent"`
}

// TranslateRequest is the translation payload; Title is optional.
type TranslateRequest struct {
	Title      string `json:"title,omitempty"`
	Content    string `json:"content"`
	TargetLang string `json:"targetLang"`
}

// TranslateResponse omits TranslatedTitle when no title was sent.
type TranslateResponse struct {
	TranslatedTitle   *string `json:"translatedTitle,omitempty"`
	TranslatedContent string  `json:"translatedContent"`
}
