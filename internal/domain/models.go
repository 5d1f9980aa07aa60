// Package domain defines the persistence models for stories, reactions,
// testimonials, profiles, and NGO listing requests. These types are mapped
// with GORM and form the core data layer of the SafeVoice backend.
package domain

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Reaction types accepted on stories.
const (
	ReactionHeart   = "heart"
	ReactionSupport = "support"
)

// ValidReaction reports whether t is a known reaction type.
func ValidReaction(t string) bool {
	return t == ReactionHeart || t == ReactionSupport
}

// Story is an anonymous, user-authored post with optional tags and media.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Title / Content: required free text.
//   - Tags: deduplicated labels, stored as a JSON array.
//   - MediaURLs: ordered public locators of uploaded attachments.
//   - AuthorID: pseudonymous owner identifier; never shown in full.
//   - ReportCount: number of reports, incremented atomically.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//
// Stories are hard-deleted; their reactions go first.
type Story struct {
	ID          string                      `json:"id"           gorm:"type:char(36);primaryKey"`
	Title       string                      `json:"title"        gorm:"type:varchar(255);not null"`
	Content     string                      `json:"content"      gorm:"type:text;not null"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	MediaURLs   datatypes.JSONSlice[string] `json:"media_urls"`
	AuthorID    string                      `json:"author_id"    gorm:"type:varchar(64);not null;index:idx_story_author"`
	ReportCount int                         `json:"report_count" gorm:"not null;default:0"`
	CreatedAt   time.Time                   `json:"created_at"   gorm:"index:idx_story_created"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// TableName returns the database table name for Story.
func (Story) TableName() string { return "stories" }

// AuthorAlias is the public, non-reversible display name of the author.
func (s Story) AuthorAlias() string { return AuthorAlias(s.AuthorID) }

// AuthorAlias renders "Anonymous_" plus the first eight characters of id.
func AuthorAlias(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return "Anonymous_" + id
}

// Reaction is a typed acknowledgment of a story by an identity. A user can
// react at most once per type on a story (enforced by unique index).
//
// Fields:
//   - StoryID: FK to the story (cascade on delete).
//   - UserID: identity that reacted.
//   - Type: "heart" or "support" (enforced by DB constraint).
type Reaction struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	StoryID   string    `json:"story_id"   gorm:"type:char(36);not null;index;uniqueIndex:ux_reaction_story_user_type,priority:1"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);not null;uniqueIndex:ux_reaction_story_user_type,priority:2"`
	Type      string    `json:"type"       gorm:"type:varchar(16);not null;uniqueIndex:ux_reaction_story_user_type,priority:3;check:type IN ('heart','support')"`
	CreatedAt time.Time `json:"created_at"`

	Story Story `json:"-" gorm:"foreignKey:StoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Reaction.
func (Reaction) TableName() string { return "reactions" }

// Testimonial is a free-standing endorsement, unrelated to any story.
type Testimonial struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Content   string    `json:"content"    gorm:"type:text;not null"`
	AuthorID  string    `json:"author_id"  gorm:"type:varchar(64);not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName returns the database table name for Testimonial.
func (Testimonial) TableName() string { return "testimonials" }

// Sign-in providers recorded on profiles.
const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
	ProviderPhone  = "phone"
)

// Profile is the public identity record. ID equals the identity id used
// as author_id/user_id elsewhere. Email and Phone are nullable so phone-only
// and email-only identities can coexist under unique indexes.
type Profile struct {
	ID           string    `json:"id"                 gorm:"type:varchar(64);primaryKey"`
	Email        *string   `json:"email,omitempty"    gorm:"type:varchar(255);uniqueIndex:ux_profile_email"`
	Phone        *string   `json:"phone,omitempty"    gorm:"type:varchar(32);uniqueIndex:ux_profile_phone"`
	Username     string    `json:"username"           gorm:"type:varchar(255);not null"`
	Provider     string    `json:"provider"           gorm:"type:varchar(32);not null;default:'email'"`
	Avatar       string    `json:"avatar,omitempty"   gorm:"type:text"`
	PasswordHash string    `json:"-"                  gorm:"type:varchar(255)"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for Profile.
func (Profile) TableName() string { return "profiles" }

// UsernameFromEmail returns the local part of an email address.
func UsernameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}

// NGORequest is a partnership request submitted by an organization that
// wants to be listed in the directory. Requests start as "pending".
type NGORequest struct {
	ID                 string    `json:"id"                  gorm:"type:char(36);primaryKey"`
	Name               string    `json:"name"                gorm:"type:varchar(255);not null"`
	Description        string    `json:"description"         gorm:"type:text;not null"`
	Contact            string    `json:"contact"             gorm:"type:varchar(255);not null"`
	Email              string    `json:"email"               gorm:"type:varchar(255);not null;index"`
	RegistrationNumber string    `json:"registrationNumber"  gorm:"type:varchar(128);not null"`
	Status             string    `json:"status"              gorm:"type:varchar(16);not null;default:'pending'"`
	CreatedAt          time.Time `json:"created_at"`
}

// TableName returns the database table name for NGORequest.
func (NGORequest) TableName() string { return "ngo_requests" }
