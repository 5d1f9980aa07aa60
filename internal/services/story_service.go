// Package services – StoryService
//
// StoryService owns the lifecycle of anonymous stories: validation and
// normalization of drafts, paginated listings decorated with reaction counts
// and author aliases, the "top stories" selection for the home page, and
// owner-only updates and deletes. Deletion removes the story's reactions and
// the story in one transaction, then cleans up media best-effort.
package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/safevoice/safevoice-api/internal/domain"
	"github.com/safevoice/safevoice-api/internal/observability"
	"github.com/safevoice/safevoice-api/internal/repo"
)

// StoryRepo defines the persistence contract required by StoryService.
type StoryRepo interface {
	CreateStory(ctx context.Context, db *gorm.DB, s *domain.Story) error
	GetStory(ctx context.Context, db *gorm.DB, id string) (*domain.Story, error)
	UpdateStory(ctx context.Context, db *gorm.DB, id, authorID, title, content string, tags, media []string) error
	DeleteStory(ctx context.Context, db *gorm.DB, id, authorID string) error
	DeleteReactionsByStory(ctx context.Context, db *gorm.DB, storyID string) error

	CountStories(ctx context.Context, db *gorm.DB, f repo.StoryFilter) (int64, error)
	ListStoriesPage(ctx context.Context, db *gorm.DB, f repo.StoryFilter, offset, limit int) ([]domain.Story, error)
	ListStoriesByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Story, error)
	ListStoriesExcluding(ctx context.Context, db *gorm.DB, exclude []string, limit int) ([]domain.Story, error)
	ListStoryTags(ctx context.Context, db *gorm.DB) ([][]string, error)
	StoriesStats(ctx context.Context, db *gorm.DB, f repo.StoryFilter) (repo.FeedStats, error)

	CountReactionsByStories(ctx context.Context, db *gorm.DB, storyIDs []string) (map[string]int64, error)
	TopReactedStories(ctx context.Context, db *gorm.DB, limit int) ([]repo.StoryCount, error)
}

// MediaCleaner removes stored media by public URL.
type MediaCleaner interface {
	DeleteURLs(ctx context.Context, urls []string)
}

// StoryView is a story decorated with its derived fields.
type StoryView struct {
	domain.Story
	ReactionsCount int64  `json:"reactions_count"`
	AuthorAlias    string `json:"author_alias"`
}

// StoryInput carries the editable fields of a story.
type StoryInput struct {
	Title     string
	Content   string
	Tags      []string
	MediaURLs []string
}

// StoryService provides story-level operations.
type StoryService struct {
	DB    *gorm.DB
	Repo  StoryRepo
	Media MediaCleaner

	MaxTitleRunes   int
	MaxContentRunes int
}

// NewStoryService constructs a StoryService with default length limits.
func NewStoryService(db *gorm.DB, r StoryRepo, media MediaCleaner) *StoryService {
	return &StoryService{
		DB:              db,
		Repo:            r,
		Media:           media,
		MaxTitleRunes:   200,
		MaxContentRunes: 20000,
	}
}

var tracer = otel.Tracer("services")

// Create validates in and stores a new story authored by userID.
func (s *StoryService) Create(ctx context.Context, userID string, in StoryInput) (*StoryView, error) {
	ctx, span := tracer.Start(ctx, "StoryService.Create", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	in, err := s.normalize(in)
	if err != nil {
		return nil, err
	}
	st := &domain.Story{
		Title:     in.Title,
		Content:   in.Content,
		Tags:      in.Tags,
		MediaURLs: in.MediaURLs,
		AuthorID:  userID,
	}
	if err := s.Repo.CreateStory(ctx, s.DB, st); err != nil {
		return nil, err
	}
	observability.StoriesCreated.Inc()
	return &StoryView{Story: *st, AuthorAlias: st.AuthorAlias()}, nil
}

// Update replaces the editable fields of a story owned by userID.
func (s *StoryService) Update(ctx context.Context, userID, storyID string, in StoryInput) (*StoryView, error) {
	ctx, span := tracer.Start(ctx, "StoryService.Update", trace.WithAttributes(attribute.String("story.id", storyID)))
	defer span.End()

	in, err := s.normalize(in)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateStory(ctx, s.DB, storyID, userID, in.Title, in.Content, in.Tags, in.MediaURLs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	return s.Get(ctx, storyID)
}

// Delete removes a story owned by userID together with its reactions. The
// reactions go first; if that fails nothing is deleted.
func (s *StoryService) Delete(ctx context.Context, userID, storyID string) error {
	ctx, span := tracer.Start(ctx, "StoryService.Delete", trace.WithAttributes(attribute.String("story.id", storyID)))
	defer span.End()

	var media []string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st, err := s.Repo.GetStory(ctx, tx, storyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStoryNotFound
			}
			return err
		}
		if st.AuthorID != userID {
			return ErrStoryNotFound
		}
		if err := s.Repo.DeleteReactionsByStory(ctx, tx, storyID); err != nil {
			return err
		}
		if err := s.Repo.DeleteStory(ctx, tx, storyID, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStoryNotFound
			}
			return err
		}
		media = st.MediaURLs
		return nil
	})
	if err != nil {
		return err
	}
	if s.Media != nil && len(media) > 0 {
		s.Media.DeleteURLs(ctx, media)
	}
	return nil
}

// Get returns one story with its reaction count.
func (s *StoryService) Get(ctx context.Context, storyID string) (*StoryView, error) {
	st, err := s.Repo.GetStory(ctx, s.DB, storyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	views, err := s.decorate(ctx, []domain.Story{*st})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListPage returns a page of stories matching f, newest first, and the total.
func (s *StoryService) ListPage(ctx context.Context, f repo.StoryFilter, page, pageSize int) ([]StoryView, int64, error) {
	ctx, span := tracer.Start(ctx, "StoryService.ListPage",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
			attribute.StringSlice("tags", f.Tags),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountStories(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []StoryView{}, 0, nil
	}
	items, err := s.Repo.ListStoriesPage(ctx, s.DB, f, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.decorate(ctx, items)
	return views, total, err
}

// Stats summarizes stories matching f for conditional responses.
func (s *StoryService) Stats(ctx context.Context, f repo.StoryFilter) (repo.FeedStats, error) {
	return s.Repo.StoriesStats(ctx, s.DB, f)
}

// Tags returns the distinct tags used by any story, sorted.
func (s *StoryService) Tags(ctx context.Context) ([]string, error) {
	lists, err := s.Repo.ListStoryTags(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := []string{}
	for _, l := range lists {
		for _, t := range l {
			if _, ok := seen[t]; ok || t == "" {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Top returns up to limit stories ordered by reaction count. When fewer
// stories have reactions, the newest remaining stories fill the list.
func (s *StoryService) Top(ctx context.Context, limit int) ([]StoryView, error) {
	ctx, span := tracer.Start(ctx, "StoryService.Top", trace.WithAttributes(attribute.Int("limit", limit)))
	defer span.End()

	if limit <= 0 {
		limit = 3
	}
	ranked, err := s.Repo.TopReactedStories(ctx, s.DB, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.StoryID
	}
	found, err := s.Repo.ListStoriesByIDs(ctx, s.DB, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Story, len(found))
	for _, st := range found {
		byID[st.ID] = st
	}
	out := make([]domain.Story, 0, limit)
	for _, id := range ids {
		if st, ok := byID[id]; ok {
			out = append(out, st)
		}
	}
	if len(out) < limit {
		fill, err := s.Repo.ListStoriesExcluding(ctx, s.DB, ids, limit-len(out))
		if err != nil {
			return nil, err
		}
		out = append(out, fill...)
	}
	return s.decorate(ctx, out)
}

// decorate attaches reaction counts and author aliases.
func (s *StoryService) decorate(ctx context.Context, items []domain.Story) ([]StoryView, error) {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	counts, err := s.Repo.CountReactionsByStories(ctx, s.DB, ids)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("reaction counts unavailable")
		counts = map[string]int64{}
	}
	out := make([]StoryView, len(items))
	for i, st := range items {
		out[i] = StoryView{
			Story:          st,
			ReactionsCount: counts[st.ID],
			AuthorAlias:    st.AuthorAlias(),
		}
	}
	return out, nil
}

// normalize trims and validates a draft and deduplicates its tags.
func (s *StoryService) normalize(in StoryInput) (StoryInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.Title == "" {
		return in, ErrEmptyTitle
	}
	if in.Content == "" {
		return in, ErrEmptyContent
	}
	if s.MaxTitleRunes > 0 && utf8.RuneCountInString(in.Title) > s.MaxTitleRunes {
		return in, ErrTooLong
	}
	if s.MaxContentRunes > 0 && utf8.RuneCountInString(in.Content) > s.MaxContentRunes {
		return in, ErrTooLong
	}
	in.Tags = NormalizeTags(in.Tags)
	media := make([]string, 0, len(in.MediaURLs))
	for _, u := range in.MediaURLs {
		if u = strings.TrimSpace(u); u != "" {
			media = append(media, u)
		}
	}
	in.MediaURLs = media
	return in, nil
}

// NormalizeTags trims tags, drops empties and removes duplicates, keeping
// first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
