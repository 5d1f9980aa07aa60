// Package services – MediaService
//
// MediaService validates and stores story media in the configured object
// store. The content type is sniffed from the first bytes of the upload
// rather than trusted from the client. Objects live under the uploader's
// id so ownership can be checked from the key alone.
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/safevoice/safevoice-api/internal/api"
	"github.com/safevoice/safevoice-api/internal/observability"
	"github.com/safevoice/safevoice-api/internal/storage"
)

const sniffLen = 3072

// MediaService uploads and deletes story media.
type MediaService struct {
	Store    storage.Store
	MaxBytes int64
	Now      func() time.Time
}

// NewMediaService returns a MediaService with the default 50 MiB cap.
func NewMediaService(store storage.Store, maxBytes int64) *MediaService {
	if maxBytes <= 0 {
		maxBytes = api.MaxUploadBytes
	}
	return &MediaService{Store: store, MaxBytes: maxBytes, Now: time.Now}
}

// Upload stores r (size bytes, named filename) for userID.
//
// Errors: ErrFileTooLarge when size exceeds MaxBytes, ErrUnsupportedMedia
// when the sniffed type is not image, video or audio.
func (s *MediaService) Upload(ctx context.Context, userID, filename string, r io.Reader, size int64) (*api.Media, error) {
	ctx, span := tracer.Start(ctx, "MediaService.Upload",
		trace.WithAttributes(attribute.Int64("media.size", size)))
	defer span.End()

	if size > s.MaxBytes {
		observability.MediaUploads.WithLabelValues("too_large").Inc()
		return nil, ErrFileTooLarge
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	mt := mimetype.Detect(head)
	if !api.IsMediaType(mt.String()) {
		observability.MediaUploads.WithLabelValues("unsupported").Inc()
		return nil, ErrUnsupportedMedia
	}
	ct := mt.String()
	span.SetAttributes(attribute.String("media.type", ct))

	key := s.objectKey(userID, filename)
	url, err := s.Store.Put(ctx, key, io.MultiReader(bytes.NewReader(head), r), size, ct)
	if err != nil {
		observability.MediaUploads.WithLabelValues(observability.OutcomeError).Inc()
		return nil, err
	}
	observability.MediaUploads.WithLabelValues(observability.OutcomeOK).Inc()
	return &api.Media{Key: key, URL: url, ContentType: ct, Size: size}, nil
}

// Delete removes key if it sits under userID's prefix.
func (s *MediaService) Delete(ctx context.Context, userID, key string) error {
	if !strings.HasPrefix(key, userID+"/") {
		return ErrForbiddenMediaKey
	}
	return s.Store.Delete(ctx, key)
}

// DeleteURLs removes the objects behind urls, logging failures. URLs that
// do not belong to the store are skipped.
func (s *MediaService) DeleteURLs(ctx context.Context, urls []string) {
	for _, u := range urls {
		key := storage.KeyFromURL(s.Store, u)
		if key == "" {
			continue
		}
		if err := s.Store.Delete(ctx, key); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("media cleanup failed")
		}
	}
}

// objectKey builds "<user>/<unix millis>_<sanitized name>".
func (s *MediaService) objectKey(userID, filename string) string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return fmt.Sprintf("%s/%d_%s", userID, now().UnixMilli(), SanitizeFilename(filename))
}

var unsafeNameRE = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with "_". Empty results become "file".
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeNameRE.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return name
}
