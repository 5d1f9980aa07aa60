// Package services – TextService
//
// TextService implements grammar correction and story translation on top of
// an ai.Generator. Blank input is rejected before any model call; an empty
// model answer falls back to the original text. Translation of the title and
// the body runs concurrently.
package services

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/safevoice/safevoice-api/internal/ai"
	"github.com/safevoice/safevoice-api/internal/observability"
)

// Translation is the result of Translate. Title is nil when no title was given.
type Translation struct {
	Title   *string
	Content string
}

// TextService wraps a Generator with the product's text rules.
type TextService struct {
	Gen ai.Generator // nil when no API key is configured
}

// Configured reports whether a generator is available.
func (s *TextService) Configured() bool { return s != nil && s.Gen != nil }

// CorrectGrammar returns a corrected version of content.
func (s *TextService) CorrectGrammar(ctx context.Context, content string) (string, error) {
	if !s.Configured() {
		return "", ErrAINotConfigured
	}
	if strings.TrimSpace(content) == "" {
		return "", ErrMissingText
	}
	ctx, span := tracer.Start(ctx, "TextService.CorrectGrammar",
		trace.WithAttributes(attribute.Int("text.len", len(content))))
	defer span.End()

	out, err := s.generate(ctx, "grammar", ai.GrammarPrompt(content), content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grammar failed")
		return "", err
	}
	return out, nil
}

// Translate translates content, and title when non-empty, into targetLang.
func (s *TextService) Translate(ctx context.Context, title, content, targetLang string) (*Translation, error) {
	if !s.Configured() {
		return nil, ErrAINotConfigured
	}
	targetLang = strings.TrimSpace(targetLang)
	if strings.TrimSpace(content) == "" || targetLang == "" {
		return nil, ErrMissingTranslateInput
	}
	ctx, span := tracer.Start(ctx, "TextService.Translate",
		trace.WithAttributes(attribute.String("lang", targetLang), attribute.Bool("has_title", title != "")))
	defer span.End()

	lang := ai.LanguageName(targetLang)
	res := &Translation{}

	g, gctx := errgroup.WithContext(ctx)
	if title != "" {
		g.Go(func() error {
			t, err := s.generate(gctx, "translate", ai.TranslateTitlePrompt(title, lang), title)
			if err != nil {
				return err
			}
			res.Title = &t
			return nil
		})
	}
	g.Go(func() error {
		c, err := s.generate(gctx, "translate", ai.TranslateContentPrompt(content, lang), content)
		if err != nil {
			return err
		}
		res.Content = c
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "translate failed")
		return nil, err
	}
	return res, nil
}

// generate calls the model, counts the outcome and applies the fallback.
func (s *TextService) generate(ctx context.Context, op, prompt, fallback string) (string, error) {
	out, err := s.Gen.Generate(ctx, prompt)
	switch {
	case errors.Is(err, ai.ErrBlocked):
		observability.AICalls.WithLabelValues(op, observability.OutcomeBlocked).Inc()
		return "", err
	case err != nil:
		observability.AICalls.WithLabelValues(op, observability.OutcomeError).Inc()
		return "", err
	}
	observability.AICalls.WithLabelValues(op, observability.OutcomeOK).Inc()
	if out = strings.TrimSpace(out); out == "" {
		return fallback, nil
	}
	return out, nil
}
