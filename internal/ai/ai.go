// Package ai adapts hosted generative models to the two text operations the
// product needs: grammar correction and story translation.
package ai

import (
	"context"
	"errors"
)

var (
	// ErrBlocked reports that the model refused the prompt or its answer on
	// safety grounds.
	ErrBlocked = errors.New("content blocked due to safety settings")

	// ErrNotConfigured is returned when no API key is available.
	ErrNotConfigured = errors.New("ai: api key not configured")
)

// Generator produces a single text completion for prompt. Implementations
// return ErrBlocked for safety refusals and a wrapped error otherwise.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f(ctx, prompt).
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
