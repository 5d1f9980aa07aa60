package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/safevoice/safevoice-api/internal/config"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash-latest"

// Gemini is a Generator backed by the Gemini API.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini builds a Gemini client from cfg. It returns ErrNotConfigured when
// cfg carries no API key.
func NewGemini(ctx context.Context, cfg config.GeminiConfig) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{client: client, model: model, timeout: cfg.Timeout}, nil
}

// Model returns the configured model name.
func (g *Gemini) Model() string { return g.model }

// Generate sends prompt as a single user turn and returns the trimmed text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	return textOf(resp, err)
}

// textOf converts a GenerateContent result into text, mapping safety
// refusals to ErrBlocked.
func textOf(resp *genai.GenerateContentResponse, err error) (string, error) {
	if err != nil {
		if strings.Contains(strings.ToUpper(err.Error()), "SAFETY") {
			return "", fmt.Errorf("%w: %v", ErrBlocked, err)
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil {
		return "", errors.New("gemini generate: empty response")
	}
	if pf := resp.PromptFeedback; pf != nil && pf.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt %s", ErrBlocked, pf.BlockReason)
	}
	for _, c := range resp.Candidates {
		if c != nil && c.FinishReason == genai.FinishReasonSafety {
			return "", fmt.Errorf("%w: candidate finish reason", ErrBlocked)
		}
	}
	return strings.TrimSpace(resp.Text()), nil
}
