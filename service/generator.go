package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// ErrGenerationFailed indicates the generative backend returned no usable content.
var ErrGenerationFailed = errors.New("failed to generate content")

// GeminiGenerator produces text with a Gemini model. Decoding is
// deterministic (temperature 0, no sampling) so a fixed prompt against a
// fixed model version yields the same response, which the tests rely on.
//
// A nil client is a valid state: the backend failed to initialize (missing
// API key, network) and every generation-dependent operation must degrade to
// a stub result instead of crashing. Available reports that state.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiGenerator creates a generator over the given client, which may be
// nil when Gemini initialization failed at startup.
func NewGeminiGenerator(client *genai.Client, model string, logger *zap.Logger) *GeminiGenerator {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiGenerator{client: client, model: model, logger: logger}
}

// Available reports whether the generative backend is loaded.
func (g *GeminiGenerator) Available() bool {
	return g.client != nil
}

// Generate runs deterministic decoding on the prompt, capped at maxNewTokens
// output tokens.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error) {
	if g.client == nil {
		return "", errors.New("generative model not loaded")
	}

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0)
	if maxNewTokens > 0 {
		model.SetMaxOutputTokens(int32(maxNewTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", ErrGenerationFailed
	}

	var out strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.FinishReason != genai.FinishReasonStop && candidate.FinishReason != genai.FinishReasonUnspecified {
			g.logger.Warn("candidate finished abnormally",
				zap.String("finish_reason", candidate.FinishReason.String()))
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out.WriteString(string(text))
			}
		}
	}

	if out.Len() == 0 {
		return "", ErrGenerationFailed
	}
	return out.String(), nil
}
