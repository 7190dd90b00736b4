package analysis

import (
	"context"
	"errors"
	"fmt"

	"adgen/internal/domain"
	"adgen/internal/genjson"
	"adgen/internal/media"
	"adgen/internal/providers/gemini"
)

// GeminiAnalyzer sends the encoded image to the Gemini completion endpoint.
type GeminiAnalyzer struct {
	client *gemini.Client
}

func NewGeminiAnalyzer(client *gemini.Client) (*GeminiAnalyzer, error) {
	if client == nil {
		return nil, errors.New("analysis: gemini client is required")
	}
	return &GeminiAnalyzer{client: client}, nil
}

func (g *GeminiAnalyzer) Analyze(ctx context.Context, img *media.EncodedImage) (*domain.ImageAnalysis, error) {
	if img == nil {
		return nil, domain.ErrUnreadableImage
	}
	text, err := g.client.Complete(ctx, gemini.CompletionRequest{
		Instruction: analysisInstruction,
		Image:       &gemini.InlineData{MIMEType: img.MIME, Data: img.Base64},
		WantJSON:    true,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze image: %w", err)
	}
	payload, err := genjson.Decode[analysisPayload](text)
	if err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return payload.toDomain(text), nil
}

var _ Analyzer = (*GeminiAnalyzer)(nil)
