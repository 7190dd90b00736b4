// Package image generates restyled product images, one per variation
// prompt.
package image

import (
	"context"
	"fmt"

	"adgen/internal/domain"
	"adgen/internal/media"
	"adgen/internal/providers/gemini"
)

// Generated is one produced image prior to persistence.
type Generated struct {
	StyleName   string
	Description string
	PromptUsed  string
	Data        []byte
	MIME        string
}

// VariationGenerator produces one image per prompt. Implementations must
// treat each prompt independently so one failure cannot poison siblings.
type VariationGenerator interface {
	Generate(ctx context.Context, prompt domain.VariationPrompt, original *media.EncodedImage) (*Generated, error)
}

// GeminiVariationGenerator streams generation from the Gemini image model
// and keeps the first inline-image chunk per prompt.
type GeminiVariationGenerator struct {
	client *gemini.Client
}

func NewGeminiVariationGenerator(client *gemini.Client) (*GeminiVariationGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("image: gemini client is required")
	}
	return &GeminiVariationGenerator{client: client}, nil
}

func (g *GeminiVariationGenerator) Generate(ctx context.Context, prompt domain.VariationPrompt, original *media.EncodedImage) (*Generated, error) {
	var inline *gemini.InlineData
	if original != nil {
		inline = &gemini.InlineData{MIMEType: original.MIME, Data: original.Base64}
	}
	chunk, err := g.client.StreamImage(ctx, prompt.PromptText, inline)
	if err != nil {
		return nil, fmt.Errorf("variation %q: %w", prompt.Name, err)
	}
	return &Generated{
		StyleName:   prompt.Name,
		Description: prompt.Description,
		PromptUsed:  prompt.PromptText,
		Data:        chunk.Data,
		MIME:        chunk.MIME,
	}, nil
}

var _ VariationGenerator = (*GeminiVariationGenerator)(nil)
