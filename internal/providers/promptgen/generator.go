// Package promptgen derives creative variation prompts and short ad copy
// from an image analysis.
package promptgen

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"adgen/internal/domain"
	"adgen/internal/genjson"
	"adgen/internal/providers/gemini"
)

// Generator produces variation prompts and marketing copy.
type Generator interface {
	Variations(ctx context.Context, analysis domain.ImageAnalysis, count int) ([]domain.VariationPrompt, error)
	AdCopy(ctx context.Context, analysis domain.ImageAnalysis) (*domain.AdCopy, error)
}

type variationPayload struct {
	Name        string `json:"name"`
	Prompt      string `json:"prompt"`
	Description string `json:"description"`
}

type adCopyPayload struct {
	Headline string   `json:"headline"`
	Caption  string   `json:"caption"`
	Tags     []string `json:"tags"`
}

// GeminiGenerator asks the completion endpoint for a fixed-schema JSON
// array. A response with fewer prompts than requested is a hard failure:
// padding with defaults would mask an upstream problem and risk shipping
// fabricated content.
type GeminiGenerator struct {
	client *gemini.Client
	titler cases.Caser
}

func NewGeminiGenerator(client *gemini.Client) (*GeminiGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("promptgen: gemini client is required")
	}
	return &GeminiGenerator{
		client: client,
		titler: cases.Title(language.English),
	}, nil
}

func (g *GeminiGenerator) Variations(ctx context.Context, analysis domain.ImageAnalysis, count int) ([]domain.VariationPrompt, error) {
	if count < 1 {
		count = 1
	}
	text, err := g.client.Complete(ctx, gemini.CompletionRequest{
		Instruction: buildVariationInstruction(analysis, count),
		WantJSON:    true,
		Temperature: 0.8,
	})
	if err != nil {
		return nil, fmt.Errorf("generate variation prompts: %w", err)
	}
	payload, err := genjson.Decode[[]variationPayload](text)
	if err != nil {
		return nil, fmt.Errorf("decode variation prompts: %w", err)
	}
	if len(payload) < count {
		return nil, fmt.Errorf("%w: got %d, want %d", domain.ErrPromptCount, len(payload), count)
	}

	prompts := make([]domain.VariationPrompt, 0, count)
	for _, p := range payload[:count] {
		name := strings.TrimSpace(p.Name)
		prompt := strings.TrimSpace(p.Prompt)
		if name == "" || prompt == "" {
			return nil, fmt.Errorf("%w: entry missing name or prompt", domain.ErrPromptCount)
		}
		prompts = append(prompts, domain.VariationPrompt{
			Name:        g.titler.String(name),
			PromptText:  prompt,
			Description: strings.TrimSpace(p.Description),
		})
	}
	return prompts, nil
}

func (g *GeminiGenerator) AdCopy(ctx context.Context, analysis domain.ImageAnalysis) (*domain.AdCopy, error) {
	text, err := g.client.Complete(ctx, gemini.CompletionRequest{
		Instruction: buildAdCopyInstruction(analysis),
		WantJSON:    true,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("generate ad copy: %w", err)
	}
	payload, err := genjson.Decode[adCopyPayload](text)
	if err != nil {
		return nil, fmt.Errorf("decode ad copy: %w", err)
	}
	if strings.TrimSpace(payload.Headline) == "" {
		return nil, fmt.Errorf("ad copy: %w: empty headline", domain.ErrProviderFailure)
	}
	return &domain.AdCopy{
		Headline: strings.TrimSpace(payload.Headline),
		Caption:  strings.TrimSpace(payload.Caption),
		Tags:     payload.Tags,
	}, nil
}

func buildVariationInstruction(analysis domain.ImageAnalysis, count int) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "You are a creative director for product advertising. Based on this product analysis, propose exactly %d distinct visual style variations for a marketing photo. ", count)
	sb.WriteString(`Respond strictly as a JSON array matching this schema: [{"name":string,"prompt":string,"description":string}]. `)
	sb.WriteString("The prompt field must be a complete image-generation instruction that restyles the original product photo while keeping the product recognizable. ")
	fmt.Fprintf(sb, "Product analysis: %s.", analysis.Summary())
	if len(analysis.KeyFeatures) > 0 {
		fmt.Fprintf(sb, " Key features to highlight: %s.", strings.Join(analysis.KeyFeatures, ", "))
	}
	return sb.String()
}

func buildAdCopyInstruction(analysis domain.ImageAnalysis) string {
	sb := &strings.Builder{}
	sb.WriteString("Write short marketing copy for this product. ")
	sb.WriteString(`Respond strictly as JSON: {"headline":string,"caption":string,"tags":string[]}. `)
	sb.WriteString("The headline is at most 8 words, the caption at most 2 sentences, punchy and concrete. ")
	fmt.Fprintf(sb, "Product analysis: %s.", analysis.Summary())
	return sb.String()
}

var _ Generator = (*GeminiGenerator)(nil)
