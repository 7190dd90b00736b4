// Package analysis turns an encoded product photo into a structured
// ImageAnalysis by asking a multimodal completion endpoint what it sees.
package analysis

import (
	"context"

	"adgen/internal/domain"
	"adgen/internal/media"
)

// Analyzer describes a product photo. Implementations make exactly one
// attempt; errors propagate to the caller unretried.
type Analyzer interface {
	Analyze(ctx context.Context, img *media.EncodedImage) (*domain.ImageAnalysis, error)
}

const analysisInstruction = `Analyze this product image for marketing purposes. Identify the product type, dominant colors, visual style, overall mood, and key features worth highlighting in an advertisement. Respond strictly with JSON matching this schema: {"product_type":string,"colors":string[],"style":string,"mood":string,"key_features":string[]}.`

type analysisPayload struct {
	ProductType string   `json:"product_type"`
	Colors      []string `json:"colors"`
	Style       string   `json:"style"`
	Mood        string   `json:"mood"`
	KeyFeatures []string `json:"key_features"`
}

func (p analysisPayload) toDomain(raw string) *domain.ImageAnalysis {
	return &domain.ImageAnalysis{
		ProductType: p.ProductType,
		Colors:      p.Colors,
		Style:       p.Style,
		Mood:        p.Mood,
		KeyFeatures: p.KeyFeatures,
		RawText:     raw,
	}
}
