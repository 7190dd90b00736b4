package domain

import "strings"

// ImageAnalysis captures what the multimodal model saw in an uploaded
// product photo. It is produced once per upload and never mutated; it only
// lives for the duration of one generation session.
type ImageAnalysis struct {
	ProductType string   `json:"product_type"`
	Colors      []string `json:"colors"`
	Style       string   `json:"style"`
	Mood        string   `json:"mood"`
	KeyFeatures []string `json:"key_features"`
	RawText     string   `json:"raw_text,omitempty"`
}

// Summary renders the analysis as a single prompt-friendly line.
func (a ImageAnalysis) Summary() string {
	parts := []string{}
	if a.ProductType != "" {
		parts = append(parts, a.ProductType)
	}
	if a.Style != "" {
		parts = append(parts, a.Style+" style")
	}
	if a.Mood != "" {
		parts = append(parts, a.Mood+" mood")
	}
	if len(a.Colors) > 0 {
		parts = append(parts, "colors: "+strings.Join(a.Colors, ", "))
	}
	return strings.Join(parts, ", ")
}
