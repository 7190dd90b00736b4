package domain

// VariationResult pairs one fan-out slot with its outcome. Slots are
// independent: a failed slot never blocks its siblings.
type VariationResult struct {
	Index     int             `json:"index"`
	Variation *ImageVariation `json:"variation,omitempty"`
	Outcome   Outcome         `json:"outcome"`
}

// GenerationSession aggregates one wizard flow: one analysis, the fan-out
// results, optional ad copy and optional video. It is transient and never
// persisted as a row; only its surviving artifacts are.
type GenerationSession struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	Analysis   ImageAnalysis     `json:"analysis"`
	Copy       *AdCopy           `json:"copy,omitempty"`
	Variations []VariationResult `json:"variations"`
	Video      *VideoArtifact    `json:"video,omitempty"`
	VideoNote  Outcome           `json:"video_outcome,omitempty"`
}

// Succeeded reports overall session success: at least one variation made it.
func (s GenerationSession) Succeeded() bool {
	for _, r := range s.Variations {
		if r.Outcome.Usable() && r.Variation != nil {
			return true
		}
	}
	return false
}

// CompletedVariations returns the variations that produced an artifact, in
// slot order.
func (s GenerationSession) CompletedVariations() []ImageVariation {
	var out []ImageVariation
	for _, r := range s.Variations {
		if r.Outcome.Usable() && r.Variation != nil {
			out = append(out, *r.Variation)
		}
	}
	return out
}
