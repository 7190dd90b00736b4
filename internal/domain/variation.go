package domain

import "time"

// VariationPrompt is one creative direction produced by the prompt
// generator. It is ephemeral: consumed immediately to produce exactly one
// ImageVariation.
type VariationPrompt struct {
	Name        string `json:"name"`
	PromptText  string `json:"prompt"`
	Description string `json:"description"`
}

// ImageVariation is a generated restyling of the uploaded product photo.
// PromptUsed always carries the VariationPrompt text it was generated from.
// Rows are scoped to one user and never mutated after creation.
type ImageVariation struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	SessionID        string    `json:"session_id"`
	StyleName        string    `json:"style_name"`
	Description      string    `json:"description"`
	ArtifactURL      string    `json:"artifact_url"`
	PromptUsed       string    `json:"prompt_used"`
	OriginalImageURL string    `json:"original_image_url,omitempty"`
	MIME             string    `json:"mime"`
	Bytes            int64     `json:"bytes"`
	CreatedAt        time.Time `json:"created_at"`
}
