package domain

import "time"

// GenerationType distinguishes how a video was produced.
type GenerationType string

const (
	GenerationTypeImageToVideo GenerationType = "image-to-video"
	GenerationTypeTextToVideo  GenerationType = "text-to-video"
)

// VideoStatus enumerates the lifecycle of a video generation attempt.
type VideoStatus string

const (
	VideoStatusPending   VideoStatus = "pending"
	VideoStatusCompleted VideoStatus = "completed"
	VideoStatusFailed    VideoStatus = "failed"
)

// VideoArtifact is one promotional clip. An image-to-video artifact must
// reference the source image it animated. Persisted once completed,
// immutable thereafter.
type VideoArtifact struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	Title          string         `json:"title"`
	Prompt         string         `json:"prompt"`
	VideoURL       string         `json:"video_url"`
	GenerationType GenerationType `json:"generation_type"`
	SourceImageURL string         `json:"source_image_url,omitempty"`
	Status         VideoStatus    `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Validate enforces the image-to-video provenance invariant.
func (v VideoArtifact) Validate() error {
	if v.GenerationType == GenerationTypeImageToVideo && v.SourceImageURL == "" {
		return ErrMissingSourceImage
	}
	return nil
}
