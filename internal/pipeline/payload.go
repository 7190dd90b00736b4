package pipeline

import (
	"encoding/base64"
	"fmt"

	"adgen/internal/domain"
)

// Queue task types.
const (
	TaskSessionGeneration = "SESSION_GEN"
	TaskVideoGeneration   = "VIDEO_GEN"
)

// SessionJobPayload is the queued form of one generation request. The image
// travels base64-encoded inside the job row so the worker needs no access to
// the original upload.
type SessionJobPayload struct {
	ImageB64     string `json:"image_b64"`
	MIME         string `json:"mime"`
	IncludeVideo bool   `json:"include_video"`
	VideoPrompt  string `json:"video_prompt,omitempty"`
}

// VideoJobPayload is the queued form of one standalone video request.
type VideoJobPayload struct {
	Title          string `json:"title,omitempty"`
	Prompt         string `json:"prompt"`
	ImageB64       string `json:"image_b64,omitempty"`
	MIME           string `json:"mime,omitempty"`
	SourceImageURL string `json:"source_image_url,omitempty"`
	AspectRatio    string `json:"aspect_ratio,omitempty"`
}

// ToRequest decodes the payload back into a runnable session request.
func (p SessionJobPayload) ToRequest(userID, sessionID string) (Request, error) {
	data, err := base64.StdEncoding.DecodeString(p.ImageB64)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", domain.ErrUnreadableImage, err)
	}
	return Request{
		UserID:       userID,
		SessionID:    sessionID,
		ImageData:    data,
		IncludeVideo: p.IncludeVideo,
		VideoPrompt:  p.VideoPrompt,
	}, nil
}
