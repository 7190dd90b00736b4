package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrMissingCredential  = errors.New("missing api credential")
	ErrImageTooLarge      = errors.New("image exceeds size limit")
	ErrUnreadableImage    = errors.New("image could not be read")
	ErrProviderFailure    = errors.New("provider failure")
	ErrNoImageData        = errors.New("no image data in response")
	ErrPromptCount        = errors.New("prompt generator returned too few prompts")
	ErrVideoTimeout       = errors.New("video generation timed out")
	ErrMissingSourceImage = errors.New("image-to-video artifact requires a source image url")
)
