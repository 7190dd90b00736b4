// Package media converts user-uploaded image files into the transportable
// form the generation providers expect.
package media

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"adgen/internal/domain"
)

// MaxImageBytes is the upload ceiling enforced before any encoding or
// network call.
const MaxImageBytes = 10 << 20 // 10 MiB

// EncodedImage carries an image ready for inclusion in an API request body.
type EncodedImage struct {
	Base64 string
	MIME   string
	Bytes  int64
}

// Encode validates and base64-encodes raw image bytes. Oversized inputs are
// rejected with domain.ErrImageTooLarge, empty ones with
// domain.ErrUnreadableImage.
func Encode(data []byte) (*EncodedImage, error) {
	if len(data) == 0 {
		return nil, domain.ErrUnreadableImage
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", domain.ErrImageTooLarge, len(data), MaxImageBytes)
	}
	return &EncodedImage{
		Base64: base64.StdEncoding.EncodeToString(data),
		MIME:   http.DetectContentType(data),
		Bytes:  int64(len(data)),
	}, nil
}

// EncodeReader reads at most MaxImageBytes+1 bytes from r and encodes them.
// Reading one byte past the limit detects oversized uploads without
// buffering the whole file.
func EncodeReader(r io.Reader) (*EncodedImage, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableImage, err)
	}
	return Encode(data)
}

// FromBase64 rebuilds an EncodedImage from an already-encoded payload,
// re-applying the size ceiling. A non-empty mimeType overrides detection.
func FromBase64(b64, mimeType string) (*EncodedImage, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableImage, err)
	}
	enc, err := Encode(data)
	if err != nil {
		return nil, err
	}
	if mimeType != "" {
		enc.MIME = mimeType
	}
	return enc, nil
}

// DataURL renders raw bytes as an inline data URL. Used as the ephemeral
// artifact reference when object storage is unavailable.
func DataURL(data []byte, mime string) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}

// DataURL renders the already-encoded image as an inline data URL.
func (e *EncodedImage) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", e.MIME, e.Base64)
}

// Decode reverses Encode. It exists so callers holding only the encoded form
// can recover the original bytes for storage.
func Decode(enc *EncodedImage) ([]byte, error) {
	if enc == nil || enc.Base64 == "" {
		return nil, domain.ErrUnreadableImage
	}
	data, err := base64.StdEncoding.DecodeString(enc.Base64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableImage, err)
	}
	return data, nil
}
