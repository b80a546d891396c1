// Package media stores the optional photo attached to a report.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// MaxImageBytes caps the decoded size of an attached photo.
const MaxImageBytes = 5 << 20

var (
	ErrInvalidDataURL  = errors.New("image must be a base64 data URL")
	ErrUnsupportedType = errors.New("image type not supported")
	ErrTooLarge        = errors.New("image too large")
)

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// Image is a decoded data URL.
type Image struct {
	ContentType string
	Data        []byte
}

func (i Image) Extension() string {
	return extensions[i.ContentType]
}

// ParseDataURL decodes "data:<type>;base64,<payload>".
func ParseDataURL(value string) (Image, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(value), "data:")
	if !ok {
		return Image{}, ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, ErrInvalidDataURL
	}
	contentType, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return Image{}, ErrInvalidDataURL
	}
	contentType = strings.ToLower(contentType)
	if _, known := extensions[contentType]; !known {
		return Image{}, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes+3 {
		return Image{}, ErrTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if len(data) > MaxImageBytes {
		return Image{}, ErrTooLarge
	}
	return Image{ContentType: contentType, Data: data}, nil
}

// Store keeps a report photo and returns the URL to show it with.
type Store interface {
	Save(ctx context.Context, reportID, dataURL string) (string, error)
}

// Inline keeps the validated data URL itself as the image URL.
type Inline struct{}

func (Inline) Save(_ context.Context, _ string, dataURL string) (string, error) {
	if _, err := ParseDataURL(dataURL); err != nil {
		return "", err
	}
	return strings.TrimSpace(dataURL), nil
}
