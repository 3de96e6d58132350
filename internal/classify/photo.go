package classify

import (
	"encoding/base64"
	"errors"
	"strings"
)

const defaultImageMIME = "image/jpeg"

// Image is a decoded photo ready for a multimodal call or upload.
type Image struct {
	Data     []byte
	MIMEType string
}

// DecodePhoto accepts raw base64 or a data URL ("data:image/png;base64,....").
func DecodePhoto(photo string) (*Image, error) {
	mime := defaultImageMIME
	payload := strings.TrimSpace(photo)
	if head, body, found := strings.Cut(payload, ","); found {
		if m, ok := dataURLMIME(head); ok {
			mime = m
		}
		payload = body
	}
	if payload == "" {
		return nil, errors.New("empty photo payload")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, err
		}
	}
	if len(data) == 0 {
		return nil, errors.New("empty photo payload")
	}
	return &Image{Data: data, MIMEType: mime}, nil
}

func dataURLMIME(head string) (string, bool) {
	head = strings.TrimPrefix(head, "data:")
	mime, _, _ := strings.Cut(head, ";")
	if !strings.HasPrefix(mime, "image/") {
		return "", false
	}
	return mime, true
}

// Extension maps the image MIME type to a file suffix for storage keys.
func (i *Image) Extension() string {
	switch strings.ToLower(i.MIMEType) {
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}
