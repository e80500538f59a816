package valueobjects

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/webp"
)

// DefaultImageMimeType is used whenever a provider omits the MIME type of inline image data.
const DefaultImageMimeType = "image/png"

// ImageRef is a displayable image reference: either a remote URL or a base64 data URL.
type ImageRef string

func NewDataURL(mimeType, payload string) ImageRef {
	if mimeType == "" {
		mimeType = DefaultImageMimeType
	}
	return ImageRef("data:" + mimeType + ";base64," + payload)
}

func (r ImageRef) String() string {
	return string(r)
}

func (r ImageRef) IsEmpty() bool {
	return r == ""
}

func (r ImageRef) IsDataURL() bool {
	return strings.HasPrefix(strings.ToLower(string(r)), "data:")
}

func (r ImageRef) IsRemote() bool {
	lower := strings.ToLower(string(r))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// DecodeDataURL splits a base64 data URL into its MIME type and decoded bytes.
// A missing MIME type is sniffed from the decoded bytes.
func (r ImageRef) DecodeDataURL() (string, []byte, error) {
	if !r.IsDataURL() {
		return "", nil, fmt.Errorf("not a data URL")
	}

	header, payload, found := strings.Cut(string(r)[len("data:"):], ",")
	if !found {
		return "", nil, fmt.Errorf("data URL has no payload separator")
	}

	params := strings.Split(header, ";")
	if !strings.EqualFold(params[len(params)-1], "base64") {
		return "", nil, fmt.Errorf("data URL is not base64 encoded")
	}

	data, err := decodeBase64(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URL payload: %w", err)
	}

	mimeType := strings.TrimSpace(params[0])
	if mimeType == "" || strings.EqualFold(mimeType, "base64") {
		mimeType, err = DetectImageMimeType(data)
		if err != nil {
			mimeType = DefaultImageMimeType
		}
	}

	return mimeType, data, nil
}

func decodeBase64(payload string) ([]byte, error) {
	payload = strings.Join(strings.Fields(payload), "")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return data, nil
	}
	// some clients strip the padding
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
}

// DetectImageMimeType sniffs jpeg, png, gif and webp headers.
func DetectImageMimeType(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("image data cannot be empty")
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("unsupported image format: %w", err)
	}

	switch format {
	case "jpeg":
		return "image/jpeg", nil
	case "png":
		return "image/png", nil
	case "gif":
		return "image/gif", nil
	case "webp":
		return "image/webp", nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}
