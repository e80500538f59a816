package entities

import (
	"encoding/json"
	"fmt"

	"tryon-gateway/internal/domain/valueobjects"
)

// TryOnResult is built once per request and returned directly; it is never stored.
// Exactly one of image and error is set.
type TryOnResult struct {
	success     bool
	image       valueobjects.ImageRef
	textContent *string
	err         string
	usage       json.RawMessage
	shape       string
}

func NewSuccessfulTryOnResult(image valueobjects.ImageRef, textContent *string) (*TryOnResult, error) {
	if image.IsEmpty() {
		return nil, fmt.Errorf("successful result requires an image")
	}

	return &TryOnResult{
		success:     true,
		image:       image,
		textContent: textContent,
	}, nil
}

func NewFailedTryOnResult(message string, textContent *string) (*TryOnResult, error) {
	if message == "" {
		return nil, fmt.Errorf("failed result requires an error message")
	}

	return &TryOnResult{
		success:     false,
		textContent: textContent,
		err:         message,
	}, nil
}

func (r *TryOnResult) Success() bool {
	return r.success
}

func (r *TryOnResult) Image() valueobjects.ImageRef {
	return r.image
}

func (r *TryOnResult) TextContent() *string {
	return r.textContent
}

func (r *TryOnResult) Error() string {
	return r.err
}

// Usage is the provider's token accounting object, or nil when absent.
func (r *TryOnResult) Usage() json.RawMessage {
	return r.usage
}

func (r *TryOnResult) SetUsage(usage json.RawMessage) {
	r.usage = usage
}

// Shape names the upstream payload layout the image was found in.
func (r *TryOnResult) Shape() string {
	return r.shape
}

func (r *TryOnResult) SetShape(shape string) {
	r.shape = shape
}
