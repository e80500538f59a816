package repositories

import (
	"context"

	"tryon-gateway/internal/domain/entities"
)

// UpstreamClient makes exactly one call per Generate. A returned error means the
// provider could not be reached; HTTP error statuses come back as a response.
type UpstreamClient interface {
	Generate(ctx context.Context, request *entities.TryOnRequest) (*entities.UpstreamResponse, error)

	// Model is the identifier reported back to callers.
	Model() string

	Close() error
}
