package services

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"tryon-gateway/internal/domain/entities"
	"tryon-gateway/internal/domain/repositories"
)

type TryOnDomainService struct {
	upstream repositories.UpstreamClient
}

func NewTryOnDomainService(upstream repositories.UpstreamClient) *TryOnDomainService {
	return &TryOnDomainService{
		upstream: upstream,
	}
}

// ProcessTryOn calls the provider once and turns its reply into a successful
// result or a *entities.TryOnError. Nothing is retried.
func (s *TryOnDomainService) ProcessTryOn(ctx context.Context, request *entities.TryOnRequest) (*entities.TryOnResult, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := s.upstream.Generate(ctx, request)
	if err != nil {
		tryOnErr := TranslateTransportError(err)
		logger.Error().Err(err).Str("kind", string(tryOnErr.Kind)).Msg("AI service call failed")
		return nil, tryOnErr
	}

	if !resp.OK() {
		logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(resp.Body)).
			Msg("AI service error")
		return nil, TranslateUpstreamStatus(resp.StatusCode, resp.Body)
	}

	logger.Info().Int("status", resp.StatusCode).Msg("AI response received")

	extraction, err := NormalizeResponse(resp.Body)
	if err != nil || !extraction.Found() {
		// 未対応のレスポンス形式。スキーマ変更の調査用に生のボディを残す
		logger.Error().
			Err(err).
			RawJSON("response", loggableBody(resp.Body)).
			Msg("no image in AI response")
		return nil, entities.NewExtractionFailureError(extraction.TextContent)
	}

	result, err := entities.NewSuccessfulTryOnResult(extraction.Image, extraction.TextContent)
	if err != nil {
		return nil, entities.NewExtractionFailureError(extraction.TextContent)
	}
	result.SetShape(string(extraction.Shape))
	result.SetUsage(usageOf(resp.Body))

	logger.Info().Str("shape", string(extraction.Shape)).Msg("virtual try-on completed successfully")

	return result, nil
}

// usageOf returns the provider's usage object, or nil when it is missing or falsy.
func usageOf(body []byte) json.RawMessage {
	usage := gjson.GetBytes(body, "usage")
	switch usage.Type {
	case gjson.JSON:
		return json.RawMessage(usage.Raw)
	case gjson.String:
		if usage.Str == "" {
			return nil
		}
	case gjson.Number:
		if usage.Num == 0 {
			return nil
		}
	case gjson.True:
	default:
		return nil
	}
	return json.RawMessage(usage.Raw)
}

// loggableBody keeps RawJSON valid when the provider sent something that is not JSON.
func loggableBody(body []byte) []byte {
	if gjson.ValidBytes(body) {
		return body
	}
	quoted, err := json.Marshal(string(body))
	if err != nil {
		return []byte(`null`)
	}
	return quoted
}
