package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"tryon-gateway/internal/domain/entities"
	"tryon-gateway/internal/domain/services"
)

// GatewayRequest is the transport-independent view of an inbound call.
type GatewayRequest struct {
	Method string
	Body   io.Reader
}

// Response is what the HTTP adapter writes back. A nil Payload means an empty body.
type Response struct {
	Status  int
	Payload any
}

type TryOnInput struct {
	PersonImage   string `json:"personImage"`
	ClothingImage string `json:"clothingImage"`
}

type SuccessPayload struct {
	Success       bool            `json:"success"`
	Image         string          `json:"image"`
	TextContent   *string         `json:"textContent"`
	PersonImage   string          `json:"personImage"`
	ClothingImage string          `json:"clothingImage"`
	Model         string          `json:"model"`
	Usage         json.RawMessage `json:"usage"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

type ExtractionFailurePayload struct {
	Success     bool    `json:"success"`
	Error       string  `json:"error"`
	TextContent *string `json:"textContent"`
}

// MetricsRecorder receives one outcome per handled request.
type MetricsRecorder interface {
	RecordOutcome(outcome string)
	RecordShape(shape string)
}

type noopRecorder struct{}

func (noopRecorder) RecordOutcome(string) {}
func (noopRecorder) RecordShape(string)   {}

const (
	OutcomePreflight = "preflight"
	OutcomeSuccess   = "success"
)

type TryOnUseCase struct {
	domainService *services.TryOnDomainService
	model         string
	metrics       MetricsRecorder
}

func NewTryOnUseCase(
	domainService *services.TryOnDomainService,
	model string,
	metrics MetricsRecorder,
) *TryOnUseCase {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &TryOnUseCase{
		domainService: domainService,
		model:         model,
		metrics:       metrics,
	}
}

// Execute runs one request through preflight, validation and the upstream pipeline.
// It never returns an error: every failure is already a Response.
func (uc *TryOnUseCase) Execute(ctx context.Context, req GatewayRequest) Response {
	if req.Method == http.MethodOptions {
		uc.metrics.RecordOutcome(OutcomePreflight)
		return Response{Status: http.StatusOK}
	}

	logger := zerolog.Ctx(ctx)

	input, err := decodeInput(req.Body)
	if err != nil {
		logger.Warn().Err(err).Msg("invalid request body")
		return uc.fail(ctx, invalidBodyError(err))
	}

	request, err := entities.NewTryOnRequest(input.PersonImage, input.ClothingImage)
	if err != nil {
		return uc.fail(ctx, err)
	}

	logger.Info().Msg("processing virtual try-on request")

	result, err := uc.domainService.ProcessTryOn(ctx, request)
	if err != nil {
		return uc.fail(ctx, err)
	}

	uc.metrics.RecordOutcome(OutcomeSuccess)
	uc.metrics.RecordShape(result.Shape())

	return Response{
		Status: http.StatusOK,
		Payload: SuccessPayload{
			Success:       true,
			Image:         result.Image().String(),
			TextContent:   result.TextContent(),
			PersonImage:   input.PersonImage,
			ClothingImage: input.ClothingImage,
			Model:         uc.model,
			Usage:         result.Usage(),
		},
	}
}

func (uc *TryOnUseCase) fail(ctx context.Context, err error) Response {
	tryOnErr := classify(err)
	if tryOnErr.Kind != entities.KindValidation {
		zerolog.Ctx(ctx).Error().Err(err).Str("kind", string(tryOnErr.Kind)).Msg("virtual try-on failed")
	}
	uc.metrics.RecordOutcome(string(tryOnErr.Kind))
	if tryOnErr.Kind == entities.KindExtractionFailure {
		uc.metrics.RecordShape(string(services.ShapeNone))
	}
	return ErrorResponse(tryOnErr)
}

// ErrorResponse renders any error into the gateway's JSON error contract.
func ErrorResponse(err error) Response {
	tryOnErr := classify(err)
	if tryOnErr.Kind == entities.KindExtractionFailure {
		return Response{
			Status: tryOnErr.Status,
			Payload: ExtractionFailurePayload{
				Success:     false,
				Error:       tryOnErr.Message,
				TextContent: tryOnErr.TextContent,
			},
		}
	}
	return Response{
		Status:  tryOnErr.Status,
		Payload: ErrorPayload{Error: tryOnErr.Message},
	}
}

// classify makes sure nothing unconverted leaves the gateway.
func classify(err error) *entities.TryOnError {
	var tryOnErr *entities.TryOnError
	if errors.As(err, &tryOnErr) {
		return tryOnErr
	}
	return entities.NewUpstreamFailureError("", err)
}

func decodeInput(body io.Reader) (TryOnInput, error) {
	var input TryOnInput
	if body == nil {
		return input, fmt.Errorf("empty request body")
	}
	if err := json.NewDecoder(body).Decode(&input); err != nil {
		return input, fmt.Errorf("failed to decode request body: %w", err)
	}
	return input, nil
}

// invalidBodyError names the offending field when the body is an object with a
// wrongly typed member.
func invalidBodyError(err error) *entities.TryOnError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return entities.NewValidationError(fmt.Sprintf(entities.MsgInvalidFieldType, typeErr.Field))
	}
	return entities.NewValidationError(entities.MsgInvalidRequestBody)
}
