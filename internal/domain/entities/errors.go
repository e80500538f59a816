package entities

import (
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindValidation          ErrorKind = "validation_error"
	KindRateLimited         ErrorKind = "rate_limited"
	KindQuotaExhausted      ErrorKind = "quota_exhausted"
	KindUpstreamFailure     ErrorKind = "upstream_failure"
	KindUpstreamUnreachable ErrorKind = "upstream_unreachable"
	KindExtractionFailure   ErrorKind = "extraction_failure"
)

// User-facing messages. Clients match on these, so keep them stable.
const (
	MsgMissingPersonImage   = "Please upload a photo of the person"
	MsgMissingClothingImage = "Please choose a clothing image"
	MsgInvalidRequestBody   = "Request body must be a JSON object"
	MsgInvalidFieldType     = "%s must be a string"
	MsgRateLimited          = "Too many requests, please try again later"
	MsgQuotaExhausted       = "AI service quota has been exhausted"
	MsgUpstreamFailure      = "AI service is temporarily unavailable"
	MsgUpstreamUnreachable  = "AI service could not be reached, please try again"
	MsgExtractionFailure    = "AI failed to generate the try-on image, please retry or use a different photo"
)

// TryOnError is the single error type crossing the gateway boundary.
type TryOnError struct {
	Kind    ErrorKind
	Status  int
	Message string
	// TextContent is whatever text the provider returned; only set for extraction failures.
	TextContent *string
	Err         error
}

func (e *TryOnError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *TryOnError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *TryOnError {
	return &TryOnError{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

func NewRateLimitedError() *TryOnError {
	return &TryOnError{Kind: KindRateLimited, Status: http.StatusTooManyRequests, Message: MsgRateLimited}
}

func NewQuotaExhaustedError() *TryOnError {
	return &TryOnError{Kind: KindQuotaExhausted, Status: http.StatusPaymentRequired, Message: MsgQuotaExhausted}
}

func NewUpstreamFailureError(message string, err error) *TryOnError {
	if message == "" {
		message = MsgUpstreamFailure
	}
	return &TryOnError{Kind: KindUpstreamFailure, Status: http.StatusInternalServerError, Message: message, Err: err}
}

func NewUpstreamUnreachableError(err error) *TryOnError {
	return &TryOnError{Kind: KindUpstreamUnreachable, Status: http.StatusInternalServerError, Message: MsgUpstreamUnreachable, Err: err}
}

func NewExtractionFailureError(textContent *string) *TryOnError {
	return &TryOnError{Kind: KindExtractionFailure, Status: http.StatusInternalServerError, Message: MsgExtractionFailure, TextContent: textContent}
}
