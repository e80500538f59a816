package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"tryon-gateway/internal/domain/entities"
)

// Raw (non-JSON) upstream error bodies are cut to this many characters.
const upstreamErrorSnippetLength = 200

// TranslateUpstreamStatus maps a non-2xx provider response to the gateway error vocabulary.
func TranslateUpstreamStatus(statusCode int, body []byte) *entities.TryOnError {
	switch statusCode {
	case http.StatusTooManyRequests:
		return entities.NewRateLimitedError()
	case http.StatusPaymentRequired:
		return entities.NewQuotaExhaustedError()
	default:
		return entities.NewUpstreamFailureError(
			upstreamErrorMessage(body),
			fmt.Errorf("upstream responded with status %d", statusCode),
		)
	}
}

// TranslateTransportError wraps a failure to reach the provider at all. Errors the
// client already classified (e.g. missing credentials) keep their kind.
func TranslateTransportError(err error) *entities.TryOnError {
	var tryOnErr *entities.TryOnError
	if errors.As(err, &tryOnErr) {
		return tryOnErr
	}
	return entities.NewUpstreamUnreachableError(err)
}

// upstreamErrorMessage prefers error.message, then message, from a JSON body;
// a non-JSON body is passed through truncated.
func upstreamErrorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		for _, path := range []string{"error.message", "message"} {
			if msg := parsed.Get(path); isMessage(msg) {
				return msg.String()
			}
		}
		return entities.MsgUpstreamFailure
	}

	if len(body) == 0 {
		return entities.MsgUpstreamFailure
	}
	return truncateRunes(string(body), upstreamErrorSnippetLength)
}

func isMessage(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	default:
		return false
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
