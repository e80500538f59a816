package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tryon-gateway/internal/domain/entities"
)

type mockUpstream struct {
	resp  *entities.UpstreamResponse
	err   error
	calls int
	seen  *entities.TryOnRequest
}

func (m *mockUpstream) Generate(ctx context.Context, request *entities.TryOnRequest) (*entities.UpstreamResponse, error) {
	m.calls++
	m.seen = request
	return m.resp, m.err
}

func (m *mockUpstream) Model() string { return "test-model" }

func (m *mockUpstream) Close() error { return nil }

func newValidRequest(t *testing.T) *entities.TryOnRequest {
	t.Helper()
	req, err := entities.NewTryOnRequest("data:image/png;base64,UA==", "https://cdn.example.com/shirt.png")
	require.NoError(t, err)
	return req
}

func TestTryOnDomainService_ProcessTryOn(t *testing.T) {
	t.Run("successful processing", func(t *testing.T) {
		upstream := &mockUpstream{resp: &entities.UpstreamResponse{
			StatusCode: http.StatusOK,
			Body: []byte(`{"choices":[{"message":{"content_parts":[{"inline_data":{"mime_type":"image/jpeg","data":"AAAA"}}]}}],` +
				`"usage":{"total_tokens":42}}`),
		}}
		service := NewTryOnDomainService(upstream)
		request := newValidRequest(t)

		result, err := service.ProcessTryOn(context.Background(), request)

		require.NoError(t, err)
		assert.Equal(t, 1, upstream.calls)
		assert.Same(t, request, upstream.seen)
		assert.True(t, result.Success())
		assert.Equal(t, "data:image/jpeg;base64,AAAA", result.Image().String())
		assert.Nil(t, result.TextContent())
		assert.Equal(t, string(ShapeInlineParts), result.Shape())
		assert.JSONEq(t, `{"total_tokens":42}`, string(result.Usage()))
	})

	t.Run("text content is kept alongside the image", func(t *testing.T) {
		upstream := &mockUpstream{resp: &entities.UpstreamResponse{
			StatusCode: http.StatusOK,
			Body:       []byte(`{"choices":[{"message":{"content":"Here you go: data:image/png;base64,Zm9v"}}]}`),
		}}
		result, err := NewTryOnDomainService(upstream).ProcessTryOn(context.Background(), newValidRequest(t))

		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,Zm9v", result.Image().String())
		require.NotNil(t, result.TextContent())
		assert.Equal(t, "Here you go: data:image/png;base64,Zm9v", *result.TextContent())
		assert.Nil(t, result.Usage())
	})

	t.Run("transport failure", func(t *testing.T) {
		upstream := &mockUpstream{err: errors.New("dial tcp: connection refused")}
		result, err := NewTryOnDomainService(upstream).ProcessTryOn(context.Background(), newValidRequest(t))

		assert.Nil(t, result)
		var tryOnErr *entities.TryOnError
		require.ErrorAs(t, err, &tryOnErr)
		assert.Equal(t, entities.KindUpstreamUnreachable, tryOnErr.Kind)
		assert.Equal(t, http.StatusInternalServerError, tryOnErr.Status)
		assert.Equal(t, 1, upstream.calls)
	})

	t.Run("credential failure is not reported as unreachable", func(t *testing.T) {
		upstream := &mockUpstream{err: entities.NewUpstreamFailureError("", errors.New("could not find default credentials"))}
		result, err := NewTryOnDomainService(upstream).ProcessTryOn(context.Background(), newValidRequest(t))

		assert.Nil(t, result)
		var tryOnErr *entities.TryOnError
		require.ErrorAs(t, err, &tryOnErr)
		assert.Equal(t, entities.KindUpstreamFailure, tryOnErr.Kind)
		assert.Equal(t, entities.MsgUpstreamFailure, tryOnErr.Message)
	})

	t.Run("upstream status is translated", func(t *testing.T) {
		tests := []struct {
			name       string
			status     int
			body       string
			wantKind   entities.ErrorKind
			wantStatus int
		}{
			{name: "rate limited", status: 429, body: `{}`, wantKind: entities.KindRateLimited, wantStatus: 429},
			{name: "quota exhausted", status: 402, body: `{}`, wantKind: entities.KindQuotaExhausted, wantStatus: 402},
			{name: "server error", status: 503, body: `{"error":{"message":"overloaded"}}`, wantKind: entities.KindUpstreamFailure, wantStatus: 500},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				upstream := &mockUpstream{resp: &entities.UpstreamResponse{StatusCode: tt.status, Body: []byte(tt.body)}}
				result, err := NewTryOnDomainService(upstream).ProcessTryOn(context.Background(), newValidRequest(t))

				assert.Nil(t, result)
				var tryOnErr *entities.TryOnError
				require.ErrorAs(t, err, &tryOnErr)
				assert.Equal(t, tt.wantKind, tryOnErr.Kind)
				assert.Equal(t, tt.wantStatus, tryOnErr.Status)
				assert.Equal(t, 1, upstream.calls)
			})
		}
	})

	t.Run("no image in response", func(t *testing.T) {
		upstream := &mockUpstream{resp: &entities.UpstreamResponse{
			StatusCode: http.StatusOK,
			Body:       []byte(`{"choices":[{"message":{"content":"I can't do that."}}]}`),
		}}
		result, err := NewTryOnDomainService(upstream).ProcessTryOn(context.Background(), newValidRequest(t))

		assert.Nil(t, result)
		var tryOnErr *entities.TryOnError
		require.ErrorAs(t, err, &tryOnErr)
		assert.Equal(t, entities.KindExtractionFailure, tryOnErr.Kind)
		assert.Equal(t, http.StatusInternalServerError, tryOnErr.Status)
		require.NotNil(t, tryOnErr.TextContent)
		assert.Equal(t, "I can't do that.", *tryOnErr.TextContent)
	})

	t.Run("non-JSON success body", func(t *testing.T) {
		upstream := &mockUpstream{resp: &entities.UpstreamResponse{
			StatusCode: http.StatusOK,
			Body:       []byte(`<html>ok</html>`),
		}}
		_, err := NewTryOnDomainService(upstream).ProcessTryOn(context.Background(), newValidRequest(t))

		var tryOnErr *entities.TryOnError
		require.ErrorAs(t, err, &tryOnErr)
		assert.Equal(t, entities.KindExtractionFailure, tryOnErr.Kind)
		assert.Nil(t, tryOnErr.TextContent)
	})
}

func TestUsageOf(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "object", body: `{"usage":{"prompt_tokens":1}}`, want: `{"prompt_tokens":1}`},
		{name: "missing", body: `{}`},
		{name: "null", body: `{"usage":null}`},
		{name: "false", body: `{"usage":false}`},
		{name: "zero", body: `{"usage":0}`},
		{name: "empty string", body: `{"usage":""}`},
		{name: "number", body: `{"usage":12}`, want: `12`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := usageOf([]byte(tt.body))
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestLoggableBody(t *testing.T) {
	assert.Equal(t, `{"a":1}`, string(loggableBody([]byte(`{"a":1}`))))
	assert.Equal(t, `"not json"`, string(loggableBody([]byte(`not json`))))
}
