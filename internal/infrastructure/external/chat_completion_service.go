package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"tryon-gateway/internal/domain/entities"
	"tryon-gateway/internal/domain/valueobjects"
	"tryon-gateway/model"
)

const DefaultChatCompletionEndpoint = "https://www.needware.dev/v1/chat/completions"

type ChatCompletionOptions struct {
	Endpoint    string
	Parameters  *valueobjects.GenerationParameters
	Credentials CredentialSource
	// Timeout of zero leaves the call unbounded.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// ChatCompletionService calls an OpenAI-style chat-completion endpoint that can return images.
type ChatCompletionService struct {
	endpoint    string
	params      *valueobjects.GenerationParameters
	credentials CredentialSource
	httpClient  *http.Client
}

func NewChatCompletionService(opts ChatCompletionOptions) (*ChatCompletionService, error) {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultChatCompletionEndpoint
	}
	if opts.Parameters == nil {
		opts.Parameters = valueobjects.DefaultGenerationParameters()
	}
	if opts.Credentials == nil {
		opts.Credentials = NoCredentials()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &ChatCompletionService{
		endpoint:    opts.Endpoint,
		params:      opts.Parameters,
		credentials: opts.Credentials,
		httpClient:  httpClient,
	}, nil
}

func (s *ChatCompletionService) Model() string {
	return s.params.Model()
}

func (s *ChatCompletionService) Generate(ctx context.Context, request *entities.TryOnRequest) (*entities.UpstreamResponse, error) {
	reqBody, err := json.Marshal(s.buildRequest(request))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	authorization, err := s.credentials.Authorization(ctx)
	if err != nil {
		// 認証情報の取得失敗はローカルの設定問題であり、到達不能とは区別する
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to obtain upstream credentials")
		return nil, entities.NewUpstreamFailureError("", fmt.Errorf("failed to get credentials: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	zerolog.Ctx(ctx).Debug().
		Str("endpoint", s.endpoint).
		Str("model", s.params.Model()).
		Int("request_bytes", len(reqBody)).
		Msg("calling AI service")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &entities.UpstreamResponse{
		StatusCode: resp.StatusCode,
		Body:       respBody,
	}, nil
}

// buildRequest lays out one user turn: prompt, person image, clothing image.
func (s *ChatCompletionService) buildRequest(request *entities.TryOnRequest) model.ChatCompletionRequest {
	modalities := make([]string, 0, len(s.params.Modalities()))
	for _, m := range s.params.Modalities() {
		modalities = append(modalities, string(m))
	}

	return model.ChatCompletionRequest{
		Model: s.params.Model(),
		Messages: []model.ChatMessage{
			{
				Role: "user",
				Content: []model.ContentSegment{
					model.TextSegment(valueobjects.TryOnPrompt),
					model.ImageURLSegment(request.PersonImage().String()),
					model.ImageURLSegment(request.ClothingImage().String()),
				},
			},
		},
		Modalities:  modalities,
		Temperature: s.params.Temperature(),
		MaxTokens:   s.params.MaxTokens(),
	}
}

func (s *ChatCompletionService) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}
