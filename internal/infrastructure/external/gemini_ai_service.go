package external

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"tryon-gateway/internal/domain/entities"
	"tryon-gateway/internal/domain/repositories"
	"tryon-gateway/internal/domain/valueobjects"
	"tryon-gateway/model"
)

const DefaultGeminiModel = "gemini-2.5-flash-image"

// GeminiAIService sends try-on requests through the Gemini SDK and re-encodes the
// reply into the inline-parts chat-completion layout.
type GeminiAIService struct {
	pool   repositories.GenAIClientPool
	model  string
	params *valueobjects.GenerationParameters
}

func NewGeminiAIService(pool repositories.GenAIClientPool, modelName string, params *valueobjects.GenerationParameters) *GeminiAIService {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	if params == nil {
		params = valueobjects.DefaultGenerationParameters()
	}
	return &GeminiAIService{
		pool:   pool,
		model:  modelName,
		params: params,
	}
}

func (s *GeminiAIService) Model() string {
	return s.model
}

func (s *GeminiAIService) Generate(ctx context.Context, request *entities.TryOnRequest) (*entities.UpstreamResponse, error) {
	logger := zerolog.Ctx(ctx)

	personPart, err := imagePart(request.PersonImage())
	if err != nil {
		return invalidImageResponse("person", err), nil
	}
	clothingPart, err := imagePart(request.ClothingImage())
	if err != nil {
		return invalidImageResponse("clothing", err), nil
	}

	client, err := s.pool.GetGenAIClient(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create GenAI client")
		return nil, entities.NewUpstreamFailureError("", fmt.Errorf("failed to get GenAI client: %w", err))
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(valueobjects.TryOnPrompt),
			personPart,
			clothingPart,
		}, genai.RoleUser),
	}

	// 画像モデルは複数候補に対応していないため CandidateCount は指定しない
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		Temperature:        genai.Ptr(float32(s.params.Temperature())),
		MaxOutputTokens:    int32(s.params.MaxTokens()),
	}

	logger.Debug().Str("model", s.model).Msg("calling Gemini API")

	resp, err := client.Models.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		if apiResp, ok := apiErrorResponse(err); ok {
			return apiResp, nil
		}
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	body, err := nativeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode Gemini response: %w", err)
	}

	return &entities.UpstreamResponse{StatusCode: http.StatusOK, Body: body}, nil
}

func (s *GeminiAIService) Close() error {
	return s.pool.Close()
}

// imagePart turns a data URL into an inline blob and a remote URL into a file-URI part.
func imagePart(ref valueobjects.ImageRef) (*genai.Part, error) {
	switch {
	case ref.IsDataURL():
		mimeType, data, err := ref.DecodeDataURL()
		if err != nil {
			return nil, err
		}
		return genai.NewPartFromBytes(data, mimeType), nil
	case ref.IsRemote():
		return genai.NewPartFromURI(ref.String(), mimeTypeFromURL(ref.String())), nil
	default:
		return nil, fmt.Errorf("image must be a data URL or an http(s) URL")
	}
}

func mimeTypeFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return valueobjects.DefaultImageMimeType
	}
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(u.Path))); strings.HasPrefix(t, "image/") {
		return t
	}
	return valueobjects.DefaultImageMimeType
}

// invalidImageResponse reports an unusable input the way a provider would, as a 400 body.
func invalidImageResponse(field string, err error) *entities.UpstreamResponse {
	body, _ := json.Marshal(map[string]any{
		"error": map[string]string{
			"message": fmt.Sprintf("invalid %s image: %v", field, err),
		},
	})
	return &entities.UpstreamResponse{StatusCode: http.StatusBadRequest, Body: body}
}

// apiErrorResponse carries an SDK API error's HTTP code and message into an UpstreamResponse.
func apiErrorResponse(err error) (*entities.UpstreamResponse, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var apiErrPtr *genai.APIError
		if !errors.As(err, &apiErrPtr) || apiErrPtr == nil {
			return nil, false
		}
		apiErr = *apiErrPtr
	}
	if apiErr.Code == 0 {
		return nil, false
	}

	body, _ := json.Marshal(map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
			"status":  apiErr.Status,
		},
	})
	return &entities.UpstreamResponse{StatusCode: apiErr.Code, Body: body}, true
}

// nativeBody re-encodes the first candidate as choices[0].message.content_parts.
// Thought parts are dropped; text parts are also joined into message.content.
func nativeBody(resp *genai.GenerateContentResponse) ([]byte, error) {
	message := model.NativeMessage{Role: "assistant"}
	choice := model.NativeChoice{}

	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		candidate := resp.Candidates[0]
		choice.FinishReason = string(candidate.FinishReason)

		var text strings.Builder
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part == nil || part.Thought {
					continue
				}
				if part.Text != "" {
					text.WriteString(part.Text)
					message.ContentParts = append(message.ContentParts, model.NativePart{Text: part.Text})
				}
				if part.InlineData != nil && len(part.InlineData.Data) > 0 {
					message.ContentParts = append(message.ContentParts, model.NativePart{
						InlineData: &model.InlineData{
							MimeType: part.InlineData.MIMEType,
							Data:     base64.StdEncoding.EncodeToString(part.InlineData.Data),
						},
					})
				}
			}
		}
		message.Content = text.String()
	}

	choice.Message = message
	native := model.NativeResponse{Choices: []model.NativeChoice{choice}}

	if usage := resp.UsageMetadata; usage != nil {
		native.Usage = &model.NativeUsage{
			PromptTokens:     usage.PromptTokenCount,
			CompletionTokens: usage.CandidatesTokenCount,
			TotalTokens:      usage.TotalTokenCount,
		}
	}

	return json.Marshal(native)
}
