package model

// ChatCompletionRequest is the body POSTed to the provider's chat-completion endpoint.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Modalities  []string      `json:"modalities"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type ChatMessage struct {
	Role    string           `json:"role"`
	Content []ContentSegment `json:"content"`
}

// ContentSegment is one typed unit of a user turn.
// The provider takes image_url as a plain string (data URL or remote URL).
type ContentSegment struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

func TextSegment(text string) ContentSegment {
	return ContentSegment{Type: "text", Text: text}
}

func ImageURLSegment(url string) ContentSegment {
	return ContentSegment{Type: "image_url", ImageURL: url}
}

// NativeResponse is the inline-parts layout that the Gemini SDK backend
// re-encodes its replies into, so one normalizer handles every backend.
type NativeResponse struct {
	Choices []NativeChoice `json:"choices"`
	Usage   *NativeUsage   `json:"usage,omitempty"`
}

type NativeChoice struct {
	Message      NativeMessage `json:"message"`
	FinishReason string        `json:"finish_reason,omitempty"`
}

type NativeMessage struct {
	Role         string       `json:"role"`
	Content      string       `json:"content,omitempty"`
	ContentParts []NativePart `json:"content_parts,omitempty"`
}

type NativePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

type InlineData struct {
	MimeType string `json:"mime_type,omitempty"`
	Data     string `json:"data"`
}

type NativeUsage struct {
	PromptTokens     int32 `json:"prompt_tokens"`
	CompletionTokens int32 `json:"completion_tokens"`
	TotalTokens      int32 `json:"total_tokens"`
}
