package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCompletionRequestWireFormat(t *testing.T) {
	req := ChatCompletionRequest{
		Model: "google/gemini-3-pro-image-preview",
		Messages: []ChatMessage{{
			Role: "user",
			Content: []ContentSegment{
				TextSegment("dress the person"),
				ImageURLSegment("data:image/png;base64,UA=="),
				ImageURLSegment("https://cdn.example.com/shirt.png"),
			},
		}},
		Modalities:  []string{"text", "image"},
		Temperature: 0.7,
		MaxTokens:   8192,
	}

	encoded, err := json.Marshal(req)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"model": "google/gemini-3-pro-image-preview",
		"messages": [{
			"role": "user",
			"content": [
				{"type": "text", "text": "dress the person"},
				{"type": "image_url", "image_url": "data:image/png;base64,UA=="},
				{"type": "image_url", "image_url": "https://cdn.example.com/shirt.png"}
			]
		}],
		"modalities": ["text", "image"],
		"temperature": 0.7,
		"max_tokens": 8192
	}`, string(encoded))
}

func TestNativeResponseWireFormat(t *testing.T) {
	resp := NativeResponse{
		Choices: []NativeChoice{{
			Message: NativeMessage{
				Role:    "assistant",
				Content: "done",
				ContentParts: []NativePart{
					{Text: "done"},
					{InlineData: &InlineData{MimeType: "image/png", Data: "AAAA"}},
				},
			},
		}},
	}

	encoded, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"choices": [{
			"message": {
				"role": "assistant",
				"content": "done",
				"content_parts": [
					{"text": "done"},
					{"inline_data": {"mime_type": "image/png", "data": "AAAA"}}
				]
			}
		}]
	}`, string(encoded))
}
