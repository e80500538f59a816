package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGenerationParameters(t *testing.T) {
	tests := []struct {
		name        string
		model       string
		temperature float64
		maxTokens   int
		wantErr     bool
	}{
		{name: "valid parameters", model: DefaultModel, temperature: 0.7, maxTokens: 8192},
		{name: "missing model", model: "", temperature: 0.7, maxTokens: 8192, wantErr: true},
		{name: "temperature too low", model: DefaultModel, temperature: -0.1, maxTokens: 8192, wantErr: true},
		{name: "temperature too high", model: DefaultModel, temperature: 2.5, maxTokens: 8192, wantErr: true},
		{name: "maxTokens too low", model: DefaultModel, temperature: 0.7, maxTokens: 0, wantErr: true},
		{name: "maxTokens too high", model: DefaultModel, temperature: 0.7, maxTokens: 70000, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerationParameters(tt.model, tt.temperature, tt.maxTokens)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultGenerationParameters(t *testing.T) {
	params := DefaultGenerationParameters()

	assert.Equal(t, "google/gemini-3-pro-image-preview", params.Model())
	assert.Equal(t, 0.7, params.Temperature())
	assert.Equal(t, 8192, params.MaxTokens())
	assert.Equal(t, []Modality{ModalityText, ModalityImage}, params.Modalities())
}
