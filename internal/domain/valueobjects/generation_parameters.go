package valueobjects

import (
	"fmt"
)

type Modality string

const (
	ModalityText  Modality = "text"
	ModalityImage Modality = "image"
)

const (
	DefaultModel       = "google/gemini-3-pro-image-preview"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 8192
)

// GenerationParameters are the fixed sampling settings sent with every try-on call.
type GenerationParameters struct {
	model       string
	temperature float64
	maxTokens   int
}

func NewGenerationParameters(model string, temperature float64, maxTokens int) (*GenerationParameters, error) {
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	if temperature < 0 || temperature > 2 {
		return nil, fmt.Errorf("temperature must be between 0 and 2, got %v", temperature)
	}

	if maxTokens < 1 || maxTokens > 65536 {
		return nil, fmt.Errorf("maxTokens must be between 1 and 65536, got %d", maxTokens)
	}

	return &GenerationParameters{
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

func DefaultGenerationParameters() *GenerationParameters {
	params, _ := NewGenerationParameters(DefaultModel, DefaultTemperature, DefaultMaxTokens)
	return params
}

func (p *GenerationParameters) Model() string {
	return p.model
}

func (p *GenerationParameters) Temperature() float64 {
	return p.temperature
}

func (p *GenerationParameters) MaxTokens() int {
	return p.maxTokens
}

// Modalities always asks for both text and image output.
func (p *GenerationParameters) Modalities() []Modality {
	return []Modality{ModalityText, ModalityImage}
}
