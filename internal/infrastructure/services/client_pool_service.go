package services

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"tryon-gateway/internal/domain/repositories"
)

// GenAI Client Pool実装
type genAIClientPool struct {
	config *repositories.AIClientConfig
	client *genai.Client
	mutex  sync.RWMutex
}

// 新しいGenAIクライアントプールを作成
func NewGenAIClientPool(config *repositories.AIClientConfig) repositories.GenAIClientPool {
	return &genAIClientPool{
		config: config,
	}
}

func (p *genAIClientPool) GetGenAIClient(ctx context.Context) (*genai.Client, error) {
	p.mutex.RLock()
	if p.client != nil {
		defer p.mutex.RUnlock()
		return p.client, nil
	}
	p.mutex.RUnlock()

	p.mutex.Lock()
	defer p.mutex.Unlock()

	// ダブルチェックロッキング
	if p.client != nil {
		return p.client, nil
	}

	client, err := genai.NewClient(ctx, clientConfig(p.config))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	p.client = client
	return p.client, nil
}

func (p *genAIClientPool) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	// GenAI Clientはリソースクリーンアップ不要
	p.client = nil
	return nil
}

// clientConfig picks Vertex AI when a project is configured, the Gemini API otherwise.
func clientConfig(config *repositories.AIClientConfig) *genai.ClientConfig {
	cc := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{BaseURL: config.BaseURL},
	}

	if config.ProjectID != "" {
		cc.Backend = genai.BackendVertexAI
		cc.Project = config.ProjectID
		cc.Location = config.Location
		return cc
	}

	cc.Backend = genai.BackendGeminiAPI
	cc.APIKey = config.APIKey
	return cc
}
