package repositories

import (
	"context"

	"google.golang.org/genai"
)

// GenAIクライアント設定
// ProjectID set selects the Vertex AI backend; otherwise APIKey is used against the Gemini API.
type AIClientConfig struct {
	ProjectID string
	Location  string
	APIKey    string
	// BaseURL overrides the SDK endpoint; empty keeps the SDK default.
	BaseURL string
}

// GenAI Client Pool Service
// Gemini SDKバックエンドで使用するクライアントを遅延生成して共有する
type GenAIClientPool interface {
	GetGenAIClient(ctx context.Context) (*genai.Client, error)

	// リソースのクリーンアップ
	Close() error
}
