package external

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// CredentialSource yields the Authorization header value for one upstream call.
// An empty value means no header is sent.
type CredentialSource interface {
	Authorization(ctx context.Context) (string, error)
}

type noCredentials struct{}

func NoCredentials() CredentialSource {
	return noCredentials{}
}

func (noCredentials) Authorization(context.Context) (string, error) {
	return "", nil
}

type staticToken string

// StaticToken sends a fixed bearer token, typically a provider API key.
func StaticToken(token string) CredentialSource {
	return staticToken(token)
}

func (t staticToken) Authorization(context.Context) (string, error) {
	if t == "" {
		return "", fmt.Errorf("API key is empty")
	}
	return "Bearer " + string(t), nil
}

// ADCCredentials mints OAuth2 access tokens from Google Application Default Credentials.
// Credentials are looked up on first use; a failed lookup is retried on the next call.
type ADCCredentials struct {
	scopes []string

	mu          sync.Mutex
	tokenSource oauth2.TokenSource
}

func NewADCCredentials(scopes ...string) *ADCCredentials {
	if len(scopes) == 0 {
		scopes = []string{cloudPlatformScope}
	}
	return &ADCCredentials{scopes: scopes}
}

func (c *ADCCredentials) Authorization(ctx context.Context) (string, error) {
	ts, err := c.source(ctx)
	if err != nil {
		return "", err
	}

	token, err := ts.Token()
	if err != nil {
		return "", fmt.Errorf("failed to get access token: %w", err)
	}

	return token.Type() + " " + token.AccessToken, nil
}

func (c *ADCCredentials) source(ctx context.Context) (oauth2.TokenSource, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tokenSource != nil {
		return c.tokenSource, nil
	}

	// トークン更新は後続のリクエストでも使われるため、呼び出し元のキャンセルを引き継がない
	creds, err := google.FindDefaultCredentials(context.WithoutCancel(ctx), c.scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to find default credentials: %w", err)
	}

	c.tokenSource = oauth2.ReuseTokenSource(nil, creds.TokenSource)
	return c.tokenSource, nil
}
