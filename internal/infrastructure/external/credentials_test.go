package external

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestStaticCredentials(t *testing.T) {
	tests := []struct {
		name    string
		source  CredentialSource
		want    string
		wantErr bool
	}{
		{name: "none", source: NoCredentials(), want: ""},
		{name: "api key", source: StaticToken("k-123"), want: "Bearer k-123"},
		{name: "empty api key", source: StaticToken(""), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.source.Authorization(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestADCCredentials_UsesCachedTokenSource(t *testing.T) {
	creds := NewADCCredentials()
	assert.Equal(t, []string{cloudPlatformScope}, creds.scopes)

	creds.tokenSource = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "ya29.test", TokenType: "Bearer"})

	got, err := creds.Authorization(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer ya29.test", got)
}
