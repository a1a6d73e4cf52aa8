package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	config := Config("client-id", "client-secret", "http://localhost:8080/callback")

	assert.Equal(t, "client-id", config.ClientID)
	assert.Equal(t, "client-secret", config.ClientSecret)
	assert.Equal(t, "http://localhost:8080/callback", config.RedirectURL)
	assert.Contains(t, config.Scopes, "https://www.googleapis.com/auth/youtube")
	assert.NotEmpty(t, config.Endpoint.AuthURL)
	assert.NotEmpty(t, config.Endpoint.TokenURL)
}

func TestStorageRoundTrip(t *testing.T) {
	storage := NewStorage(t.TempDir())

	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).Truncate(time.Second),
	}

	require.NoError(t, storage.Save(DomainYouTube, token))

	loaded, err := storage.Load(DomainYouTube)
	require.NoError(t, err)
	assert.Equal(t, token.AccessToken, loaded.AccessToken)
	assert.Equal(t, token.RefreshToken, loaded.RefreshToken)
	assert.Equal(t, token.TokenType, loaded.TokenType)
	assert.True(t, token.Expiry.Equal(loaded.Expiry))
}

func TestStorageLoadMissing(t *testing.T) {
	storage := NewStorage(t.TempDir())

	_, err := storage.Load(DomainYouTube)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestStorageDelete(t *testing.T) {
	storage := NewStorage(t.TempDir())

	require.NoError(t, storage.Save(DomainYouTube, &oauth2.Token{AccessToken: "a"}))
	require.NoError(t, storage.Delete(DomainYouTube))

	_, err := storage.Load(DomainYouTube)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	// Deleting again is not an error.
	require.NoError(t, storage.Delete(DomainYouTube))
}
