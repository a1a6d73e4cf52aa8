// Package auth provides OAuth 2.0 configuration and token persistence for
// the YouTube Data API.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Domain identifies a set of credentials an entity's operations require.
// The service client picks credentials by the domain an entity advertises.
type Domain string

// DomainYouTube covers all YouTube Data API operations.
const DomainYouTube Domain = "youtube"

// ErrTokenNotFound is returned by Storage.Load when no token has been saved
// for the requested domain.
var ErrTokenNotFound = errors.New("token not found")

// Scope required for read/write access to the YouTube Data API.
const youtubeScope = "https://www.googleapis.com/auth/youtube"

// Config returns the OAuth 2.0 configuration for the YouTube Data API.
func Config(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{youtubeScope},
		Endpoint:     google.Endpoint,
	}
}

// Storage persists OAuth tokens as JSON files in a directory.
type Storage struct {
	dir string
}

// NewStorage creates a Storage rooted at dir. The directory is created on
// first save.
func NewStorage(dir string) *Storage {
	return &Storage{dir: dir}
}

func (s *Storage) path(domain Domain) string {
	return filepath.Join(s.dir, filepath.Base(string(domain))+"_token.json")
}

// Save writes the token for domain.
func (s *Storage) Save(domain Domain, token *oauth2.Token) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	return os.WriteFile(s.path(domain), data, 0600)
}

// Load reads the token for domain. Returns ErrTokenNotFound if no token has
// been saved.
func (s *Storage) Load(domain Domain) (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path(domain))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	return &token, nil
}

// Delete removes the saved token for domain. Deleting a token that does not
// exist is not an error.
func (s *Storage) Delete(domain Domain) error {
	err := os.Remove(s.path(domain))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
