package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrInvalidCredential is returned when the identity provider rejects
// the presented credential.
var ErrInvalidCredential = errors.New("invalid credential")

// Identity is the verified profile returned by the provider. Email is
// the opaque user identifier used across the service.
type Identity struct {
	Email   string
	Name    string
	Picture string
}

// IdentityProvider exchanges an opaque credential for a verified identity.
type IdentityProvider interface {
	Verify(ctx context.Context, credential string) (Identity, error)
}

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleProvider verifies Google ID tokens against the tokeninfo endpoint.
type GoogleProvider struct {
	clientID string
	endpoint string
	client   *http.Client
}

// NewGoogleProvider builds a provider bound to the given OAuth client id.
func NewGoogleProvider(clientID string) *GoogleProvider {
	return &GoogleProvider{
		clientID: clientID,
		endpoint: googleTokenInfoURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify checks the ID token with Google and returns the verified profile.
func (p *GoogleProvider) Verify(ctx context.Context, credential string) (Identity, error) {
	if credential == "" {
		return Identity{}, ErrInvalidCredential
	}

	endpoint := p.endpoint + "?id_token=" + url.QueryEscape(credential)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Identity{}, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("tokeninfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, ErrInvalidCredential
	}

	var payload struct {
		Aud           string `json:"aud"`
		Email         string `json:"email"`
		EmailVerified string `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Identity{}, fmt.Errorf("decode tokeninfo response: %w", err)
	}

	if payload.Aud != p.clientID || payload.Email == "" || payload.EmailVerified != "true" {
		return Identity{}, ErrInvalidCredential
	}

	return Identity{Email: payload.Email, Name: payload.Name, Picture: payload.Picture}, nil
}
