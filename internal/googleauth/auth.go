// Package googleauth builds authenticated HTTP clients for the Google APIs
// used by the sheets and docs packages.
package googleauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrNoCredentials indicates that neither authentication method is configured.
var ErrNoCredentials = errors.New("no authentication method configured")

// Credentials selects one of two authentication methods: a service account
// key file, or an OAuth2 client with a long-lived refresh token.
type Credentials struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
}

// HasOAuth reports whether a complete OAuth2 refresh-token triple is set.
func (c Credentials) HasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// HasServiceAccount reports whether a service account key path is set.
func (c Credentials) HasServiceAccount() bool {
	return c.ServiceAccountPath != ""
}

// Validate checks that exactly one authentication method is configured.
func (c Credentials) Validate() error {
	hasOAuth := c.HasOAuth()
	hasServiceAccount := c.HasServiceAccount()

	if !hasOAuth && !hasServiceAccount {
		return ErrNoCredentials
	}
	if hasOAuth && hasServiceAccount {
		return fmt.Errorf("multiple authentication methods configured; use either OAuth2 or service account")
	}
	return nil
}

// TokenSource returns a token source for the given scopes.
func TokenSource(ctx context.Context, creds Credentials, scopes ...string) (oauth2.TokenSource, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	if creds.HasServiceAccount() {
		jsonKey, err := os.ReadFile(creds.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, scopes...)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		return jwtConfig.TokenSource(ctx), nil
	}

	client := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       scopes,
	}
	token := &oauth2.Token{
		RefreshToken: creds.RefreshToken,
		TokenType:    "Bearer",
	}
	return client.TokenSource(ctx, token), nil
}

// HTTPClient returns an HTTP client that authorizes requests for the given scopes.
func HTTPClient(ctx context.Context, creds Credentials, scopes ...string) (*http.Client, error) {
	ts, err := TokenSource(ctx, creds, scopes...)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, ts), nil
}
