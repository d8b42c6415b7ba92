// Google implementation of [Provider]
//
// Authorization flow based on https://developers.google.com/identity/protocols/oauth2/web-server
package services

import (
	"context"
	"fmt"

	"github.com/mixcover/relay/internal/shared"
	"golang.org/x/oauth2"
)

const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"

	youtubeScope = "https://www.googleapis.com/auth/youtube"
)

// GoogleProvider implements [Provider] for Google's OAuth endpoints, scoped to
// YouTube playlist access.
//
// Google wants client id/secret as form body fields at the token endpoint,
// expressed here as [oauth2.AuthStyleInParams]. The asymmetry with Spotify is
// provider policy, not a relay choice.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a Google provider from the registered client credentials.
func NewGoogleProvider(creds shared.OAuthClientConfig) (*GoogleProvider, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: google client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	if creds.RedirectURI == "" {
		return nil, fmt.Errorf("%w: google redirect_uri is required", shared.ErrMissingCredentials)
	}

	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Scopes:       []string{youtubeScope},
			Endpoint: oauth2.Endpoint{
				AuthURL:   googleAuthURL,
				TokenURL:  googleTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}, nil
}

// Name implements [Provider].
func (p *GoogleProvider) Name() string { return "google" }

// AuthCodeURL implements [Provider].
//
// access_type=offline asks for a refresh token; prompt=consent forces the
// consent screen so Google actually issues one on repeat authorizations.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange implements [Provider].
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Token, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, exchangeError(p.Name(), err)
	}
	return tokenFromOAuth2(tok), nil
}
