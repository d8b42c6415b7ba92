// Spotify implementation of [Provider]
//
// Authorization flow based on https://developer.spotify.com/documentation/web-api/tutorials/code-flow
package services

import (
	"context"
	"fmt"

	"github.com/mixcover/relay/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// SpotifyProvider implements [Provider] for the Spotify accounts service.
//
// Spotify requires HTTP Basic auth (client id/secret) at the token endpoint,
// expressed here as [oauth2.AuthStyleInHeader].
type SpotifyProvider struct {
	config *oauth2.Config
}

// NewSpotifyProvider creates a Spotify provider from the registered client credentials.
func NewSpotifyProvider(creds shared.OAuthClientConfig) (*SpotifyProvider, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	if creds.RedirectURI == "" {
		return nil, fmt.Errorf("%w: spotify redirect_uri is required", shared.ErrMissingCredentials)
	}

	return &SpotifyProvider{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Scopes: []string{
				"playlist-modify-public",
				"playlist-modify-private",
				"ugc-image-upload",
			},
			Endpoint: oauth2.Endpoint{
				AuthURL:   spotifyAuthURL,
				TokenURL:  spotifyTokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
	}, nil
}

// Name implements [Provider].
func (p *SpotifyProvider) Name() string { return "spotify" }

// AuthCodeURL implements [Provider].
//
// show_dialog forces the consent dialog so a shared browser can switch accounts.
func (p *SpotifyProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
}

// Exchange implements [Provider].
func (p *SpotifyProvider) Exchange(ctx context.Context, code string) (*Token, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, exchangeError(p.Name(), err)
	}
	return tokenFromOAuth2(tok), nil
}
