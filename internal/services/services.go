// package services defines interface Provider for brokered OAuth providers
//
// Spotify, Google (YouTube)
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mixcover/relay/internal/shared"
	"golang.org/x/oauth2"
)

// Provider defines the interface for OAuth providers the relay brokers on
// behalf of the browser. Implementations hold the registered client secret so
// the SPA never sees it.
type Provider interface {
	// Name returns the provider key used in routes and postMessage payloads
	// (e.g. "spotify", "google").
	Name() string

	// AuthCodeURL composes the provider's authorization endpoint URL for the
	// given state token. Provider-specific extras (consent prompt, offline
	// access) are fixed configuration, never caller input.
	AuthCodeURL(state string) string

	// Exchange performs the single synchronous code-for-token POST against the
	// provider's token endpoint. A failed exchange is reported, never retried.
	Exchange(ctx context.Context, code string) (*Token, error)
}

// Token is the provider-agnostic result of a successful code exchange. It is
// relayed to the browser and never persisted server-side.
type Token struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	TokenType    string `json:"tokenType,omitempty"`
	ExpiresIn    int64  `json:"expiresIn,omitempty"`
}

func tokenFromOAuth2(tok *oauth2.Token) *Token {
	t := &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
	}
	if v := tok.ExpiresIn; v > 0 {
		t.ExpiresIn = v
	}
	return t
}

// exchangeError converts an [oauth2] exchange failure into an error carrying
// the provider's error_description or error field, falling back to a generic
// message. Wraps [shared.ErrExchangeFailed].
func exchangeError(provider string, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		msg := strings.TrimSpace(re.ErrorDescription)
		if msg == "" {
			msg = strings.TrimSpace(re.ErrorCode)
		}
		if msg == "" {
			msg = fmt.Sprintf("%s rejected the authorization code", provider)
		}
		return fmt.Errorf("%w: %s", shared.ErrExchangeFailed, msg)
	}
	return fmt.Errorf("%w: %v", shared.ErrExchangeFailed, err)
}
