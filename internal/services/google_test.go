package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mixcover/relay/internal/shared"
)

func googleCreds() shared.OAuthClientConfig {
	return shared.OAuthClientConfig{
		ClientID:     "test_client_id",
		ClientSecret: "test_client_secret",
		RedirectURI:  "http://127.0.0.1:8787/callback/google",
	}
}

func TestGoogleProvider(t *testing.T) {
	t.Run("NewGoogleProvider", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			p, err := NewGoogleProvider(googleCreds())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if p.Name() != "google" {
				t.Errorf("expected provider name 'google', got %s", p.Name())
			}
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			creds := googleCreds()
			creds.ClientID = ""
			if _, err := NewGoogleProvider(creds); err == nil {
				t.Error("expected error for missing client_id")
			}
		})
	})

	t.Run("AuthCodeURL", func(t *testing.T) {
		p, err := NewGoogleProvider(googleCreds())
		if err != nil {
			t.Fatalf("failed to create provider: %v", err)
		}

		authURL, err := url.Parse(p.AuthCodeURL("test_state"))
		if err != nil {
			t.Fatalf("auth URL unparseable: %v", err)
		}

		if authURL.Host != "accounts.google.com" {
			t.Errorf("expected Google accounts host, got %s", authURL.Host)
		}

		query := authURL.Query()
		for param, want := range map[string]string{
			"response_type": "code",
			"client_id":     "test_client_id",
			"state":         "test_state",
			"access_type":   "offline",
			"prompt":        "consent",
		} {
			if got := query.Get(param); got != want {
				t.Errorf("expected %s=%q, got %q", param, want, got)
			}
		}

		if scope := query.Get("scope"); !strings.Contains(scope, "youtube") {
			t.Errorf("expected youtube scope, got %q", scope)
		}
	})

	t.Run("Exchange Sends Credentials In Body", func(t *testing.T) {
		var gotAuth string
		var gotForm url.Values

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			r.ParseForm()
			gotForm = r.Form

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"goog_token","token_type":"Bearer","expires_in":3599}`)
		}))
		defer ts.Close()

		p, _ := NewGoogleProvider(googleCreds())
		p.config.Endpoint.TokenURL = ts.URL

		token, err := p.Exchange(context.Background(), "good_code")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if gotAuth != "" {
			t.Errorf("google token endpoint must not receive Basic auth, got %q", gotAuth)
		}
		if gotForm.Get("client_id") != "test_client_id" || gotForm.Get("client_secret") != "test_client_secret" {
			t.Error("expected client credentials as form body fields")
		}
		if gotForm.Get("code") != "good_code" {
			t.Errorf("expected code in form body, got %q", gotForm.Get("code"))
		}
		if token.AccessToken != "goog_token" {
			t.Errorf("expected access token goog_token, got %s", token.AccessToken)
		}
	})
}
