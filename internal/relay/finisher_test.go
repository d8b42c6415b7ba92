package relay

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mixcover/relay/internal/services"
	"github.com/mixcover/relay/internal/shared"
)

func TestFinisher(t *testing.T) {
	logger := shared.NewLogger(nil)

	t.Run("Unknown State Renders Fixed Page", func(t *testing.T) {
		var logs bytes.Buffer
		finisher := NewFinisher(NewMemoryStore(), shared.NewLogger(&logs))

		rec := httptest.NewRecorder()
		finisher.Finish(rec, "never-issued", "spotify", nil, "")

		if rec.Code != 400 {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Invalid sign-in attempt") {
			t.Error("expected the fixed invalid-state page")
		}
		if strings.Contains(rec.Body.String(), "postMessage") {
			t.Error("invalid-state page must not relay anything")
		}
		if !strings.Contains(logs.String(), shared.ErrStateMismatch.Error()) {
			t.Errorf("expected the state mismatch to be logged, got %q", logs.String())
		}
	})

	t.Run("Success Page", func(t *testing.T) {
		store := NewMemoryStore()
		finisher := NewFinisher(store, logger)
		state, _ := store.Create("https://app.example.com:8443/studio/result")

		rec := httptest.NewRecorder()
		finisher.Finish(rec, state, "google", &services.Token{AccessToken: "ya29.token"}, "")

		if rec.Code != 200 {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		body := rec.Body.String()
		if !strings.Contains(body, "app.example.com:8443") {
			t.Error("target origin should keep the port of the redirect target")
		}
		if strings.Contains(body, "/studio/result") {
			t.Error("target origin must not include the redirect path")
		}
		if !strings.Contains(body, "ya29.token") {
			t.Error("payload should contain the token")
		}
		if !strings.Contains(body, "google") {
			t.Error("payload should name the provider")
		}
	})

	t.Run("Failure Page", func(t *testing.T) {
		store := NewMemoryStore()
		finisher := NewFinisher(store, logger)
		state, _ := store.Create("http://localhost:5173")

		rec := httptest.NewRecorder()
		finisher.Finish(rec, state, "spotify", nil, "authorization denied: access_denied")

		if rec.Code != 200 {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "access_denied") {
			t.Error("failure payload should carry the error message")
		}
		if !strings.Contains(rec.Body.String(), "Authorization failed") {
			t.Error("failure page should render the failure heading")
		}
	})
}

func TestOriginOf(t *testing.T) {
	cases := []struct {
		target string
		origin string
		ok     bool
	}{
		{"https://app.example.com/studio", "https://app.example.com", true},
		{"http://localhost:5173/a/b?c=d", "http://localhost:5173", true},
		{"https://app.example.com", "https://app.example.com", true},
		{"not a url", "", false},
		{"/relative", "", false},
	}

	for _, tc := range cases {
		origin, err := originOf(tc.target)
		if tc.ok && err != nil {
			t.Errorf("originOf(%q): unexpected error %v", tc.target, err)
			continue
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("originOf(%q): expected error", tc.target)
			}
			continue
		}
		if origin != tc.origin {
			t.Errorf("originOf(%q) = %q, want %q", tc.target, origin, tc.origin)
		}
	}
}
