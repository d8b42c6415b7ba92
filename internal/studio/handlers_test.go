package studio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mixcover/relay/internal/services"
	"github.com/mixcover/relay/internal/shared"
)

// fakeGenerator implements Generator with canned results.
type fakeGenerator struct {
	prompt   string
	image    *services.ImageResult
	playlist *services.PlaylistVibe
	err      error

	lastLength int
}

func (f *fakeGenerator) GenerateCoverPrompt(ctx context.Context, imageData, imageMime, mood string, hints services.StyleHints) (string, error) {
	return f.prompt, f.err
}

func (f *fakeGenerator) EditImage(ctx context.Context, imageData, imageMime, prompt string) (*services.ImageResult, error) {
	return f.image, f.err
}

func (f *fakeGenerator) GeneratePlaylist(ctx context.Context, mood, albumPrompt string, length int) (*services.PlaylistVibe, error) {
	f.lastLength = length
	return f.playlist, f.err
}

func post(t *testing.T, h *Handlers, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlers(t *testing.T) {
	logger := shared.NewLogger(nil)

	t.Run("Routes", func(t *testing.T) {
		h := NewHandlers(&fakeGenerator{}, logger)
		if len(h.Routes()) != 3 {
			t.Errorf("expected 3 routes, got %d", len(h.Routes()))
		}
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		h := NewHandlers(&fakeGenerator{}, logger)
		req := httptest.NewRequest("GET", "/generate-album-cover-prompt", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("Unconfigured Generator", func(t *testing.T) {
		h := NewHandlers(nil, logger)
		rec := post(t, h, "/generate-playlist-vibe", `{"mood":"m","albumPrompt":"p","playlistLength":5}`)

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", rec.Code)
		}
	})

	t.Run("Cover Prompt", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			h := NewHandlers(&fakeGenerator{prompt: "a neon portrait"}, logger)
			rec := post(t, h, "/generate-album-cover-prompt",
				`{"imageData":"aGk=","imageMimeType":"image/png","mood":"dreamy","styles":{"decade":["1980s"]}}`)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}

			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("response not JSON: %v", err)
			}
			if resp["prompt"] != "a neon portrait" {
				t.Errorf("expected prompt in response, got %v", resp)
			}
		})

		t.Run("Missing Fields", func(t *testing.T) {
			h := NewHandlers(&fakeGenerator{prompt: "x"}, logger)

			for name, body := range map[string]string{
				"no imageData": `{"imageMimeType":"image/png","mood":"dreamy"}`,
				"no mimeType":  `{"imageData":"aGk=","mood":"dreamy"}`,
				"no mood":      `{"imageData":"aGk=","imageMimeType":"image/png"}`,
				"not JSON":     `{"imageData":`,
			} {
				t.Run(name, func(t *testing.T) {
					if rec := post(t, h, "/generate-album-cover-prompt", body); rec.Code != http.StatusBadRequest {
						t.Errorf("expected 400, got %d", rec.Code)
					}
				})
			}
		})
	})

	t.Run("Edit Selfie", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			h := NewHandlers(&fakeGenerator{image: &services.ImageResult{Data: "Zm9v", MimeType: "image/png"}}, logger)
			rec := post(t, h, "/edit-selfie-into-album-cover",
				`{"imageData":"aGk=","imageMimeType":"image/jpeg","prompt":"make it synthwave"}`)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}

			var resp map[string]string
			json.Unmarshal(rec.Body.Bytes(), &resp)
			if resp["imageData"] != "Zm9v" || resp["mimeType"] != "image/png" {
				t.Errorf("unexpected response %v", resp)
			}
		})

		t.Run("Missing Prompt", func(t *testing.T) {
			h := NewHandlers(&fakeGenerator{}, logger)
			rec := post(t, h, "/edit-selfie-into-album-cover", `{"imageData":"aGk=","imageMimeType":"image/jpeg"}`)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	})

	t.Run("Playlist Vibe", func(t *testing.T) {
		t.Run("Success Passes Length Through", func(t *testing.T) {
			gen := &fakeGenerator{playlist: &services.PlaylistVibe{
				Vibe:  "midnight drive",
				Genre: "synthwave",
				Songs: []services.Song{{Title: "One", Artist: "A"}, {Title: "Two", Artist: "B"},
					{Title: "Three", Artist: "C"}, {Title: "Four", Artist: "D"}, {Title: "Five", Artist: "E"}},
			}}
			h := NewHandlers(gen, logger)
			rec := post(t, h, "/generate-playlist-vibe", `{"mood":"m","albumPrompt":"p","playlistLength":5}`)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if gen.lastLength != 5 {
				t.Errorf("expected playlistLength forwarded, got %d", gen.lastLength)
			}

			var resp services.PlaylistVibe
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("response not JSON: %v", err)
			}
			if len(resp.Songs) != 5 {
				t.Errorf("expected 5 songs, got %d", len(resp.Songs))
			}
		})

		t.Run("Invalid Length", func(t *testing.T) {
			h := NewHandlers(&fakeGenerator{}, logger)
			rec := post(t, h, "/generate-playlist-vibe", `{"mood":"m","albumPrompt":"p","playlistLength":0}`)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})

		t.Run("Upstream Parse Failure Is 502", func(t *testing.T) {
			gen := &fakeGenerator{err: fmt.Errorf("%w: malformed playlist JSON", shared.ErrGenerationFailed)}
			h := NewHandlers(gen, logger)
			rec := post(t, h, "/generate-playlist-vibe", `{"mood":"m","albumPrompt":"p","playlistLength":5}`)

			if rec.Code != http.StatusBadGateway {
				t.Errorf("expected 502, got %d", rec.Code)
			}

			var resp services.PlaylistVibe
			json.Unmarshal(rec.Body.Bytes(), &resp)
			if len(resp.Songs) != 0 {
				t.Error("a failed generation must not return a partial playlist")
			}
		})

		t.Run("Transport Failure Is 500", func(t *testing.T) {
			gen := &fakeGenerator{err: fmt.Errorf("request failed: connection refused")}
			h := NewHandlers(gen, logger)
			rec := post(t, h, "/generate-playlist-vibe", `{"mood":"m","albumPrompt":"p","playlistLength":5}`)

			if rec.Code != http.StatusInternalServerError {
				t.Errorf("expected 500, got %d", rec.Code)
			}
		})
	})
}
