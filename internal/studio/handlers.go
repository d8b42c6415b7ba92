package studio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mixcover/relay/internal/services"
	"github.com/mixcover/relay/internal/shared"
)

// Generator is the studio's view of the AI backend: an opaque set of
// generation calls. [services.GeminiClient] is the production implementation.
type Generator interface {
	GenerateCoverPrompt(ctx context.Context, imageData, imageMime, mood string, hints services.StyleHints) (string, error)
	EditImage(ctx context.Context, imageData, imageMime, prompt string) (*services.ImageResult, error)
	GeneratePlaylist(ctx context.Context, mood, albumPrompt string, length int) (*services.PlaylistVibe, error)
}

// Handlers serves the three generation proxy endpoints.
// Implements the Handler interface for registration with a Router.
type Handlers struct {
	gen    Generator
	logger *log.Logger
}

// NewHandlers creates the studio handlers. gen may be nil when no AI
// credential is configured; every endpoint then answers 503.
func NewHandlers(gen Generator, logger *log.Logger) *Handlers {
	return &Handlers{gen: gen, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *Handlers) Routes() []string {
	return []string{
		"/generate-album-cover-prompt",
		"/edit-selfie-into-album-cover",
		"/generate-playlist-vibe",
	}
}

// ServeHTTP dispatches to the endpoint-specific handler.
func (h *Handlers) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.gen == nil {
		writeError(w, http.StatusServiceUnavailable, "AI generation is not configured")
		return
	}

	switch r.URL.Path {
	case "/generate-album-cover-prompt":
		h.coverPrompt(w, r)
	case "/edit-selfie-into-album-cover":
		h.editSelfie(w, r)
	case "/generate-playlist-vibe":
		h.playlistVibe(w, r)
	default:
		http.NotFound(w, r)
	}
}

type styleSelections struct {
	Decade []string `json:"decade"`
	Genre  []string `json:"genre"`
	Style  string   `json:"style"`
}

type coverPromptRequest struct {
	ImageData     string          `json:"imageData"`
	ImageMimeType string          `json:"imageMimeType"`
	Mood          string          `json:"mood"`
	Styles        styleSelections `json:"styles"`
}

func (req *coverPromptRequest) validate() error {
	switch {
	case req.ImageData == "":
		return fmt.Errorf("%w: imageData", shared.ErrMissingArgument)
	case req.ImageMimeType == "":
		return fmt.Errorf("%w: imageMimeType", shared.ErrMissingArgument)
	case req.Mood == "":
		return fmt.Errorf("%w: mood", shared.ErrMissingArgument)
	}
	return nil
}

func (h *Handlers) coverPrompt(w http.ResponseWriter, r *http.Request) {
	var req coverPromptRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	prompt, err := h.gen.GenerateCoverPrompt(r.Context(), req.ImageData, req.ImageMimeType, req.Mood, services.StyleHints{
		Decades: req.Styles.Decade,
		Genres:  req.Styles.Genre,
		Style:   req.Styles.Style,
	})
	if err != nil {
		h.upstreamError(w, "cover prompt generation failed", err)
		return
	}

	writeJSON(w, map[string]string{"prompt": prompt})
}

type editSelfieRequest struct {
	ImageData     string `json:"imageData"`
	ImageMimeType string `json:"imageMimeType"`
	Prompt        string `json:"prompt"`
}

func (req *editSelfieRequest) validate() error {
	switch {
	case req.ImageData == "":
		return fmt.Errorf("%w: imageData", shared.ErrMissingArgument)
	case req.ImageMimeType == "":
		return fmt.Errorf("%w: imageMimeType", shared.ErrMissingArgument)
	case req.Prompt == "":
		return fmt.Errorf("%w: prompt", shared.ErrMissingArgument)
	}
	return nil
}

func (h *Handlers) editSelfie(w http.ResponseWriter, r *http.Request) {
	var req editSelfieRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	image, err := h.gen.EditImage(r.Context(), req.ImageData, req.ImageMimeType, req.Prompt)
	if err != nil {
		h.upstreamError(w, "album cover synthesis failed", err)
		return
	}

	writeJSON(w, map[string]string{
		"imageData": image.Data,
		"mimeType":  image.MimeType,
	})
}

type playlistVibeRequest struct {
	Mood           string `json:"mood"`
	AlbumPrompt    string `json:"albumPrompt"`
	PlaylistLength int    `json:"playlistLength"`
}

func (req *playlistVibeRequest) validate() error {
	switch {
	case req.Mood == "":
		return fmt.Errorf("%w: mood", shared.ErrMissingArgument)
	case req.AlbumPrompt == "":
		return fmt.Errorf("%w: albumPrompt", shared.ErrMissingArgument)
	case req.PlaylistLength <= 0:
		return fmt.Errorf("%w: playlistLength must be a positive integer", shared.ErrInvalidInput)
	}
	return nil
}

func (h *Handlers) playlistVibe(w http.ResponseWriter, r *http.Request) {
	var req playlistVibeRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	playlist, err := h.gen.GeneratePlaylist(r.Context(), req.Mood, req.AlbumPrompt, req.PlaylistLength)
	if err != nil {
		h.upstreamError(w, "playlist generation failed", err)
		return
	}

	writeJSON(w, playlist)
}

// upstreamError logs the failure and maps it to a status: 503 when no
// credential is configured, 502 when the AI provider failed or returned
// unusable output, 500 for anything else (transport, request build).
func (h *Handlers) upstreamError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)

	switch {
	case errors.Is(err, shared.ErrServiceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "AI generation is not configured")
	case errors.Is(err, shared.ErrGenerationFailed):
		writeError(w, http.StatusBadGateway, msg)
	default:
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
