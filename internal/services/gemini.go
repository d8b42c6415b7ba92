// Gemini API client backing the generation proxy endpoints
//
// Request/response shapes based on https://ai.google.dev/api/generate-content
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mixcover/relay/internal/shared"
	"github.com/tidwall/gjson"
)

const (
	geminiBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultTextModel  = "gemini-2.5-flash"
	defaultImageModel = "gemini-2.5-flash-image-preview"
)

// StyleHints carries the optional art-direction selections from the cover
// prompt endpoint. Empty slices and strings are simply omitted from the
// instruction.
type StyleHints struct {
	Decades []string
	Genres  []string
	Style   string
}

// Song is one entry of a generated playlist.
type Song struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// PlaylistVibe is the structured playlist the text model is asked to emit.
type PlaylistVibe struct {
	Vibe  string `json:"vibe"`
	Genre string `json:"genre"`
	Songs []Song `json:"songs"`
}

// ImageResult is a generated image as base64 data plus its MIME type.
type ImageResult struct {
	Data     string
	MimeType string
}

// GeminiClient calls the Gemini generateContent API over plain HTTP.
// The API key never leaves this process.
type GeminiClient struct {
	baseURL    string
	apiKey     string
	textModel  string
	imageModel string
	httpClient *http.Client
}

// NewGeminiClient creates a Gemini client from configuration. Model names
// default to the flash tier when unset.
func NewGeminiClient(cfg shared.GeminiConfig, client *http.Client) *GeminiClient {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.TextModel == "" {
		cfg.TextModel = defaultTextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = defaultImageModel
	}

	return &GeminiClient{
		baseURL:    geminiBaseURL,
		apiKey:     cfg.APIKey,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		httpClient: client,
	}
}

// Configured reports whether an API credential is present.
func (g *GeminiClient) Configured() bool {
	return g.apiKey != ""
}

type geminiBlob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *geminiBlob `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig map[string]any  `json:"generationConfig,omitempty"`
}

// generateContent performs one POST to models/{model}:generateContent and
// returns the raw response body. Non-2xx responses become errors carrying the
// API's error.message when present.
func (g *GeminiClient) generateContent(ctx context.Context, model string, parts []geminiPart, genConfig map[string]any) ([]byte, error) {
	if !g.Configured() {
		return nil, shared.ErrServiceUnavailable
	}

	payload, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Parts: parts}},
		GenerationConfig: genConfig,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s", shared.ErrGenerationFailed, msg)
	}

	return body, nil
}

// firstText returns the first non-empty text part of the first candidate.
func firstText(body []byte) (string, bool) {
	for _, part := range gjson.GetBytes(body, "candidates.0.content.parts").Array() {
		if text := part.Get("text").String(); strings.TrimSpace(text) != "" {
			return text, true
		}
	}
	return "", false
}

// firstInline returns the first inlineData part of the first candidate.
func firstInline(body []byte) (*ImageResult, bool) {
	for _, part := range gjson.GetBytes(body, "candidates.0.content.parts").Array() {
		inline := part.Get("inlineData")
		if inline.Exists() && inline.Get("data").String() != "" {
			return &ImageResult{
				Data:     inline.Get("data").String(),
				MimeType: inline.Get("mimeType").String(),
			}, true
		}
	}
	return nil, false
}

// GenerateCoverPrompt asks the text model to describe an album cover derived
// from the supplied selfie, mood and style selections.
func (g *GeminiClient) GenerateCoverPrompt(ctx context.Context, imageData, imageMime, mood string, hints StyleHints) (string, error) {
	parts := []geminiPart{
		{InlineData: &geminiBlob{MimeType: imageMime, Data: imageData}},
		{Text: coverPromptInstruction(mood, hints)},
	}

	body, err := g.generateContent(ctx, g.textModel, parts, nil)
	if err != nil {
		return "", err
	}

	text, ok := firstText(body)
	if !ok {
		return "", fmt.Errorf("%w: response contained no text", shared.ErrGenerationFailed)
	}

	return strings.TrimSpace(text), nil
}

// EditImage asks the image model to repaint the supplied selfie according to
// the album cover prompt, returning the first generated image.
func (g *GeminiClient) EditImage(ctx context.Context, imageData, imageMime, prompt string) (*ImageResult, error) {
	parts := []geminiPart{
		{InlineData: &geminiBlob{MimeType: imageMime, Data: imageData}},
		{Text: prompt},
	}
	genConfig := map[string]any{
		"responseModalities": []string{"IMAGE", "TEXT"},
	}

	body, err := g.generateContent(ctx, g.imageModel, parts, genConfig)
	if err != nil {
		return nil, err
	}

	image, ok := firstInline(body)
	if !ok {
		return nil, fmt.Errorf("%w: response contained no image", shared.ErrGenerationFailed)
	}

	return image, nil
}

// GeneratePlaylist asks the text model for a playlist of exactly length songs
// matching the mood and cover prompt, parsed from the model's JSON output.
// Fenced output (```json ... ```) is tolerated; output that fails to parse or
// carries the wrong number of songs is an error, never a partial result.
func (g *GeminiClient) GeneratePlaylist(ctx context.Context, mood, albumPrompt string, length int) (*PlaylistVibe, error) {
	parts := []geminiPart{{Text: playlistInstruction(mood, albumPrompt, length)}}
	genConfig := map[string]any{
		"responseMimeType": "application/json",
	}

	body, err := g.generateContent(ctx, g.textModel, parts, genConfig)
	if err != nil {
		return nil, err
	}

	text, ok := firstText(body)
	if !ok {
		return nil, fmt.Errorf("%w: response contained no text", shared.ErrGenerationFailed)
	}

	var playlist PlaylistVibe
	if err := json.Unmarshal([]byte(StripJSONFence(text)), &playlist); err != nil {
		return nil, fmt.Errorf("%w: malformed playlist JSON: %v", shared.ErrGenerationFailed, err)
	}
	if len(playlist.Songs) != length {
		return nil, fmt.Errorf("%w: expected %d songs, got %d", shared.ErrGenerationFailed, length, len(playlist.Songs))
	}

	return &playlist, nil
}

// StripJSONFence removes a wrapping Markdown code fence (``` or ```json) from
// model output. Input without a fence is returned trimmed.
func StripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func coverPromptInstruction(mood string, hints StyleHints) string {
	var b strings.Builder
	b.WriteString("You are an art director for album covers. Describe, in one vivid paragraph, ")
	b.WriteString("an album cover that reimagines the person in this photo. ")
	fmt.Fprintf(&b, "The mood of the album is %q.", mood)

	if len(hints.Decades) > 0 {
		fmt.Fprintf(&b, " Draw on the visual language of the %s.", strings.Join(hints.Decades, " and "))
	}
	if len(hints.Genres) > 0 {
		fmt.Fprintf(&b, " The music is %s.", strings.Join(hints.Genres, ", "))
	}
	if hints.Style != "" {
		fmt.Fprintf(&b, " Render it in a %s style.", hints.Style)
	}

	b.WriteString(" Reply with the description only, no preamble.")
	return b.String()
}

func playlistInstruction(mood, albumPrompt string, length int) string {
	return fmt.Sprintf(
		`Create a playlist of exactly %d real songs for an album with this mood: %q and this cover concept: %q.
Respond with a single JSON object of the shape
{"vibe": string, "genre": string, "songs": [{"title": string, "artist": string}]}
where songs has exactly %d entries. Do not include any other text.`,
		length, mood, albumPrompt, length,
	)
}
