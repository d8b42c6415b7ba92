// Package services implements the relay's outbound API adapters: the [Provider]
// interface for brokered OAuth providers (Spotify, Google) and the
// [GeminiClient] for the generation proxy endpoints.
//
// # Provider Interface
//
// Both providers expose the same two operations: composing the authorization
// URL for a state token and exchanging an authorization code for a [Token].
// The asymmetric token-endpoint authentication (Spotify wants HTTP Basic,
// Google wants body fields) lives in each adapter's [oauth2.Endpoint] and
// nowhere else.
//
// Exchange failures carry the provider's error_description (or error code)
// through [shared.ErrExchangeFailed]; callers relay the message to the opener
// window, and no exchange is ever retried.
//
// # Gemini Client
//
// [GeminiClient] is a thin generateContent client. Structured playlist output
// is requested as application/json, tolerates a wrapping Markdown fence, and
// fails whole: a parse error yields no partial playlist.
package services
