// Package studio serves the AI generation proxy endpoints: album-cover prompt
// from a selfie, selfie-to-album-cover image edit, and structured playlist
// generation.
//
// Each endpoint validates its explicit request struct at the boundary and
// rejects on the first violation (400). With no AI credential configured every
// endpoint answers 503. Upstream failures map to 502, transport failures to
// 500; nothing is retried or cached. The handlers share no state with the
// OAuth relay.
package studio
