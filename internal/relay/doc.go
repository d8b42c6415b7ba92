// Package relay implements the OAuth correlation and popup handoff core.
//
// # Flow
//
// The browser opens a popup to /oauth/start. [StartHandler] validates the
// provider and redirect parameters, stores a transaction in the
// [TransactionStore] under a fresh random state token, and redirects to the
// provider's authorization page. The provider sends the user back to
// /callback/{provider} with a code and the original state. [CallbackHandler]
// exchanges the code through the matching [services.Provider] and the
// [Finisher] renders the terminal page, which posts the result to the opener
// window and closes the popup.
//
// # State correlation
//
// A transaction exists from the moment /oauth/start issues it until the
// matching callback consumes it. Consumption is destructive: the first
// callback to present a state wins, on the success and failure paths alike,
// and every later presentation of the same state gets the fixed 400 page.
// That deletion-on-read is the whole replay and CSRF defense.
//
// # Handoff
//
// The relay page posts {provider, token} (or {provider, error}) to exactly
// the origin of the redirect target the caller supplied at start time. The
// origin is server-derived; nothing in the callback request can steer it.
package relay
