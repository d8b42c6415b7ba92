package relay

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mixcover/relay/internal/services"
)

// StartHandler handles GET /oauth/start: it validates the provider and
// redirect parameters, records the transaction, and bounces the popup to the
// provider's authorization page.
// Implements the Handler interface for registration with a Router.
type StartHandler struct {
	store     TransactionStore
	providers map[string]services.Provider
	logger    *log.Logger
}

// NewStartHandler creates a StartHandler over the given store and providers,
// keyed by provider name.
func NewStartHandler(store TransactionStore, providers map[string]services.Provider, logger *log.Logger) *StartHandler {
	return &StartHandler{store: store, providers: providers, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *StartHandler) Routes() []string {
	return []string{"/oauth/start"}
}

// ServeHTTP handles the flow-start request.
//
// Unknown providers and redirect targets that are not absolute http(s) URLs
// are rejected with 400 before any state is created.
func (h *StartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	provider, ok := h.providers[query.Get("provider")]
	if !ok {
		http.Error(w, "Unknown provider", http.StatusBadRequest)
		return
	}

	redirect := query.Get("redirect")
	if !ValidRedirect(redirect) {
		http.Error(w, "Invalid redirect target", http.StatusBadRequest)
		return
	}

	state, err := h.store.Create(redirect)
	if err != nil {
		h.logger.Error("failed to create transaction", "provider", provider.Name(), "error", err)
		http.Error(w, "Failed to start authorization", http.StatusInternalServerError)
		return
	}

	h.logger.Info("authorization started", "provider", provider.Name(), "origin", originOrRaw(redirect))
	http.Redirect(w, r, provider.AuthCodeURL(state), http.StatusFound)
}

// CallbackHandler handles GET /callback/{provider}: it interprets the
// provider's response and hands the outcome to the [Finisher].
// Implements the Handler interface for registration with a Router.
type CallbackHandler struct {
	providers map[string]services.Provider
	finisher  *Finisher
	logger    *log.Logger
}

// NewCallbackHandler creates a CallbackHandler for the given providers.
func NewCallbackHandler(providers map[string]services.Provider, finisher *Finisher, logger *log.Logger) *CallbackHandler {
	return &CallbackHandler{providers: providers, finisher: finisher, logger: logger}
}

// Routes returns one callback route per configured provider.
func (h *CallbackHandler) Routes() []string {
	routes := make([]string, 0, len(h.providers))
	for name := range h.providers {
		routes = append(routes, "/callback/"+name)
	}
	return routes
}

// ServeHTTP handles the provider callback.
//
// A provider-reported error finishes as a failure without any token exchange.
// A missing code finishes as a failure with a fixed message. Otherwise the
// code is exchanged and the flow finishes as success only if a token actually
// came back.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/callback/")
	query := r.URL.Query()

	state := query.Get("state")
	if state == "" {
		http.Error(w, "Missing state parameter", http.StatusBadRequest)
		return
	}

	provider, ok := h.providers[name]
	if !ok {
		http.Error(w, "Unknown provider", http.StatusBadRequest)
		return
	}

	if errParam := query.Get("error"); errParam != "" {
		h.logger.Warn("provider reported error", "provider", name, "error", errParam)
		h.finisher.Finish(w, state, name, nil, fmt.Sprintf("authorization denied: %s", errParam))
		return
	}

	code := query.Get("code")
	if code == "" {
		h.finisher.Finish(w, state, name, nil, "authorization response missing code")
		return
	}

	token, err := provider.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Warn("token exchange failed", "provider", name, "error", err)
		h.finisher.Finish(w, state, name, nil, err.Error())
		return
	}

	h.finisher.Finish(w, state, name, token, "")
}

// ValidRedirect reports whether raw is an absolute http or https URL with a
// host. Anything else (javascript:, relative paths, garbage) is rejected.
func ValidRedirect(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func originOrRaw(target string) string {
	if origin, err := originOf(target); err == nil {
		return origin
	}
	return target
}
