package relay

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/mixcover/relay/internal/services"
	"github.com/mixcover/relay/internal/shared"
)

// Finisher renders the terminal page of an OAuth flow. It consumes the
// transaction for the presented state and emits a page whose script relays the
// result to the opener window, then closes the popup.
//
// The postMessage target origin is derived from the redirect target stored at
// /oauth/start time, never from anything the callback request supplies. That
// is the relay's core security property: a spoofed popup flow cannot point the
// token at an attacker-controlled origin.
type Finisher struct {
	store  TransactionStore
	logger *log.Logger
}

// NewFinisher creates a Finisher over the given store.
func NewFinisher(store TransactionStore, logger *log.Logger) *Finisher {
	return &Finisher{store: store, logger: logger}
}

type finishPage struct {
	Heading string
	Detail  string
	Payload map[string]any
	Origin  string
}

// Finish consumes the transaction for state and renders the relay page.
// A nil token with a non-empty errMsg renders the failure variant; an
// unknown or already-consumed state always gets the fixed 400 page.
func (f *Finisher) Finish(w http.ResponseWriter, state, provider string, token *services.Token, errMsg string) {
	target, ok := f.store.Consume(state)
	if !ok {
		f.logger.Warn("rejected callback", "provider", provider, "error", shared.ErrStateMismatch)
		renderInvalidState(w)
		return
	}

	origin, err := originOf(target)
	if err != nil {
		// redirect targets are validated at /oauth/start, so this only fires
		// if a different store implementation hands back garbage
		f.logger.Error("stored redirect target unparseable", "provider", provider, "error", err)
		renderInvalidState(w)
		return
	}

	payload := map[string]any{"provider": provider}
	page := finishPage{Origin: origin, Payload: payload}

	if errMsg != "" {
		payload["error"] = errMsg
		page.Heading = "Authorization failed"
		page.Detail = errMsg
	} else {
		payload["token"] = token
		page.Heading = "Authorization successful"
		page.Detail = "You can close this window and return to the app."
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := relayPage.Execute(w, page); err != nil {
		f.logger.Error("failed to render relay page", "error", err)
	}
}

// originOf reduces a redirect target to its origin (scheme://host[:port]).
func originOf(target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("redirect target %q has no origin", target)
	}
	return u.Scheme + "://" + u.Host, nil
}

func renderInvalidState(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprint(w, invalidStatePage)
}

var relayPage = template.Must(template.New("relay").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Heading}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Heading}}</h1>
        <p>{{.Detail}}</p>
    </div>
    <script>
    (function () {
        var payload = {{.Payload}};
        var origin = {{.Origin}};
        if (window.opener) {
            window.opener.postMessage(payload, origin);
            window.close();
        }
    })();
    </script>
</body>
</html>
`))

const invalidStatePage = `<!DOCTYPE html>
<html>
<head>
    <title>Invalid Sign-in Attempt</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #FF0000; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Invalid sign-in attempt</h1>
        <p>This sign-in link is unknown or was already used. Close this window and try again.</p>
    </div>
</body>
</html>
`
