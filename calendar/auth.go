package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

// ErrNoCredentials is returned when the OAuth client file is missing.
var ErrNoCredentials = errors.New("Google API credentials not found")

// LoadOAuthConfig reads an OAuth client file downloaded from the Google
// Cloud console ("installed" or "web" application). redirectAddr is the
// loopback address the consent screen redirects to.
func LoadOAuthConfig(credentialsPath, redirectAddr string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s with your OAuth client credentials", ErrNoCredentials, credentialsPath)
	}
	cfg, err := google.ConfigFromJSON(b, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", credentialsPath, err)
	}
	cfg.RedirectURL = "http://" + redirectAddr
	return cfg, nil
}

// LoadToken reads a cached token.
func LoadToken(path string) (*oauth2.Token, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, fmt.Errorf("decode token %s: %w", path, err)
	}
	return &tok, nil
}

// SaveToken caches tok at path, readable only by the owner.
func SaveToken(path string, tok *oauth2.Token) error {
	b, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	return os.WriteFile(path, b, 0o600)
}

// Authorizer runs the loopback consent flow: it prints the consent URL,
// waits for the browser to be redirected back with a code and exchanges
// the code for a token.
type Authorizer struct {
	Config   *oauth2.Config
	Listener net.Listener // nil listens on the redirect address
	Out      io.Writer    // where the consent URL is printed
}

// Authorize blocks until the redirect arrives, ctx is done, or the
// consent screen reports an error.
func (a *Authorizer) Authorize(ctx context.Context) (*oauth2.Token, error) {
	ln := a.Listener
	if ln == nil {
		addr := a.Config.RedirectURL[len("http://"):]
		var err error
		ln, err = net.Listen("tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("start auth server on %s: %w", addr, err)
		}
	}

	type result struct {
		tok *oauth2.Token
		err error
	}
	done := make(chan result, 1)
	finish := func(r result) {
		select {
		case done <- r:
		default:
		}
	}

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if e := q.Get("error"); e != "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "<h1>Authorization Failed</h1><p>Error: %s</p><p>You can close this window.</p>", e)
			finish(result{err: fmt.Errorf("authorization failed: %s", e)})
			return
		}
		code := q.Get("code")
		if code == "" {
			http.NotFound(w, r)
			return
		}
		tok, err := a.Config.Exchange(r.Context(), code)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, "<h1>Token Exchange Failed</h1><p>%s</p>", err)
			finish(result{err: fmt.Errorf("exchange code: %w", err)})
			return
		}
		fmt.Fprint(w, "<h1>Authorization Successful!</h1><p>You can close this window and return to your terminal.</p>")
		finish(result{tok: tok})
	})}
	go srv.Serve(ln)
	defer srv.Close()

	if a.Out != nil {
		url := a.Config.AuthCodeURL("state", oauth2.AccessTypeOffline)
		fmt.Fprintf(a.Out, "Google Calendar authorization required. Visit this URL:\n%s\n", url)
	}

	select {
	case r := <-done:
		return r.tok, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// HTTPClient returns a client authorized for the calendar API. A cached
// token is used when present; otherwise the consent flow runs and the
// token is cached.
func HTTPClient(ctx context.Context, cfg *oauth2.Config, tokenPath string, auth *Authorizer) (*http.Client, error) {
	tok, err := LoadToken(tokenPath)
	if err != nil {
		if auth == nil {
			return nil, fmt.Errorf("no cached token at %s: %w", tokenPath, err)
		}
		tok, err = auth.Authorize(ctx)
		if err != nil {
			return nil, err
		}
		if err := SaveToken(tokenPath, tok); err != nil {
			return nil, fmt.Errorf("save token: %w", err)
		}
	}
	return cfg.Client(ctx, tok), nil
}
