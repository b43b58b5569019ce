package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/cli/browser"
	"golang.org/x/oauth2"
)

const callbackPath = "/oauth2callback"

// LocalAuthorizer runs the installed-app consent flow: it listens on a
// loopback port, sends the user to Google and waits for the redirect.
type LocalAuthorizer struct {
	Timeout time.Duration
	Out     io.Writer

	// OpenBrowser opens the consent URL. Defaults to the system browser.
	OpenBrowser func(url string) error
}

func NewLocalAuthorizer(timeout time.Duration) *LocalAuthorizer {
	return &LocalAuthorizer{Timeout: timeout, Out: os.Stdout, OpenBrowser: browser.OpenURL}
}

type callbackResult struct {
	code string
	err  error
}

func (l *LocalAuthorizer) Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen for oauth callback: %w", err)
	}

	conf := *cfg
	conf.RedirectURL = "http://" + ln.Addr().String() + callbackPath

	state, err := randomState()
	if err != nil {
		ln.Close()
		return nil, err
	}
	verifier := oauth2.GenerateVerifier()

	results := make(chan callbackResult, 1)
	deliver := func(r callbackResult) {
		select {
		case results <- r:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
			deliver(callbackResult{err: errors.New("state mismatch in oauth callback")})
		case q.Get("error") != "":
			http.Error(w, "authorization denied", http.StatusBadRequest)
			deliver(callbackResult{err: fmt.Errorf("authorization denied: %s", q.Get("error"))})
		case q.Get("code") == "":
			http.Error(w, "missing code", http.StatusBadRequest)
			deliver(callbackResult{err: errors.New("oauth callback without code")})
		default:
			fmt.Fprintln(w, "Authorization complete. You can close this window.")
			deliver(callbackResult{code: q.Get("code")})
		}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go srv.Serve(ln)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	authURL := conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.S256ChallengeOption(verifier),
	)

	out := l.Out
	if out == nil {
		out = io.Discard
	}
	fmt.Fprintf(out, "\nAuthorize Google Calendar access by visiting:\n%s\n\n", authURL)
	if l.OpenBrowser != nil {
		if err := l.OpenBrowser(authURL); err != nil {
			fmt.Fprintln(out, "Could not open a browser, open the link above manually.")
		}
	}

	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for oauth callback: %w", ctx.Err())
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		tok, err := conf.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
		if err != nil {
			return nil, fmt.Errorf("exchange code: %w", err)
		}
		return tok, nil
	}
}

func randomState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
