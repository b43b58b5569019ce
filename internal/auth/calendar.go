package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/justsurfingit/job-jotter/internal/logging"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

var (
	ErrNoStoredCredential = errors.New("no stored google credential")
	ErrTokenRefresh       = errors.New("google token refresh failed")
	ErrInteractiveAuth    = errors.New("interactive google authorization failed")
	ErrInvalidState       = errors.New("invalid oauth state")
	ErrCodeExchange       = errors.New("google authorization code exchange failed")
)

// CalendarScopes are requested on every consent screen.
var CalendarScopes = []string{calendar.CalendarReadonlyScope, calendar.CalendarScope}

// CredentialRepository persists a user's Google credential.
// LoadCredential returns an error wrapping ErrNoStoredCredential when the
// user has nothing usable stored.
type CredentialRepository interface {
	LoadCredential(ctx context.Context, userID int64) (*oauth2.Token, error)
	SaveCredential(ctx context.Context, userID int64, tok *oauth2.Token) error
}

// sharedCredential is implemented by stores that keep one credential for
// every user id.
type sharedCredential interface {
	SharesCredential() bool
}

// Authorizer obtains a fresh credential by asking a human for consent.
type Authorizer interface {
	Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)
}

// CalendarAuth hands out HTTP clients authorized for a user's Google
// Calendar. It reuses a stored credential while it is valid, refreshes it
// once expired, and in interactive mode asks for consent when nothing is
// stored yet.
type CalendarAuth struct {
	config     *oauth2.Config
	creds      CredentialRepository
	tokens     *Tokens
	authorizer Authorizer // nil in stored-credential mode

	httpClient *http.Client
	timeout    time.Duration
	now        func() time.Time

	locks sync.Map // lock key -> *sync.Mutex, one entry per user at most
}

type CalendarAuthOption func(*CalendarAuth)

// WithAuthorizer enables the interactive flow for users with no credential.
func WithAuthorizer(a Authorizer) CalendarAuthOption {
	return func(c *CalendarAuth) { c.authorizer = a }
}

// WithProviderTimeout bounds every call to the Google token endpoint.
func WithProviderTimeout(d time.Duration) CalendarAuthOption {
	return func(c *CalendarAuth) { c.timeout = d }
}

// WithHTTPClient sets the client used to talk to Google.
func WithHTTPClient(hc *http.Client) CalendarAuthOption {
	return func(c *CalendarAuth) { c.httpClient = hc }
}

func WithClock(now func() time.Time) CalendarAuthOption {
	return func(c *CalendarAuth) { c.now = now }
}

func NewCalendarAuth(config *oauth2.Config, creds CredentialRepository, tokens *Tokens, opts ...CalendarAuthOption) *CalendarAuth {
	c := &CalendarAuth{
		config:  config,
		creds:   creds,
		tokens:  tokens,
		timeout: 30 * time.Second,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

// NewOAuthConfig builds the web application OAuth config from client settings.
func NewOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       CalendarScopes,
	}
}

// AuthorizedClient returns an HTTP client that calls Google on behalf of userID.
func (c *CalendarAuth) AuthorizedClient(ctx context.Context, userID int64) (*http.Client, error) {
	unlock := c.lock(userID)
	defer unlock()

	tok, err := c.creds.LoadCredential(ctx, userID)
	switch {
	case errors.Is(err, ErrNoStoredCredential) && c.authorizer != nil:
		tok, err = c.authorizeInteractive(ctx, userID)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case !c.valid(tok):
		tok, err = c.refresh(ctx, userID, tok)
		if err != nil {
			return nil, err
		}
	}

	return c.config.Client(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient), tok), nil
}

// AuthCodeURL returns the Google consent URL for userID. The state parameter
// is a signed token that ExchangeAuthorizationCode verifies on the way back.
func (c *CalendarAuth) AuthCodeURL(userID int64) (string, error) {
	state, err := c.tokens.NewState(userID)
	if err != nil {
		return "", err
	}
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// ExchangeAuthorizationCode completes the redirect flow: it verifies state,
// trades code for tokens and stores them for the user named by state.
func (c *CalendarAuth) ExchangeAuthorizationCode(ctx context.Context, code, state string) error {
	userID, err := c.tokens.ParseState(state)
	if err != nil {
		return err
	}
	if code == "" {
		return fmt.Errorf("%w: missing code", ErrCodeExchange)
	}

	pctx, cancel := c.providerContext(ctx)
	defer cancel()

	tok, err := c.config.Exchange(pctx, code)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCodeExchange, err)
	}

	unlock := c.lock(userID)
	defer unlock()

	// Google only sends a refresh token on the first consent; keep the old one.
	if tok.RefreshToken == "" {
		prev, err := c.creds.LoadCredential(ctx, userID)
		switch {
		case err == nil:
			tok.RefreshToken = prev.RefreshToken
		case !errors.Is(err, ErrNoStoredCredential):
			return err
		}
	}

	if err := c.creds.SaveCredential(ctx, userID, tok); err != nil {
		return fmt.Errorf("save google credential: %w", err)
	}
	logging.FromContext(ctx).Info("google calendar connected", "user_id", userID)
	return nil
}

func (c *CalendarAuth) valid(tok *oauth2.Token) bool {
	return tok.AccessToken != "" && !tok.Expiry.IsZero() && c.now().Before(tok.Expiry)
}

// refresh trades the stored refresh token for a new access token and saves
// the result. Nothing is saved when the provider call fails.
func (c *CalendarAuth) refresh(ctx context.Context, userID int64, stored *oauth2.Token) (*oauth2.Token, error) {
	if stored.RefreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token stored", ErrTokenRefresh)
	}

	pctx, cancel := c.providerContext(ctx)
	defer cancel()

	fresh, err := c.config.TokenSource(pctx, &oauth2.Token{RefreshToken: stored.RefreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenRefresh, err)
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = stored.RefreshToken
	}

	if err := c.creds.SaveCredential(ctx, userID, fresh); err != nil {
		return nil, fmt.Errorf("save refreshed google credential: %w", err)
	}
	logging.FromContext(ctx).Debug("google token refreshed", "user_id", userID, "expiry", fresh.Expiry)
	return fresh, nil
}

func (c *CalendarAuth) authorizeInteractive(ctx context.Context, userID int64) (*oauth2.Token, error) {
	logging.FromContext(ctx).Info("no saved google credential, starting interactive authorization")

	tok, err := c.authorizer.Authorize(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient), c.config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInteractiveAuth, err)
	}
	if err := c.creds.SaveCredential(ctx, userID, tok); err != nil {
		return nil, fmt.Errorf("save google credential: %w", err)
	}
	return tok, nil
}

func (c *CalendarAuth) providerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// lock serializes credential work per user within this process. A store
// that shares one credential across users gets a single lock. Entries are
// never evicted, so the map is bounded by the number of users. Separate
// processes still race and the last write wins.
func (c *CalendarAuth) lock(userID int64) func() {
	key := userID
	if s, ok := c.creds.(sharedCredential); ok && s.SharesCredential() {
		key = 0
	}
	v, _ := c.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
