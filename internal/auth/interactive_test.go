package auth

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalAuthorizer_CompletesFlow(t *testing.T) {
	var verifier string
	ts := newTokenServer(t, func(form url.Values) (int, map[string]any) {
		verifier = form.Get("code_verifier")
		return http.StatusOK, map[string]any{
			"access_token":  "interactive",
			"refresh_token": "r",
			"token_type":    "Bearer",
			"expires_in":    3600,
		}
	})

	authz := &LocalAuthorizer{
		Timeout: 5 * time.Second,
		Out:     io.Discard,
		OpenBrowser: func(raw string) error {
			u, err := url.Parse(raw)
			if err != nil {
				return err
			}
			q := u.Query()
			callback := q.Get("redirect_uri") + "?" + url.Values{
				"code":  {"granted"},
				"state": {q.Get("state")},
			}.Encode()
			go func() {
				resp, err := http.Get(callback)
				if err == nil {
					resp.Body.Close()
				}
			}()
			return nil
		},
	}

	tok, err := authz.Authorize(context.Background(), ts.config())
	require.NoError(t, err)
	assert.Equal(t, "interactive", tok.AccessToken)
	assert.NotEmpty(t, verifier)
}

func TestLocalAuthorizer_StateMismatch(t *testing.T) {
	ts := newTokenServer(t, refreshOK("x"))

	authz := &LocalAuthorizer{
		Timeout: 5 * time.Second,
		OpenBrowser: func(raw string) error {
			u, _ := url.Parse(raw)
			go func() {
				resp, err := http.Get(u.Query().Get("redirect_uri") + "?code=c&state=forged")
				if err == nil {
					resp.Body.Close()
				}
			}()
			return nil
		},
	}

	_, err := authz.Authorize(context.Background(), ts.config())
	require.Error(t, err)
	assert.Zero(t, ts.hits.Load())
}

func TestLocalAuthorizer_Timeout(t *testing.T) {
	ts := newTokenServer(t, refreshOK("x"))
	authz := &LocalAuthorizer{Timeout: 50 * time.Millisecond}

	_, err := authz.Authorize(context.Background(), ts.config())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
