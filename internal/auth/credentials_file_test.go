package auth

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestFileCredentials_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := &FileCredentials{Path: path, ClientID: "cid", ClientSecret: "csecret"}
	ctx := context.Background()

	expiry := time.Date(2031, 5, 6, 7, 8, 9, 0, time.UTC)
	require.NoError(t, store.SaveCredential(ctx, 0, &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       expiry,
	}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "authorized_user", raw["type"])
	assert.Equal(t, "cid", raw["client_id"])
	assert.Equal(t, "csecret", raw["client_secret"])
	assert.Equal(t, "refresh", raw["refresh_token"])

	tok, err := store.LoadCredential(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "access", tok.AccessToken)
	assert.Equal(t, "refresh", tok.RefreshToken)
	assert.True(t, expiry.Equal(tok.Expiry))
}

func TestFileCredentials_LoadUnusable(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	cases := map[string]string{
		"not json":         "{oops",
		"no refresh token": `{"type":"authorized_user","access_token":"a"}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			_, err := (&FileCredentials{Path: path}).LoadCredential(ctx, 0)
			require.ErrorIs(t, err, ErrNoStoredCredential)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := (&FileCredentials{Path: filepath.Join(dir, "absent.json")}).LoadCredential(ctx, 0)
		require.ErrorIs(t, err, ErrNoStoredCredential)
	})
}

func TestFileCredentials_RefreshTokenOnlyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	content := `{"type":"authorized_user","client_id":"c","client_secret":"s","refresh_token":"r"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	tok, err := (&FileCredentials{Path: path}).LoadCredential(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "r", tok.RefreshToken)
	assert.Empty(t, tok.AccessToken)
	assert.True(t, tok.Expiry.IsZero())
}

func TestLoadClientConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	content := `{"installed":{"client_id":"cid","client_secret":"cs","redirect_uris":["http://localhost"],
		"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadClientConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "cid", cfg.ClientID)
	assert.Equal(t, CalendarScopes, cfg.Scopes)

	_, err = LoadClientConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
