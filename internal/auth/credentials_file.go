package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/justsurfingit/job-jotter/internal/logging"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// LoadClientConfig reads the app's OAuth client file (credentials.json as
// downloaded from the Google console) and returns a config for the calendar
// scopes.
func LoadClientConfig(path string) (*oauth2.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read client secret file: %w", err)
	}
	config, err := google.ConfigFromJSON(b, CalendarScopes...)
	if err != nil {
		return nil, fmt.Errorf("parse client secret file: %w", err)
	}
	return config, nil
}

// authorizedUserFile is the token file layout, compatible with Google's
// "authorized_user" credential files. The access token and expiry are
// extensions so a valid token survives restarts.
type authorizedUserFile struct {
	Type         string     `json:"type"`
	ClientID     string     `json:"client_id"`
	ClientSecret string     `json:"client_secret"`
	RefreshToken string     `json:"refresh_token"`
	AccessToken  string     `json:"access_token,omitempty"`
	Expiry       *time.Time `json:"expiry,omitempty"`
}

// FileCredentials keeps a single credential in a local token file. It is
// used by the interactive single-user mode, so the user id is ignored.
type FileCredentials struct {
	Path         string
	ClientID     string
	ClientSecret string
}

// SharesCredential reports that every user id maps to the same file.
func (f *FileCredentials) SharesCredential() bool { return true }

func (f *FileCredentials) LoadCredential(ctx context.Context, _ int64) (*oauth2.Token, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.FromContext(ctx).Warn("token file unreadable", "path", f.Path, "err", err)
		}
		return nil, fmt.Errorf("%w: %w", ErrNoStoredCredential, err)
	}

	var saved authorizedUserFile
	if err := json.Unmarshal(b, &saved); err != nil {
		logging.FromContext(ctx).Warn("token file is not valid json", "path", f.Path, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrNoStoredCredential, err)
	}
	if saved.RefreshToken == "" {
		return nil, fmt.Errorf("%w: token file has no refresh token", ErrNoStoredCredential)
	}

	tok := &oauth2.Token{
		AccessToken:  saved.AccessToken,
		RefreshToken: saved.RefreshToken,
		TokenType:    "Bearer",
	}
	if saved.Expiry != nil {
		tok.Expiry = *saved.Expiry
	}
	return tok, nil
}

// SaveCredential writes tok to the token file with owner-only permissions.
func (f *FileCredentials) SaveCredential(ctx context.Context, _ int64, tok *oauth2.Token) error {
	saved := authorizedUserFile{
		Type:         "authorized_user",
		ClientID:     f.ClientID,
		ClientSecret: f.ClientSecret,
		RefreshToken: tok.RefreshToken,
		AccessToken:  tok.AccessToken,
	}
	if !tok.Expiry.IsZero() {
		expiry := tok.Expiry.UTC()
		saved.Expiry = &expiry
	}

	b, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".token-*.json")
	if err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}

	logging.FromContext(ctx).Info("saved google credential", "path", f.Path)
	return nil
}
