package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/justsurfingit/job-jotter/internal/auth"
	"github.com/justsurfingit/job-jotter/internal/models"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// UserCredentials stores each user's Google credential on the users row.
type UserCredentials struct {
	db *gorm.DB
}

func NewUserCredentials(db *gorm.DB) *UserCredentials {
	return &UserCredentials{db: db}
}

var _ auth.CredentialRepository = (*UserCredentials)(nil)

func (r *UserCredentials) LoadCredential(ctx context.Context, userID int64) (*oauth2.Token, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Select("id", "google_access_token", "google_refresh_token", "google_token_expiry").
		Where("id = ?", userID).
		Take(&user).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("user %d", userID))
	}
	if user.GoogleAccessToken == "" {
		return nil, fmt.Errorf("user %d: %w", userID, auth.ErrNoStoredCredential)
	}

	tok := &oauth2.Token{
		AccessToken:  user.GoogleAccessToken,
		RefreshToken: user.GoogleRefreshToken,
		TokenType:    "Bearer",
	}
	if user.GoogleTokenExpiry > 0 {
		tok.Expiry = time.UnixMilli(user.GoogleTokenExpiry)
	}
	return tok, nil
}

func (r *UserCredentials) SaveCredential(ctx context.Context, userID int64, tok *oauth2.Token) error {
	var expiry int64
	if !tok.Expiry.IsZero() {
		expiry = tok.Expiry.UnixMilli()
	}

	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"google_access_token":  tok.AccessToken,
			"google_refresh_token": tok.RefreshToken,
			"google_token_expiry":  expiry,
		})
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("save credential for user %d", userID))
	}
	if res.RowsAffected == 0 {
		return notFound(fmt.Sprintf("user %d", userID))
	}
	return nil
}
