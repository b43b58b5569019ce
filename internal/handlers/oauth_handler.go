package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-jotter/internal/auth"
	"github.com/justsurfingit/job-jotter/internal/logging"
	"github.com/justsurfingit/job-jotter/internal/models"
)

// OAuthHandler links a user's Google account through the browser redirect
// flow. Browsers cannot send the Authorization header on a plain
// navigation, so the session token rides in the query string.
type OAuthHandler struct {
	Connector   CalendarConnector
	Tokens      *auth.Tokens
	FrontendURL string
}

func NewOAuthHandler(connector CalendarConnector, tokens *auth.Tokens, frontendURL string) *OAuthHandler {
	return &OAuthHandler{Connector: connector, Tokens: tokens, FrontendURL: frontendURL}
}

// Start is GET /auth/google?token=...
func (h *OAuthHandler) Start(c *gin.Context) {
	raw := c.Query("token")
	if raw == "" {
		_ = c.Error(fmt.Errorf("not logged in: %w", models.ErrUnauthorized))
		return
	}
	claims, err := h.Tokens.Parse(raw)
	if err != nil {
		logging.FromContext(c.Request.Context()).Debug("rejecting consent request", "err", err)
		_ = c.Error(badRequest(auth.ErrInvalidToken))
		return
	}

	url, err := h.Connector.AuthCodeURL(claims.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// Callback is GET /auth/google/callback, where Google sends the user back.
func (h *OAuthHandler) Callback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		_ = c.Error(fmt.Errorf("%w: consent denied: %s", auth.ErrCodeExchange, reason))
		return
	}
	err := h.Connector.ExchangeAuthorizationCode(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, h.FrontendURL)
}
