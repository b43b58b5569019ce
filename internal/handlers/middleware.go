package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-jotter/internal/auth"
	"github.com/justsurfingit/job-jotter/internal/logging"
	"github.com/justsurfingit/job-jotter/internal/models"
)

const actorKey = "actor"

// Authenticate reads a bearer token and stores the caller for later
// handlers. A missing or invalid token is not an error here.
func Authenticate(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.Next()
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			logging.FromContext(c.Request.Context()).Debug("ignoring invalid bearer token", "err", err)
			c.Next()
			return
		}

		actor := claims.Actor()
		c.Set(actorKey, actor)
		ctx := logging.WithContext(c.Request.Context(),
			logging.FromContext(c.Request.Context()).With("user_id", actor.UserID))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireLogin rejects requests without a valid session token.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentActor(c); !ok {
			abort(c, fmt.Errorf("login required: %w", models.ErrUnauthorized))
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects callers that are not admins.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			abort(c, fmt.Errorf("login required: %w", models.ErrUnauthorized))
			return
		}
		if !actor.IsAdmin {
			abort(c, fmt.Errorf("admin only: %w", models.ErrForbidden))
			return
		}
		c.Next()
	}
}

func currentActor(c *gin.Context) (auth.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return auth.Actor{}, false
	}
	actor, ok := v.(auth.Actor)
	return actor, ok
}

// mustActor returns the caller on routes behind RequireLogin.
func mustActor(c *gin.Context) auth.Actor {
	actor, _ := currentActor(c)
	return actor
}
