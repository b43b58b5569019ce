package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-jotter/internal/auth"
	"github.com/justsurfingit/job-jotter/internal/database"
	"github.com/justsurfingit/job-jotter/internal/logging"
	"github.com/justsurfingit/job-jotter/internal/models"
	"github.com/justsurfingit/job-jotter/internal/services"
)

var ErrRateLimited = errors.New("too many login attempts, please try again later")

// ConsentPath is where a client sends the user to connect Google Calendar.
const ConsentPath = "/auth/google"

// ErrorHandler renders the last error pushed with c.Error as
// {"error": {"message": ..., "status": ...}}. Server errors are logged and
// their message replaced with the status text. When consentURL is set, a
// missing Google credential also answers with "authorizeUrl".
func ErrorHandler(consentURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, message := classify(err)
		log := logging.FromContext(c.Request.Context())

		if status >= http.StatusInternalServerError {
			log.Error("request failed", "status", status, "err", err)
			message = http.StatusText(status)
		} else {
			log.Debug("request rejected", "status", status, "err", err)
		}

		body := gin.H{"message": message, "status": status}
		if consentURL != "" && errors.Is(err, auth.ErrNoStoredCredential) {
			body["authorizeUrl"] = consentURL
		}
		c.JSON(status, gin.H{"error": body})
	}
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrInvalidState):
		return http.StatusBadRequest, "invalid or expired authorization state"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, database.ErrEmptyUpdate),
		errors.Is(err, database.ErrInvalidColumn),
		errors.Is(err, models.ErrBadRequest),
		errors.Is(err, models.ErrDuplicate):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, auth.ErrNoStoredCredential):
		return http.StatusUnauthorized, "google calendar is not connected"
	case errors.Is(err, auth.ErrInteractiveAuth):
		return http.StatusUnauthorized, "google calendar authorization did not complete"
	case errors.Is(err, models.ErrUnauthorized), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrExtractionFailed):
		return http.StatusBadGateway, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// badRequest wraps a binding or parsing error so ErrorHandler answers 400.
func badRequest(err error) error {
	return fmt.Errorf("%w: %w", models.ErrBadRequest, err)
}

// abort pushes err and stops the handler chain.
func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
