package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/justsurfingit/job-jotter/internal/auth"
	"github.com/justsurfingit/job-jotter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
)

func TestWelcomeAndHealth(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome")

	w = h.do(http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "connected", body["database"])
	assert.Contains(t, body, "uptime")
	assert.Contains(t, body, "timestamp")

	h.pingErr = errors.New("connection refused")
	w = h.do(http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	body = decode[map[string]any](t, w)
	assert.Equal(t, "disconnected", body["database"])
}

func TestUnknownRoute(t *testing.T) {
	h := newHarness(t)
	w := h.do(http.MethodGet, "/nope", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, http.StatusNotFound, decode[errorBody](t, w).Error.Status)
}

func TestAuthRoutes(t *testing.T) {
	h := newHarness(t)

	t.Run("token", func(t *testing.T) {
		w := h.do(http.MethodPost, "/auth/token", map[string]string{"username": "ada", "password": "secret"}, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "session-token", decode[map[string]string](t, w)["token"])
	})

	t.Run("bad password", func(t *testing.T) {
		w := h.do(http.MethodPost, "/auth/token", map[string]string{"username": "ada", "password": "nope"}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("register", func(t *testing.T) {
		req := map[string]string{
			"username": "grace", "password": "hopper1", "email": "grace@example.com",
			"firstName": "Grace", "lastName": "Hopper",
		}
		w := h.do(http.MethodPost, "/auth/register", req, nil)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "new-token", decode[map[string]string](t, w)["token"])

		w = h.do(http.MethodPost, "/auth/register", req, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("register validation", func(t *testing.T) {
		w := h.do(http.MethodPost, "/auth/register", map[string]string{"username": "x"}, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode[errorBody](t, w).Error.Message, "bad request")
	})
}

func TestLoginRateLimit(t *testing.T) {
	h := newHarness(t)
	creds := map[string]string{"username": "ada", "password": "nope"}

	for range 5 {
		w := h.do(http.MethodPost, "/auth/token", creds, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := h.do(http.MethodPost, "/auth/token", creds, nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusTooManyRequests, decode[errorBody](t, w).Error.Status)

	// Registration is not limited.
	w = h.do(http.MethodPost, "/auth/register", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserRoutes(t *testing.T) {
	h := newHarness(t)

	t.Run("anonymous", func(t *testing.T) {
		w := h.do(http.MethodGet, "/users/ada", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("list requires admin", func(t *testing.T) {
		w := h.do(http.MethodGet, "/users", nil, &ada)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = h.do(http.MethodGet, "/users", nil, &admin)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode[map[string][]models.User](t, w)
		assert.Len(t, body["users"], 2)
	})

	t.Run("admin creates user", func(t *testing.T) {
		req := map[string]any{
			"username": "newbie", "password": "password", "email": "n@example.com",
			"firstName": "New", "lastName": "Bie", "isAdmin": true,
		}
		w := h.do(http.MethodPost, "/users", req, &admin)
		require.Equal(t, http.StatusCreated, w.Code)
		body := decode[map[string]any](t, w)
		assert.Equal(t, "created-token", body["token"])
		assert.Equal(t, true, body["user"].(map[string]any)["isAdmin"])
	})

	t.Run("self or admin", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/users/ada", nil, &ada).Code)
		assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/users/ada", nil, &admin).Code)
		assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/users/ada", nil, &bob).Code)
	})

	t.Run("patch", func(t *testing.T) {
		w := h.do(http.MethodPatch, "/users/ada", map[string]string{"password": "secret", "firstName": "Augusta"}, &ada)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"firstName":"Augusta"`)

		w = h.do(http.MethodPatch, "/users/ada", map[string]string{"firstName": "Augusta"}, &ada)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = h.do(http.MethodPatch, "/users/ada", map[string]string{"password": "wrong"}, &ada)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := h.do(http.MethodDelete, "/users/ada", nil, &ada)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ada", decode[map[string]string](t, w)["deleted"])
	})
}

func TestApplicationRoutes(t *testing.T) {
	h := newHarness(t)

	create := map[string]string{"company": "Acme", "jobTitle": "Engineer", "dateApplied": "2024-03-01"}
	w := h.do(http.MethodPost, "/applications", create, &ada)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]models.Application](t, w)["application"]
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "2024-03-01", created.DateApplied.String())

	t.Run("invalid date", func(t *testing.T) {
		bad := map[string]string{"company": "Acme", "jobTitle": "Engineer", "dateApplied": "03/01/2024"}
		assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/applications", bad, &ada).Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/applications", nil, nil).Code)
	})

	t.Run("list is per user", func(t *testing.T) {
		w := h.do(http.MethodGet, "/applications", nil, &ada)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[map[string][]models.Application](t, w)["applications"], 1)

		w = h.do(http.MethodGet, "/applications", nil, &bob)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[map[string][]models.Application](t, w)["applications"])
	})

	t.Run("get", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/applications/1", nil, &ada).Code)
		assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/applications/1", nil, &admin).Code)
		assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/applications/1", nil, &bob).Code)
		assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/applications/99", nil, &ada).Code)
		assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/applications/abc", nil, &ada).Code)
		assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/applications/0", nil, &ada).Code)
	})

	t.Run("patch", func(t *testing.T) {
		w := h.do(http.MethodPatch, "/applications/1", map[string]string{"status": "interviewing"}, &ada)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "interviewing", decode[map[string]models.Application](t, w)["application"].Status)

		w = h.do(http.MethodPatch, "/applications/1", map[string]string{}, &ada)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("children", func(t *testing.T) {
		w := h.do(http.MethodGet, "/applications/1/interviews", nil, &ada)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[map[string][]models.Interview](t, w)["interviews"], 1)

		w = h.do(http.MethodGet, "/applications/1/reminders", nil, &bob)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := h.do(http.MethodDelete, "/applications/1", nil, &ada)
		require.Equal(t, http.StatusOK, w.Code)
		assert.InDelta(t, 1, decode[map[string]any](t, w)["deleted"], 0)
	})
}

func TestExtractRoute(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/applications/extract",
		map[string]string{"rawHtml": "<h1>Engineer at Acme</h1>", "url": "https://jobs.example.com/1"}, &ada)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"company":"Acme"`)

	w = h.do(http.MethodPost, "/applications/extract", map[string]string{}, &ada)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/applications/extract", map[string]string{"rawHtml": "<html></html>"}, &ada)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestInterviewAndReminderRoutes(t *testing.T) {
	h := newHarness(t)

	iv := map[string]any{"applicationId": 1, "date": "2024-04-02", "time": "14:30", "location": "Zoom"}
	assert.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/interviews", iv, &ada).Code)

	iv["time"] = "2pm"
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/interviews", iv, &ada).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/interviews/5", nil, &ada).Code)

	w := h.do(http.MethodGet, "/interviews", nil, &ada)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"interviews"`)

	rem := map[string]any{"applicationId": 1, "reminderType": "follow-up", "date": "2024-04-05", "description": "Email recruiter"}
	assert.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/reminders", rem, &ada).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/reminders/1", nil, &ada).Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodDelete, "/reminders/1", nil, &bob).Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/reminders", nil, nil).Code)
}

func TestCalendarRoutes(t *testing.T) {
	h := newHarness(t)

	t.Run("list", func(t *testing.T) {
		h.calendar.events = []*calendar.Event{{Id: "a", Summary: "Onsite"}}
		w := h.do(http.MethodGet, "/google-calendar/events", nil, &ada)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"summary":"Onsite"`)
	})

	t.Run("empty list", func(t *testing.T) {
		h.calendar.events = nil
		w := h.do(http.MethodGet, "/google-calendar/events", nil, &ada)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"events":[]}`, w.Body.String())
	})

	t.Run("insert", func(t *testing.T) {
		ev := map[string]any{
			"summary": "Phone screen",
			"start":   map[string]string{"dateTime": "2024-03-20T10:00:00Z"},
			"end":     map[string]string{"dateTime": "2024-03-20T10:30:00Z"},
		}
		w := h.do(http.MethodPost, "/google-calendar/events", ev, &ada)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"evt1"`)

		ev["start"] = map[string]string{"dateTime": "tomorrow"}
		assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/google-calendar/events", ev, &ada).Code)
	})

	t.Run("patch and delete", func(t *testing.T) {
		w := h.do(http.MethodPatch, "/google-calendar/events/evt1", map[string]string{"summary": "Onsite"}, &ada)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"summary":"Onsite"`)

		w = h.do(http.MethodDelete, "/google-calendar/events/evt1", nil, &ada)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"deleted":"evt1"}`, w.Body.String())
	})

	t.Run("not connected", func(t *testing.T) {
		h.calendar.err = auth.ErrNoStoredCredential
		t.Cleanup(func() { h.calendar.err = nil })

		w := h.do(http.MethodGet, "/google-calendar/events", nil, &ada)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		body := decode[errorBody](t, w)
		assert.Equal(t, "/auth/google", body.Error.AuthorizeURL)
	})

	t.Run("refresh failure is a server error", func(t *testing.T) {
		h.calendar.err = errors.Join(auth.ErrTokenRefresh, errors.New("invalid_grant"))
		t.Cleanup(func() { h.calendar.err = nil })

		w := h.do(http.MethodGet, "/google-calendar/events", nil, &ada)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "invalid_grant")
	})

	t.Run("anonymous", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/google-calendar/events", nil, nil).Code)
	})
}

func TestGoogleConsentFlow(t *testing.T) {
	h := newHarness(t)

	t.Run("start redirects to google", func(t *testing.T) {
		w := h.do(http.MethodGet, "/auth/google?token="+h.token(bob), nil, nil)
		require.Equal(t, http.StatusFound, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "accounts.google.com")
		assert.Equal(t, bob.UserID, h.connector.urlFor)
	})

	t.Run("start without token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/auth/google", nil, nil).Code)
	})

	t.Run("start with bad token", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/auth/google?token=garbage", nil, nil).Code)
	})

	t.Run("callback redirects to frontend", func(t *testing.T) {
		w := h.do(http.MethodGet, "/auth/google/callback?code=abc&state=xyz", nil, nil)
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Location"))
		assert.Equal(t, "abc", h.connector.code)
		assert.Equal(t, "xyz", h.connector.state)
	})

	t.Run("callback with bad state", func(t *testing.T) {
		h.connector.exchangeErr = errors.Join(auth.ErrInvalidState, errors.New("signature is invalid"))
		t.Cleanup(func() { h.connector.exchangeErr = nil })

		w := h.do(http.MethodGet, "/auth/google/callback?code=abc&state=forged", nil, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotContains(t, w.Body.String(), "signature")
	})

	t.Run("consent denied", func(t *testing.T) {
		w := h.do(http.MethodGet, "/auth/google/callback?error=access_denied", nil, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestCORS(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodOptions, "/applications", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/applications", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
