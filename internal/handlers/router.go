package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-jotter/internal/auth"
	"github.com/justsurfingit/job-jotter/internal/config"
	"github.com/justsurfingit/job-jotter/internal/logging"
	"github.com/justsurfingit/job-jotter/internal/models"
)

// Deps are the collaborators the router wires into handlers. Calendar,
// Connector and Extractor may be nil, which leaves their routes out.
type Deps struct {
	Logger       *slog.Logger
	Tokens       *auth.Tokens
	Users        UserService
	Applications ApplicationService
	Interviews   InterviewService
	Reminders    ReminderService
	Calendar     CalendarService
	Connector    CalendarConnector
	Extractor    Extractor
	Health       *HealthHandler
}

func NewRouter(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var consentURL string
	if d.Connector != nil {
		consentURL = ConsentPath
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(d.Logger), ErrorHandler(consentURL))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.AllowedOrigins
	corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Authorization", "Content-Type", "Accept"}
	corsCfg.AllowCredentials = true
	corsCfg.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsCfg))

	r.Use(Authenticate(d.Tokens))

	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("%s %s: %w", c.Request.Method, c.Request.URL.Path, models.ErrNotFound))
	})

	r.GET("/", Welcome)
	if d.Health != nil {
		r.GET("/health", d.Health.Health)
	}

	authH := NewAuthHandler(d.Users)
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/token", RateLimit(cfg.LoginRateLimit, cfg.LoginRateWindow), authH.Token)
		authGroup.POST("/register", authH.Register)

		if d.Connector != nil {
			oauthH := NewOAuthHandler(d.Connector, d.Tokens, cfg.FrontendURL)
			r.GET(ConsentPath, oauthH.Start)
			authGroup.GET("/google/callback", oauthH.Callback)
		}
	}

	userH := NewUserHandler(d.Users)
	users := r.Group("/users", RequireLogin())
	{
		users.POST("", RequireAdmin(), userH.Create)
		users.GET("", RequireAdmin(), userH.List)
		users.GET("/:username", userH.Get)
		users.PATCH("/:username", userH.Update)
		users.DELETE("/:username", userH.Delete)
	}

	appH := NewApplicationHandler(d.Applications, d.Extractor)
	apps := r.Group("/applications", RequireLogin())
	{
		apps.POST("", appH.Create)
		apps.GET("", appH.List)
		if d.Extractor != nil {
			apps.POST("/extract", appH.Extract)
		}
		apps.GET("/:id", appH.Get)
		apps.PATCH("/:id", appH.Update)
		apps.DELETE("/:id", appH.Delete)
		apps.GET("/:id/interviews", appH.Interviews)
		apps.GET("/:id/reminders", appH.Reminders)
	}

	ivH := NewInterviewHandler(d.Interviews)
	interviews := r.Group("/interviews", RequireLogin())
	{
		interviews.POST("", ivH.Create)
		interviews.GET("", ivH.List)
		interviews.GET("/:id", ivH.Get)
		interviews.PATCH("/:id", ivH.Update)
		interviews.DELETE("/:id", ivH.Delete)
	}

	remH := NewReminderHandler(d.Reminders)
	reminders := r.Group("/reminders", RequireLogin())
	{
		reminders.POST("", remH.Create)
		reminders.GET("", remH.List)
		reminders.GET("/:id", remH.Get)
		reminders.PATCH("/:id", remH.Update)
		reminders.DELETE("/:id", remH.Delete)
	}

	if d.Calendar != nil {
		calH := NewCalendarHandler(d.Calendar)
		events := r.Group("/google-calendar/events", RequireLogin())
		{
			events.GET("", calH.List)
			events.POST("", calH.Create)
			events.PATCH("/:eventId", calH.Update)
			events.DELETE("/:eventId", calH.Delete)
		}
	}

	return r
}
