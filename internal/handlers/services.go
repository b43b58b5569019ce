package handlers

import (
	"context"

	"github.com/justsurfingit/job-jotter/internal/auth"
	"github.com/justsurfingit/job-jotter/internal/dtos"
	"github.com/justsurfingit/job-jotter/internal/models"
	"github.com/justsurfingit/job-jotter/internal/services"
	"google.golang.org/api/calendar/v3"
)

// The interfaces below are implemented by the services package.

type UserService interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, req dtos.RegisterRequest) (string, error)
	Create(ctx context.Context, req dtos.CreateUserRequest) (*models.User, string, error)
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, actor auth.Actor, username string) (*models.User, error)
	Update(ctx context.Context, actor auth.Actor, username string, req dtos.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, actor auth.Actor, username string) error
}

type ApplicationService interface {
	Create(ctx context.Context, actor auth.Actor, req dtos.CreateApplicationRequest) (*models.Application, error)
	List(ctx context.Context, actor auth.Actor) ([]models.Application, error)
	Get(ctx context.Context, actor auth.Actor, id int64) (*models.Application, error)
	Update(ctx context.Context, actor auth.Actor, id int64, req dtos.UpdateApplicationRequest) (*models.Application, error)
	Delete(ctx context.Context, actor auth.Actor, id int64) error
	Interviews(ctx context.Context, actor auth.Actor, id int64) ([]models.Interview, error)
	Reminders(ctx context.Context, actor auth.Actor, id int64) ([]models.Reminder, error)
}

type InterviewService interface {
	Create(ctx context.Context, actor auth.Actor, req dtos.CreateInterviewRequest) (*models.Interview, error)
	List(ctx context.Context, actor auth.Actor) ([]models.Interview, error)
	Get(ctx context.Context, actor auth.Actor, id int64) (*models.Interview, error)
	Update(ctx context.Context, actor auth.Actor, id int64, req dtos.UpdateInterviewRequest) (*models.Interview, error)
	Delete(ctx context.Context, actor auth.Actor, id int64) error
}

type ReminderService interface {
	Create(ctx context.Context, actor auth.Actor, req dtos.CreateReminderRequest) (*models.Reminder, error)
	List(ctx context.Context, actor auth.Actor) ([]models.Reminder, error)
	Get(ctx context.Context, actor auth.Actor, id int64) (*models.Reminder, error)
	Update(ctx context.Context, actor auth.Actor, id int64, req dtos.UpdateReminderRequest) (*models.Reminder, error)
	Delete(ctx context.Context, actor auth.Actor, id int64) error
}

type CalendarService interface {
	ListEvents(ctx context.Context, actor auth.Actor) ([]*calendar.Event, error)
	InsertEvent(ctx context.Context, actor auth.Actor, req dtos.EventRequest) (*calendar.Event, error)
	PatchEvent(ctx context.Context, actor auth.Actor, eventID string, req dtos.EventPatchRequest) (*calendar.Event, error)
	DeleteEvent(ctx context.Context, actor auth.Actor, eventID string) error
}

// CalendarConnector runs the browser redirect flow that links a Google account.
type CalendarConnector interface {
	AuthCodeURL(userID int64) (string, error)
	ExchangeAuthorizationCode(ctx context.Context, code, state string) error
}

type Extractor interface {
	Extract(ctx context.Context, rawHTML, url string) (*services.ExtractedApplication, error)
}
