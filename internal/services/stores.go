package services

import (
	"context"

	"github.com/justsurfingit/job-jotter/internal/database"
	"github.com/justsurfingit/job-jotter/internal/models"
)

// The stores below are satisfied by the repository package.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetWithApplications(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, username string, fields database.Fields) (*models.User, error)
	Delete(ctx context.Context, username string) error
}

type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	Get(ctx context.Context, id int64) (*models.Application, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Application, error)
	Update(ctx context.Context, id int64, fields database.Fields) (*models.Application, error)
	Delete(ctx context.Context, id int64) error
}

type InterviewStore interface {
	Create(ctx context.Context, iv *models.Interview) error
	Get(ctx context.Context, id int64) (*models.Interview, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Interview, error)
	ListByApplication(ctx context.Context, applicationID int64) ([]models.Interview, error)
	Update(ctx context.Context, id int64, fields database.Fields) (*models.Interview, error)
	Delete(ctx context.Context, id int64) error
}

type ReminderStore interface {
	Create(ctx context.Context, rem *models.Reminder) error
	Get(ctx context.Context, id int64) (*models.Reminder, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Reminder, error)
	ListByApplication(ctx context.Context, applicationID int64) ([]models.Reminder, error)
	Update(ctx context.Context, id int64, fields database.Fields) (*models.Reminder, error)
	Delete(ctx context.Context, id int64) error
}
