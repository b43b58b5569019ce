package services

import (
	"context"
	"fmt"

	"github.com/justsurfingit/job-jotter/internal/auth"
	"github.com/justsurfingit/job-jotter/internal/dtos"
	"github.com/justsurfingit/job-jotter/internal/models"
)

type ApplicationService struct {
	apps       ApplicationStore
	interviews InterviewStore
	reminders  ReminderStore
}

func NewApplicationService(apps ApplicationStore, interviews InterviewStore, reminders ReminderStore) *ApplicationService {
	return &ApplicationService{
		apps:       apps,
		interviews: interviews,
		reminders:  reminders,
	}
}

// Create records a new application owned by the actor.
func (s *ApplicationService) Create(ctx context.Context, actor auth.Actor, req dtos.CreateApplicationRequest) (*models.Application, error) {
	app, err := req.Model(actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrBadRequest, err)
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *ApplicationService) List(ctx context.Context, actor auth.Actor) ([]models.Application, error) {
	return s.apps.ListByUser(ctx, actor.UserID)
}

// Get returns the application if the actor owns it or is an admin.
func (s *ApplicationService) Get(ctx context.Context, actor auth.Actor, id int64) (*models.Application, error) {
	app, err := s.apps.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanAccess(actor, app.UserID) {
		return nil, fmt.Errorf("application %d: %w", id, models.ErrForbidden)
	}
	return app, nil
}

func (s *ApplicationService) Update(ctx context.Context, actor auth.Actor, id int64, req dtos.UpdateApplicationRequest) (*models.Application, error) {
	fields, err := req.Fields()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrBadRequest, err)
	}
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.apps.Update(ctx, id, fields)
}

func (s *ApplicationService) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.apps.Delete(ctx, id)
}

func (s *ApplicationService) Interviews(ctx context.Context, actor auth.Actor, id int64) ([]models.Interview, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.interviews.ListByApplication(ctx, id)
}

func (s *ApplicationService) Reminders(ctx context.Context, actor auth.Actor, id int64) ([]models.Reminder, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.reminders.ListByApplication(ctx, id)
}
