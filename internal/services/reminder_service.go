package services

import (
	"context"
	"fmt"

	"github.com/justsurfingit/job-jotter/internal/auth"
	"github.com/justsurfingit/job-jotter/internal/dtos"
	"github.com/justsurfingit/job-jotter/internal/models"
)

type ReminderService struct {
	reminders ReminderStore
	apps      *ApplicationService
}

func NewReminderService(reminders ReminderStore, apps *ApplicationService) *ReminderService {
	return &ReminderService{reminders: reminders, apps: apps}
}

func (s *ReminderService) Create(ctx context.Context, actor auth.Actor, req dtos.CreateReminderRequest) (*models.Reminder, error) {
	app, err := s.apps.Get(ctx, actor, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	// The reminder belongs to the application's owner, also when an admin creates it.
	rem, err := req.Model(app.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrBadRequest, err)
	}
	if err := s.reminders.Create(ctx, rem); err != nil {
		return nil, err
	}
	rem.Company = app.Company
	return rem, nil
}

func (s *ReminderService) List(ctx context.Context, actor auth.Actor) ([]models.Reminder, error) {
	return s.reminders.ListByUser(ctx, actor.UserID)
}

func (s *ReminderService) Get(ctx context.Context, actor auth.Actor, id int64) (*models.Reminder, error) {
	rem, err := s.reminders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanAccess(actor, rem.UserID) {
		return nil, fmt.Errorf("reminder %d: %w", id, models.ErrForbidden)
	}
	return rem, nil
}

func (s *ReminderService) Update(ctx context.Context, actor auth.Actor, id int64, req dtos.UpdateReminderRequest) (*models.Reminder, error) {
	fields, err := req.Fields()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrBadRequest, err)
	}
	current, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	rem, err := s.reminders.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	rem.Company = current.Company
	return rem, nil
}

func (s *ReminderService) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.reminders.Delete(ctx, id)
}
