package services

import (
	"context"
	"fmt"

	"github.com/justsurfingit/job-jotter/internal/auth"
	"github.com/justsurfingit/job-jotter/internal/dtos"
	"github.com/justsurfingit/job-jotter/internal/models"
)

type InterviewService struct {
	interviews InterviewStore
	apps       *ApplicationService
}

func NewInterviewService(interviews InterviewStore, apps *ApplicationService) *InterviewService {
	return &InterviewService{interviews: interviews, apps: apps}
}

// Create schedules an interview on one of the actor's applications.
func (s *InterviewService) Create(ctx context.Context, actor auth.Actor, req dtos.CreateInterviewRequest) (*models.Interview, error) {
	iv, err := req.Model()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrBadRequest, err)
	}
	app, err := s.apps.Get(ctx, actor, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	if err := s.interviews.Create(ctx, iv); err != nil {
		return nil, err
	}
	iv.Company = app.Company
	iv.OwnerID = app.UserID
	return iv, nil
}

func (s *InterviewService) List(ctx context.Context, actor auth.Actor) ([]models.Interview, error) {
	return s.interviews.ListByUser(ctx, actor.UserID)
}

func (s *InterviewService) Get(ctx context.Context, actor auth.Actor, id int64) (*models.Interview, error) {
	iv, err := s.interviews.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanAccess(actor, iv.OwnerID) {
		return nil, fmt.Errorf("interview %d: %w", id, models.ErrForbidden)
	}
	return iv, nil
}

func (s *InterviewService) Update(ctx context.Context, actor auth.Actor, id int64, req dtos.UpdateInterviewRequest) (*models.Interview, error) {
	fields, err := req.Fields()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrBadRequest, err)
	}
	current, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	iv, err := s.interviews.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	iv.Company = current.Company
	return iv, nil
}

func (s *InterviewService) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.interviews.Delete(ctx, id)
}
