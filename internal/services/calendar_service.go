package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/justsurfingit/job-jotter/internal/auth"
	"github.com/justsurfingit/job-jotter/internal/dtos"
	"github.com/justsurfingit/job-jotter/internal/logging"
	"github.com/justsurfingit/job-jotter/internal/models"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	primaryCalendar = "primary"
	maxListedEvents = 50
)

var ErrMixedEventTimes = fmt.Errorf("start and end must both be 'date' or both be 'dateTime': %w", models.ErrBadRequest)

// ClientSource hands out HTTP clients authorized for a user's calendar.
type ClientSource interface {
	AuthorizedClient(ctx context.Context, userID int64) (*http.Client, error)
}

// CalendarService proxies event operations to the user's primary Google
// Calendar.
type CalendarService struct {
	auth ClientSource
	opts []option.ClientOption
	now  func() time.Time
}

// NewCalendarService creates the proxy. opts are appended to every calendar
// client, e.g. option.WithEndpoint in tests.
func NewCalendarService(auth ClientSource, opts ...option.ClientOption) *CalendarService {
	return &CalendarService{auth: auth, opts: opts, now: time.Now}
}

func (s *CalendarService) client(ctx context.Context, actor auth.Actor) (*calendar.Service, error) {
	hc, err := s.auth.AuthorizedClient(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	opts := append([]option.ClientOption{option.WithHTTPClient(hc)}, s.opts...)
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar client: %w", err)
	}
	return svc, nil
}

// ListEvents returns up to 50 events starting from one month ago.
func (s *CalendarService) ListEvents(ctx context.Context, actor auth.Actor) ([]*calendar.Event, error) {
	svc, err := s.client(ctx, actor)
	if err != nil {
		return nil, err
	}

	since := s.now().AddDate(0, -1, 0).Format(time.RFC3339)
	events, err := svc.Events.List(primaryCalendar).
		TimeMin(since).
		MaxResults(maxListedEvents).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, translateGoogleError(err, "list events")
	}

	logging.FromContext(ctx).Debug("listed calendar events", "count", len(events.Items))
	if events.Items == nil {
		return []*calendar.Event{}, nil
	}
	return events.Items, nil
}

func (s *CalendarService) InsertEvent(ctx context.Context, actor auth.Actor, req dtos.EventRequest) (*calendar.Event, error) {
	if req.Start.Empty() || req.End.Empty() {
		return nil, fmt.Errorf("start and end are required: %w", models.ErrBadRequest)
	}
	if err := checkEventTimes(req.Start, req.End); err != nil {
		return nil, err
	}

	svc, err := s.client(ctx, actor)
	if err != nil {
		return nil, err
	}

	event := &calendar.Event{
		Summary:     req.Summary,
		Location:    req.Location,
		Description: req.Description,
		Start:       eventDateTime(req.Start),
		End:         eventDateTime(req.End),
	}
	created, err := svc.Events.Insert(primaryCalendar, event).Context(ctx).Do()
	if err != nil {
		return nil, translateGoogleError(err, "insert event")
	}
	logging.FromContext(ctx).Info("calendar event created", "event_id", created.Id)
	return created, nil
}

// PatchEvent changes the fields present in req and leaves the rest alone.
func (s *CalendarService) PatchEvent(ctx context.Context, actor auth.Actor, eventID string, req dtos.EventPatchRequest) (*calendar.Event, error) {
	if req.Start != nil && req.End != nil {
		if err := checkEventTimes(*req.Start, *req.End); err != nil {
			return nil, err
		}
	}

	patch := &calendar.Event{}
	if req.Summary != nil {
		patch.Summary = *req.Summary
	}
	if req.Location != nil {
		patch.Location = *req.Location
		patch.ForceSendFields = append(patch.ForceSendFields, "Location")
	}
	if req.Description != nil {
		patch.Description = *req.Description
		patch.ForceSendFields = append(patch.ForceSendFields, "Description")
	}
	if req.Start != nil {
		patch.Start = eventDateTime(*req.Start)
	}
	if req.End != nil {
		patch.End = eventDateTime(*req.End)
	}

	svc, err := s.client(ctx, actor)
	if err != nil {
		return nil, err
	}
	updated, err := svc.Events.Patch(primaryCalendar, eventID, patch).Context(ctx).Do()
	if err != nil {
		return nil, translateGoogleError(err, "patch event "+eventID)
	}
	return updated, nil
}

func (s *CalendarService) DeleteEvent(ctx context.Context, actor auth.Actor, eventID string) error {
	svc, err := s.client(ctx, actor)
	if err != nil {
		return err
	}
	if err := svc.Events.Delete(primaryCalendar, eventID).Context(ctx).Do(); err != nil {
		return translateGoogleError(err, "delete event "+eventID)
	}
	return nil
}

func checkEventTimes(start, end dtos.EventTime) error {
	if (start.Date != "" && end.DateTime != "") || (start.DateTime != "" && end.Date != "") {
		return ErrMixedEventTimes
	}
	return nil
}

func eventDateTime(t dtos.EventTime) *calendar.EventDateTime {
	return &calendar.EventDateTime{Date: t.Date, DateTime: t.DateTime, TimeZone: t.TimeZone}
}

func translateGoogleError(err error, what string) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		switch gErr.Code {
		case http.StatusNotFound, http.StatusGone:
			return fmt.Errorf("%s: %w", what, models.ErrNotFound)
		case http.StatusBadRequest:
			return fmt.Errorf("%s: %s: %w", what, gErr.Message, models.ErrBadRequest)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w: %w", what, auth.ErrNoStoredCredential, err)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}
