package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/justsurfingit/job-jotter/internal/database"
	"github.com/justsurfingit/job-jotter/internal/models"
)

// In-memory stores. They follow the repository contracts closely enough for
// the service rules; SQL behavior is covered by the repository tests.

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*models.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byName: map[string]*models.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byName[u.Username]; ok {
		return models.ErrDuplicate
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.byName[u.Username] = &cp
	return nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byName[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetWithApplications(ctx context.Context, username string) (*models.User, error) {
	return f.GetByUsername(ctx, username)
}

func (f *fakeUsers) List(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.byName))
	for _, u := range f.byName {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeUsers) Update(_ context.Context, username string, fields database.Fields) (*models.User, error) {
	if len(fields) == 0 {
		return nil, database.ErrEmptyUpdate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byName[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	for _, fl := range fields {
		switch fl.Name {
		case "firstName":
			u.FirstName = fl.Value.(string)
		case "lastName":
			u.LastName = fl.Value.(string)
		case "email":
			u.Email = fl.Value.(string)
		case "password":
			u.Password = fl.Value.(string)
		default:
			return nil, fmt.Errorf("unexpected field %q", fl.Name)
		}
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Delete(_ context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byName[username]; !ok {
		return models.ErrNotFound
	}
	delete(f.byName, username)
	return nil
}

type fakeApplications struct {
	nextID int64
	rows   map[int64]*models.Application
}

func newFakeApplications() *fakeApplications {
	return &fakeApplications{rows: map[int64]*models.Application{}}
}

func (f *fakeApplications) Create(_ context.Context, a *models.Application) error {
	f.nextID++
	a.ID = f.nextID
	if a.Status == "" {
		a.Status = "pending"
	}
	cp := *a
	f.rows[a.ID] = &cp
	return nil
}

func (f *fakeApplications) Get(_ context.Context, id int64) (*models.Application, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeApplications) ListByUser(_ context.Context, userID int64) ([]models.Application, error) {
	out := []models.Application{}
	for _, a := range f.rows {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeApplications) Update(_ context.Context, id int64, fields database.Fields) (*models.Application, error) {
	if len(fields) == 0 {
		return nil, database.ErrEmptyUpdate
	}
	a, ok := f.rows[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	for _, fl := range fields {
		switch fl.Name {
		case "company":
			a.Company = fl.Value.(string)
		case "jobTitle":
			a.JobTitle = fl.Value.(string)
		case "status":
			a.Status = fl.Value.(string)
		case "dateApplied":
			a.DateApplied = fl.Value.(models.Date)
		case "notes":
			a.Notes = fl.Value.(string)
		}
	}
	cp := *a
	return &cp, nil
}

func (f *fakeApplications) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeInterviews struct {
	apps   *fakeApplications
	nextID int64
	rows   map[int64]*models.Interview
}

func newFakeInterviews(apps *fakeApplications) *fakeInterviews {
	return &fakeInterviews{apps: apps, rows: map[int64]*models.Interview{}}
}

func (f *fakeInterviews) Create(_ context.Context, iv *models.Interview) error {
	f.nextID++
	iv.ID = f.nextID
	cp := *iv
	f.rows[iv.ID] = &cp
	return nil
}

func (f *fakeInterviews) joined(iv models.Interview) models.Interview {
	if a, ok := f.apps.rows[iv.ApplicationID]; ok {
		iv.Company = a.Company
		iv.OwnerID = a.UserID
	}
	return iv
}

func (f *fakeInterviews) Get(_ context.Context, id int64) (*models.Interview, error) {
	iv, ok := f.rows[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := f.joined(*iv)
	return &out, nil
}

func (f *fakeInterviews) ListByUser(_ context.Context, userID int64) ([]models.Interview, error) {
	out := []models.Interview{}
	for _, iv := range f.rows {
		if j := f.joined(*iv); j.OwnerID == userID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeInterviews) ListByApplication(_ context.Context, applicationID int64) ([]models.Interview, error) {
	out := []models.Interview{}
	for _, iv := range f.rows {
		if iv.ApplicationID == applicationID {
			out = append(out, *iv)
		}
	}
	return out, nil
}

func (f *fakeInterviews) Update(_ context.Context, id int64, fields database.Fields) (*models.Interview, error) {
	if len(fields) == 0 {
		return nil, database.ErrEmptyUpdate
	}
	iv, ok := f.rows[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	for _, fl := range fields {
		switch fl.Name {
		case "date":
			iv.Date = fl.Value.(models.Date)
		case "time":
			iv.Time = fl.Value.(string)
		case "location":
			iv.Location = fl.Value.(string)
		case "notes":
			iv.Notes = fl.Value.(string)
		}
	}
	cp := *iv
	return &cp, nil
}

func (f *fakeInterviews) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeReminders struct {
	nextID int64
	rows   map[int64]*models.Reminder
}

func newFakeReminders() *fakeReminders { return &fakeReminders{rows: map[int64]*models.Reminder{}} }

func (f *fakeReminders) Create(_ context.Context, r *models.Reminder) error {
	f.nextID++
	r.ID = f.nextID
	cp := *r
	f.rows[r.ID] = &cp
	return nil
}

func (f *fakeReminders) Get(_ context.Context, id int64) (*models.Reminder, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReminders) ListByUser(_ context.Context, userID int64) ([]models.Reminder, error) {
	out := []models.Reminder{}
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReminders) ListByApplication(_ context.Context, applicationID int64) ([]models.Reminder, error) {
	out := []models.Reminder{}
	for _, r := range f.rows {
		if r.ApplicationID == applicationID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReminders) Update(_ context.Context, id int64, fields database.Fields) (*models.Reminder, error) {
	if len(fields) == 0 {
		return nil, database.ErrEmptyUpdate
	}
	r, ok := f.rows[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	for _, fl := range fields {
		switch fl.Name {
		case "reminderType":
			r.ReminderType = fl.Value.(string)
		case "date":
			r.Date = fl.Value.(models.Date)
		case "description":
			r.Description = fl.Value.(string)
		}
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReminders) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}
