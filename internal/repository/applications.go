package repository

import (
	"context"
	"fmt"

	"github.com/justsurfingit/job-jotter/internal/database"
	"github.com/justsurfingit/job-jotter/internal/models"
	"gorm.io/gorm"
)

var applicationColumns = map[string]string{
	"company":     "company",
	"jobTitle":    "job_title",
	"status":      "status",
	"dateApplied": "date_applied",
	"notes":       "notes",
}

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	err := r.db.WithContext(ctx).Omit("Interviews", "Reminders").Create(app).Error
	return translate(err, "create application")
}

func (r *ApplicationRepository) Get(ctx context.Context, id int64) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).Take(&app, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("application %d", id))
	}
	return &app, nil
}

// ListByUser returns the user's applications, most recently applied first.
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID int64) ([]models.Application, error) {
	apps := []models.Application{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date_applied DESC, id").
		Find(&apps).Error
	if err != nil {
		return nil, translate(err, "list applications")
	}
	return apps, nil
}

func (r *ApplicationRepository) Update(ctx context.Context, id int64, fields database.Fields) (*models.Application, error) {
	pu, err := database.BuildPartialUpdate(fields, applicationColumns)
	if err != nil {
		return nil, err
	}

	query := "UPDATE applications SET " + pu.SetClause +
		" WHERE id = " + pu.Next() + " RETURNING *"

	var app models.Application
	res := r.db.WithContext(ctx).Raw(query, pu.Args(id)...).Scan(&app)
	if res.Error != nil {
		return nil, translate(res.Error, fmt.Sprintf("update application %d", id))
	}
	if res.RowsAffected == 0 {
		return nil, notFound(fmt.Sprintf("application %d", id))
	}
	return &app, nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Application{}, id)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("delete application %d", id))
	}
	if res.RowsAffected == 0 {
		return notFound(fmt.Sprintf("application %d", id))
	}
	return nil
}
