package repository

import (
	"context"
	"fmt"

	"github.com/justsurfingit/job-jotter/internal/database"
	"github.com/justsurfingit/job-jotter/internal/models"
	"gorm.io/gorm"
)

var interviewColumns = map[string]string{
	"date":     "date",
	"time":     "time",
	"location": "location",
	"notes":    "notes",
}

type InterviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) *InterviewRepository {
	return &InterviewRepository{db: db}
}

// withApplication selects interviews joined to their application so Company
// and OwnerID are filled.
func (r *InterviewRepository) withApplication(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("interviews AS i").
		Select("i.*, a.company, a.user_id AS owner_id").
		Joins("JOIN applications a ON a.id = i.application_id")
}

func (r *InterviewRepository) Create(ctx context.Context, iv *models.Interview) error {
	err := r.db.WithContext(ctx).Create(iv).Error
	return translate(err, "create interview")
}

func (r *InterviewRepository) Get(ctx context.Context, id int64) (*models.Interview, error) {
	var iv models.Interview
	if err := r.withApplication(ctx).Where("i.id = ?", id).Take(&iv).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("interview %d", id))
	}
	return &iv, nil
}

// ListByUser returns every interview on the user's applications.
func (r *InterviewRepository) ListByUser(ctx context.Context, userID int64) ([]models.Interview, error) {
	ivs := []models.Interview{}
	err := r.withApplication(ctx).
		Where("a.user_id = ?", userID).
		Order("i.date, i.time, i.id").
		Find(&ivs).Error
	if err != nil {
		return nil, translate(err, "list interviews")
	}
	return ivs, nil
}

func (r *InterviewRepository) ListByApplication(ctx context.Context, applicationID int64) ([]models.Interview, error) {
	ivs := []models.Interview{}
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("date, time, id").
		Find(&ivs).Error
	if err != nil {
		return nil, translate(err, "list interviews")
	}
	return ivs, nil
}

func (r *InterviewRepository) Update(ctx context.Context, id int64, fields database.Fields) (*models.Interview, error) {
	pu, err := database.BuildPartialUpdate(fields, interviewColumns)
	if err != nil {
		return nil, err
	}

	query := "UPDATE interviews SET " + pu.SetClause +
		" WHERE id = " + pu.Next() + " RETURNING *"

	var iv models.Interview
	res := r.db.WithContext(ctx).Raw(query, pu.Args(id)...).Scan(&iv)
	if res.Error != nil {
		return nil, translate(res.Error, fmt.Sprintf("update interview %d", id))
	}
	if res.RowsAffected == 0 {
		return nil, notFound(fmt.Sprintf("interview %d", id))
	}
	return &iv, nil
}

func (r *InterviewRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Interview{}, id)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("delete interview %d", id))
	}
	if res.RowsAffected == 0 {
		return notFound(fmt.Sprintf("interview %d", id))
	}
	return nil
}
