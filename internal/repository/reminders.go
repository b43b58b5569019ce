package repository

import (
	"context"
	"fmt"

	"github.com/justsurfingit/job-jotter/internal/database"
	"github.com/justsurfingit/job-jotter/internal/models"
	"gorm.io/gorm"
)

var reminderColumns = map[string]string{
	"reminderType": "reminder_type",
	"date":         "date",
	"description":  "description",
}

type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) withApplication(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("reminders AS r").
		Select("r.*, a.company").
		Joins("JOIN applications a ON a.id = r.application_id")
}

func (r *ReminderRepository) Create(ctx context.Context, rem *models.Reminder) error {
	err := r.db.WithContext(ctx).Create(rem).Error
	return translate(err, "create reminder")
}

func (r *ReminderRepository) Get(ctx context.Context, id int64) (*models.Reminder, error) {
	var rem models.Reminder
	if err := r.withApplication(ctx).Where("r.id = ?", id).Take(&rem).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("reminder %d", id))
	}
	return &rem, nil
}

// ListByUser returns reminders on the user's applications, soonest first.
func (r *ReminderRepository) ListByUser(ctx context.Context, userID int64) ([]models.Reminder, error) {
	rems := []models.Reminder{}
	err := r.withApplication(ctx).
		Where("a.user_id = ?", userID).
		Order("r.date, r.id").
		Find(&rems).Error
	if err != nil {
		return nil, translate(err, "list reminders")
	}
	return rems, nil
}

func (r *ReminderRepository) ListByApplication(ctx context.Context, applicationID int64) ([]models.Reminder, error) {
	rems := []models.Reminder{}
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("date, id").
		Find(&rems).Error
	if err != nil {
		return nil, translate(err, "list reminders")
	}
	return rems, nil
}

func (r *ReminderRepository) Update(ctx context.Context, id int64, fields database.Fields) (*models.Reminder, error) {
	pu, err := database.BuildPartialUpdate(fields, reminderColumns)
	if err != nil {
		return nil, err
	}

	query := "UPDATE reminders SET " + pu.SetClause +
		" WHERE id = " + pu.Next() + " RETURNING *"

	var rem models.Reminder
	res := r.db.WithContext(ctx).Raw(query, pu.Args(id)...).Scan(&rem)
	if res.Error != nil {
		return nil, translate(res.Error, fmt.Sprintf("update reminder %d", id))
	}
	if res.RowsAffected == 0 {
		return nil, notFound(fmt.Sprintf("reminder %d", id))
	}
	return &rem, nil
}

func (r *ReminderRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Reminder{}, id)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("delete reminder %d", id))
	}
	if res.RowsAffected == 0 {
		return notFound(fmt.Sprintf("reminder %d", id))
	}
	return nil
}
