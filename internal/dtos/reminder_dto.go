package dtos

import (
	"github.com/justsurfingit/job-jotter/internal/database"
	"github.com/justsurfingit/job-jotter/internal/models"
)

type CreateReminderRequest struct {
	ApplicationID int64  `json:"applicationId" binding:"required,gt=0"`
	ReminderType  string `json:"reminderType" binding:"required,max=50"`
	Date          string `json:"date" binding:"required,date"`
	Description   string `json:"description" binding:"required"`
}

func (r CreateReminderRequest) Model(userID int64) (*models.Reminder, error) {
	date, err := models.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	return &models.Reminder{
		ApplicationID: r.ApplicationID,
		UserID:        userID,
		ReminderType:  r.ReminderType,
		Date:          date,
		Description:   r.Description,
	}, nil
}

type UpdateReminderRequest struct {
	ReminderType *string `json:"reminderType" binding:"omitempty,min=1,max=50"`
	Date         *string `json:"date" binding:"omitempty,date"`
	Description  *string `json:"description" binding:"omitempty,min=1"`
}

func (r UpdateReminderRequest) Fields() (database.Fields, error) {
	var f database.Fields
	if r.ReminderType != nil {
		f = f.Add("reminderType", *r.ReminderType)
	}
	if r.Date != nil {
		d, err := models.ParseDate(*r.Date)
		if err != nil {
			return nil, err
		}
		f = f.Add("date", d)
	}
	if r.Description != nil {
		f = f.Add("description", *r.Description)
	}
	return f, nil
}
