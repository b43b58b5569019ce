package dtos

import (
	"github.com/justsurfingit/job-jotter/internal/database"
	"github.com/justsurfingit/job-jotter/internal/models"
)

type CreateInterviewRequest struct {
	ApplicationID int64  `json:"applicationId" binding:"required,gt=0"`
	Date          string `json:"date" binding:"required,date"`
	Time          string `json:"time" binding:"required,clock"`
	Location      string `json:"location" binding:"required,max=255"`
	Notes         string `json:"notes"`
}

func (r CreateInterviewRequest) Model() (*models.Interview, error) {
	date, err := models.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	return &models.Interview{
		ApplicationID: r.ApplicationID,
		Date:          date,
		Time:          r.Time,
		Location:      r.Location,
		Notes:         r.Notes,
	}, nil
}

type UpdateInterviewRequest struct {
	Date     *string `json:"date" binding:"omitempty,date"`
	Time     *string `json:"time" binding:"omitempty,clock"`
	Location *string `json:"location" binding:"omitempty,min=1,max=255"`
	Notes    *string `json:"notes"`
}

func (r UpdateInterviewRequest) Fields() (database.Fields, error) {
	var f database.Fields
	if r.Date != nil {
		d, err := models.ParseDate(*r.Date)
		if err != nil {
			return nil, err
		}
		f = f.Add("date", d)
	}
	if r.Time != nil {
		f = f.Add("time", *r.Time)
	}
	if r.Location != nil {
		f = f.Add("location", *r.Location)
	}
	if r.Notes != nil {
		f = f.Add("notes", *r.Notes)
	}
	return f, nil
}
