package dtos

import (
	"github.com/justsurfingit/job-jotter/internal/database"
	"github.com/justsurfingit/job-jotter/internal/models"
)

type CreateApplicationRequest struct {
	Company     string `json:"company" binding:"required,max=100"`
	JobTitle    string `json:"jobTitle" binding:"required,max=100"`
	Status      string `json:"status" binding:"omitempty,max=50"` // defaults to "pending"
	DateApplied string `json:"dateApplied" binding:"required,date"`
	Notes       string `json:"notes"`
}

func (r CreateApplicationRequest) Model(userID int64) (*models.Application, error) {
	applied, err := models.ParseDate(r.DateApplied)
	if err != nil {
		return nil, err
	}
	return &models.Application{
		UserID:      userID,
		Company:     r.Company,
		JobTitle:    r.JobTitle,
		Status:      r.Status,
		DateApplied: applied,
		Notes:       r.Notes,
	}, nil
}

type UpdateApplicationRequest struct {
	Company     *string `json:"company" binding:"omitempty,min=1,max=100"`
	JobTitle    *string `json:"jobTitle" binding:"omitempty,min=1,max=100"`
	Status      *string `json:"status" binding:"omitempty,min=1,max=50"`
	DateApplied *string `json:"dateApplied" binding:"omitempty,date"`
	Notes       *string `json:"notes"`
}

// Fields lists the fields present in the request, in declaration order.
func (r UpdateApplicationRequest) Fields() (database.Fields, error) {
	var f database.Fields
	if r.Company != nil {
		f = f.Add("company", *r.Company)
	}
	if r.JobTitle != nil {
		f = f.Add("jobTitle", *r.JobTitle)
	}
	if r.Status != nil {
		f = f.Add("status", *r.Status)
	}
	if r.DateApplied != nil {
		d, err := models.ParseDate(*r.DateApplied)
		if err != nil {
			return nil, err
		}
		f = f.Add("dateApplied", d)
	}
	if r.Notes != nil {
		f = f.Add("notes", *r.Notes)
	}
	return f, nil
}

// ExtractRequest carries a job posting page to pull application fields from.
type ExtractRequest struct {
	RawHTML string `json:"rawHtml" binding:"required"`
	URL     string `json:"url" binding:"omitempty,url"`
}
