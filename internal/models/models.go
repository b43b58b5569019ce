package models

import (
	"time"
)

type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Username  string `gorm:"uniqueIndex;not null" json:"username"`
	Password  string `gorm:"not null" json:"-"`
	Email     string `gorm:"not null" json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsAdmin   bool   `gorm:"not null;default:false" json:"isAdmin"`

	// Google Calendar credential. Only the calendar token manager writes these.
	GoogleAccessToken  string `json:"-"`
	GoogleRefreshToken string `json:"-"`
	GoogleTokenExpiry  int64  `json:"-"` // epoch milliseconds

	Applications []Application `gorm:"constraint:OnDelete:CASCADE" json:"applications,omitempty"`
	Reminders    []Reminder    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Application struct {
	ID     int64 `gorm:"primaryKey" json:"id"`
	UserID int64 `gorm:"not null;index" json:"userId"`

	Company     string `gorm:"not null" json:"company"`
	JobTitle    string `gorm:"not null" json:"jobTitle"`
	Status      string `gorm:"not null;default:'pending'" json:"status"`
	DateApplied Date   `gorm:"not null" json:"dateApplied"`
	Notes       string `gorm:"type:text" json:"notes"`

	Interviews []Interview `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Reminders  []Reminder  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Interview struct {
	ID            int64 `gorm:"primaryKey" json:"id"`
	ApplicationID int64 `gorm:"not null;index" json:"applicationId"`

	Date     Date   `gorm:"not null" json:"date"`
	Time     string `gorm:"size:5;not null" json:"time"` // HH:MM
	Location string `gorm:"not null" json:"location"`
	Notes    string `gorm:"type:text" json:"notes"`

	// Filled by queries that join the owning application.
	Company string `gorm:"->;-:migration" json:"company,omitempty"`
	OwnerID int64  `gorm:"->;-:migration" json:"-"`
}

type Reminder struct {
	ID            int64 `gorm:"primaryKey" json:"id"`
	ApplicationID int64 `gorm:"not null;index" json:"applicationId"`
	UserID        int64 `gorm:"not null;index" json:"userId"`

	ReminderType string `gorm:"not null" json:"reminderType"`
	Date         Date   `gorm:"not null" json:"date"`
	Description  string `gorm:"type:text;not null" json:"description"`

	Company string `gorm:"->;-:migration" json:"company,omitempty"`
}

// All lists the models managed by the schema migration.
func All() []any {
	return []any{&User{}, &Application{}, &Interview{}, &Reminder{}}
}
