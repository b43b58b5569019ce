package dtos

import "github.com/justsurfingit/job-jotter/internal/database"

type LoginRequest struct {
	Username string `json:"username" binding:"required,min=1,max=25"`
	Password string `json:"password" binding:"required,min=1"`
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=1,max=25"`
	Password  string `json:"password" binding:"required,min=5,max=72"`
	Email     string `json:"email" binding:"required,email,max=60"`
	FirstName string `json:"firstName" binding:"required,min=1,max=30"`
	LastName  string `json:"lastName" binding:"required,min=1,max=30"`
}

// CreateUserRequest is the admin variant of RegisterRequest.
type CreateUserRequest struct {
	RegisterRequest
	IsAdmin bool `json:"isAdmin"`
}

// UpdateUserRequest changes a profile. Password is the current password and
// is always required; NewPassword replaces it.
type UpdateUserRequest struct {
	Password    string  `json:"password" binding:"required"`
	FirstName   *string `json:"firstName" binding:"omitempty,min=1,max=30"`
	LastName    *string `json:"lastName" binding:"omitempty,min=1,max=30"`
	Email       *string `json:"email" binding:"omitempty,email,max=60"`
	NewPassword *string `json:"newPassword" binding:"omitempty,min=5,max=72"`
}

// Fields lists the profile fields present. The new password is left out
// because it has to be hashed first.
func (r UpdateUserRequest) Fields() database.Fields {
	var f database.Fields
	if r.FirstName != nil {
		f = f.Add("firstName", *r.FirstName)
	}
	if r.LastName != nil {
		f = f.Add("lastName", *r.LastName)
	}
	if r.Email != nil {
		f = f.Add("email", *r.Email)
	}
	return f
}
