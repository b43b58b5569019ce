package repository

import (
	"context"
	"fmt"

	"github.com/justsurfingit/job-jotter/internal/database"
	"github.com/justsurfingit/job-jotter/internal/models"
	"gorm.io/gorm"
)

var userColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"isAdmin":   "is_admin",
	"password":  "password",
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts user and fills in its id and timestamps.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Omit("Applications", "Reminders").Create(user).Error
	return translate(err, fmt.Sprintf("user %q", user.Username))
}

// GetByUsername returns the user including the password hash.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("user %q", username))
	}
	return &user, nil
}

// GetWithApplications returns the user with its applications attached.
func (r *UserRepository) GetWithApplications(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Applications", func(db *gorm.DB) *gorm.DB {
			return db.Order("date_applied DESC, id")
		}).
		Where("username = ?", username).
		Take(&user).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("user %q", username))
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("username").Find(&users).Error; err != nil {
		return nil, translate(err, "list users")
	}
	return users, nil
}

// Update applies a partial update to the user named username.
func (r *UserRepository) Update(ctx context.Context, username string, fields database.Fields) (*models.User, error) {
	pu, err := database.BuildPartialUpdate(fields, userColumns)
	if err != nil {
		return nil, err
	}

	query := "UPDATE users SET " + pu.SetClause + ", updated_at = NOW()" +
		" WHERE username = " + pu.Next() + " RETURNING *"

	var user models.User
	res := r.db.WithContext(ctx).Raw(query, pu.Args(username)...).Scan(&user)
	if res.Error != nil {
		return nil, translate(res.Error, fmt.Sprintf("update user %q", username))
	}
	if res.RowsAffected == 0 {
		return nil, notFound(fmt.Sprintf("user %q", username))
	}
	return &user, nil
}

// Delete removes the user; applications, interviews and reminders cascade.
func (r *UserRepository) Delete(ctx context.Context, username string) error {
	res := r.db.WithContext(ctx).Where("username = ?", username).Delete(&models.User{})
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("delete user %q", username))
	}
	if res.RowsAffected == 0 {
		return notFound(fmt.Sprintf("user %q", username))
	}
	return nil
}
