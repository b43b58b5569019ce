package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/justsurfingit/job-jotter/internal/auth"
	"github.com/justsurfingit/job-jotter/internal/dtos"
	"github.com/justsurfingit/job-jotter/internal/models"
)

var errBadCredentials = fmt.Errorf("invalid username/password: %w", models.ErrUnauthorized)

type UserService struct {
	users  UserStore
	hasher auth.Hasher
	tokens *auth.Tokens
}

func NewUserService(users UserStore, hasher auth.Hasher, tokens *auth.Tokens) *UserService {
	return &UserService{users: users, hasher: hasher, tokens: tokens}
}

// Authenticate checks the credentials and returns a session token.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return "", errBadCredentials
	}
	if err != nil {
		return "", err
	}

	if err := s.hasher.Verify(password, user.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", errBadCredentials
		}
		return "", err
	}
	return s.token(user)
}

// Register creates a regular user and returns a session token for it.
func (s *UserService) Register(ctx context.Context, req dtos.RegisterRequest) (string, error) {
	user, err := s.create(ctx, req, false)
	if err != nil {
		return "", err
	}
	return s.token(user)
}

// Create adds a user on behalf of an admin. The new user may be an admin.
func (s *UserService) Create(ctx context.Context, req dtos.CreateUserRequest) (*models.User, string, error) {
	user, err := s.create(ctx, req.RegisterRequest, req.IsAdmin)
	if err != nil {
		return nil, "", err
	}
	token, err := s.token(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// Get returns the user with its applications.
func (s *UserService) Get(ctx context.Context, actor auth.Actor, username string) (*models.User, error) {
	if err := authorizeUser(actor, username); err != nil {
		return nil, err
	}
	user, err := s.users.GetWithApplications(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(actor, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update changes the profile after checking the user's current password.
func (s *UserService) Update(ctx context.Context, actor auth.Actor, username string, req dtos.UpdateUserRequest) (*models.User, error) {
	if err := authorizeUser(actor, username); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(actor, user); err != nil {
		return nil, err
	}
	if err := s.hasher.Verify(req.Password, user.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, fmt.Errorf("incorrect password: %w", models.ErrUnauthorized)
		}
		return nil, err
	}

	fields := req.Fields()
	if req.NewPassword != nil {
		hash, err := s.hasher.Hash(*req.NewPassword)
		if err != nil {
			return nil, err
		}
		fields = fields.Add("password", hash)
	}
	return s.users.Update(ctx, username, fields)
}

func (s *UserService) Delete(ctx context.Context, actor auth.Actor, username string) error {
	if err := authorizeUser(actor, username); err != nil {
		return err
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := checkOwner(actor, user); err != nil {
		return err
	}
	return s.users.Delete(ctx, username)
}

func (s *UserService) create(ctx context.Context, req dtos.RegisterRequest, isAdmin bool) (*models.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:  req.Username,
		Password:  hash,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsAdmin:   isAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) token(user *models.User) (string, error) {
	return s.tokens.Create(auth.Actor{UserID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin})
}

// authorizeUser lets admins and the user themselves through. Runs before any
// lookup, so a forbidden caller never learns whether username exists.
// checkOwner then confirms the row by id.
func authorizeUser(actor auth.Actor, username string) error {
	if actor.IsAdmin || (actor.Username != "" && actor.Username == username) {
		return nil
	}
	return fmt.Errorf("user %q: %w", username, models.ErrForbidden)
}

// checkOwner rejects a token whose user id no longer matches the row, as
// when a username is deleted and registered again.
func checkOwner(actor auth.Actor, user *models.User) error {
	if !auth.CanAccess(actor, user.ID) {
		return fmt.Errorf("user %q: %w", user.Username, models.ErrForbidden)
	}
	return nil
}
