package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/articlehub-be/internal/models"
	"github.com/isdelr/articlehub-be/internal/pagination"
	"github.com/isdelr/articlehub-be/internal/repository"
)

// UserUpdateInput carries an update request. Nil fields are left unchanged.
type UserUpdateInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, name, email, password string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	ListUsers(ctx context.Context, filter models.UserFilter, params pagination.Params) (pagination.Page[models.User], error)
	UpdateUser(ctx context.Context, actorID, id string, input UserUpdateInput) (models.User, error)
	DeleteUser(ctx context.Context, actorID, id string) error
}

// UserService provides business logic for user management.
type UserService struct {
	users  repository.UserStore
	hasher *PasswordHasher
	events EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserStore, hasher *PasswordHasher, events EventServiceProvider) *UserService {
	return &UserService{users: users, hasher: hasher, events: events}
}

// Register creates a new user, hashing their password. The user starts with
// no permissions.
func (s *UserService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	log.Info().Str("email", email).Msg("Creating new user")

	hashed, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		PasswordHash: hashed,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("User creation failed")
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User created successfully")
	s.events.Record(ctx, EventUserRegistered, LevelInfo,
		fmt.Sprintf("User %s registered", user.Email), strPtr(user.ID), strPtr(user.ID))
	return user, nil
}

// GetUserByID retrieves a single user with their permissions.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	if err := requireID("user", id); err != nil {
		return models.User{}, err
	}
	return s.users.FindByID(ctx, id)
}

// ListUsers returns one page of users matching filter.
func (s *UserService) ListUsers(ctx context.Context, filter models.UserFilter, params pagination.Params) (pagination.Page[models.User], error) {
	if err := params.Validate(repository.UserSort.Fields()); err != nil {
		return pagination.Page[models.User]{}, err
	}
	users, total, err := s.users.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[models.User]{}, err
	}
	return pagination.NewPage(users, params, total), nil
}

// UpdateUser changes profile fields. A new password is hashed before storing.
func (s *UserService) UpdateUser(ctx context.Context, actorID, id string, input UserUpdateInput) (models.User, error) {
	if err := requireID("user", id); err != nil {
		return models.User{}, err
	}
	log.Info().Str("user_id", id).Str("actor_id", actorID).Msg("Updating user")

	var update models.UserUpdate
	if input.Name != nil {
		update.Name = strPtr(strings.TrimSpace(*input.Name))
	}
	if input.Email != nil {
		update.Email = strPtr(normalizeEmail(*input.Email))
	}
	if input.Password != nil {
		hashed, err := s.hasher.Hash(ctx, *input.Password)
		if err != nil {
			return models.User{}, err
		}
		update.PasswordHash = &hashed
	}

	user, err := s.users.Update(ctx, id, update)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("User update failed")
		return models.User{}, err
	}

	log.Info().Str("user_id", id).Msg("User updated successfully")
	s.events.Record(ctx, EventUserUpdated, LevelInfo,
		fmt.Sprintf("User %s updated", user.Email), strPtr(actorID), strPtr(id))
	return user, nil
}

// DeleteUser removes a user and their grants.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id string) error {
	if err := requireID("user", id); err != nil {
		return err
	}
	log.Info().Str("user_id", id).Str("actor_id", actorID).Msg("Deleting user")

	if err := s.users.Delete(ctx, id); err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("User deletion failed")
		return err
	}

	log.Info().Str("user_id", id).Msg("User deleted successfully")
	s.events.Record(ctx, EventUserDeleted, LevelWarn,
		fmt.Sprintf("User %s deleted", id), strPtr(actorID), strPtr(id))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
