package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/articlehub-be/internal/apperrors"
	"github.com/isdelr/articlehub-be/internal/models"
	"github.com/isdelr/articlehub-be/internal/repository"
)

// PermissionServiceProvider defines the interface for permission services.
type PermissionServiceProvider interface {
	ListPermissions(ctx context.Context) ([]models.Permission, error)
	Grant(ctx context.Context, actorID, userID, permissionName string) (models.UserPermission, error)
	Revoke(ctx context.Context, actorID, userID, permissionName string) error
}

// PermissionService manages the permission catalogue and user grants.
type PermissionService struct {
	permissions repository.PermissionStore
	events      EventServiceProvider
}

// NewPermissionService creates a new PermissionService.
func NewPermissionService(permissions repository.PermissionStore, events EventServiceProvider) *PermissionService {
	return &PermissionService{permissions: permissions, events: events}
}

// ListPermissions returns every known permission.
func (s *PermissionService) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	perms, err := s.permissions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if perms == nil {
		perms = []models.Permission{}
	}
	return perms, nil
}

// Grant assigns the named permission to a user. Granting a permission the
// user already holds is a Conflict.
func (s *PermissionService) Grant(ctx context.Context, actorID, userID, permissionName string) (models.UserPermission, error) {
	perm, err := s.lookup(ctx, userID, permissionName)
	if err != nil {
		return models.UserPermission{}, err
	}

	if err := s.permissions.Grant(ctx, userID, perm.ID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("permission", string(perm.Name)).Msg("Permission grant failed")
		return models.UserPermission{}, err
	}

	log.Info().Str("user_id", userID).Str("permission", string(perm.Name)).Str("actor_id", actorID).Msg("Permission granted")
	s.events.Record(ctx, EventPermissionGranted, LevelInfo,
		fmt.Sprintf("Granted %s to user %s", perm.Name, userID), strPtr(actorID), strPtr(userID))
	return models.UserPermission{UserID: userID, PermissionID: perm.ID}, nil
}

// Revoke removes the named permission from a user.
func (s *PermissionService) Revoke(ctx context.Context, actorID, userID, permissionName string) error {
	perm, err := s.lookup(ctx, userID, permissionName)
	if err != nil {
		return err
	}

	if err := s.permissions.Revoke(ctx, userID, perm.ID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("permission", string(perm.Name)).Msg("Permission revoke failed")
		return err
	}

	log.Info().Str("user_id", userID).Str("permission", string(perm.Name)).Str("actor_id", actorID).Msg("Permission revoked")
	s.events.Record(ctx, EventPermissionRevoked, LevelWarn,
		fmt.Sprintf("Revoked %s from user %s", perm.Name, userID), strPtr(actorID), strPtr(userID))
	return nil
}

func (s *PermissionService) lookup(ctx context.Context, userID, permissionName string) (models.Permission, error) {
	if err := requireID("user", userID); err != nil {
		return models.Permission{}, err
	}
	role := models.Role(strings.ToUpper(strings.TrimSpace(permissionName)))
	if !role.Valid() {
		return models.Permission{}, fmt.Errorf("permission %s: %w", permissionName, apperrors.ErrNotFound)
	}
	return s.permissions.FindByName(ctx, role)
}
