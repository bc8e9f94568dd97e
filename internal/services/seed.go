package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/articlehub-be/internal/apperrors"
	"github.com/isdelr/articlehub-be/internal/database"
	"github.com/isdelr/articlehub-be/internal/models"
	"github.com/isdelr/articlehub-be/internal/repository"
)

// SeedAdmin makes sure a root user with email exists and holds ADMIN. It is
// idempotent: an existing user keeps its password, and an existing grant is
// left alone.
func SeedAdmin(ctx context.Context, db *sql.DB, dialect database.Dialect, hasher *PasswordHasher, email, password string) error {
	email = normalizeEmail(email)
	hashed, err := hasher.Hash(ctx, password)
	if err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(ctx context.Context, tx database.DBTX) error {
		users := repository.NewUserRepository(tx, dialect)
		perms := repository.NewPermissionRepository(tx, dialect)

		admin, err := perms.FindByName(ctx, models.RoleAdmin)
		if err != nil {
			return fmt.Errorf("admin permission missing, were migrations applied? %w", err)
		}

		user, err := users.FindByEmail(ctx, email)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			user = models.User{
				ID:           uuid.New().String(),
				Name:         "Administrator",
				Email:        email,
				PasswordHash: hashed,
			}
			if err := users.Create(ctx, &user); err != nil {
				return err
			}
			log.Info().Str("email", email).Msg("Root admin user created")
		case err != nil:
			return err
		}

		for _, p := range user.Permissions {
			if p.Name == models.RoleAdmin {
				return nil
			}
		}
		if err := perms.Grant(ctx, user.ID, admin.ID); err != nil {
			return err
		}
		log.Info().Str("user_id", user.ID).Msg("Granted ADMIN to root user")
		return nil
	})
}
