package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/isdelr/articlehub-be/internal/apperrors"
	"github.com/isdelr/articlehub-be/internal/database"
	"github.com/isdelr/articlehub-be/internal/models"
)

// PermissionRepository is the SQL PermissionStore.
type PermissionRepository struct {
	db      database.DBTX
	dialect database.Dialect
}

// NewPermissionRepository creates a PermissionRepository bound to db.
func NewPermissionRepository(db database.DBTX, dialect database.Dialect) *PermissionRepository {
	return &PermissionRepository{db: db, dialect: dialect}
}

func (r *PermissionRepository) FindByName(ctx context.Context, name models.Role) (models.Permission, error) {
	var p models.Permission
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(
		"SELECT id, name, description FROM permissions WHERE name = ?"), string(name)).
		Scan(&p.ID, &p.Name, &p.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Permission{}, fmt.Errorf("permission %s: %w", name, apperrors.ErrNotFound)
		}
		return models.Permission{}, fmt.Errorf("select permission: %w", err)
	}
	return p, nil
}

func (r *PermissionRepository) ListAll(ctx context.Context) ([]models.Permission, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, description FROM permissions ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("select permissions: %w", err)
	}
	defer rows.Close()
	return scanPermissions(rows)
}

func (r *PermissionRepository) ListForUser(ctx context.Context, userID string) ([]models.Permission, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`
		SELECT p.id, p.name, p.description
		FROM permissions p
		JOIN user_permissions up ON up.permission_id = p.id
		WHERE up.user_id = ?
		ORDER BY p.name`), userID)
	if err != nil {
		return nil, fmt.Errorf("select user permissions: %w", err)
	}
	defer rows.Close()
	return scanPermissions(rows)
}

// Grant assigns a permission to a user. The (user_id, permission_id) primary
// key rejects duplicates with ErrConflict; missing ids fail the foreign keys
// and surface as ErrNotFound.
func (r *PermissionRepository) Grant(ctx context.Context, userID, permissionID string) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		"INSERT INTO user_permissions (user_id, permission_id, created_at) VALUES (?, ?, ?)"),
		userID, permissionID, now())
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err):
		return fmt.Errorf("user %s already holds permission %s: %w", userID, permissionID, apperrors.ErrConflict)
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("user %s or permission %s: %w", userID, permissionID, apperrors.ErrNotFound)
	default:
		return fmt.Errorf("insert grant: %w", err)
	}
}

// Revoke removes a grant; a grant that does not exist is ErrNotFound.
func (r *PermissionRepository) Revoke(ctx context.Context, userID, permissionID string) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		"DELETE FROM user_permissions WHERE user_id = ? AND permission_id = ?"), userID, permissionID)
	if err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("grant of %s to %s: %w", permissionID, userID, apperrors.ErrNotFound)
	}
	return nil
}

func scanPermissions(rows *sql.Rows) ([]models.Permission, error) {
	var perms []models.Permission
	for rows.Next() {
		var p models.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}
