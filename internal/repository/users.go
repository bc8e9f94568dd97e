package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/articlehub-be/internal/apperrors"
	"github.com/isdelr/articlehub-be/internal/database"
	"github.com/isdelr/articlehub-be/internal/models"
	"github.com/isdelr/articlehub-be/internal/pagination"
)

// UserSort lists the sortable user fields.
var UserSort = pagination.Sort{
	Columns: map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"name":      "name",
		"email":     "email",
	},
	Default: "createdAt",
	Tie:     "id",
}

const userColumns = "id, name, email, password_hash, created_at, updated_at"

// UserRepository is the SQL UserStore.
type UserRepository struct {
	db      database.DBTX
	dialect database.Dialect
}

// NewUserRepository creates a UserRepository bound to db.
func NewUserRepository(db database.DBTX, dialect database.Dialect) *UserRepository {
	return &UserRepository{db: db, dialect: dialect}
}

func scanUser(scanner interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := scanner.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user. The email unique constraint decides concurrent
// registrations: exactly one wins, the rest get ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	ts := now()
	user.CreatedAt, user.UpdatedAt = ts, ts

	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		"INSERT INTO users (id, name, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"),
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("email %s already exists: %w", user.Email, apperrors.ErrConflict)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByID returns the user with its permissions, without the password hash.
func (r *UserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	u, err := r.findOne(ctx, "id", id)
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = ""
	return u, nil
}

// FindByEmail returns the user with its permissions and password hash, for
// credential checks.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *UserRepository) findOne(ctx context.Context, column, value string) (models.User, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(
		"SELECT "+userColumns+" FROM users WHERE "+column+" = ?"), value)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user with %s %s: %w", column, value, apperrors.ErrNotFound)
		}
		return models.User{}, fmt.Errorf("select user: %w", err)
	}

	perms, err := r.permissionsFor(ctx, []string{u.ID})
	if err != nil {
		return models.User{}, err
	}
	u.Permissions = perms[u.ID]
	return u, nil
}

// List returns one page of users matching filter and the total match count.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter, params pagination.Params) ([]models.User, int, error) {
	b := pagination.Builder{Fold: r.dialect.Fold()}
	where, args := b.Contains("name", filter.Name).Contains("email", filter.Email).Where()

	var total int
	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind("SELECT COUNT(*) FROM users"+where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	order, pageArgs := UserSort.Page(params)
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind("SELECT "+userColumns+" FROM users"+where+order), append(args, pageArgs...)...)
	if err != nil {
		return nil, 0, fmt.Errorf("select users: %w", err)
	}

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		u.PasswordHash = ""
		users = append(users, u)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	perms, err := r.permissionsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		users[i].Permissions = perms[users[i].ID]
	}
	return users, total, nil
}

// Update applies the non-nil fields of update and returns the updated user.
func (r *UserRepository) Update(ctx context.Context, id string, update models.UserUpdate) (models.User, error) {
	var sets []string
	var args []any
	if update.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *update.Email)
	}
	if update.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *update.PasswordHash)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now(), id)

	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?"), args...)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, fmt.Errorf("email already exists: %w", apperrors.ErrConflict)
		}
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.User{}, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
	}
	return r.FindByID(ctx, id)
}

// Delete removes a user; its grants go with it. A user who still authored
// articles cannot be removed.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("user %s still owns articles: %w", id, apperrors.ErrConflict)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) permissionsFor(ctx context.Context, userIDs []string) (map[string][]models.Permission, error) {
	out := make(map[string][]models.Permission, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`
		SELECT up.user_id, p.id, p.name, p.description
		FROM user_permissions up
		JOIN permissions p ON p.id = up.permission_id
		WHERE up.user_id IN (`+placeholders(len(userIDs))+`)
		ORDER BY p.name`), args...)
	if err != nil {
		return nil, fmt.Errorf("select user permissions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		var p models.Permission
		if err := rows.Scan(&userID, &p.ID, &p.Name, &p.Description); err != nil {
			return nil, fmt.Errorf("scan user permission: %w", err)
		}
		out[userID] = append(out[userID], p)
	}
	return out, rows.Err()
}
