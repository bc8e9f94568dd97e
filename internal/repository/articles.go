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

// ArticleSort lists the sortable article fields.
var ArticleSort = pagination.Sort{
	Columns: map[string]string{
		"createdAt": "a.created_at",
		"updatedAt": "a.updated_at",
		"title":     "a.title",
	},
	Default: "createdAt",
	Tie:     "a.id",
}

const articleSelect = `
	SELECT a.id, a.title, a.content, a.creator_id, a.created_at, a.updated_at,
	       u.id, u.name, u.email
	FROM articles a
	JOIN users u ON u.id = a.creator_id`

// ArticleRepository is the SQL ArticleStore.
type ArticleRepository struct {
	db      database.DBTX
	dialect database.Dialect
}

// NewArticleRepository creates an ArticleRepository bound to db.
func NewArticleRepository(db database.DBTX, dialect database.Dialect) *ArticleRepository {
	return &ArticleRepository{db: db, dialect: dialect}
}

func scanArticle(scanner interface{ Scan(...any) error }) (models.Article, error) {
	var a models.Article
	err := scanner.Scan(&a.ID, &a.Title, &a.Content, &a.CreatorID, &a.CreatedAt, &a.UpdatedAt,
		&a.Creator.ID, &a.Creator.Name, &a.Creator.Email)
	return a, err
}

// Create inserts an article and fills in its timestamps and creator projection.
func (r *ArticleRepository) Create(ctx context.Context, article *models.Article) error {
	ts := now()
	article.CreatedAt, article.UpdatedAt = ts, ts

	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		"INSERT INTO articles (id, title, content, creator_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"),
		article.ID, article.Title, article.Content, article.CreatorID, article.CreatedAt, article.UpdatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("creator %s: %w", article.CreatorID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("insert article: %w", err)
	}

	stored, err := r.FindByID(ctx, article.ID)
	if err != nil {
		return err
	}
	*article = stored
	return nil
}

func (r *ArticleRepository) FindByID(ctx context.Context, id string) (models.Article, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(articleSelect+" WHERE a.id = ?"), id)
	a, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Article{}, fmt.Errorf("article with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return models.Article{}, fmt.Errorf("select article: %w", err)
	}
	return a, nil
}

// FindMany returns one page of articles matching filter and the total match count.
func (r *ArticleRepository) FindMany(ctx context.Context, filter models.ArticleFilter, params pagination.Params) ([]models.Article, int, error) {
	b := pagination.Builder{Fold: r.dialect.Fold()}
	where, args := b.Contains("a.title", filter.Title).Equals("a.creator_id", filter.AuthorID).Where()

	var total int
	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind("SELECT COUNT(*) FROM articles a"+where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	order, pageArgs := ArticleSort.Page(params)
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(articleSelect+where+order), append(args, pageArgs...)...)
	if err != nil {
		return nil, 0, fmt.Errorf("select articles: %w", err)
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate articles: %w", err)
	}
	return articles, total, nil
}

// Update applies the non-nil fields of update. The creator is never changed.
func (r *ArticleRepository) Update(ctx context.Context, id string, update models.ArticleUpdate) (models.Article, error) {
	var sets []string
	var args []any
	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *update.Content)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now(), id)

	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		"UPDATE articles SET "+strings.Join(sets, ", ")+" WHERE id = ?"), args...)
	if err != nil {
		return models.Article{}, fmt.Errorf("update article: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Article{}, fmt.Errorf("article with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return r.FindByID(ctx, id)
}

func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind("DELETE FROM articles WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("article with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
