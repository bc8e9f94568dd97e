package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/articlehub-be/internal/apperrors"
	"github.com/isdelr/articlehub-be/internal/models"
	"github.com/isdelr/articlehub-be/internal/pagination"
	"github.com/isdelr/articlehub-be/internal/repository"
)

// ArticleServiceProvider defines the interface for article services.
type ArticleServiceProvider interface {
	CreateArticle(ctx context.Context, creatorID, title, content string) (models.Article, error)
	GetArticleByID(ctx context.Context, id string) (models.Article, error)
	ListArticles(ctx context.Context, filter models.ArticleFilter, params pagination.Params) (pagination.Page[models.Article], error)
	UpdateArticle(ctx context.Context, actorID, id string, update models.ArticleUpdate) (models.Article, error)
	DeleteArticle(ctx context.Context, actorID, id string) error
}

// ArticleService provides business logic for articles. Access is decided by
// role at the router; any ADMIN or EDITOR may change any article.
type ArticleService struct {
	articles repository.ArticleStore
	events   EventServiceProvider
}

// NewArticleService creates a new ArticleService.
func NewArticleService(articles repository.ArticleStore, events EventServiceProvider) *ArticleService {
	return &ArticleService{articles: articles, events: events}
}

// CreateArticle stores a new article owned by creatorID.
func (s *ArticleService) CreateArticle(ctx context.Context, creatorID, title, content string) (models.Article, error) {
	log.Info().Str("creator_id", creatorID).Str("title", title).Msg("Creating new article")

	article := models.Article{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		CreatorID: creatorID,
	}
	if err := s.articles.Create(ctx, &article); err != nil {
		return models.Article{}, err
	}

	log.Info().Str("article_id", article.ID).Str("creator_id", creatorID).Msg("Article created successfully")
	s.events.Record(ctx, EventArticleCreated, LevelInfo,
		fmt.Sprintf("Article %q created", article.Title), strPtr(creatorID), strPtr(article.ID))
	return article, nil
}

// GetArticleByID retrieves a single article with its creator.
func (s *ArticleService) GetArticleByID(ctx context.Context, id string) (models.Article, error) {
	if err := requireID("article", id); err != nil {
		return models.Article{}, err
	}
	return s.articles.FindByID(ctx, id)
}

// ListArticles returns one page of articles matching filter.
func (s *ArticleService) ListArticles(ctx context.Context, filter models.ArticleFilter, params pagination.Params) (pagination.Page[models.Article], error) {
	if err := params.Validate(repository.ArticleSort.Fields()); err != nil {
		return pagination.Page[models.Article]{}, err
	}
	if filter.AuthorID != "" {
		if _, err := uuid.Parse(filter.AuthorID); err != nil {
			return pagination.Page[models.Article]{}, fmt.Errorf("authorId must be a UUID: %w", apperrors.ErrInvalidInput)
		}
	}

	articles, total, err := s.articles.FindMany(ctx, filter, params)
	if err != nil {
		return pagination.Page[models.Article]{}, err
	}
	return pagination.NewPage(articles, params, total), nil
}

// UpdateArticle changes the title and/or content of an article.
func (s *ArticleService) UpdateArticle(ctx context.Context, actorID, id string, update models.ArticleUpdate) (models.Article, error) {
	if err := requireID("article", id); err != nil {
		return models.Article{}, err
	}
	log.Info().Str("article_id", id).Str("actor_id", actorID).Msg("Updating article")

	article, err := s.articles.Update(ctx, id, update)
	if err != nil {
		return models.Article{}, err
	}

	log.Info().Str("article_id", id).Msg("Article updated successfully")
	s.events.Record(ctx, EventArticleUpdated, LevelInfo,
		fmt.Sprintf("Article %q updated", article.Title), strPtr(actorID), strPtr(id))
	return article, nil
}

// DeleteArticle removes an article.
func (s *ArticleService) DeleteArticle(ctx context.Context, actorID, id string) error {
	if err := requireID("article", id); err != nil {
		return err
	}
	log.Info().Str("article_id", id).Str("actor_id", actorID).Msg("Deleting article")

	if err := s.articles.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Str("article_id", id).Msg("Article deleted successfully")
	s.events.Record(ctx, EventArticleDeleted, LevelWarn,
		fmt.Sprintf("Article %s deleted", id), strPtr(actorID), strPtr(id))
	return nil
}
