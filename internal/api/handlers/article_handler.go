package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/isdelr/articlehub-be/internal/models"
	"github.com/isdelr/articlehub-be/internal/pagination"
	"github.com/isdelr/articlehub-be/internal/repository"
	"github.com/isdelr/articlehub-be/internal/services"
)

// ArticleHandler handles HTTP requests for articles.
type ArticleHandler struct {
	service services.ArticleServiceProvider
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(service services.ArticleServiceProvider) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// Create stores a new article owned by the caller.
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createArticleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	article, err := h.service.CreateArticle(r.Context(), actorID(r), req.Title, req.Content)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, article)
}

// List handles paginated, filtered article listings.
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params, err := pagination.FromQuery(q, repository.ArticleSort.Fields())
	if err != nil {
		WriteError(w, r, err)
		return
	}

	filter := models.ArticleFilter{Title: q.Get("title"), AuthorID: q.Get("authorId")}
	page, err := h.service.ListArticles(r.Context(), filter, params)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// Get returns a single article.
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	article, err := h.service.GetArticleByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, article)
}

// Update changes an article's title and/or content.
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateArticleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	article, err := h.service.UpdateArticle(r.Context(), actorID(r), chi.URLParam(r, "id"),
		models.ArticleUpdate{Title: req.Title, Content: req.Content})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, article)
}

// Delete removes an article.
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteArticle(r.Context(), actorID(r), chi.URLParam(r, "id")); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
