package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/isdelr/articlehub-be/internal/models"
	"github.com/isdelr/articlehub-be/internal/pagination"
	"github.com/isdelr/articlehub-be/internal/repository"
	"github.com/isdelr/articlehub-be/internal/services"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	user, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// List handles paginated, filtered user listings.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params, err := pagination.FromQuery(q, repository.UserSort.Fields())
	if err != nil {
		WriteError(w, r, err)
		return
	}

	page, err := h.service.ListUsers(r.Context(), models.UserFilter{Name: q.Get("name"), Email: q.Get("email")}, params)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// Get handles retrieving a user by their ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUserByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Update handles updating a user's profile information.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), actorID(r), chi.URLParam(r, "id"), services.UserUpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Delete handles the permanent deletion of a user account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), actorID(r), chi.URLParam(r, "id")); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
