package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/isdelr/articlehub-be/internal/services"
)

// PermissionHandler handles the permission catalogue and grants.
type PermissionHandler struct {
	service services.PermissionServiceProvider
}

// NewPermissionHandler creates a new PermissionHandler.
func NewPermissionHandler(service services.PermissionServiceProvider) *PermissionHandler {
	return &PermissionHandler{service: service}
}

// List returns every permission.
func (h *PermissionHandler) List(w http.ResponseWriter, r *http.Request) {
	perms, err := h.service.ListPermissions(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, perms)
}

// Grant assigns a permission to a user.
func (h *PermissionHandler) Grant(w http.ResponseWriter, r *http.Request) {
	grant, err := h.service.Grant(r.Context(), actorID(r), chi.URLParam(r, "userId"), chi.URLParam(r, "permissionName"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, grant)
}

// Revoke removes a permission from a user.
func (h *PermissionHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	err := h.service.Revoke(r.Context(), actorID(r), chi.URLParam(r, "userId"), chi.URLParam(r, "permissionName"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
