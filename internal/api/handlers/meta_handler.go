package handlers

import (
	"net/http"
	"strings"
)

// EndpointInfo describes one route in an OPTIONS catalogue.
type EndpointInfo struct {
	Description    string   `json:"description"`
	Authentication string   `json:"authentication"`
	Roles          []string `json:"roles,omitempty"`
}

// Catalogue is the body returned by OPTIONS on a resource collection.
type Catalogue struct {
	Methods   []string                `json:"methods"`
	Endpoints map[string]EndpointInfo `json:"endpoints"`
}

// Options serves a static endpoint catalogue with a matching Allow header.
func Options(c Catalogue) http.HandlerFunc {
	allow := strings.Join(c.Methods, ",")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		respondJSON(w, http.StatusOK, c)
	}
}

// Index answers GET /v1.
func Index(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"name":    "articlehub",
		"version": "v1",
		"message": "Article management API",
	})
}
