package handlers

import (
	"context"
	"net/http"

	"github.com/isdelr/articlehub-be/internal/monitoring"
)

// HealthChecker runs the health probe sets.
type HealthChecker interface {
	Check(ctx context.Context) monitoring.Report
	Live(ctx context.Context) monitoring.Report
	Ready(ctx context.Context) monitoring.Report
}

// HealthHandler serves the health, liveness and readiness probes.
type HealthHandler struct {
	checker HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	writeReport(w, h.checker.Check(r.Context()))
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeReport(w, h.checker.Live(r.Context()))
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	writeReport(w, h.checker.Ready(r.Context()))
}

func writeReport(w http.ResponseWriter, report monitoring.Report) {
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, report)
}
