package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/kislikjeka/cointrack/internal/module/analytics"
	"github.com/kislikjeka/cointrack/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/cointrack/pkg/logger"
)

// AnalyticsServiceInterface defines the interface for dashboard reads
type AnalyticsServiceInterface interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (*analytics.Dashboard, error)
}

// DashboardHandler serves the main screen data
type DashboardHandler struct {
	analyticsService AnalyticsServiceInterface
	logger           *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(analyticsService AnalyticsServiceInterface, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		analyticsService: analyticsService,
		logger:           log,
	}
}

// GetData handles GET /data
func (h *DashboardHandler) GetData(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	dashboard, err := h.analyticsService.Dashboard(r.Context(), userID)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	respondJSON(w, dashboard, http.StatusOK)
}
