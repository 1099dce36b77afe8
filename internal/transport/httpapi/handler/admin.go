package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kislikjeka/cointrack/internal/module/admin"
	"github.com/kislikjeka/cointrack/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/cointrack/pkg/logger"
)

// AdminServiceInterface defines the admin operations needed by AdminHandler
type AdminServiceInterface interface {
	Stats(ctx context.Context) (*admin.Overview, error)
	Users(ctx context.Context) ([]admin.UserSummary, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	Broadcast(ctx context.Context) (*admin.Broadcast, error)
	SetBroadcast(ctx context.Context, message, setBy string) (*admin.Broadcast, error)
}

// AdminHandler handles the admin console and the broadcast banner
type AdminHandler struct {
	adminService AdminServiceInterface
	logger       *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService AdminServiceInterface, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       log,
	}
}

// BroadcastRequest is the body of POST /admin/broadcast
type BroadcastRequest struct {
	Message string `json:"message"`
}

// GetStats handles GET /admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	overview, err := h.adminService.Stats(r.Context())
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	respondJSON(w, overview, http.StatusOK)
}

// GetUsers handles GET /admin/users
func (h *AdminHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.Users(r.Context())
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	respondJSON(w, map[string]interface{}{"users": users}, http.StatusOK)
}

// DeleteUser handles DELETE /admin/users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid user ID", http.StatusBadRequest)
		return
	}

	if callerID, ok := middleware.GetUserIDFromContext(r.Context()); ok && callerID == userID {
		respondError(w, "cannot delete your own account", http.StatusBadRequest)
		return
	}

	if err := h.adminService.DeleteUser(r.Context(), userID); err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetBroadcast handles GET /broadcast
func (h *AdminHandler) GetBroadcast(w http.ResponseWriter, r *http.Request) {
	b, err := h.adminService.Broadcast(r.Context())
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	respondJSON(w, b, http.StatusOK)
}

// SetBroadcast handles POST /admin/broadcast. An empty message clears the banner.
func (h *AdminHandler) SetBroadcast(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	setBy, _ := middleware.GetUsernameFromContext(r.Context())

	b, err := h.adminService.SetBroadcast(r.Context(), req.Message, setBy)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	respondJSON(w, b, http.StatusOK)
}
