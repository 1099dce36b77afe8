package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kislikjeka/cointrack/internal/platform/user"
	"github.com/kislikjeka/cointrack/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/cointrack/pkg/logger"
)

// Where the client should go after signing in
const (
	RedirectDashboard = "/dashboard"
	RedirectAdmin     = "/admin"
)

// UserServiceInterface defines the interface for user operations needed by AuthHandler
type UserServiceInterface interface {
	Register(ctx context.Context, username, password string) (*user.User, error)
	Login(ctx context.Context, username, password string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// JWTServiceInterface defines the interface for JWT operations
type JWTServiceInterface interface {
	GenerateToken(userID uuid.UUID, username string, role user.Role) (string, error)
}

// ProfileResolver returns the profile a user last worked in
type ProfileResolver interface {
	CurrentProfile(ctx context.Context, userID uuid.UUID) (string, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userService UserServiceInterface
	jwtService  JWTServiceInterface
	profiles    ProfileResolver
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService UserServiceInterface, jwtService JWTServiceInterface, profiles ProfileResolver, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		profiles:    profiles,
		logger:      log,
	}
}

// CredentialsRequest is the body of register and login
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token    string    `json:"token"`
	Role     user.Role `json:"role"`
	Redirect string    `json:"redirect"`
	Profile  string    `json:"profile"`
	User     *UserInfo `json:"user"`
}

// UserInfo represents user information (without sensitive data)
type UserInfo struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Role        user.Role  `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func newUserInfo(u *user.User) *UserInfo {
	return &UserInfo{
		ID:          u.ID.String(),
		Username:    u.Username,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return req, false
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		respondError(w, "username is required", http.StatusBadRequest)
		return req, false
	}

	if req.Password == "" {
		respondError(w, "password is required", http.StatusBadRequest)
		return req, false
	}

	return req, true
}

// Register handles user registration (POST /auth/register)
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	registered, err := h.userService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	h.logger.WithContext(r.Context()).Info("user registered", "user_id", registered.ID.String())
	h.respondWithToken(w, r, registered, http.StatusCreated)
}

// Login handles user login (POST /auth/login)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	authenticated, err := h.userService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	h.respondWithToken(w, r, authenticated, http.StatusOK)
}

// Me handles GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	u, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	profile, err := h.profiles.CurrentProfile(r.Context(), userID)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	respondJSON(w, map[string]interface{}{
		"user":    newUserInfo(u),
		"profile": profile,
	}, http.StatusOK)
}

// respondWithToken issues a token and restores the last active profile
func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, u *user.User, status int) {
	token, err := h.jwtService.GenerateToken(u.ID, u.Username, u.Role)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	profile, err := h.profiles.CurrentProfile(r.Context(), u.ID)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}

	redirect := RedirectDashboard
	if u.IsAdmin() {
		redirect = RedirectAdmin
	}

	respondJSON(w, AuthResponse{
		Token:    token,
		Role:     u.Role,
		Redirect: redirect,
		Profile:  profile,
		User:     newUserInfo(u),
	}, status)
}
