package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/akmatoff/auth-api/internal/apierror"
	"github.com/akmatoff/auth-api/internal/domain"
	"github.com/akmatoff/auth-api/internal/metrics"
	"github.com/akmatoff/auth-api/internal/transport/http/request"
	"github.com/akmatoff/auth-api/internal/usecase"
	"github.com/akmatoff/auth-api/internal/validate"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Signup(ctx context.Context, input usecase.SignupInput) (*usecase.AuthResult, error)
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id string) (string, error)
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type signupRequest struct {
	Email    string `json:"email"    validate:"required,email,max=80"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"     validate:"required,min=2,max=80"`
}

// signupMinBounds mirrors the minimum lengths declared on signupRequest; the
// signup formatter names them even for maximum-length violations.
var signupMinBounds = map[string]int{
	"password": 8,
	"name":     2,
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
	Name   string `json:"name"`
}

type userResponse struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	ProfileLink *string   `json:"profile_link"`
	CreatedAt   time.Time `json:"created_at"`
}

type userNameResponse struct {
	Name string `json:"name"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// GET /auth/
func (h *AuthHandler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, messageResponse{Message: "Welcome to Auth API"})
}

// POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if apiErr := request.BindJSON(c, &req, validate.NewSignupFormatter(signupMinBounds)); apiErr != nil {
		writeError(c, apiErr)
		return
	}

	result, err := h.authUsecase.Signup(c.Request.Context(), usecase.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			writeError(c, apierror.Conflict(domain.ErrEmailTaken.Error()))
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "signup", "error", err)
		writeError(c, apierror.Database(err))
		return
	}

	metrics.SignupsTotal.Inc()
	c.JSON(http.StatusOK, toAuthResponse(result))
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if apiErr := request.BindJSON(c, &req, validate.DefaultFormatter{}); apiErr != nil {
		writeError(c, apiErr)
		return
	}

	result, err := h.authUsecase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(c, apierror.Unauthorized(domain.ErrInvalidCredentials.Error()))
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
		writeError(c, apierror.Database(err))
		return
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, toAuthResponse(result))
}

// GET /auth/users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.authUsecase.FindAll(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list users", "error", err)
		writeError(c, apierror.Database(err))
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userResponse{
			UserID:      u.ID,
			Email:       u.Email,
			Name:        u.Name,
			ProfileLink: u.ProfileLink,
			CreatedAt:   u.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// GET /auth/users/:id
func (h *AuthHandler) FindUser(c *gin.Context) {
	id := c.Param("id")

	name, err := h.authUsecase.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(c, apierror.NotFound(domain.ErrUserNotFound.Error()))
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "find user", "user_id", id, "error", err)
		writeError(c, apierror.Database(err))
		return
	}

	c.JSON(http.StatusOK, userNameResponse{Name: name})
}

func toAuthResponse(r *usecase.AuthResult) authResponse {
	return authResponse{
		UserID: r.UserID,
		Email:  r.Email,
		Token:  r.Token,
		Name:   r.Name,
	}
}
