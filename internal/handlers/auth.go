package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/freelance-marketplace-api/internal/constants"
	"github.com/yukikurage/freelance-marketplace-api/internal/dto"
	apierrors "github.com/yukikurage/freelance-marketplace-api/internal/errors"
	"github.com/yukikurage/freelance-marketplace-api/internal/middleware"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup registers a new client or freelancer.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Email    string `json:"email" binding:"required,email,max=255"`
		Password string `json:"password" binding:"required,min=8,max=72"`
		Name     string `json:"name" binding:"max=255"`
		Role     string `json:"role" binding:"required,oneof=client freelancer"`
	}

	var req SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	person, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Account created", dto.ToUserDTO(*person))
}

// Login authenticates with email and password and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	person, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.startSession(c, person, "Logged in successfully")
}

// RequestOTP mails a one-time code for login or password reset.
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	type OTPRequest struct {
		Email   string `json:"email" binding:"required,email"`
		Purpose string `json:"purpose" binding:"omitempty,oneof=login reset"`
	}

	var req OTPRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Purpose == "" {
		req.Purpose = string(services.OTPPurposeLogin)
	}

	if err := h.authService.RequestOTP(c.Request.Context(), req.Email, services.OTPPurpose(req.Purpose)); err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "If the account exists, a code has been sent", nil)
}

// VerifyOTP logs in with a one-time code.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	type VerifyRequest struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required,len=6,numeric"`
	}

	var req VerifyRequest
	if !bindJSON(c, &req) {
		return
	}

	person, err := h.authService.LoginWithOTP(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.startSession(c, person, "Logged in successfully")
}

// ResetPassword sets a new password using a reset code.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	type ResetRequest struct {
		Email       string `json:"email" binding:"required,email"`
		Code        string `json:"code" binding:"required,len=6,numeric"`
		NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
	}

	var req ResetRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Password updated", nil)
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	respond(c, http.StatusOK, "Logged out successfully", nil)
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	person, exists := middleware.GetPerson(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	respond(c, http.StatusOK, "Current user", dto.ToUserDTO(person))
}

// startSession stores the person in the session and returns a bearer token.
func (h *AuthHandler) startSession(c *gin.Context, person *models.Person, message string) {
	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, person.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	token, expiresAt, err := h.authService.IssueToken(person)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, message, dto.AuthDTO{
		User:      dto.ToUserDTO(*person),
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
