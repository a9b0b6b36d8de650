package controller

import (
	"errors"
	"net/http"

	"thinkdrills_backend/internal/model"
	"thinkdrills_backend/internal/service"
	"thinkdrills_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// RegisterRequest defines model for parent registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register godoc
// @Summary Register a parent account
// @Description Creates a new parent account with the provided credentials
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "Parent registration info"
// @Success 201 {object} util.Response{data=object} "Created"
// @Failure 400 {object} util.Response "Invalid request"
// @Failure 409 {object} util.Response "Email already registered"
// @Failure 500 {object} util.Response "Internal server error"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	parent := &model.Parent{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}

	if err := c.AuthService.RegisterParent(parent); err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Error(ctx, http.StatusConflict, "This email is already registered")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": parent.ID})
}

// ParentLoginRequest swagger:model ParentLoginRequest
type ParentLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginParent godoc
// @Summary Parent login
// @Description Authenticates a parent by email and password, returns a JWT
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body ParentLoginRequest true "Parent credentials"
// @Success 200 {object} util.Response{data=object} "Token issued"
// @Failure 400 {object} util.Response "Invalid request"
// @Failure 401 {object} util.Response "Invalid credentials"
// @Router /api/login [post]
func (c *AuthController) LoginParent(ctx *gin.Context) {
	var req ParentLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, err := c.AuthService.LoginParent(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Error(ctx, http.StatusUnauthorized, "Invalid email or password")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"token": token, "role": model.RoleParent})
}

// StudentLoginRequest swagger:model StudentLoginRequest
type StudentLoginRequest struct {
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginStudent godoc
// @Summary Student login
// @Description Authenticates a student by username and password, returns a JWT
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body StudentLoginRequest true "Student credentials"
// @Success 200 {object} util.Response{data=object} "Token issued"
// @Failure 400 {object} util.Response "Invalid request"
// @Failure 401 {object} util.Response "Invalid credentials"
// @Router /api/student/login [post]
func (c *AuthController) LoginStudent(ctx *gin.Context) {
	var req StudentLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, err := c.AuthService.LoginStudent(req.UserName, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Error(ctx, http.StatusUnauthorized, "Invalid username or password")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"token": token, "role": model.RoleStudent})
}

// ForgotPasswordRequest swagger:model ForgotPasswordRequest
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Description Emails a reset link when the address belongs to an account. Always responds 200.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body ForgotPasswordRequest true "Account email"
// @Success 200 {object} util.Response "Reset email sent if the account exists"
// @Failure 400 {object} util.Response "Invalid request"
// @Router /api/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ForgotPassword(ctx.Request.Context(), req.Email); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "If that email is registered, a reset link has been sent"})
}

// ValidateResetToken godoc
// @Summary Check a password reset token
// @Description Reports whether the given reset token is still valid
// @Tags auth
// @Produce  json
// @Param   token query string true "Reset token"
// @Success 200 {object} util.Response{data=object} "Validity flag"
// @Failure 400 {object} util.Response "Missing token"
// @Router /api/validate-reset-token [get]
func (c *AuthController) ValidateResetToken(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" {
		util.BadRequest(ctx, "token is required")
		return
	}

	valid, err := c.AuthService.ValidateResetToken(ctx.Request.Context(), token)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"valid": valid})
}

// ResetPasswordRequest swagger:model ResetPasswordRequest
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ResetPassword godoc
// @Summary Reset a password
// @Description Sets a new password for the account tied to the reset token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body ResetPasswordRequest true "Token and new password"
// @Success 200 {object} util.Response "Password updated"
// @Failure 400 {object} util.Response "Invalid or expired token"
// @Router /api/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ResetPassword(ctx.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, util.ErrInvalidResetToken) {
			util.BadRequest(ctx, "Invalid or expired reset token")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "Password has been reset"})
}
