package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ksobremonte/sentiment-slice/internal/common"
	"github.com/ksobremonte/sentiment-slice/internal/middleware"
	"github.com/ksobremonte/sentiment-slice/internal/service"
)

// AuthHandler handles operator authentication endpoints
type AuthHandler struct {
	service service.AuthService
	captcha service.CaptchaService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService, captcha service.CaptchaService) *AuthHandler {
	return &AuthHandler{service: service, captcha: captcha}
}

// SignUp handles POST /api/v1/auth/signup
// @Summary Register a dashboard operator
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} common.APIResponse{data=service.LoginResponse}
// @Failure 400 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req service.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Email and password are required", err)
		return
	}

	if !gateCaptcha(c, h.captcha, req.CaptchaToken) {
		return
	}

	resp, err := h.service.SignUp(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, common.ErrUserAlreadyExists) {
			common.ErrorResponse(c, http.StatusConflict, "An account with this email already exists", err)
			return
		}
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}

// SignIn handles POST /api/v1/auth/signin
// @Summary Sign in a dashboard operator
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} common.APIResponse{data=service.LoginResponse}
// @Failure 401 {object} common.APIResponse
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req service.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Email and password are required", err)
		return
	}

	if !gateCaptcha(c, h.captcha, req.CaptchaToken) {
		return
	}

	resp, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// one message for both unknown email and wrong password
		common.ErrorResponse(c, http.StatusUnauthorized, "Invalid email or password", err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}

// SignOut handles POST /api/v1/auth/signout
// @Summary Sign out the current operator
// @Tags auth
// @Produce json
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.service.SignOut(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to sign out", err)
		return
	}
	common.SuccessResponse(c, gin.H{"signed_out": true}, nil)
}

// RefreshRequest carries the refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh handles POST /api/v1/auth/refresh
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} common.APIResponse{data=service.TokenPair}
// @Failure 401 {object} common.APIResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Refresh token is required", err)
		return
	}

	pair, err := h.service.Refresh(req.RefreshToken)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "Invalid refresh token", err)
		return
	}
	common.SuccessResponse(c, pair, nil)
}

// ResetPasswordRequest starts a password reset
type ResetPasswordRequest struct {
	Email        string `json:"email" binding:"required"`
	CaptchaToken string `json:"captcha_token"`
}

// ResetPassword handles POST /api/v1/auth/reset-password
// @Summary Request a password reset
// @Description Always answers OK so account existence can't be probed
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} common.APIResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Email is required", err)
		return
	}

	if !gateCaptcha(c, h.captcha, req.CaptchaToken) {
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.Email); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to start password reset", err)
		return
	}
	common.SuccessResponse(c, gin.H{"sent": true}, nil)
}

// ConfirmResetRequest applies a new password with a reset token
type ConfirmResetRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ConfirmReset handles POST /api/v1/auth/reset-password/confirm
// @Summary Complete a password reset
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Router /auth/reset-password/confirm [post]
func (h *AuthHandler) ConfirmReset(c *gin.Context) {
	var req ConfirmResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Token and new password are required", err)
		return
	}

	if err := h.service.ConfirmResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			common.ErrorResponse(c, http.StatusBadRequest, "Reset token is invalid or expired", err)
			return
		}
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	common.SuccessResponse(c, gin.H{"reset": true}, nil)
}

// Me handles GET /api/v1/auth/me
// @Summary Current operator profile
// @Tags auth
// @Produce json
// @Success 200 {object} common.APIResponse{data=domain.OperatorResponse}
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	operator, err := h.service.GetOperator(middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "Session no longer valid", err)
		return
	}
	common.SuccessResponse(c, operator.ToResponse(), nil)
}
