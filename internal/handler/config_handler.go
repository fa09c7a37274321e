package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ksobremonte/sentiment-slice/internal/common"
	"github.com/ksobremonte/sentiment-slice/internal/service"
)

// ConfigHandler exposes the public runtime configuration
type ConfigHandler struct {
	captcha service.CaptchaService
}

// NewConfigHandler creates a new ConfigHandler
func NewConfigHandler(captcha service.CaptchaService) *ConfigHandler {
	return &ConfigHandler{captcha: captcha}
}

// PublicConfig handles POST /api/v1/public/config
// @Summary Public client configuration
// @Description Returns the captcha site key, or null when the gate is disabled
// @Tags config
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /public/config [post]
func (h *ConfigHandler) PublicConfig(c *gin.Context) {
	var siteKey any
	if key := h.captcha.SiteKey(); key != "" {
		siteKey = key
	}
	c.JSON(http.StatusOK, gin.H{"hcaptchaSiteKey": siteKey})
}

// VerifyCaptchaRequest carries the widget token
type VerifyCaptchaRequest struct {
	Token string `json:"token"`
}

// VerifyCaptcha handles POST /api/v1/captcha/verify
// @Summary Verify a captcha token server-side
// @Tags config
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 400 {object} common.APIResponse
// @Failure 500 {object} common.APIResponse
// @Router /captcha/verify [post]
func (h *ConfigHandler) VerifyCaptcha(c *gin.Context) {
	var req VerifyCaptchaRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "Captcha token is required", common.ErrCaptchaRequired)
		return
	}

	ok, err := h.captcha.Verify(c.Request.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidToken):
			common.ErrorResponse(c, http.StatusBadRequest, "Captcha token is malformed", err)
		case errors.Is(err, common.ErrCaptchaNotConfigured):
			common.ErrorResponse(c, http.StatusInternalServerError, "Captcha verification is not configured", err)
		default:
			common.ErrorResponse(c, http.StatusInternalServerError, "Captcha verification failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": ok})
}
