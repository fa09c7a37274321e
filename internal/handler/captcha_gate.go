package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ksobremonte/sentiment-slice/internal/common"
	"github.com/ksobremonte/sentiment-slice/internal/service"
)

// gateCaptcha blocks a mutating public action until a token is held and
// verifies server-side. Writes the error response and returns false when the
// action must not proceed. An unconfigured captcha disables the action
// outright instead of letting it through unchecked.
func gateCaptcha(c *gin.Context, captcha service.CaptchaService, token string) bool {
	if !captcha.Configured() {
		common.ErrorResponse(c, http.StatusServiceUnavailable, "Captcha not configured", common.ErrCaptchaNotConfigured)
		return false
	}
	if token == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "Please complete the captcha", common.ErrCaptchaRequired)
		return false
	}

	ok, err := captcha.Verify(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			common.ErrorResponse(c, http.StatusBadRequest, "Captcha verification failed. Please try again.", err)
			return false
		}
		common.ErrorResponse(c, http.StatusServiceUnavailable, "Captcha not configured", err)
		return false
	}
	if !ok {
		// the client must reset its widget and obtain a fresh token
		common.ErrorResponse(c, http.StatusForbidden, "Captcha verification failed. Please try again.", common.ErrCaptchaFailed)
		return false
	}
	return true
}
