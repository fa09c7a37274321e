package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ksobremonte/sentiment-slice/internal/common"
	"github.com/ksobremonte/sentiment-slice/internal/domain"
	"github.com/ksobremonte/sentiment-slice/internal/service"
	"github.com/ksobremonte/sentiment-slice/internal/validate"
)

// ReviewHandler handles the public review endpoints
type ReviewHandler struct {
	service service.ReviewService
	captcha service.CaptchaService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(service service.ReviewService, captcha service.CaptchaService) *ReviewHandler {
	return &ReviewHandler{service: service, captcha: captcha}
}

// Submit handles POST /api/v1/reviews
// @Summary Submit a customer review
// @Description Validates, captcha-gates and stores a review with an optional photo
// @Tags reviews
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Router /reviews [post]
func (h *ReviewHandler) Submit(c *gin.Context) {
	var req domain.SubmitReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid submission", err)
		return
	}

	// Validation runs before the captcha round trip so rule violations never
	// cost the visitor a completed challenge.
	if fieldErr := validate.Submission(&req, h.service.RequireReceipt()); fieldErr != nil {
		common.ErrorResponse(c, http.StatusBadRequest, fieldErr.Message, fieldErr)
		return
	}

	if !gateCaptcha(c, h.captcha, req.CaptchaToken) {
		return
	}

	// photo is optional; FormFile errors just mean none was attached
	photo, err := c.FormFile("photo")
	if err != nil {
		photo = nil
	}

	review, err := h.service.Submit(c.Request.Context(), &req, photo)
	if err != nil {
		var fieldErr *validate.FieldError
		switch {
		case errors.As(err, &fieldErr):
			common.ErrorResponse(c, http.StatusBadRequest, fieldErr.Message, err)
		case errors.Is(err, common.ErrPhotoTooLarge), errors.Is(err, common.ErrPhotoNotImage):
			common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		default:
			common.ErrorResponse(c, http.StatusInternalServerError, "Failed to submit review. Please try again.", err)
		}
		return
	}

	common.SuccessResponse(c, gin.H{"id": review.ID}, nil)
}

// ListPublic handles GET /api/v1/reviews
// @Summary List reviews for the public site
// @Description Newest-first listing through the email-free view
// @Tags reviews
// @Produce json
// @Success 200 {object} common.APIResponse{data=[]domain.PublicReview}
// @Router /reviews [get]
func (h *ReviewHandler) ListPublic(c *gin.Context) {
	reviews, err := h.service.ListPublic(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load reviews", err)
		return
	}
	common.SuccessResponse(c, reviews, nil)
}
