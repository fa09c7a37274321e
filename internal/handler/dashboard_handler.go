package handler

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/ksobremonte/sentiment-slice/internal/common"
	"github.com/ksobremonte/sentiment-slice/internal/dashboard"
	"github.com/ksobremonte/sentiment-slice/internal/domain"
	"github.com/ksobremonte/sentiment-slice/internal/middleware"
	"github.com/ksobremonte/sentiment-slice/internal/service"
)

// DashboardHandler handles the authenticated moderation endpoints
type DashboardHandler struct {
	reviews service.ReviewService
	sorter  service.AISorter

	mu          sync.Mutex
	controllers map[string]*dashboard.Controller // one view state per operator
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(reviews service.ReviewService, sorter service.AISorter) *DashboardHandler {
	return &DashboardHandler{
		reviews:     reviews,
		sorter:      sorter,
		controllers: make(map[string]*dashboard.Controller),
	}
}

// controller returns the calling operator's view-state machine
func (h *DashboardHandler) controller(c *gin.Context) *dashboard.Controller {
	operatorID := middleware.GetUserID(c)

	h.mu.Lock()
	defer h.mu.Unlock()
	ctrl, ok := h.controllers[operatorID]
	if !ok {
		ctrl = dashboard.NewController(func(ctx context.Context, reviewID string) (*domain.Review, error) {
			return h.reviews.Analyze(ctx, reviewID, domain.SentimentUnset)
		})
		h.controllers[operatorID] = ctrl
	}
	return ctrl
}

// releaseIfIdle drops the operator's controller once it is back on the
// dashboard. A dashboard-state controller carries no information a fresh one
// wouldn't, so the map stays bounded by operators currently in a detail view.
func (h *DashboardHandler) releaseIfIdle(operatorID string, ctrl *dashboard.Controller) {
	if ctrl.Current().Type != dashboard.StateDashboard {
		return
	}
	h.mu.Lock()
	if h.controllers[operatorID] == ctrl {
		delete(h.controllers, operatorID)
	}
	h.mu.Unlock()
}

// List handles GET /api/v1/dashboard/reviews
// @Summary List reviews for moderation
// @Description Full records, newest first, with optional search and sentiment filter
// @Tags dashboard
// @Produce json
// @Param q query string false "free-text filter over name and feedback"
// @Param sentiment query string false "positive|negative|neutral"
// @Success 200 {object} common.APIResponse{data=[]domain.Review}
// @Security BearerAuth
// @Router /dashboard/reviews [get]
func (h *DashboardHandler) List(c *gin.Context) {
	sentiment := domain.Sentiment(c.Query("sentiment"))
	if sentiment != domain.SentimentUnset && !sentiment.Valid() {
		common.ErrorResponse(c, http.StatusBadRequest, "Unknown sentiment filter", common.ErrInvalidSentiment)
		return
	}

	reviews, err := h.reviews.ListOperator(c.Query("q"), sentiment)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load reviews", err)
		return
	}
	common.SuccessResponse(c, reviews, nil)
}

// Get handles GET /api/v1/dashboard/reviews/:id
func (h *DashboardHandler) Get(c *gin.Context) {
	review, err := h.reviews.GetByID(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "Review not found", err)
		return
	}
	common.SuccessResponse(c, review, nil)
}

// AnalyzeRequest optionally carries an explicit label; when absent the
// configured classifier decides
type AnalyzeRequest struct {
	Sentiment domain.Sentiment `json:"sentiment"`
}

// Analyze handles POST /api/v1/dashboard/reviews/:id/analyze
// @Summary Assign a sentiment label
// @Description Writes one of positive/negative/neutral; already-labeled reviews are confirmed unchanged
// @Tags dashboard
// @Produce json
// @Success 200 {object} common.APIResponse{data=domain.Review}
// @Security BearerAuth
// @Router /dashboard/reviews/{id}/analyze [post]
func (h *DashboardHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	_ = c.ShouldBindJSON(&req) // empty body is fine

	if req.Sentiment != domain.SentimentUnset && !req.Sentiment.Valid() {
		common.ErrorResponse(c, http.StatusBadRequest, "Unknown sentiment label", common.ErrInvalidSentiment)
		return
	}

	review, err := h.reviews.Analyze(c.Request.Context(), c.Param("id"), req.Sentiment)
	if err != nil {
		if errors.Is(err, common.ErrReviewNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Review not found", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to save analysis", err)
		return
	}
	common.SuccessResponse(c, review, nil)
}

// Sort handles POST /api/v1/dashboard/reviews/sort
// @Summary Reorder reviews by AI-ranked relevance
// @Description Degrades to the stored order when the gateway fails; 429/402 from the gateway pass through
// @Tags dashboard
// @Produce json
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /dashboard/reviews/sort [post]
func (h *DashboardHandler) Sort(c *gin.Context) {
	reviews, err := h.reviews.ListOperator("", domain.SentimentUnset)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load reviews", err)
		return
	}

	sorted, err := h.sorter.SortByRelevance(c.Request.Context(), reviews)
	switch {
	case errors.Is(err, common.ErrAIRateLimited):
		common.ErrorResponse(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", err)
		return
	case errors.Is(err, common.ErrAICreditsExhausted):
		common.ErrorResponse(c, http.StatusPaymentRequired, "AI credits exhausted. Please add credits to continue.", err)
		return
	}
	// any other sorter failure already degraded to the original order

	ids := make([]string, 0, len(sorted))
	for _, r := range sorted {
		ids = append(ids, r.ID)
	}
	common.SuccessResponse(c, gin.H{"sortedIds": ids}, nil)
}

// Stats handles GET /api/v1/dashboard/stats
// @Summary Aggregate review statistics
// @Tags dashboard
// @Produce json
// @Success 200 {object} common.APIResponse{data=domain.ReviewStats}
// @Security BearerAuth
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.reviews.Stats()
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to aggregate reviews", err)
		return
	}
	common.SuccessResponse(c, stats, nil)
}

// ViewState handles GET /api/v1/dashboard/view
func (h *DashboardHandler) ViewState(c *gin.Context) {
	ctrl := h.controller(c)
	common.SuccessResponse(c, ctrl.Current(), nil)
	h.releaseIfIdle(middleware.GetUserID(c), ctrl)
}

// ViewAnalyze handles POST /api/v1/dashboard/view/analyze/:id — the
// "Analyze" click: side effect first, then the transition
func (h *DashboardHandler) ViewAnalyze(c *gin.Context) {
	ctrl := h.controller(c)
	if err := ctrl.Analyze(c.Request.Context(), c.Param("id")); err != nil {
		common.ErrorResponse(c, http.StatusConflict, "Failed to save analysis", err)
		h.releaseIfIdle(middleware.GetUserID(c), ctrl)
		return
	}
	common.SuccessResponse(c, ctrl.Current(), nil)
}

// ViewStats handles POST /api/v1/dashboard/view/stats/:kind — a stats card click
func (h *DashboardHandler) ViewStats(c *gin.Context) {
	ctrl := h.controller(c)
	if err := ctrl.OpenStats(dashboard.StatsKind(c.Param("kind"))); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	common.SuccessResponse(c, ctrl.Current(), nil)
}

// ViewBack handles POST /api/v1/dashboard/view/back
func (h *DashboardHandler) ViewBack(c *gin.Context) {
	ctrl := h.controller(c)
	ctrl.Back()
	common.SuccessResponse(c, ctrl.Current(), nil)
	h.releaseIfIdle(middleware.GetUserID(c), ctrl)
}
