package handler

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ksobremonte/sentiment-slice/internal/domain"
)

type stubReviewService struct {
	analyzeErr error
}

func (s *stubReviewService) Submit(_ context.Context, _ *domain.SubmitReviewRequest, _ *multipart.FileHeader) (*domain.Review, error) {
	return nil, nil
}
func (s *stubReviewService) ListPublic(_ context.Context) ([]domain.PublicReview, error) {
	return nil, nil
}
func (s *stubReviewService) ListOperator(_ string, _ domain.Sentiment) ([]domain.Review, error) {
	return nil, nil
}
func (s *stubReviewService) GetByID(id string) (*domain.Review, error) {
	return &domain.Review{ID: id}, nil
}
func (s *stubReviewService) Analyze(_ context.Context, id string, _ domain.Sentiment) (*domain.Review, error) {
	if s.analyzeErr != nil {
		return nil, s.analyzeErr
	}
	return &domain.Review{ID: id, Sentiment: domain.SentimentPositive}, nil
}
func (s *stubReviewService) Stats() (*domain.ReviewStats, error) { return &domain.ReviewStats{}, nil }
func (s *stubReviewService) RequireReceipt() bool                { return false }

type stubSorter struct{}

func (stubSorter) SortByRelevance(_ context.Context, reviews []domain.Review) ([]domain.Review, error) {
	return reviews, nil
}

func viewContext(operatorID string, params gin.Params) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("userID", operatorID)
	c.Params = params
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	return c
}

func TestDashboardHandler_ControllerMapStaysBounded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewDashboardHandler(&stubReviewService{}, stubSorter{})

	// reading the idle view leaves nothing behind
	h.ViewState(viewContext("op-1", nil))
	assert.Empty(t, h.controllers)

	// a detail view pins one entry per operator
	h.ViewStats(viewContext("op-1", gin.Params{{Key: "kind", Value: "customers"}}))
	assert.Len(t, h.controllers, 1)

	// returning to the dashboard drops it again
	h.ViewBack(viewContext("op-1", nil))
	assert.Empty(t, h.controllers)
}

func TestDashboardHandler_FailedViewAnalyzeReleasesController(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewDashboardHandler(&stubReviewService{analyzeErr: fmt.Errorf("persistence down")}, stubSorter{})

	h.ViewAnalyze(viewContext("op-1", gin.Params{{Key: "id", Value: "R"}}))
	assert.Empty(t, h.controllers)
}

func TestDashboardHandler_ViewAnalyzeKeepsDetailController(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewDashboardHandler(&stubReviewService{}, stubSorter{})

	h.ViewAnalyze(viewContext("op-1", gin.Params{{Key: "id", Value: "R"}}))
	assert.Len(t, h.controllers, 1)

	h.ViewBack(viewContext("op-1", nil))
	assert.Empty(t, h.controllers)
}
