package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ksobremonte/sentiment-slice/internal/common"
	"github.com/ksobremonte/sentiment-slice/internal/domain"
)

// publicColumns is the privacy boundary for unauthenticated reads. Email is
// excluded here, at the data-access layer, not hidden in a response mapper.
var publicColumns = []string{"id", "name", "rating", "feedback", "photo_url", "sentiment", "created_at"}

// ReviewRepository handles review data operations
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create persists a new review
func (r *ReviewRepository) Create(review *domain.Review) error {
	return r.db.Create(review).Error
}

// GetByID retrieves a single review
func (r *ReviewRepository) GetByID(id string) (*domain.Review, error) {
	var review domain.Review
	if err := r.db.Where("id = ?", id).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

// ListPublic returns all reviews newest-first through the email-free view
func (r *ReviewRepository) ListPublic() ([]domain.PublicReview, error) {
	var reviews []domain.PublicReview
	if err := r.db.Model(&domain.Review{}).
		Select(publicColumns).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListOperator returns full rows newest-first with optional free-text and
// sentiment filters (the dashboard search box and distribution chips)
func (r *ReviewRepository) ListOperator(query string, sentiment domain.Sentiment) ([]domain.Review, error) {
	var reviews []domain.Review

	q := r.db.Model(&domain.Review{})
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("feedback LIKE ? OR name LIKE ?", like, like)
	}
	if sentiment != domain.SentimentUnset {
		q = q.Where("sentiment = ?", string(sentiment))
	}

	if err := q.Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// UpdateSentiment writes exactly one enumerated label to one review. The
// single-column UPDATE keeps the write atomic from the caller's perspective.
func (r *ReviewRepository) UpdateSentiment(id string, sentiment domain.Sentiment) error {
	if !sentiment.Valid() {
		return common.ErrInvalidSentiment
	}

	result := r.db.Model(&domain.Review{}).
		Where("id = ?", id).
		Update("sentiment", string(sentiment))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrReviewNotFound
	}
	return nil
}
