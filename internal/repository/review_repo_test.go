package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ksobremonte/sentiment-slice/internal/common"
	"github.com/ksobremonte/sentiment-slice/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&domain.Review{}))
	return db
}

func seedReview(t *testing.T, repo *ReviewRepository, name, email string, rating int, sentiment domain.Sentiment) *domain.Review {
	t.Helper()
	review := &domain.Review{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Rating:    rating,
		Feedback:  "feedback from " + name,
		Sentiment: sentiment,
	}
	assert.NoError(t, repo.Create(review))
	return review
}

func TestReviewRepository_CreateAndGet(t *testing.T) {
	repo := NewReviewRepository(setupTestDB(t))

	before := time.Now().Add(-time.Second)
	created := seedReview(t, repo, "Ana", "ana@x.com", 5, domain.SentimentUnset)

	got, err := repo.GetByID(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "ana@x.com", got.Email)
	assert.Equal(t, 5, got.Rating)
	assert.Equal(t, domain.SentimentUnset, got.Sentiment)
	assert.True(t, !got.CreatedAt.Before(before), "timestamp must be store-assigned, at or after submission")
}

func TestReviewRepository_GetByID_NotFound(t *testing.T) {
	repo := NewReviewRepository(setupTestDB(t))

	_, err := repo.GetByID("no-such-id")
	assert.ErrorIs(t, err, common.ErrReviewNotFound)
}

func TestReviewRepository_ListPublic_ExcludesEmail(t *testing.T) {
	repo := NewReviewRepository(setupTestDB(t))
	seedReview(t, repo, "Ana", "ana@x.com", 5, domain.SentimentPositive)
	seedReview(t, repo, "Bob", "bob@x.com", 2, domain.SentimentNegative)

	reviews, err := repo.ListPublic()
	assert.NoError(t, err)
	assert.Len(t, reviews, 2)
	for _, r := range reviews {
		// PublicReview has no email field at all; make sure the rest survived
		assert.NotEmpty(t, r.ID)
		assert.NotEmpty(t, r.Name)
		assert.NotZero(t, r.Rating)
	}
}

func TestReviewRepository_ListOperator_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)

	older := seedReview(t, repo, "Ana", "ana@x.com", 5, domain.SentimentUnset)
	newer := seedReview(t, repo, "Bob", "bob@x.com", 2, domain.SentimentUnset)
	// sqlite timestamps can collide inside one test; force distinct values
	assert.NoError(t, db.Model(&domain.Review{}).Where("id = ?", older.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	reviews, err := repo.ListOperator("", domain.SentimentUnset)
	assert.NoError(t, err)
	assert.Len(t, reviews, 2)
	assert.Equal(t, newer.ID, reviews[0].ID)
	assert.Equal(t, older.ID, reviews[1].ID)
	assert.Equal(t, "bob@x.com", reviews[0].Email)
}

func TestReviewRepository_ListOperator_Filters(t *testing.T) {
	repo := NewReviewRepository(setupTestDB(t))
	seedReview(t, repo, "Ana", "ana@x.com", 5, domain.SentimentPositive)
	seedReview(t, repo, "Bob", "bob@x.com", 1, domain.SentimentNegative)

	bySentiment, err := repo.ListOperator("", domain.SentimentNegative)
	assert.NoError(t, err)
	assert.Len(t, bySentiment, 1)
	assert.Equal(t, "Bob", bySentiment[0].Name)

	byQuery, err := repo.ListOperator("Ana", domain.SentimentUnset)
	assert.NoError(t, err)
	assert.Len(t, byQuery, 1)
	assert.Equal(t, "Ana", byQuery[0].Name)
}

func TestReviewRepository_UpdateSentiment(t *testing.T) {
	repo := NewReviewRepository(setupTestDB(t))
	review := seedReview(t, repo, "Ana", "ana@x.com", 1, domain.SentimentUnset)

	assert.NoError(t, repo.UpdateSentiment(review.ID, domain.SentimentNegative))

	got, err := repo.GetByID(review.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.SentimentNegative, got.Sentiment)
}

func TestReviewRepository_UpdateSentiment_RejectsInvalidLabel(t *testing.T) {
	repo := NewReviewRepository(setupTestDB(t))
	review := seedReview(t, repo, "Ana", "ana@x.com", 1, domain.SentimentUnset)

	err := repo.UpdateSentiment(review.ID, domain.Sentiment("furious"))
	assert.ErrorIs(t, err, common.ErrInvalidSentiment)

	// prior value untouched
	got, err := repo.GetByID(review.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.SentimentUnset, got.Sentiment)
}

func TestReviewRepository_UpdateSentiment_MissingReview(t *testing.T) {
	repo := NewReviewRepository(setupTestDB(t))

	err := repo.UpdateSentiment("no-such-id", domain.SentimentPositive)
	assert.ErrorIs(t, err, common.ErrReviewNotFound)
}
