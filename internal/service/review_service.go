package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"

	"github.com/ksobremonte/sentiment-slice/internal/common"
	"github.com/ksobremonte/sentiment-slice/internal/domain"
	"github.com/ksobremonte/sentiment-slice/internal/repository"
	"github.com/ksobremonte/sentiment-slice/internal/validate"
	pkgcache "github.com/ksobremonte/sentiment-slice/pkg/cache"
	pkglogger "github.com/ksobremonte/sentiment-slice/pkg/logger"
	pkgstorage "github.com/ksobremonte/sentiment-slice/pkg/storage"
)

// Photo upload limit (5MB)
const maxPhotoSize = 5 * 1024 * 1024

// PhotoStore is the slice of object storage the intake needs
type PhotoStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*pkgstorage.UploadResult, error)
}

// ReviewService business logic for intake, retrieval and moderation
type ReviewService interface {
	Submit(ctx context.Context, req *domain.SubmitReviewRequest, photo *multipart.FileHeader) (*domain.Review, error)
	ListPublic(ctx context.Context) ([]domain.PublicReview, error)
	ListOperator(query string, sentiment domain.Sentiment) ([]domain.Review, error)
	GetByID(id string) (*domain.Review, error)
	Analyze(ctx context.Context, id string, requested domain.Sentiment) (*domain.Review, error)
	Stats() (*domain.ReviewStats, error)
	RequireReceipt() bool
}

type reviewService struct {
	repo           *repository.ReviewRepository
	photos         PhotoStore
	classifier     Classifier
	cache          pkgcache.Service
	requireReceipt bool
}

// NewReviewService creates a new ReviewService. photos may be nil when object
// storage is disabled; submissions with a photo are then rejected.
func NewReviewService(
	repo *repository.ReviewRepository,
	photos PhotoStore,
	classifier Classifier,
	cache pkgcache.Service,
	requireReceipt bool,
) ReviewService {
	return &reviewService{
		repo:           repo,
		photos:         photos,
		classifier:     classifier,
		cache:          cache,
		requireReceipt: requireReceipt,
	}
}

func (s *reviewService) RequireReceipt() bool {
	return s.requireReceipt
}

// Submit validates and persists a public submission. A failed photo upload
// aborts the whole submission; there is no review-without-photo fallback.
func (s *reviewService) Submit(ctx context.Context, req *domain.SubmitReviewRequest, photo *multipart.FileHeader) (*domain.Review, error) {
	if fieldErr := validate.Submission(req, s.requireReceipt); fieldErr != nil {
		return nil, fieldErr
	}

	photoURL := ""
	if photo != nil {
		url, err := s.uploadPhoto(ctx, photo)
		if err != nil {
			return nil, err
		}
		photoURL = url
	}

	review := &domain.Review{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Email:         req.Email,
		Rating:        req.Rating,
		Feedback:      req.Feedback,
		ReceiptNumber: req.ReceiptNumber,
		PhotoURL:      photoURL,
		Sentiment:     domain.SentimentUnset,
	}

	if err := s.repo.Create(review); err != nil {
		return nil, fmt.Errorf("failed to store review: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.InvalidatePublicReviews(ctx)
	}

	pkglogger.GetLogger().Info().
		Str("review_id", review.ID).
		Int("rating", review.Rating).
		Bool("has_photo", photoURL != "").
		Msg("review submitted")

	return review, nil
}

// uploadPhoto gates and stores an optional photo, returning its public URL
func (s *reviewService) uploadPhoto(ctx context.Context, photo *multipart.FileHeader) (string, error) {
	if photo.Size > maxPhotoSize {
		return "", common.ErrPhotoTooLarge
	}
	contentType := photo.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", common.ErrPhotoNotImage
	}
	if s.photos == nil {
		return "", fmt.Errorf("photo uploads are disabled")
	}

	src, err := photo.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open photo: %w", err)
	}
	defer src.Close()

	key := pkgstorage.GenerateKey("reviews", photo.Filename)
	result, err := s.photos.Upload(ctx, key, src, contentType, photo.Size)
	if err != nil {
		return "", fmt.Errorf("photo upload failed: %w", err)
	}
	return result.URL, nil
}

// ListPublic returns the email-free review listing, cached briefly
func (s *reviewService) ListPublic(ctx context.Context) ([]domain.PublicReview, error) {
	if s.cache != nil && s.cache.IsAvailable() {
		if data, err := s.cache.GetPublicReviews(ctx); err == nil {
			var cached []domain.PublicReview
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		}
	}

	reviews, err := s.repo.ListPublic()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetPublicReviews(ctx, reviews)
	}
	return reviews, nil
}

func (s *reviewService) ListOperator(query string, sentiment domain.Sentiment) ([]domain.Review, error) {
	return s.repo.ListOperator(query, sentiment)
}

func (s *reviewService) GetByID(id string) (*domain.Review, error) {
	return s.repo.GetByID(id)
}

// Analyze assigns a sentiment label. An already-labeled review is a no-op
// confirmation; a failed write leaves the prior value untouched.
func (s *reviewService) Analyze(ctx context.Context, id string, requested domain.Sentiment) (*domain.Review, error) {
	review, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if review.Sentiment.Valid() {
		return review, nil
	}

	label := requested
	if !label.Valid() {
		label = s.classifier.Classify(review)
	}
	if !label.Valid() {
		return nil, common.ErrInvalidSentiment
	}

	if err := s.repo.UpdateSentiment(id, label); err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidatePublicReviews(ctx)
	}

	review.Sentiment = label
	return review, nil
}

// Stats aggregates the full review set in memory. Percentages guard the
// empty-list case so an untouched dashboard shows zeros, not NaN.
func (s *reviewService) Stats() (*domain.ReviewStats, error) {
	reviews, err := s.repo.ListOperator("", domain.SentimentUnset)
	if err != nil {
		return nil, err
	}
	stats := Aggregate(reviews)
	return &stats, nil
}

// Aggregate derives counts, percentages and the distinct-customer count from
// an in-memory review list. Needs the email field, so operator-only.
func Aggregate(reviews []domain.Review) domain.ReviewStats {
	stats := domain.ReviewStats{Total: len(reviews)}

	emails := make(map[string]struct{}, len(reviews))
	for _, r := range reviews {
		switch r.Sentiment {
		case domain.SentimentPositive:
			stats.Positive++
		case domain.SentimentNegative:
			stats.Negative++
		case domain.SentimentNeutral:
			stats.Neutral++
		default:
			stats.Unset++
		}
		emails[r.Email] = struct{}{}
	}
	stats.UniqueCustomers = len(emails)

	if stats.Total > 0 {
		stats.PositivePct = pct(stats.Positive, stats.Total)
		stats.NegativePct = pct(stats.Negative, stats.Total)
		stats.NeutralPct = pct(stats.Neutral, stats.Total)
	}
	return stats
}

func pct(part, total int) float64 {
	return float64(part) / float64(total) * 100
}
