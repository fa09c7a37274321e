package service

import (
	"math/rand"

	"github.com/ksobremonte/sentiment-slice/internal/domain"
)

// Classifier decides the sentiment label for an unlabeled review. The
// mechanism is a business decision outside the persistence contract: whatever
// implementation is plugged in, exactly one enumerated label is written.
type Classifier interface {
	Classify(review *domain.Review) domain.Sentiment
}

// ClassifierFunc adapts a function to the Classifier interface
type ClassifierFunc func(review *domain.Review) domain.Sentiment

// Classify calls f
func (f ClassifierFunc) Classify(review *domain.Review) domain.Sentiment {
	return f(review)
}

var sentimentLabels = []domain.Sentiment{
	domain.SentimentPositive,
	domain.SentimentNegative,
	domain.SentimentNeutral,
}

// NewSimulatedClassifier picks a uniformly random label, the placeholder
// behavior of the original dashboard until a real model is wired in.
func NewSimulatedClassifier() Classifier {
	return ClassifierFunc(func(_ *domain.Review) domain.Sentiment {
		return sentimentLabels[rand.Intn(len(sentimentLabels))] //nolint:gosec // non-cryptographic use
	})
}

// NewRatingClassifier maps the star rating to a label: 1-2 negative,
// 3 neutral, 4-5 positive. Deterministic alternative to the simulation.
func NewRatingClassifier() Classifier {
	return ClassifierFunc(func(review *domain.Review) domain.Sentiment {
		switch {
		case review.Rating <= 2:
			return domain.SentimentNegative
		case review.Rating == 3:
			return domain.SentimentNeutral
		default:
			return domain.SentimentPositive
		}
	})
}
