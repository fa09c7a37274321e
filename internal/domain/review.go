package domain

import "time"

// Sentiment is the categorical tone assigned to a review. Stored as a string
// column but only ever written through the Sentiment type, so arbitrary
// labels can't reach the database.
type Sentiment string

// Sentiment values. Empty means not yet analyzed.
const (
	SentimentUnset    Sentiment = ""
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Valid reports whether s is one of the three assignable labels
func (s Sentiment) Valid() bool {
	return s == SentimentPositive || s == SentimentNegative || s == SentimentNeutral
}

// Review represents a customer feedback record
type Review struct {
	ID            string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name          string    `gorm:"column:name;size:100;not null" json:"name"`
	Email         string    `gorm:"column:email;size:255;not null" json:"email"`
	Rating        int       `gorm:"column:rating;not null" json:"rating"`
	Feedback      string    `gorm:"column:feedback;size:1000;not null" json:"feedback"`
	ReceiptNumber string    `gorm:"column:receipt_number;size:50" json:"receipt_number,omitempty"`
	PhotoURL      string    `gorm:"column:photo_url;size:512" json:"photo_url,omitempty"`
	Sentiment     Sentiment `gorm:"column:sentiment;size:16" json:"sentiment,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name
func (Review) TableName() string {
	return "reviews"
}

// PublicReview is the unauthenticated read shape. Email is absent from the
// type itself, not merely hidden, so it can never leak through serialization.
type PublicReview struct {
	ID        string    `gorm:"column:id" json:"id"`
	Name      string    `gorm:"column:name" json:"name"`
	Rating    int       `gorm:"column:rating" json:"rating"`
	Feedback  string    `gorm:"column:feedback" json:"feedback"`
	PhotoURL  string    `gorm:"column:photo_url" json:"photo_url,omitempty"`
	Sentiment Sentiment `gorm:"column:sentiment" json:"sentiment,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// SubmitReviewRequest is the public submission payload. The photo rides
// alongside as multipart form data.
type SubmitReviewRequest struct {
	Name          string `form:"name" json:"name"`
	Email         string `form:"email" json:"email"`
	Rating        int    `form:"rating" json:"rating"`
	Feedback      string `form:"feedback" json:"feedback"`
	ReceiptNumber string `form:"receipt_number" json:"receipt_number"`
	CaptchaToken  string `form:"captcha_token" json:"captcha_token"`
}

// ReviewStats aggregates the currently loaded review set
type ReviewStats struct {
	Total           int     `json:"total"`
	Positive        int     `json:"positive"`
	Negative        int     `json:"negative"`
	Neutral         int     `json:"neutral"`
	Unset           int     `json:"unset"`
	PositivePct     float64 `json:"positive_pct"`
	NegativePct     float64 `json:"negative_pct"`
	NeutralPct      float64 `json:"neutral_pct"`
	UniqueCustomers int     `json:"unique_customers"`
}
