// Package validate holds pure validation of public submissions. Nothing here
// touches the network or the database; callers report the first failing rule
// verbatim and stop before any collaborator is contacted.
package validate

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/ksobremonte/sentiment-slice/internal/domain"
)

// Field length bounds for a review submission, counted in characters
const (
	MaxNameLen     = 100
	MaxEmailLen    = 255
	MaxFeedbackLen = 1000
	MaxReceiptLen  = 50
)

// FieldError names the first field that failed and a message suitable for
// showing to the visitor as-is.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Message
}

// Submission checks a review submission in a fixed order: name, email,
// rating, feedback, receipt. The request's string fields are trimmed in
// place so the caller persists the normalized values. Returns nil when valid.
func Submission(req *domain.SubmitReviewRequest, requireReceipt bool) *FieldError {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Feedback = strings.TrimSpace(req.Feedback)
	req.ReceiptNumber = strings.TrimSpace(req.ReceiptNumber)

	if req.Name == "" {
		return &FieldError{Field: "name", Message: "Name is required"}
	}
	if utf8.RuneCountInString(req.Name) > MaxNameLen {
		return &FieldError{Field: "name", Message: "Name must be less than 100 characters"}
	}

	if req.Email == "" || !emailPlausible(req.Email) {
		return &FieldError{Field: "email", Message: "Invalid email address"}
	}
	if utf8.RuneCountInString(req.Email) > MaxEmailLen {
		return &FieldError{Field: "email", Message: "Email must be less than 255 characters"}
	}

	// rating 0 means no star was clicked
	if req.Rating < 1 || req.Rating > 5 {
		return &FieldError{Field: "rating", Message: "Please select a rating"}
	}

	if req.Feedback == "" {
		return &FieldError{Field: "feedback", Message: "Feedback is required"}
	}
	if utf8.RuneCountInString(req.Feedback) > MaxFeedbackLen {
		return &FieldError{Field: "feedback", Message: "Feedback must be less than 1000 characters"}
	}

	if requireReceipt {
		if req.ReceiptNumber == "" {
			return &FieldError{Field: "receipt_number", Message: "Receipt number is required"}
		}
	}
	if utf8.RuneCountInString(req.ReceiptNumber) > MaxReceiptLen {
		return &FieldError{Field: "receipt_number", Message: "Receipt number must be less than 50 characters"}
	}

	return nil
}

// emailPlausible checks the RFC 5322 shape without being stricter than the
// address-parsing stdlib. "a@b" style addresses pass, which matches the
// original form behavior.
func emailPlausible(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// reject "Name <a@b>" forms; the field must be a bare address
	return addr.Address == email
}
