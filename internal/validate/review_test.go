package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ksobremonte/sentiment-slice/internal/domain"
)

func validRequest() *domain.SubmitReviewRequest {
	return &domain.SubmitReviewRequest{
		Name:     "Ana",
		Email:    "ana@x.com",
		Rating:   5,
		Feedback: "Great!",
	}
}

func TestSubmission_Valid(t *testing.T) {
	assert.Nil(t, Submission(validRequest(), false))
}

func TestSubmission_TrimsFields(t *testing.T) {
	req := validRequest()
	req.Name = "  Ana  "
	req.Email = " ana@x.com "

	assert.Nil(t, Submission(req, false))
	assert.Equal(t, "Ana", req.Name)
	assert.Equal(t, "ana@x.com", req.Email)
}

func TestSubmission_RatingZeroRejected(t *testing.T) {
	req := validRequest()
	req.Rating = 0

	err := Submission(req, false)
	assert.NotNil(t, err)
	assert.Equal(t, "rating", err.Field)
	assert.Equal(t, "Please select a rating", err.Message)
}

func TestSubmission_RatingBounds(t *testing.T) {
	for _, rating := range []int{1, 2, 3, 4, 5} {
		req := validRequest()
		req.Rating = rating
		assert.Nil(t, Submission(req, false), "rating %d should pass", rating)
	}

	req := validRequest()
	req.Rating = 6
	err := Submission(req, false)
	assert.NotNil(t, err)
	assert.Equal(t, "rating", err.Field)
}

func TestSubmission_FeedbackLengthBoundary(t *testing.T) {
	req := validRequest()
	req.Feedback = strings.Repeat("a", 1000)
	assert.Nil(t, Submission(req, false))

	req = validRequest()
	req.Feedback = strings.Repeat("a", 1001)
	err := Submission(req, false)
	assert.NotNil(t, err)
	assert.Equal(t, "feedback", err.Field)

	// bounds count characters, not bytes: 1000 three-byte runes fit
	req = validRequest()
	req.Feedback = strings.Repeat("잘", 1000)
	assert.Nil(t, Submission(req, false))

	req = validRequest()
	req.Feedback = strings.Repeat("잘", 1001)
	err = Submission(req, false)
	assert.NotNil(t, err)
	assert.Equal(t, "feedback", err.Field)
}

func TestSubmission_EmptyFields(t *testing.T) {
	req := validRequest()
	req.Name = "   "
	err := Submission(req, false)
	assert.NotNil(t, err)
	assert.Equal(t, "name", err.Field)

	req = validRequest()
	req.Feedback = ""
	err = Submission(req, false)
	assert.NotNil(t, err)
	assert.Equal(t, "feedback", err.Field)
}

func TestSubmission_EmailShape(t *testing.T) {
	bad := []string{"", "not-an-email", "a@", "@b.com", "Ana <ana@x.com>"}
	for _, email := range bad {
		req := validRequest()
		req.Email = email
		err := Submission(req, false)
		assert.NotNil(t, err, "email %q should fail", email)
		assert.Equal(t, "email", err.Field)
	}
}

func TestSubmission_FixedOrder(t *testing.T) {
	// every field invalid: the first rule (name) must be the one reported
	req := &domain.SubmitReviewRequest{}
	err := Submission(req, true)
	assert.NotNil(t, err)
	assert.Equal(t, "name", err.Field)
}

func TestSubmission_ReceiptWhenRequired(t *testing.T) {
	req := validRequest()
	err := Submission(req, true)
	assert.NotNil(t, err)
	assert.Equal(t, "receipt_number", err.Field)

	req.ReceiptNumber = "R-12345"
	assert.Nil(t, Submission(req, true))

	req.ReceiptNumber = strings.Repeat("9", 51)
	err = Submission(req, true)
	assert.NotNil(t, err)
	assert.Equal(t, "receipt_number", err.Field)
}
