package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ksobremonte/sentiment-slice/internal/common"
	"github.com/ksobremonte/sentiment-slice/internal/domain"
)

func sampleReviews() []domain.Review {
	now := time.Now()
	return []domain.Review{
		{ID: "A", Name: "Ana", Rating: 5, Feedback: "great crust", CreatedAt: now},
		{ID: "B", Name: "Bob", Rating: 2, Feedback: "cold delivery", CreatedAt: now},
		{ID: "C", Name: "Cam", Rating: 4, Feedback: "friendly staff", CreatedAt: now},
	}
}

func chatReply(content string) string {
	reply := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
	data, _ := json.Marshal(reply)
	return string(data)
}

func newTestSorter(url string) *aiSorter {
	return &aiSorter{
		gatewayURL: url,
		apiKey:     "test-key",
		model:      "test-model",
		httpClient: &http.Client{Timeout: 2 * time.Second},
	}
}

func TestSortByRelevance_AppliesOrderAndAppendsMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		// emails must never be part of the outbound payload
		assert.NotContains(t, req.Messages[1].Content, "@")

		_, _ = w.Write([]byte(chatReply(`["C","A"]`)))
	}))
	defer server.Close()

	sorter := newTestSorter(server.URL)

	sorted, err := sorter.SortByRelevance(context.Background(), sampleReviews())
	assert.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, idsOf(sorted))
}

func TestSortByRelevance_StripsCodeFences(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(chatReply("```json\n[\"B\",\"C\",\"A\"]\n```")))
	}))
	defer server.Close()

	sorter := newTestSorter(server.URL)

	sorted, err := sorter.SortByRelevance(context.Background(), sampleReviews())
	assert.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A"}, idsOf(sorted))
}

func TestSortByRelevance_UnknownIDsIgnored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(chatReply(`["Z","B"]`)))
	}))
	defer server.Close()

	sorter := newTestSorter(server.URL)

	sorted, err := sorter.SortByRelevance(context.Background(), sampleReviews())
	assert.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "C"}, idsOf(sorted))
}

func TestSortByRelevance_GatewayErrorKeepsOriginalOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sorter := newTestSorter(server.URL)
	input := sampleReviews()

	sorted, err := sorter.SortByRelevance(context.Background(), input)
	assert.Error(t, err)
	assert.Equal(t, idsOf(input), idsOf(sorted))
}

func TestSortByRelevance_RateLimitAndQuotaTyped(t *testing.T) {
	for status, wantErr := range map[int]error{
		http.StatusTooManyRequests: common.ErrAIRateLimited,
		http.StatusPaymentRequired: common.ErrAICreditsExhausted,
	} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		sorter := newTestSorter(server.URL)
		sorted, err := sorter.SortByRelevance(context.Background(), sampleReviews())
		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, []string{"A", "B", "C"}, idsOf(sorted))

		server.Close()
	}
}

func TestSortByRelevance_UnparsableReplyKeepsOriginalOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(chatReply("the most relevant review is C")))
	}))
	defer server.Close()

	sorter := newTestSorter(server.URL)

	sorted, err := sorter.SortByRelevance(context.Background(), sampleReviews())
	assert.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, idsOf(sorted))
}

func TestSortByRelevance_EmptyInput(t *testing.T) {
	sorter := newTestSorter("http://127.0.0.1:1")

	sorted, err := sorter.SortByRelevance(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, sorted)
}

func TestParseSortedIDs(t *testing.T) {
	ids, ok := parseSortedIDs(`["a","b"]`)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, ids)

	_, ok = parseSortedIDs(`{"not":"an array"}`)
	assert.False(t, ok)

	_, ok = parseSortedIDs("")
	assert.False(t, ok)
}

func idsOf(reviews []domain.Review) []string {
	ids := make([]string, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ID)
	}
	return ids
}
