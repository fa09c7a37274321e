package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ksobremonte/sentiment-slice/internal/common"
	"github.com/ksobremonte/sentiment-slice/internal/domain"
	pkglogger "github.com/ksobremonte/sentiment-slice/pkg/logger"
)

const sortSystemPrompt = `You are a review analyzer for a pizza restaurant. Analyze the following reviews and sort them by relevance/importance.

Consider these factors for relevance:
1. Actionable feedback (specific suggestions, complaints about specific items)
2. Detailed descriptions of experience
3. Recent reviews
4. Reviews with strong sentiment (very positive or negative)
5. Reviews mentioning specific menu items or staff

Return a JSON array of review IDs in order from most relevant to least relevant.
Only return the JSON array, no other text. Format: ["id1", "id2", "id3", ...]`

// AISorter reorders a review list by relevance. The ranking decision is
// owned entirely by the hosted model; on any failure the input order comes
// back unchanged with the error retained for diagnostics only.
type AISorter interface {
	SortByRelevance(ctx context.Context, reviews []domain.Review) ([]domain.Review, error)
}

type aiSorter struct {
	gatewayURL string // chat-completions base, e.g. "https://ai.gateway.lovable.dev/v1"
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewAISorter creates an AISorter backed by an OpenAI-compatible gateway
func NewAISorter(gatewayURL, apiKey, model string) AISorter {
	return &aiSorter{
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// reviewSummary is what leaves the service. Email never does.
type reviewSummary struct {
	ID        string           `json:"id"`
	Rating    int              `json:"rating"`
	Feedback  string           `json:"feedback"`
	Sentiment domain.Sentiment `json:"sentiment"`
	CreatedAt string           `json:"created_at"`
}

// SortByRelevance asks the gateway for an id ordering and applies it. This is
// read-only: no stored field is ever touched.
func (s *aiSorter) SortByRelevance(ctx context.Context, reviews []domain.Review) ([]domain.Review, error) {
	if len(reviews) == 0 {
		return reviews, nil
	}
	if s.apiKey == "" {
		return reviews, common.ErrAINotConfigured
	}

	summaries := make([]reviewSummary, 0, len(reviews))
	for _, r := range reviews {
		summaries = append(summaries, reviewSummary{
			ID:        r.ID,
			Rating:    r.Rating,
			Feedback:  r.Feedback,
			Sentiment: r.Sentiment,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		})
	}
	userMessage, err := json.Marshal(summaries)
	if err != nil {
		return reviews, err
	}

	content, err := s.complete(ctx, string(userMessage))
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("ai sort degraded to original order")
		return reviews, err
	}

	ids, ok := parseSortedIDs(content)
	if !ok {
		pkglogger.GetLogger().Warn().Msg("ai sort reply unparsable, keeping original order")
		return reviews, nil
	}

	return reorderByIDs(reviews, ids), nil
}

// complete performs one chat-completions round trip
func (s *aiSorter) complete(ctx context.Context, userMessage string) (string, error) {
	payload := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: sortSystemPrompt},
			{Role: "user", Content: userMessage},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return "", common.ErrAIRateLimited
	case http.StatusPaymentRequired:
		return "", common.ErrAICreditsExhausted
	default:
		return "", fmt.Errorf("ai gateway error: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("ai gateway returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// parseSortedIDs extracts the id array from the model reply. Models tend to
// wrap JSON in markdown fences; strip those before parsing. The boolean is
// the Parsed/Unparsable split: false always maps to keep-original-order.
func parseSortedIDs(content string) ([]string, bool) {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var ids []string
	if err := json.Unmarshal([]byte(cleaned), &ids); err != nil {
		return nil, false
	}
	return ids, true
}

// reorderByIDs applies the model's ordering. Reviews whose id did not appear
// in the reply are appended afterward in their original relative order; ids
// the input never had are ignored.
func reorderByIDs(reviews []domain.Review, ids []string) []domain.Review {
	byID := make(map[string]int, len(reviews))
	for i, r := range reviews {
		byID[r.ID] = i
	}

	sorted := make([]domain.Review, 0, len(reviews))
	taken := make(map[string]bool, len(reviews))
	for _, id := range ids {
		if idx, ok := byID[id]; ok && !taken[id] {
			sorted = append(sorted, reviews[idx])
			taken[id] = true
		}
	}
	for _, r := range reviews {
		if !taken[r.ID] {
			sorted = append(sorted, r)
		}
	}
	return sorted
}
