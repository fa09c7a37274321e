// Package dashboard holds the view-state machine for the operator screen:
// one exclusive display mode at a time, explicit transitions, and a
// stale-response guard for results that land after the user navigated away.
package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/ksobremonte/sentiment-slice/internal/domain"
)

// StateType enumerates the display modes
type StateType string

// Display modes
const (
	StateDashboard       StateType = "dashboard"
	StateSentimentDetail StateType = "sentiment"
	StateStatsDetail     StateType = "stats"
)

// StatsKind selects which stats card was opened
type StatsKind string

// Stats card kinds
const (
	StatsComments  StatsKind = "comments"
	StatsCustomers StatsKind = "customers"
	StatsResponse  StatsKind = "response"
)

// Valid reports whether k is a known card kind
func (k StatsKind) Valid() bool {
	return k == StatsComments || k == StatsCustomers || k == StatsResponse
}

// State is the tagged union of display modes. Review is set only for
// SentimentDetail, Stats only for StatsDetail.
type State struct {
	Type   StateType      `json:"type"`
	Review *domain.Review `json:"review,omitempty"`
	Stats  StatsKind      `json:"stats,omitempty"`
}

// AnalyzeFunc runs the sentiment-assignment side effect for one review and
// returns the refreshed record
type AnalyzeFunc func(ctx context.Context, reviewID string) (*domain.Review, error)

// Controller drives the dashboard's exclusive view state
type Controller struct {
	mu      sync.Mutex
	state   State
	gen     uint64 // bumped on every transition; guards stale async results
	analyze AnalyzeFunc
}

// NewController starts on the Dashboard state
func NewController(analyze AnalyzeFunc) *Controller {
	return &Controller{
		state:   State{Type: StateDashboard},
		analyze: analyze,
	}
}

// Current returns the active state
func (c *Controller) Current() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Analyze runs the sentiment side effect for review R, then transitions
// Dashboard -> SentimentDetail(R). A failed side effect aborts the
// transition: the user stays on Dashboard and gets the error. A result that
// resolves after the view changed for another reason is discarded.
func (c *Controller) Analyze(ctx context.Context, reviewID string) error {
	c.mu.Lock()
	if c.state.Type != StateDashboard {
		c.mu.Unlock()
		return fmt.Errorf("analyze is only available from the dashboard")
	}
	started := c.gen
	c.mu.Unlock()

	review, err := c.analyze(ctx, reviewID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != started {
		// view moved on while the call was in flight; drop the result
		return nil
	}
	if err != nil {
		return err
	}

	c.gen++
	c.state = State{Type: StateSentimentDetail, Review: review}
	return nil
}

// OpenStats transitions Dashboard -> StatsDetail(kind)
func (c *Controller) OpenStats(kind StatsKind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown stats kind: %s", kind)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Type != StateDashboard {
		return fmt.Errorf("stats are only available from the dashboard")
	}

	c.gen++
	c.state = State{Type: StateStatsDetail, Stats: kind}
	return nil
}

// Back returns from either detail state to the Dashboard. On the Dashboard
// it is a no-op.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Type == StateDashboard {
		return
	}

	c.gen++
	c.state = State{Type: StateDashboard}
}
