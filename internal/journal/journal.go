// Package journal defines the run journal: one entry per flow invocation,
// recording which flow ran, how it ended and how long it took. Inputs and
// outputs are never recorded.
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Outcome is how a flow invocation ended.
type Outcome string

const (
	OutcomeCompleted      Outcome = "completed"
	OutcomeShortCircuited Outcome = "short_circuited"
	OutcomeRecovered      Outcome = "recovered"
	OutcomeFailed         Outcome = "failed"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeCompleted, OutcomeShortCircuited, OutcomeRecovered, OutcomeFailed:
		return true
	}
	return false
}

// ErrInvalidRun is returned when a run is missing required fields.
var ErrInvalidRun = errors.New("invalid run")

// Run is a single journal entry.
type Run struct {
	ID         uuid.UUID `json:"id"`
	Flow       string    `json:"flow"`
	Outcome    Outcome   `json:"outcome"`
	DurationMS int64     `json:"durationMs"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewRun creates a run with a fresh ID. errMsg must already be redacted.
func NewRun(flow string, outcome Outcome, duration time.Duration, errMsg string) Run {
	return Run{
		ID:         uuid.New(),
		Flow:       flow,
		Outcome:    outcome,
		DurationMS: duration.Milliseconds(),
		Error:      errMsg,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate checks that r can be stored.
func (r Run) Validate() error {
	if r.ID == uuid.Nil {
		return errors.Join(ErrInvalidRun, errors.New("id is required"))
	}
	if r.Flow == "" {
		return errors.Join(ErrInvalidRun, errors.New("flow is required"))
	}
	if !r.Outcome.Valid() {
		return errors.Join(ErrInvalidRun, errors.New("unknown outcome "+string(r.Outcome)))
	}
	if r.DurationMS < 0 {
		return errors.Join(ErrInvalidRun, errors.New("duration cannot be negative"))
	}
	return nil
}

// Recorder persists runs.
type Recorder interface {
	Record(ctx context.Context, run Run) error
}

// Store is a Recorder that can also list runs.
type Store interface {
	Recorder

	// ListRecent returns up to limit runs, newest first. An empty flow
	// matches every flow.
	ListRecent(ctx context.Context, flow string, limit int) ([]Run, error)
}

// DefaultListLimit and MaxListLimit bound ListRecent.
const (
	DefaultListLimit = 20
	MaxListLimit     = 200
)

// ClampLimit maps a requested list size into [1, MaxListLimit], using
// DefaultListLimit for non-positive values.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
