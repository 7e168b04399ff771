package journal_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/nutri-api/internal/journal"
	"github.com/stretchr/testify/assert"
)

func TestNewRun(t *testing.T) {
	t.Parallel()

	run := journal.NewRun("chat", journal.OutcomeRecovered, 1500*time.Millisecond, "boom")
	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.Equal(t, "chat", run.Flow)
	assert.Equal(t, int64(1500), run.DurationMS)
	assert.Equal(t, "boom", run.Error)
	assert.False(t, run.CreatedAt.IsZero())
	assert.NoError(t, run.Validate())
}

func TestRunValidate(t *testing.T) {
	t.Parallel()

	valid := journal.NewRun("chat", journal.OutcomeCompleted, time.Second, "")

	tests := []struct {
		name   string
		mutate func(r *journal.Run)
	}{
		{"nil id", func(r *journal.Run) { r.ID = uuid.Nil }},
		{"empty flow", func(r *journal.Run) { r.Flow = "" }},
		{"unknown outcome", func(r *journal.Run) { r.Outcome = "exploded" }},
		{"negative duration", func(r *journal.Run) { r.DurationMS = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			run := valid
			tt.mutate(&run)
			err := run.Validate()
			assert.True(t, errors.Is(err, journal.ErrInvalidRun))
		})
	}
}

func TestClampLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, journal.DefaultListLimit, journal.ClampLimit(0))
	assert.Equal(t, journal.DefaultListLimit, journal.ClampLimit(-4))
	assert.Equal(t, 7, journal.ClampLimit(7))
	assert.Equal(t, journal.MaxListLimit, journal.ClampLimit(10_000))
}
