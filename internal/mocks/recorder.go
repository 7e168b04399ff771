package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/phrazzld/nutri-api/internal/journal"
)

// MockRunStore is an in-memory journal.Store for testing
type MockRunStore struct {
	// RecordErr and ListErr, when set, are returned by the matching method
	RecordErr error
	ListErr   error

	mu   sync.Mutex
	runs []journal.Run
}

var _ journal.Store = (*MockRunStore)(nil)

// Record implements journal.Recorder
func (m *MockRunStore) Record(_ context.Context, run journal.Run) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

// ListRecent implements journal.Store
func (m *MockRunStore) ListRecent(_ context.Context, flow string, limit int) ([]journal.Run, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]journal.Run, 0, len(m.runs))
	for _, r := range m.runs {
		if flow == "" || r.Flow == flow {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	limit = journal.ClampLimit(limit)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Runs returns every recorded run in record order.
func (m *MockRunStore) Runs() []journal.Run {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]journal.Run(nil), m.runs...)
}
