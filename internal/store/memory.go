package store

import (
	"context"
	"sync"

	"promptgen-backend/internal/models"
)

// MemoryStore is an in-process log. AppendErr and ReadErr, when set, are
// returned instead of touching the rows.
type MemoryStore struct {
	mu      sync.Mutex
	records []models.PromptRecord

	AppendErr error
	ReadErr   error
}

func NewMemoryStore(records ...models.PromptRecord) *MemoryStore {
	return &MemoryStore{records: records}
}

func (m *MemoryStore) Append(_ context.Context, rec models.PromptRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *MemoryStore) ReadAll(context.Context) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	if len(m.records) == 0 {
		return nil, nil
	}
	rows := [][]string{append([]string(nil), models.Columns...)}
	for _, rec := range m.records {
		rows = append(rows, rec.Row())
	}
	return rows, nil
}

// Records returns a copy of everything appended so far.
func (m *MemoryStore) Records() []models.PromptRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.PromptRecord(nil), m.records...)
}
