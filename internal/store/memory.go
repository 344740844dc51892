package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type pairKey struct {
	resumeID string
	jobID    string
}

// Memory keeps records in process memory.
type Memory struct {
	mu      sync.RWMutex
	records map[pairKey]*Record
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		records: make(map[pairKey]*Record),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (m *Memory) Find(ctx context.Context, resumeID, jobID string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[pairKey{resumeID: resumeID, jobID: jobID}]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.clone(), nil
}

func (m *Memory) Create(ctx context.Context, rec *Record) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := pairKey{resumeID: rec.ResumeID, jobID: rec.JobID}
	now := m.now()
	stored := rec.clone()
	stored.UpdatedAt = now

	if existing, ok := m.records[key]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else {
		if stored.ID == uuid.Nil {
			stored.ID = uuid.New()
		}
		stored.CreatedAt = now
	}

	m.records[key] = stored
	return stored.clone(), nil
}

func (m *Memory) Update(ctx context.Context, rec *Record) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, existing := range m.records {
		if existing.ID != rec.ID {
			continue
		}
		stored := rec.clone()
		stored.ResumeID = existing.ResumeID
		stored.JobID = existing.JobID
		stored.CreatedAt = existing.CreatedAt
		stored.UpdatedAt = m.now()
		m.records[key] = stored
		return stored.clone(), nil
	}
	return nil, ErrNotFound
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
