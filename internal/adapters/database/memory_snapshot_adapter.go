package database

import (
	"context"
	"sync"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/domain/repositories"
)

// MemorySnapshotAdapter keeps the most recent snapshots per hospital in
// memory. It backs the history endpoint when PostgreSQL is disabled.
type MemorySnapshotAdapter struct {
	mu        sync.RWMutex
	limit     int
	snapshots map[string][]*entities.ArchivedSnapshot
}

// NewMemorySnapshotAdapter keeps at most limit snapshots per hospital
func NewMemorySnapshotAdapter(limit int) *MemorySnapshotAdapter {
	if limit <= 0 {
		limit = 288
	}
	return &MemorySnapshotAdapter{
		limit:     limit,
		snapshots: make(map[string][]*entities.ArchivedSnapshot),
	}
}

var _ repositories.CapacitySnapshotRepository = (*MemorySnapshotAdapter)(nil)

// Save stores a copy of snapshot, dropping the oldest past the limit
func (a *MemorySnapshotAdapter) Save(ctx context.Context, snapshot *entities.ArchivedSnapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := *snapshot
	list := append(a.snapshots[s.HospitalID], &s)
	if len(list) > a.limit {
		list = list[len(list)-a.limit:]
	}
	a.snapshots[s.HospitalID] = list
	return nil
}

// ListRecent returns the newest snapshots first
func (a *MemorySnapshotAdapter) ListRecent(ctx context.Context, hospitalID string, limit int) ([]*entities.ArchivedSnapshot, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	list := a.snapshots[hospitalID]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}
	out := make([]*entities.ArchivedSnapshot, 0, limit)
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		s := *list[i]
		out = append(out, &s)
	}
	return out, nil
}
