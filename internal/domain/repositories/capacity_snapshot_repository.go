package repositories

import (
	"context"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
)

// CapacitySnapshotRepository defines the interface for archived capacity snapshots
type CapacitySnapshotRepository interface {
	// Save persists a snapshot
	Save(ctx context.Context, snapshot *entities.ArchivedSnapshot) error

	// ListRecent returns the newest snapshots for a hospital, newest first
	ListRecent(ctx context.Context, hospitalID string, limit int) ([]*entities.ArchivedSnapshot, error)
}
