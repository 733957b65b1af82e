package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/domain/repositories"
	apperrors "github.com/zatekoja/hospitalops/pkg/errors"
)

const (
	defaultArchiveInterval = 5 * time.Minute
	defaultHistoryLimit    = 12
	maxHistoryLimit        = 288
)

// SnapshotArchiver periodically stores the local capacity snapshot
type SnapshotArchiver struct {
	capacity *CapacityService
	repo     repositories.CapacitySnapshotRepository
	interval time.Duration
}

// NewSnapshotArchiver creates an archiver; a non-positive interval selects
// the five minute default
func NewSnapshotArchiver(capacity *CapacityService, repo repositories.CapacitySnapshotRepository, interval time.Duration) *SnapshotArchiver {
	if interval <= 0 {
		interval = defaultArchiveInterval
	}
	return &SnapshotArchiver{capacity: capacity, repo: repo, interval: interval}
}

// Run captures one snapshot immediately and then on every tick until ctx
// is cancelled
func (a *SnapshotArchiver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", a.interval).Msg("Capacity snapshot archiver started")
	for {
		if _, err := a.CaptureNow(ctx); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Msg("Failed to archive capacity snapshot")
		}
		select {
		case <-ctx.Done():
			log.Info().Msg("Capacity snapshot archiver stopped")
			return
		case <-ticker.C:
		}
	}
}

// CaptureNow archives the current local snapshot
func (a *SnapshotArchiver) CaptureNow(ctx context.Context) (*entities.ArchivedSnapshot, error) {
	snapshot := a.capacity.LocalSnapshot(ctx)
	total, available := snapshot.Totals()

	archived := &entities.ArchivedSnapshot{
		ID:               uuid.New().String(),
		HospitalID:       snapshot.HospitalID,
		CapturedAt:       snapshot.Timestamp,
		TotalBeds:        total,
		AvailableBeds:    available,
		OPDQueue:         snapshot.PatientLoad.OPDQueue,
		ActiveAdmissions: snapshot.PatientLoad.ActiveAdmissions,
		EmergencyCases:   snapshot.PatientLoad.EmergencyCases,
		Status:           snapshot.Status,
		Snapshot:         snapshot,
	}
	if err := a.repo.Save(ctx, archived); err != nil {
		return nil, apperrors.NewInternalError("failed to archive capacity snapshot", err)
	}
	return archived, nil
}

// History returns archived snapshots for the local hospital, newest first
func (a *SnapshotArchiver) History(ctx context.Context, limit int) ([]*entities.ArchivedSnapshot, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	snapshots, err := a.repo.ListRecent(ctx, a.capacity.HospitalID(), limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load capacity history", err)
	}
	if snapshots == nil {
		snapshots = []*entities.ArchivedSnapshot{}
	}
	return snapshots, nil
}
