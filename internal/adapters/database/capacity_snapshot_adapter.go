package database

import (
	"context"
	"encoding/json"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/domain/repositories"
	"github.com/zatekoja/hospitalops/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/hospitalops/pkg/errors"
)

const capacitySnapshotsTable = "capacity_snapshots"

// CreateCapacitySnapshotsTable is the DDL for the snapshot archive
const CreateCapacitySnapshotsTable = `
CREATE TABLE IF NOT EXISTS capacity_snapshots (
	id                TEXT PRIMARY KEY,
	hospital_id       TEXT NOT NULL,
	captured_at       TIMESTAMPTZ NOT NULL,
	total_beds        INTEGER NOT NULL,
	available_beds    INTEGER NOT NULL,
	opd_queue         INTEGER NOT NULL,
	active_admissions INTEGER NOT NULL,
	emergency_cases   INTEGER NOT NULL,
	status            TEXT NOT NULL,
	payload           JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_capacity_snapshots_hospital_time
	ON capacity_snapshots (hospital_id, captured_at DESC);
`

// CapacitySnapshotAdapter implements CapacitySnapshotRepository on PostgreSQL
type CapacitySnapshotAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCapacitySnapshotAdapter creates a new capacity snapshot adapter
func NewCapacitySnapshotAdapter(client *postgres.Client) repositories.CapacitySnapshotRepository {
	return &CapacitySnapshotAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// EnsureSchema creates the snapshot table if it does not exist
func (a *CapacitySnapshotAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.client.DB().ExecContext(ctx, CreateCapacitySnapshotsTable); err != nil {
		return apperrors.NewInternalError("failed to create capacity_snapshots table", err)
	}
	return nil
}

// Save persists a snapshot
func (a *CapacitySnapshotAdapter) Save(ctx context.Context, snapshot *entities.ArchivedSnapshot) error {
	payload, err := json.Marshal(snapshot.Snapshot)
	if err != nil {
		return apperrors.NewInternalError("failed to encode snapshot payload", err)
	}

	record := goqu.Record{
		"id":                snapshot.ID,
		"hospital_id":       snapshot.HospitalID,
		"captured_at":       snapshot.CapturedAt,
		"total_beds":        snapshot.TotalBeds,
		"available_beds":    snapshot.AvailableBeds,
		"opd_queue":         snapshot.OPDQueue,
		"active_admissions": snapshot.ActiveAdmissions,
		"emergency_cases":   snapshot.EmergencyCases,
		"status":            string(snapshot.Status),
		"payload":           string(payload),
	}

	query, args, err := a.db.Insert(capacitySnapshotsTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to save capacity snapshot", err)
	}
	return nil
}

// ListRecent returns the newest snapshots for a hospital, newest first
func (a *CapacitySnapshotAdapter) ListRecent(ctx context.Context, hospitalID string, limit int) ([]*entities.ArchivedSnapshot, error) {
	ds := a.db.Select(
		"id", "hospital_id", "captured_at", "total_beds", "available_beds",
		"opd_queue", "active_admissions", "emergency_cases", "status", "payload",
	).From(capacitySnapshotsTable).
		Where(goqu.Ex{"hospital_id": hospitalID}).
		Order(goqu.I("captured_at").Desc())

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list capacity snapshots", err)
	}
	defer rows.Close()

	var snapshots []*entities.ArchivedSnapshot
	for rows.Next() {
		s := &entities.ArchivedSnapshot{}
		var status string
		var payload []byte

		err := rows.Scan(
			&s.ID,
			&s.HospitalID,
			&s.CapturedAt,
			&s.TotalBeds,
			&s.AvailableBeds,
			&s.OPDQueue,
			&s.ActiveAdmissions,
			&s.EmergencyCases,
			&status,
			&payload,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan capacity snapshot", err)
		}
		s.Status = entities.HospitalStatus(status)
		if err := json.Unmarshal(payload, &s.Snapshot); err != nil {
			return nil, apperrors.NewInternalError("failed to decode snapshot payload", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate capacity snapshots", err)
	}

	return snapshots, nil
}
