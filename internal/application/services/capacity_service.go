package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/domain/providers"
	"github.com/zatekoja/hospitalops/internal/infrastructure/observability"
	"github.com/zatekoja/hospitalops/internal/store"
	apperrors "github.com/zatekoja/hospitalops/pkg/errors"
)

// CapacityConfig identifies this hospital in capacity payloads
type CapacityConfig struct {
	HospitalID   string
	HospitalName string
	Maintenance  bool
}

// CapacityService builds capacity snapshots from live store state and
// aggregates them with peer hospitals.
type CapacityService struct {
	store   *store.HospitalStore
	cfg     CapacityConfig
	peers   providers.PeerCapacityProvider
	metrics *observability.Metrics
}

// NewCapacityService creates a capacity service; peers may be nil
func NewCapacityService(s *store.HospitalStore, cfg CapacityConfig, peers providers.PeerCapacityProvider, metrics *observability.Metrics) *CapacityService {
	return &CapacityService{store: s, cfg: cfg, peers: peers, metrics: metrics}
}

// HospitalID returns the local hospital ID
func (s *CapacityService) HospitalID() string {
	return s.cfg.HospitalID
}

// LocalSnapshot captures this hospital's capacity from one consistent view
func (s *CapacityService) LocalSnapshot(ctx context.Context) entities.CapacitySnapshot {
	state := s.store.Snapshot()

	snapshot := entities.CapacitySnapshot{
		HospitalID:      s.cfg.HospitalID,
		HospitalName:    s.cfg.HospitalName,
		Timestamp:       state.TakenAt,
		BedAvailability: make(map[string]entities.BedAvailability, len(entities.Departments)),
		AverageWaitTime: make(map[string]int, len(entities.Departments)),
	}

	for _, d := range entities.Departments {
		key := entities.DepartmentKey(d)
		snapshot.BedAvailability[key] = entities.BedAvailability{}
		snapshot.AverageWaitTime[key] = state.AverageWaitTime(d)
	}
	for _, b := range state.Beds {
		key := entities.DepartmentKey(b.Department)
		avail := snapshot.BedAvailability[key]
		avail.Total++
		if b.Status == entities.BedStatusAvailable {
			avail.Available++
		}
		snapshot.BedAvailability[key] = avail
	}

	for _, e := range state.Queue {
		if e.Status != entities.PatientStatusWaiting {
			continue
		}
		snapshot.PatientLoad.OPDQueue++
		if e.Department == entities.DepartmentEmergency {
			snapshot.PatientLoad.EmergencyCases++
		}
	}
	for _, a := range state.Admissions {
		if a.Status == entities.AdmissionStatusActive {
			snapshot.PatientLoad.ActiveAdmissions++
		}
	}

	total, available := snapshot.Totals()
	occupancy := occupancyPercent(total, available)
	switch {
	case s.cfg.Maintenance:
		snapshot.Status = entities.HospitalStatusMaintenance
	case occupancy >= entities.OccupancyThresholdCritical:
		snapshot.Status = entities.HospitalStatusCritical
	default:
		snapshot.Status = entities.HospitalStatusOperational
	}

	observability.RecordOccupancy(ctx, s.metrics, s.cfg.HospitalID, occupancy)
	return snapshot
}

// Snapshot returns the snapshot of hospitalID: the local hospital when the
// id is empty or our own, otherwise a configured peer.
func (s *CapacityService) Snapshot(ctx context.Context, hospitalID string) (*entities.CapacitySnapshot, error) {
	if hospitalID == "" || hospitalID == s.cfg.HospitalID {
		snapshot := s.LocalSnapshot(ctx)
		return &snapshot, nil
	}
	if s.peers == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("unknown hospital %s", hospitalID))
	}
	return s.fetchPeer(ctx, hospitalID)
}

func (s *CapacityService) fetchPeer(ctx context.Context, hospitalID string) (*entities.CapacitySnapshot, error) {
	ctx, span := observability.StartSpan(ctx, "CapacityService.fetchPeer")
	defer span.End()

	start := time.Now()
	snapshot, err := s.peers.FetchCapacity(ctx, hospitalID)
	observability.RecordPeerFetch(ctx, s.metrics, hospitalID, time.Since(start), err)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	return snapshot, nil
}

// CityWide aggregates the local hospital and every reachable peer. Peers
// that fail are listed in Unreachable rather than failing the request.
func (s *CapacityService) CityWide(ctx context.Context) entities.CityWideMetrics {
	local := s.LocalSnapshot(ctx)
	snapshots := []*entities.CapacitySnapshot{&local}
	var unreachable []string

	if s.peers != nil {
		peerIDs := s.peers.Peers()
		results := make([]*entities.CapacitySnapshot, len(peerIDs))
		var wg sync.WaitGroup
		for i, id := range peerIDs {
			wg.Add(1)
			go func(i int, id string) {
				defer wg.Done()
				snapshot, err := s.fetchPeer(ctx, id)
				if err != nil {
					observability.LoggerFromContext(ctx).Warn().Err(err).Str("peer", id).Msg("Peer capacity unavailable")
					return
				}
				results[i] = snapshot
			}(i, id)
		}
		wg.Wait()

		for i, snapshot := range results {
			if snapshot == nil {
				unreachable = append(unreachable, peerIDs[i])
				continue
			}
			snapshots = append(snapshots, snapshot)
		}
	}

	metrics := aggregateCapacity(snapshots)
	metrics.Unreachable = unreachable
	return metrics
}

func aggregateCapacity(snapshots []*entities.CapacitySnapshot) entities.CityWideMetrics {
	var m entities.CityWideMetrics
	for _, snapshot := range snapshots {
		total, available := snapshot.Totals()
		m.Hospitals++
		m.TotalBeds += total
		m.AvailableBeds += available
		m.TotalPatients += snapshot.PatientLoad.OPDQueue + snapshot.PatientLoad.ActiveAdmissions
	}
	m.OccupancyRate = occupancyPercent(m.TotalBeds, m.AvailableBeds)
	return m
}

func occupancyPercent(total, available int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(total-available) * 100 / float64(total)))
}
