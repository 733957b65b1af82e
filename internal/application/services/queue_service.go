package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/infrastructure/observability"
	"github.com/zatekoja/hospitalops/internal/store"
	apperrors "github.com/zatekoja/hospitalops/pkg/errors"
)

const maxPatientAge = 150

// DepartmentWait is the average OPD wait of one department
type DepartmentWait struct {
	Department string             `json:"department"`
	Key        string             `json:"key"`
	Waiting    int                `json:"waiting"`
	Minutes    int                `json:"averageWaitMinutes"`
	Level      entities.WaitLevel `json:"level"`
}

// QueueService manages the OPD queue
type QueueService struct {
	store  *store.HospitalStore
	events *EventPublisher
}

// NewQueueService creates a new queue service
func NewQueueService(s *store.HospitalStore, events *EventPublisher) *QueueService {
	return &QueueService{store: s, events: events}
}

// CheckIn validates the patient and adds them to the queue
func (s *QueueService) CheckIn(ctx context.Context, in entities.NewPatient) (entities.QueueEntry, error) {
	ctx, span := observability.StartSpan(ctx, "QueueService.CheckIn")
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return entities.QueueEntry{}, apperrors.NewValidationError("patient name is required")
	}
	if in.Age < 0 || in.Age > maxPatientAge {
		return entities.QueueEntry{}, apperrors.NewValidationError(fmt.Sprintf("age must be between 0 and %d", maxPatientAge))
	}
	if !in.Gender.Valid() {
		return entities.QueueEntry{}, apperrors.NewValidationError("gender must be male, female or other")
	}
	if !entities.IsKnownDepartment(in.Department) {
		return entities.QueueEntry{}, apperrors.NewValidationError(fmt.Sprintf("unknown department %q", in.Department))
	}

	entry := s.store.EnqueuePatient(in)

	observability.LoggerFromContext(ctx).Info().
		Str("patient_id", entry.ID).
		Str("department", entry.Department).
		Float64("priority", entry.Priority).
		Msg("Patient checked in")
	s.events.Publish(ctx, entities.HospitalEventPatientCheckedIn, entry.ID, entry.Department, map[string]interface{}{
		"priority": entry.Priority,
		"status":   entry.Status,
	})
	return entry, nil
}

// UpdateStatus changes a queue entry's status. Unknown ids are a no-op.
func (s *QueueService) UpdateStatus(ctx context.Context, id string, status entities.PatientStatus) (entities.QueueEntry, bool, error) {
	if !status.Valid() {
		return entities.QueueEntry{}, false, apperrors.NewValidationError(fmt.Sprintf("invalid patient status %q", status))
	}

	entry, ok := s.store.SetPatientStatus(id, status)
	if !ok {
		return entities.QueueEntry{}, false, nil
	}

	s.events.Publish(ctx, entities.HospitalEventPatientStatusChanged, entry.ID, entry.Department, map[string]interface{}{
		"status": entry.Status,
	})
	return entry, true, nil
}

// Remove drops a patient from the queue. Unknown ids are a no-op.
func (s *QueueService) Remove(ctx context.Context, id string) (entities.QueueEntry, bool) {
	entry, ok := s.store.RemoveFromQueue(id)
	if !ok {
		return entities.QueueEntry{}, false
	}
	s.events.Publish(ctx, entities.HospitalEventPatientRemoved, entry.ID, entry.Department, nil)
	return entry, true
}

// List returns the queue in priority order
func (s *QueueService) List(department string, status entities.PatientStatus) ([]entities.QueueEntry, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid patient status %q", status))
	}
	return s.store.Queue(store.QueueFilter{Department: department, Status: status}), nil
}

// WaitTimes returns the average wait of every department
func (s *QueueService) WaitTimes() []DepartmentWait {
	state := s.store.Snapshot()

	waiting := make(map[string]int)
	for _, e := range state.Queue {
		if e.Status == entities.PatientStatusWaiting {
			waiting[e.Department]++
		}
	}

	out := make([]DepartmentWait, 0, len(entities.Departments))
	for _, d := range entities.Departments {
		minutes := state.AverageWaitTime(d)
		out = append(out, DepartmentWait{
			Department: d,
			Key:        entities.DepartmentKey(d),
			Waiting:    waiting[d],
			Minutes:    minutes,
			Level:      entities.ClassifyWait(minutes),
		})
	}
	return out
}
