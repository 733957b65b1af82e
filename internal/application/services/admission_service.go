package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/infrastructure/observability"
	"github.com/zatekoja/hospitalops/internal/store"
	apperrors "github.com/zatekoja/hospitalops/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

const defaultRecentDischarges = 10

// BedView is a bed with the name of its current occupant, when known
type BedView struct {
	entities.Bed
	PatientName string `json:"patientName,omitempty"`
	AdmissionID string `json:"admissionId,omitempty"`
}

// AdmissionService manages beds and inpatient admissions
type AdmissionService struct {
	store      *store.HospitalStore
	events     *EventPublisher
	hospitalID string
}

// NewAdmissionService creates a new admission service
func NewAdmissionService(s *store.HospitalStore, events *EventPublisher, hospitalID string) *AdmissionService {
	return &AdmissionService{store: s, events: events, hospitalID: hospitalID}
}

// Admit validates the request and assigns the patient to the bed
func (s *AdmissionService) Admit(ctx context.Context, in entities.NewAdmission) (entities.Admission, error) {
	ctx, span := observability.StartSpan(ctx, "AdmissionService.Admit")
	defer span.End()

	in.PatientID = strings.TrimSpace(in.PatientID)
	in.PatientName = strings.TrimSpace(in.PatientName)
	switch {
	case in.PatientID == "":
		return entities.Admission{}, apperrors.NewValidationError("patient id is required")
	case in.PatientName == "":
		return entities.Admission{}, apperrors.NewValidationError("patient name is required")
	case in.BedID == "":
		return entities.Admission{}, apperrors.NewValidationError("bed id is required")
	case !entities.IsKnownDepartment(in.Department):
		return entities.Admission{}, apperrors.NewValidationError(fmt.Sprintf("unknown department %q", in.Department))
	}
	if bed, ok := s.store.Bed(in.BedID); ok && bed.Department != in.Department {
		return entities.Admission{}, apperrors.NewValidationError(fmt.Sprintf("bed %s belongs to %s", bed.ID, bed.Department))
	}

	observability.SetSpanAttributes(span,
		attribute.String("admission.bed_id", in.BedID),
		attribute.String("admission.department", in.Department),
	)

	admission, err := s.store.CreateAdmission(in)
	if err != nil {
		observability.RecordError(span, err)
		observability.LoggerFromContext(ctx).Info().
			Str("bed_id", in.BedID).
			Str("patient_id", in.PatientID).
			Msg("Admission rejected, bed unavailable")
		return entities.Admission{}, err
	}

	observability.EmitAudit(ctx, observability.AuditRecord{
		Action:     string(entities.HospitalEventAdmissionCreated),
		EntityID:   admission.ID,
		HospitalID: s.hospitalID,
		Department: admission.Department,
		Attributes: map[string]string{"bed_id": admission.BedID, "patient_id": admission.PatientID},
	})
	s.events.Publish(ctx, entities.HospitalEventAdmissionCreated, admission.ID, admission.Department, map[string]interface{}{
		"bed_id":     admission.BedID,
		"patient_id": admission.PatientID,
	})
	s.events.Publish(ctx, entities.HospitalEventBedStatusChanged, admission.BedID, admission.Department, map[string]interface{}{
		"status": entities.BedStatusOccupied,
	})
	return admission, nil
}

// Discharge ends an active admission. Unknown or already discharged
// admissions are a no-op.
func (s *AdmissionService) Discharge(ctx context.Context, id string) (entities.Admission, bool) {
	admission, ok := s.store.DischargePatient(id)
	if !ok {
		return entities.Admission{}, false
	}

	observability.EmitAudit(ctx, observability.AuditRecord{
		Action:     string(entities.HospitalEventPatientDischarged),
		EntityID:   admission.ID,
		HospitalID: s.hospitalID,
		Department: admission.Department,
		Attributes: map[string]string{"bed_id": admission.BedID, "patient_id": admission.PatientID},
	})
	s.events.Publish(ctx, entities.HospitalEventPatientDischarged, admission.ID, admission.Department, map[string]interface{}{
		"bed_id": admission.BedID,
	})
	s.events.Publish(ctx, entities.HospitalEventBedStatusChanged, admission.BedID, admission.Department, map[string]interface{}{
		"status": entities.BedStatusAvailable,
	})
	return admission, true
}

// List returns admissions, optionally filtered by status
func (s *AdmissionService) List(status entities.AdmissionStatus) ([]entities.Admission, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid admission status %q", status))
	}
	return s.store.Admissions(status), nil
}

// RecentDischarges returns the last n discharges, 10 when n is not positive
func (s *AdmissionService) RecentDischarges(n int) []entities.Admission {
	if n <= 0 {
		n = defaultRecentDischarges
	}
	return s.store.RecentDischarges(n)
}

// ListBeds returns beds with occupant names resolved from active admissions
func (s *AdmissionService) ListBeds(department string, status entities.BedStatus) ([]BedView, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid bed status %q", status))
	}

	active := make(map[string]entities.Admission)
	for _, a := range s.store.Admissions(entities.AdmissionStatusActive) {
		active[a.BedID] = a
	}

	beds := s.store.Beds(store.BedFilter{Department: department, Status: status})
	out := make([]BedView, 0, len(beds))
	for _, b := range beds {
		view := BedView{Bed: b}
		if a, ok := active[b.ID]; ok && b.Status == entities.BedStatusOccupied {
			view.PatientName = a.PatientName
			view.AdmissionID = a.ID
		}
		out = append(out, view)
	}
	return out, nil
}

// AvailableBeds returns available beds, optionally for one department
func (s *AdmissionService) AvailableBeds(department string) []entities.Bed {
	return s.store.AvailableBeds(department)
}

// SetBedStatus applies a raw bed update. Unknown ids are a no-op.
func (s *AdmissionService) SetBedStatus(ctx context.Context, id string, status entities.BedStatus, patientID string) (entities.Bed, bool, error) {
	if !status.Valid() {
		return entities.Bed{}, false, apperrors.NewValidationError(fmt.Sprintf("invalid bed status %q", status))
	}

	bed, ok := s.store.SetBedStatus(id, status, patientID)
	if !ok {
		return entities.Bed{}, false, nil
	}

	s.events.Publish(ctx, entities.HospitalEventBedStatusChanged, bed.ID, bed.Department, map[string]interface{}{
		"status":     bed.Status,
		"patient_id": bed.PatientID,
	})
	return bed, true, nil
}
