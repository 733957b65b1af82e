package store

import (
	"github.com/zatekoja/hospitalops/internal/domain/entities"
)

// CreateAdmission admits a patient to a bed. It fails with ErrBedUnavailable
// when the bed is missing or not available, leaving every collection
// untouched. On success the bed is marked occupied and the admission
// appended under the same lock.
func (s *HospitalStore) CreateAdmission(in entities.NewAdmission) (entities.Admission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.bedIndex(in.BedID)
	if i < 0 || s.beds[i].Status != entities.BedStatusAvailable {
		return entities.Admission{}, ErrBedUnavailable
	}

	admission := entities.Admission{
		ID:             s.newID("ADM"),
		PatientID:      in.PatientID,
		PatientName:    in.PatientName,
		Department:     in.Department,
		BedID:          in.BedID,
		AdmissionDate:  s.now(),
		Diagnosis:      in.Diagnosis,
		AssignedDoctor: in.AssignedDoctor,
		Status:         entities.AdmissionStatusActive,
	}

	s.setBed(i, entities.BedStatusOccupied, in.PatientID)
	s.admissions = append(s.admissions, admission)
	return admission, nil
}

// DischargePatient frees the admission's bed and marks it discharged. Unknown
// or already discharged admissions are a no-op, so a bed reassigned after the
// first discharge is never freed by a repeated call.
func (s *HospitalStore) DischargePatient(admissionID string) (entities.Admission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.admissions {
		a := &s.admissions[i]
		if a.ID != admissionID {
			continue
		}
		if a.Status != entities.AdmissionStatusActive {
			return entities.Admission{}, false
		}
		if b := s.bedIndex(a.BedID); b >= 0 {
			s.setBed(b, entities.BedStatusAvailable, "")
		}
		now := s.now()
		a.Status = entities.AdmissionStatusDischarged
		a.DischargedAt = &now
		return cloneAdmissions([]entities.Admission{*a})[0], true
	}
	return entities.Admission{}, false
}

// Admission returns an admission by id.
func (s *HospitalStore) Admission(id string) (entities.Admission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.admissions {
		if a.ID == id {
			return cloneAdmissions([]entities.Admission{a})[0], true
		}
	}
	return entities.Admission{}, false
}

// Admissions returns admissions in creation order, optionally by status.
func (s *HospitalStore) Admissions(status entities.AdmissionStatus) []entities.Admission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Admission, 0, len(s.admissions))
	for _, a := range s.admissions {
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	return cloneAdmissions(out)
}

// RecentDischarges returns the last n discharged admissions in creation
// order.
func (s *HospitalStore) RecentDischarges(n int) []entities.Admission {
	discharged := s.Admissions(entities.AdmissionStatusDischarged)
	if n > 0 && len(discharged) > n {
		discharged = discharged[len(discharged)-n:]
	}
	return discharged
}
