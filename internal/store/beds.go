package store

import "github.com/zatekoja/hospitalops/internal/domain/entities"

// SetBedStatus writes a bed's status and occupant and refreshes its
// timestamp. It does not check admissions: callers keep the bed/admission
// invariant. The occupant is cleared when the bed becomes available.
func (s *HospitalStore) SetBedStatus(id string, status entities.BedStatus, patientID string) (entities.Bed, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.bedIndex(id)
	if i < 0 {
		return entities.Bed{}, false
	}
	s.setBed(i, status, patientID)
	return s.beds[i], true
}

func (s *HospitalStore) setBed(i int, status entities.BedStatus, patientID string) {
	if status == entities.BedStatusAvailable {
		patientID = ""
	}
	s.beds[i].Status = status
	s.beds[i].PatientID = patientID
	s.beds[i].LastUpdated = s.now()
}

func (s *HospitalStore) bedIndex(id string) int {
	for i := range s.beds {
		if s.beds[i].ID == id {
			return i
		}
	}
	return -1
}

// Bed returns a bed by id.
func (s *HospitalStore) Bed(id string) (entities.Bed, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.bedIndex(id); i >= 0 {
		return s.beds[i], true
	}
	return entities.Bed{}, false
}

// BedFilter narrows Beds results. Empty fields match everything.
type BedFilter struct {
	Department string
	Status     entities.BedStatus
}

// Beds returns beds in startup order.
func (s *HospitalStore) Beds(filter BedFilter) []entities.Bed {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Bed, 0, len(s.beds))
	for _, b := range s.beds {
		if filter.Department != "" && b.Department != filter.Department {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, b)
	}
	return out
}

// AvailableBeds returns available beds, optionally for one department.
func (s *HospitalStore) AvailableBeds(department string) []entities.Bed {
	return s.Beds(BedFilter{Department: department, Status: entities.BedStatusAvailable})
}
