package store

import (
	"cmp"
	"slices"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
)

// Department priority bonuses added to the random base score. Only
// Emergency gets one.
var departmentPriorityBonus = map[string]float64{
	entities.DepartmentEmergency: 50,
}

// basePriorityRange bounds the random part of a priority score: [0, 100).
const basePriorityRange = 100

// EnqueuePatient checks a patient into the OPD queue. The priority score is
// assigned once here and the queue is re-sorted by it.
func (s *HospitalStore) EnqueuePatient(in entities.NewPatient) entities.QueueEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	entry := entities.QueueEntry{
		ID:          s.newID("PAT"),
		Name:        in.Name,
		Age:         in.Age,
		Gender:      in.Gender,
		Contact:     in.Contact,
		Department:  in.Department,
		CheckInTime: s.now(),
		Priority:    s.rng.Float64()*basePriorityRange + departmentPriorityBonus[in.Department],
		Status:      entities.PatientStatusWaiting,
		Sequence:    s.sequence,
	}

	s.queue = append(s.queue, entry)
	slices.SortStableFunc(s.queue, compareQueueEntries)
	return entry
}

// compareQueueEntries orders by priority descending, then earlier check-in,
// then arrival sequence.
func compareQueueEntries(a, b entities.QueueEntry) int {
	if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
		return c
	}
	if c := a.CheckInTime.Compare(b.CheckInTime); c != 0 {
		return c
	}
	return cmp.Compare(a.Sequence, b.Sequence)
}

// SetPatientStatus updates a queue entry's status in place. Transitions are
// not enforced. Returns false when the id is unknown.
func (s *HospitalStore) SetPatientStatus(id string, status entities.PatientStatus) (entities.QueueEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.queue {
		if s.queue[i].ID == id {
			s.queue[i].Status = status
			return s.queue[i], true
		}
	}
	return entities.QueueEntry{}, false
}

// RemoveFromQueue drops a queue entry. Removing an unknown id is a no-op.
func (s *HospitalStore) RemoveFromQueue(id string) (entities.QueueEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.queue {
		if s.queue[i].ID == id {
			removed := s.queue[i]
			s.queue = slices.Delete(s.queue, i, i+1)
			return removed, true
		}
	}
	return entities.QueueEntry{}, false
}

// QueueFilter narrows Queue results. Empty fields match everything.
type QueueFilter struct {
	Department string
	Status     entities.PatientStatus
}

// Queue returns queue entries in priority order.
func (s *HospitalStore) Queue(filter QueueFilter) []entities.QueueEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.QueueEntry, 0, len(s.queue))
	for _, e := range s.queue {
		if filter.Department != "" && e.Department != filter.Department {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, e)
	}
	return out
}

// AverageWaitTime returns the mean minutes since check-in over waiting
// entries of a department, rounded to the nearest minute. Zero when none
// are waiting.
func (s *HospitalStore) AverageWaitTime(department string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return averageWaitMinutes(s.queue, department, s.now())
}
