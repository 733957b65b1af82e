package store

import (
	"math"
	"time"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
)

func averageWaitMinutes(queue []entities.QueueEntry, department string, now time.Time) int {
	var total time.Duration
	var waiting int
	for _, e := range queue {
		if e.Department != department || e.Status != entities.PatientStatusWaiting {
			continue
		}
		total += now.Sub(e.CheckInTime)
		waiting++
	}
	if waiting == 0 {
		return 0
	}
	return int(math.Round(total.Minutes() / float64(waiting)))
}

// AverageWaitTimes computes AverageWaitTime for every department in one
// pass over a consistent view of the queue.
func (s *HospitalStore) AverageWaitTimes(departments []string) map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := make(map[string]int, len(departments))
	for _, d := range departments {
		out[d] = averageWaitMinutes(s.queue, d, now)
	}
	return out
}

// AverageWaitTime computes the department's average wait over the snapshot,
// measured at TakenAt.
func (st State) AverageWaitTime(department string) int {
	return averageWaitMinutes(st.Queue, department, st.TakenAt)
}
