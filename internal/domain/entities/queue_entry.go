package entities

import "time"

// PatientStatus is the consultation state of a queued patient
type PatientStatus string

const (
	PatientStatusWaiting        PatientStatus = "waiting"
	PatientStatusInConsultation PatientStatus = "in-consultation"
	PatientStatusCompleted      PatientStatus = "completed"
)

// Valid reports whether s is a known patient status
func (s PatientStatus) Valid() bool {
	switch s {
	case PatientStatusWaiting, PatientStatusInConsultation, PatientStatusCompleted:
		return true
	}
	return false
}

// Gender as captured at check-in
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is a known gender value
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// QueueEntry is a patient waiting in the outpatient (OPD) queue
type QueueEntry struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Age         int           `json:"age"`
	Gender      Gender        `json:"gender"`
	Contact     string        `json:"contact"`
	Department  string        `json:"department"`
	CheckInTime time.Time     `json:"checkInTime"`
	Priority    float64       `json:"priority"`
	Status      PatientStatus `json:"status"`

	// Sequence is the arrival order, used as the last queue tie-break.
	Sequence uint64 `json:"-"`
}

// NewPatient is the check-in input for the OPD queue
type NewPatient struct {
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Gender     Gender `json:"gender"`
	Contact    string `json:"contact"`
	Department string `json:"department"`
}
