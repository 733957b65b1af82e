package entities

import "time"

// BedStatus is the occupancy state of a bed
type BedStatus string

const (
	BedStatusAvailable BedStatus = "available"
	BedStatusOccupied  BedStatus = "occupied"
)

// Valid reports whether s is a known bed status
func (s BedStatus) Valid() bool {
	return s == BedStatusAvailable || s == BedStatusOccupied
}

// Bed is an inpatient bed. The bed set is fixed at startup.
type Bed struct {
	ID          string    `json:"id"`
	Department  string    `json:"department"`
	BedNumber   string    `json:"bedNumber"`
	Status      BedStatus `json:"status"`
	PatientID   string    `json:"patientId,omitempty"`
	LastUpdated time.Time `json:"lastUpdated"`
}
