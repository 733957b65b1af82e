package entities

import "time"

// HospitalStatus is the operating status reported in capacity snapshots
type HospitalStatus string

const (
	HospitalStatusOperational HospitalStatus = "operational"
	HospitalStatusCritical    HospitalStatus = "critical"
	HospitalStatusMaintenance HospitalStatus = "maintenance"
)

// BedAvailability counts beds in one department
type BedAvailability struct {
	Total     int `json:"total"`
	Available int `json:"available"`
}

// PatientLoad summarises current patient volume
type PatientLoad struct {
	OPDQueue         int `json:"opdQueue"`
	ActiveAdmissions int `json:"activeAdmissions"`
	EmergencyCases   int `json:"emergencyCases"`
}

// CapacitySnapshot is the hospital capacity payload shared with peers.
// Map keys are department keys as produced by DepartmentKey.
type CapacitySnapshot struct {
	HospitalID      string                     `json:"hospitalId"`
	HospitalName    string                     `json:"hospitalName"`
	Timestamp       time.Time                  `json:"timestamp"`
	BedAvailability map[string]BedAvailability `json:"bedAvailability"`
	PatientLoad     PatientLoad                `json:"patientLoad"`
	AverageWaitTime map[string]int             `json:"averageWaitTime"`
	Status          HospitalStatus             `json:"status"`
}

// Totals sums bed counts across departments
func (s *CapacitySnapshot) Totals() (total, available int) {
	for _, b := range s.BedAvailability {
		total += b.Total
		available += b.Available
	}
	return total, available
}

// CityWideMetrics aggregates capacity across hospitals
type CityWideMetrics struct {
	Hospitals     int      `json:"hospitals"`
	TotalBeds     int      `json:"totalBeds"`
	AvailableBeds int      `json:"availableBeds"`
	TotalPatients int      `json:"totalPatients"`
	OccupancyRate int      `json:"occupancyRate"`
	Unreachable   []string `json:"unreachable,omitempty"`
}

// ArchivedSnapshot is a capacity snapshot persisted for history
type ArchivedSnapshot struct {
	ID               string           `json:"id" db:"id"`
	HospitalID       string           `json:"hospital_id" db:"hospital_id"`
	CapturedAt       time.Time        `json:"captured_at" db:"captured_at"`
	TotalBeds        int              `json:"total_beds" db:"total_beds"`
	AvailableBeds    int              `json:"available_beds" db:"available_beds"`
	OPDQueue         int              `json:"opd_queue" db:"opd_queue"`
	ActiveAdmissions int              `json:"active_admissions" db:"active_admissions"`
	EmergencyCases   int              `json:"emergency_cases" db:"emergency_cases"`
	Status           HospitalStatus   `json:"status" db:"status"`
	Snapshot         CapacitySnapshot `json:"snapshot" db:"payload"`
}

// WaitLevel buckets an average wait time
type WaitLevel string

const (
	WaitLevelNormal   WaitLevel = "normal"
	WaitLevelHigh     WaitLevel = "high"
	WaitLevelCritical WaitLevel = "critical"
)

// Wait time thresholds in minutes
const (
	WaitThresholdNormal   = 30
	WaitThresholdCritical = 60
)

// ClassifyWait buckets an average wait in minutes
func ClassifyWait(minutes int) WaitLevel {
	switch {
	case minutes >= WaitThresholdCritical:
		return WaitLevelCritical
	case minutes > WaitThresholdNormal:
		return WaitLevelHigh
	default:
		return WaitLevelNormal
	}
}

// OccupancyLevel buckets a bed occupancy percentage
type OccupancyLevel string

const (
	OccupancyLevelLow      OccupancyLevel = "low"
	OccupancyLevelModerate OccupancyLevel = "moderate"
	OccupancyLevelHigh     OccupancyLevel = "high"
	OccupancyLevelCritical OccupancyLevel = "critical"
)

// Occupancy thresholds in percent
const (
	OccupancyThresholdLow      = 50
	OccupancyThresholdHigh     = 85
	OccupancyThresholdCritical = 95
)

// ClassifyOccupancy buckets an occupancy percentage
func ClassifyOccupancy(percent int) OccupancyLevel {
	switch {
	case percent >= OccupancyThresholdCritical:
		return OccupancyLevelCritical
	case percent >= OccupancyThresholdHigh:
		return OccupancyLevelHigh
	case percent >= OccupancyThresholdLow:
		return OccupancyLevelModerate
	default:
		return OccupancyLevelLow
	}
}
