package entities

import "time"

// AdmissionStatus is the lifecycle state of an admission
type AdmissionStatus string

const (
	AdmissionStatusActive     AdmissionStatus = "active"
	AdmissionStatusDischarged AdmissionStatus = "discharged"
)

// Valid reports whether s is a known admission status
func (s AdmissionStatus) Valid() bool {
	return s == AdmissionStatusActive || s == AdmissionStatusDischarged
}

// Admission assigns a patient to a bed for inpatient care. Discharged
// admissions are kept for history.
type Admission struct {
	ID             string          `json:"id"`
	PatientID      string          `json:"patientId"`
	PatientName    string          `json:"patientName"`
	Department     string          `json:"department"`
	BedID          string          `json:"bedId"`
	AdmissionDate  time.Time       `json:"admissionDate"`
	Diagnosis      string          `json:"diagnosis,omitempty"`
	AssignedDoctor string          `json:"assignedDoctor,omitempty"`
	Status         AdmissionStatus `json:"status"`
	DischargedAt   *time.Time      `json:"dischargedAt,omitempty"`
}

// NewAdmission is the input for admitting a patient to a bed
type NewAdmission struct {
	PatientID      string `json:"patientId"`
	PatientName    string `json:"patientName"`
	Department     string `json:"department"`
	BedID          string `json:"bedId"`
	Diagnosis      string `json:"diagnosis,omitempty"`
	AssignedDoctor string `json:"assignedDoctor,omitempty"`
}
