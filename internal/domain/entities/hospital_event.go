package entities

import (
	"time"

	"github.com/google/uuid"
)

// HospitalEventType represents the type of hospital event
type HospitalEventType string

const (
	HospitalEventPatientCheckedIn     HospitalEventType = "patient_checked_in"
	HospitalEventPatientStatusChanged HospitalEventType = "patient_status_changed"
	HospitalEventPatientRemoved       HospitalEventType = "patient_removed"
	HospitalEventBedStatusChanged     HospitalEventType = "bed_status_changed"
	HospitalEventAdmissionCreated     HospitalEventType = "admission_created"
	HospitalEventPatientDischarged    HospitalEventType = "patient_discharged"
	HospitalEventInventoryConsumed    HospitalEventType = "inventory_consumed"
	HospitalEventInventoryRestocked   HospitalEventType = "inventory_restocked"
	HospitalEventLowStockAlert        HospitalEventType = "low_stock_alert"
)

// HospitalEvent is a real-time state change pushed to dashboards and sinks
type HospitalEvent struct {
	ID            string                 `json:"id"`
	HospitalID    string                 `json:"hospital_id"`
	EventType     HospitalEventType      `json:"event_type"`
	EntityID      string                 `json:"entity_id"`
	Department    string                 `json:"department,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
	ChangedFields map[string]interface{} `json:"changed_fields,omitempty"`
}

// NewHospitalEvent creates a new hospital event
func NewHospitalEvent(hospitalID string, eventType HospitalEventType, entityID, department string, changedFields map[string]interface{}) *HospitalEvent {
	return &HospitalEvent{
		ID:            uuid.New().String(),
		HospitalID:    hospitalID,
		EventType:     eventType,
		EntityID:      entityID,
		Department:    department,
		Timestamp:     time.Now().UTC(),
		ChangedFields: changedFields,
	}
}
