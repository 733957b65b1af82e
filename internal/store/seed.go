package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
)

const (
	defaultBedsPerDepartment = 10
	emergencyBeds            = 15
)

// Seed installs the standard bed layout and stock catalogue. occupancy is the
// share of beds, in [0,1], to fill with placeholder admissions; they are
// created through CreateAdmission so every occupied bed has its admission.
// Seed is a no-op on a store that already has beds.
func (s *HospitalStore) Seed(occupancy float64) {
	s.mu.Lock()
	if len(s.beds) > 0 {
		s.mu.Unlock()
		return
	}

	now := s.now()
	for deptIndex, dept := range entities.Departments {
		count := defaultBedsPerDepartment
		if dept == entities.DepartmentEmergency {
			count = emergencyBeds
		}
		for n := 1; n <= count; n++ {
			s.beds = append(s.beds, entities.Bed{
				ID:          fmt.Sprintf("BED-%d-%d", deptIndex, n),
				Department:  dept,
				BedNumber:   fmt.Sprintf("%s-%03d", strings.ToUpper(dept[:3]), n),
				Status:      entities.BedStatusAvailable,
				LastUpdated: now,
			})
		}
	}
	s.inventory = seedInventory(now)

	var toFill []entities.Bed
	if occupancy > 0 {
		for _, b := range s.beds {
			if s.rng.Float64() < occupancy {
				toFill = append(toFill, b)
			}
		}
	}
	s.mu.Unlock()

	for i, b := range toFill {
		_, _ = s.CreateAdmission(entities.NewAdmission{
			PatientID:   fmt.Sprintf("SEED-%d", i+1),
			PatientName: fmt.Sprintf("Seeded patient %d", i+1),
			Department:  b.Department,
			BedID:       b.ID,
		})
	}
}

func seedInventory(now time.Time) []entities.InventoryItem {
	items := []entities.InventoryItem{
		{ID: "INV-1", Name: "Paracetamol 500mg", Category: entities.CategoryMedicine, CurrentStock: 1500, MinThreshold: 500, Unit: "tablets"},
		{ID: "INV-2", Name: "Amoxicillin 250mg", Category: entities.CategoryMedicine, CurrentStock: 800, MinThreshold: 300, Unit: "capsules"},
		{ID: "INV-3", Name: "IV Drip Set", Category: entities.CategoryConsumable, CurrentStock: 250, MinThreshold: 100, Unit: "units"},
		{ID: "INV-4", Name: "Surgical Gloves", Category: entities.CategoryConsumable, CurrentStock: 2000, MinThreshold: 500, Unit: "pairs"},
		{ID: "INV-5", Name: "Insulin 100IU/ml", Category: entities.CategoryMedicine, CurrentStock: 150, MinThreshold: 200, Unit: "vials"},
		{ID: "INV-6", Name: "Oxygen Cylinder", Category: entities.CategoryEquipment, CurrentStock: 45, MinThreshold: 20, Unit: "units"},
		{ID: "INV-7", Name: "Bandages", Category: entities.CategoryConsumable, CurrentStock: 450, MinThreshold: 200, Unit: "rolls"},
		{ID: "INV-8", Name: "Syringes 10ml", Category: entities.CategoryConsumable, CurrentStock: 1200, MinThreshold: 400, Unit: "units"},
	}
	for i := range items {
		items[i].LastRestocked = now
		items[i].UsageHistory = []entities.UsageRecord{}
	}
	return items
}
