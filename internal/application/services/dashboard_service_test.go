package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hospitalops/internal/application/services"
	"github.com/zatekoja/hospitalops/internal/domain/entities"
)

func TestDashboardService_Build(t *testing.T) {
	s, clock := newTestStore(t)
	queue := services.NewQueueService(s, nil)
	admissions := services.NewAdmissionService(s, nil, testHospitalID)
	inventory := services.NewInventoryService(s, nil, nil, nil)
	service := services.NewDashboardService(s)
	ctx := context.Background()

	first, err := admissions.Admit(ctx, cardiologyAdmission())
	require.NoError(t, err)

	clock.Advance(24 * time.Hour)
	_, err = admissions.Admit(ctx, entities.NewAdmission{
		PatientID: "PAT-2", PatientName: "Bola", Department: entities.DepartmentCardiology, BedID: "BED-0-2",
	})
	require.NoError(t, err)
	_, ok := admissions.Discharge(ctx, first.ID)
	require.True(t, ok)
	_, _, err = inventory.Consume(ctx, "INV-1", 10, "")
	require.NoError(t, err)
	waiting, err := queue.CheckIn(ctx, entities.NewPatient{Name: "Q", Age: 8, Gender: entities.GenderFemale, Department: entities.DepartmentPediatrics})
	require.NoError(t, err)
	_, err = queue.CheckIn(ctx, entities.NewPatient{Name: "R", Age: 9, Gender: entities.GenderMale, Department: entities.DepartmentPediatrics})
	require.NoError(t, err)
	_, _, err = queue.UpdateStatus(ctx, waiting.ID, entities.PatientStatusInConsultation)
	require.NoError(t, err)

	d := service.Build(ctx)

	assert.Equal(t, services.DashboardStats{
		PatientsWaiting:  1,
		AvailableBeds:    64,
		TotalBeds:        65,
		ActiveAdmissions: 1,
		LowStockItems:    1,
	}, d.Stats)

	require.Len(t, d.OPDLoad, len(entities.Departments))
	for _, load := range d.OPDLoad {
		if load.Department == entities.DepartmentPediatrics {
			assert.Equal(t, 1, load.Waiting)
			assert.Equal(t, 1, load.InConsultation)
		}
	}

	require.Len(t, d.BedOccupancy, len(entities.Departments))
	cardiology := d.BedOccupancy[0]
	assert.Equal(t, entities.DepartmentCardiology, cardiology.Department)
	assert.Equal(t, 1, cardiology.Occupied)
	assert.Equal(t, 10, cardiology.Percent)
	assert.Equal(t, entities.OccupancyLevelLow, cardiology.Level)

	require.Len(t, d.WatchList, 1)
	assert.Equal(t, "INV-5", d.WatchList[0].ID)

	require.Len(t, d.AdmissionTrend, 7)
	assert.Equal(t, "2026-03-03", d.AdmissionTrend[6].Date)
	assert.Equal(t, "Tue", d.AdmissionTrend[6].Day)
	assert.Equal(t, 1, d.AdmissionTrend[5].Admissions)
	assert.Equal(t, 1, d.AdmissionTrend[6].Admissions)
	assert.Equal(t, 1, d.AdmissionTrend[6].Discharges)
	assert.Equal(t, 0, d.AdmissionTrend[0].Admissions)

	require.Len(t, d.UsageTrend, 7)
	assert.Equal(t, 10, d.UsageTrend[6].UnitsUsed)
	assert.Equal(t, 0, d.UsageTrend[5].UnitsUsed)
}

func TestDashboardService_TrendIgnoresOldActivity(t *testing.T) {
	s, clock := newTestStore(t)
	admissions := services.NewAdmissionService(s, nil, testHospitalID)
	service := services.NewDashboardService(s)

	_, err := admissions.Admit(context.Background(), cardiologyAdmission())
	require.NoError(t, err)
	clock.Advance(8 * 24 * time.Hour)

	d := service.Build(context.Background())
	for _, point := range d.AdmissionTrend {
		assert.Zero(t, point.Admissions)
	}
}
