package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hospitalops/internal/application/services"
	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/domain/providers"
	apperrors "github.com/zatekoja/hospitalops/pkg/errors"
)

func TestQueueService_CheckIn(t *testing.T) {
	t.Run("valid patient is queued and announced", func(t *testing.T) {
		s, _ := newTestStore(t)
		bus := newRecordingBus()
		service := services.NewQueueService(s, newPublisher(bus))

		entry, err := service.CheckIn(context.Background(), entities.NewPatient{
			Name:       "  Ada Obi ",
			Age:        34,
			Gender:     entities.GenderFemale,
			Department: entities.DepartmentEmergency,
		})

		require.NoError(t, err)
		assert.Equal(t, "Ada Obi", entry.Name)
		assert.Equal(t, entities.PatientStatusWaiting, entry.Status)
		assert.GreaterOrEqual(t, entry.Priority, 50.0)
		assert.Equal(t, []entities.HospitalEventType{entities.HospitalEventPatientCheckedIn},
			bus.eventTypes(providers.EventChannelHospitalUpdates))
		assert.Len(t, bus.eventTypes(providers.GetDepartmentChannel(entities.DepartmentEmergency)), 1)
	})

	invalid := map[string]entities.NewPatient{
		"missing name":       {Age: 30, Gender: entities.GenderMale, Department: entities.DepartmentNeurology},
		"negative age":       {Name: "A", Age: -1, Gender: entities.GenderMale, Department: entities.DepartmentNeurology},
		"age too high":       {Name: "A", Age: 151, Gender: entities.GenderMale, Department: entities.DepartmentNeurology},
		"unknown gender":     {Name: "A", Age: 30, Gender: "x", Department: entities.DepartmentNeurology},
		"unknown department": {Name: "A", Age: 30, Gender: entities.GenderMale, Department: "Dermatology"},
	}
	for name, in := range invalid {
		t.Run(name, func(t *testing.T) {
			s, _ := newTestStore(t)
			bus := newRecordingBus()
			service := services.NewQueueService(s, newPublisher(bus))

			_, err := service.CheckIn(context.Background(), in)

			assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
			assert.Empty(t, bus.eventTypes(providers.EventChannelHospitalUpdates))
			list, _ := service.List("", "")
			assert.Empty(t, list)
		})
	}
}

func TestQueueService_UpdateStatusAndRemove(t *testing.T) {
	s, _ := newTestStore(t)
	bus := newRecordingBus()
	service := services.NewQueueService(s, newPublisher(bus))
	ctx := context.Background()

	entry, err := service.CheckIn(ctx, entities.NewPatient{Name: "B", Age: 10, Gender: entities.GenderMale, Department: entities.DepartmentPediatrics})
	require.NoError(t, err)

	_, _, err = service.UpdateStatus(ctx, entry.ID, "sleeping")
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	_, applied, err := service.UpdateStatus(ctx, "PAT-404", entities.PatientStatusCompleted)
	require.NoError(t, err)
	assert.False(t, applied)

	updated, applied, err := service.UpdateStatus(ctx, entry.ID, entities.PatientStatusInConsultation)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, entities.PatientStatusInConsultation, updated.Status)

	_, removed := service.Remove(ctx, entry.ID)
	assert.True(t, removed)
	_, removed = service.Remove(ctx, entry.ID)
	assert.False(t, removed)

	assert.Equal(t, []entities.HospitalEventType{
		entities.HospitalEventPatientCheckedIn,
		entities.HospitalEventPatientStatusChanged,
		entities.HospitalEventPatientRemoved,
	}, bus.eventTypes(providers.EventChannelHospitalUpdates))
}

func TestQueueService_ListRejectsUnknownStatus(t *testing.T) {
	s, _ := newTestStore(t)
	service := services.NewQueueService(s, nil)

	_, err := service.List("", "paused")
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestQueueService_WaitTimes(t *testing.T) {
	s, clock := newTestStore(t)
	service := services.NewQueueService(s, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := service.CheckIn(ctx, entities.NewPatient{Name: "C", Age: 50, Gender: entities.GenderOther, Department: entities.DepartmentGeneralMedicine})
		require.NoError(t, err)
	}
	clock.Advance(45 * time.Minute)

	waits := service.WaitTimes()
	require.Len(t, waits, len(entities.Departments))

	byDept := make(map[string]services.DepartmentWait)
	for _, w := range waits {
		byDept[w.Department] = w
	}
	general := byDept[entities.DepartmentGeneralMedicine]
	assert.Equal(t, "generalMedicine", general.Key)
	assert.Equal(t, 2, general.Waiting)
	assert.Equal(t, 45, general.Minutes)
	assert.Equal(t, entities.WaitLevelHigh, general.Level)

	assert.Equal(t, 0, byDept[entities.DepartmentCardiology].Minutes)
	assert.Equal(t, entities.WaitLevelNormal, byDept[entities.DepartmentCardiology].Level)
}
