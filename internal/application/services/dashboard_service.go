package services

import (
	"context"
	"time"

	"github.com/zatekoja/hospitalops/internal/domain/entities"
	"github.com/zatekoja/hospitalops/internal/infrastructure/observability"
	"github.com/zatekoja/hospitalops/internal/store"
)

const (
	trendDays         = 7
	dashboardWatchLen = 6
)

// DashboardStats are the headline counters
type DashboardStats struct {
	PatientsWaiting  int `json:"patientsWaiting"`
	AvailableBeds    int `json:"availableBeds"`
	TotalBeds        int `json:"totalBeds"`
	ActiveAdmissions int `json:"activeAdmissions"`
	LowStockItems    int `json:"lowStockItems"`
}

// DepartmentLoad is the OPD load of one department
type DepartmentLoad struct {
	Department         string `json:"department"`
	Waiting            int    `json:"waiting"`
	InConsultation     int    `json:"inConsultation"`
	AverageWaitMinutes int    `json:"averageWaitMinutes"`
}

// DepartmentOccupancy is the bed occupancy of one department
type DepartmentOccupancy struct {
	Department string                  `json:"department"`
	Total      int                     `json:"total"`
	Occupied   int                     `json:"occupied"`
	Percent    int                     `json:"percent"`
	Level      entities.OccupancyLevel `json:"level"`
}

// AdmissionTrendPoint counts admissions and discharges on one day
type AdmissionTrendPoint struct {
	Date       string `json:"date"`
	Day        string `json:"day"`
	Admissions int    `json:"admissions"`
	Discharges int    `json:"discharges"`
}

// UsageTrendPoint counts inventory units deducted on one day
type UsageTrendPoint struct {
	Date      string `json:"date"`
	Day       string `json:"day"`
	UnitsUsed int    `json:"unitsUsed"`
}

// Dashboard aggregates live state for the operations overview
type Dashboard struct {
	GeneratedAt    time.Time             `json:"generatedAt"`
	Stats          DashboardStats        `json:"stats"`
	OPDLoad        []DepartmentLoad      `json:"opdLoad"`
	BedOccupancy   []DepartmentOccupancy `json:"bedOccupancy"`
	WatchList      []ItemView            `json:"watchList"`
	AdmissionTrend []AdmissionTrendPoint `json:"admissionTrend"`
	UsageTrend     []UsageTrendPoint     `json:"usageTrend"`
}

// DashboardService builds dashboard aggregates from one store snapshot
type DashboardService struct {
	store *store.HospitalStore
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(s *store.HospitalStore) *DashboardService {
	return &DashboardService{store: s}
}

// Build computes the dashboard
func (s *DashboardService) Build(ctx context.Context) Dashboard {
	_, span := observability.StartSpan(ctx, "DashboardService.Build")
	defer span.End()

	state := s.store.Snapshot()
	d := Dashboard{
		GeneratedAt:  state.TakenAt,
		OPDLoad:      make([]DepartmentLoad, 0, len(entities.Departments)),
		BedOccupancy: make([]DepartmentOccupancy, 0, len(entities.Departments)),
		WatchList:    []ItemView{},
	}

	loads := make(map[string]*DepartmentLoad, len(entities.Departments))
	occupancy := make(map[string]*DepartmentOccupancy, len(entities.Departments))
	for _, dept := range entities.Departments {
		loads[dept] = &DepartmentLoad{Department: dept, AverageWaitMinutes: state.AverageWaitTime(dept)}
		occupancy[dept] = &DepartmentOccupancy{Department: dept}
	}

	for _, e := range state.Queue {
		load, ok := loads[e.Department]
		switch e.Status {
		case entities.PatientStatusWaiting:
			d.Stats.PatientsWaiting++
			if ok {
				load.Waiting++
			}
		case entities.PatientStatusInConsultation:
			if ok {
				load.InConsultation++
			}
		}
	}

	for _, b := range state.Beds {
		d.Stats.TotalBeds++
		occ, ok := occupancy[b.Department]
		if ok {
			occ.Total++
		}
		if b.Status == entities.BedStatusAvailable {
			d.Stats.AvailableBeds++
		} else if ok {
			occ.Occupied++
		}
	}

	for _, a := range state.Admissions {
		if a.Status == entities.AdmissionStatusActive {
			d.Stats.ActiveAdmissions++
		}
	}

	for _, item := range state.Inventory {
		if item.IsLowStock() {
			d.Stats.LowStockItems++
		}
		if len(d.WatchList) < dashboardWatchLen && float64(item.CurrentStock) <= float64(item.MinThreshold)*watchListRatio {
			d.WatchList = append(d.WatchList, newItemView(item))
		}
	}

	for _, dept := range entities.Departments {
		d.OPDLoad = append(d.OPDLoad, *loads[dept])
		occ := occupancy[dept]
		occ.Percent = occupancyPercent(occ.Total, occ.Total-occ.Occupied)
		occ.Level = entities.ClassifyOccupancy(occ.Percent)
		d.BedOccupancy = append(d.BedOccupancy, *occ)
	}

	d.AdmissionTrend, d.UsageTrend = buildTrends(state, trendDays)
	return d
}

// buildTrends buckets admissions, discharges and units used into the last
// days calendar days (UTC), oldest first, ending on the snapshot's day.
func buildTrends(state store.State, days int) (admissions []AdmissionTrendPoint, usage []UsageTrendPoint) {
	end := state.TakenAt.UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -(days - 1))

	admissions = make([]AdmissionTrendPoint, days)
	usage = make([]UsageTrendPoint, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		date, weekday := day.Format(time.DateOnly), day.Format("Mon")
		admissions[i] = AdmissionTrendPoint{Date: date, Day: weekday}
		usage[i] = UsageTrendPoint{Date: date, Day: weekday}
	}

	bucket := func(t time.Time) int {
		d := t.UTC().Truncate(24 * time.Hour)
		if d.Before(start) || d.After(end) {
			return -1
		}
		return int(d.Sub(start) / (24 * time.Hour))
	}

	for _, a := range state.Admissions {
		if i := bucket(a.AdmissionDate); i >= 0 {
			admissions[i].Admissions++
		}
		if a.DischargedAt != nil {
			if i := bucket(*a.DischargedAt); i >= 0 {
				admissions[i].Discharges++
			}
		}
	}
	for _, item := range state.Inventory {
		for _, u := range item.UsageHistory {
			if i := bucket(u.Date); i >= 0 {
				usage[i].UnitsUsed += u.Deducted
			}
		}
	}
	return admissions, usage
}
