package service

import (
	"context"
	"fmt"

	"hospital-admissions/internal/models"
	"hospital-admissions/internal/repository"
)

// WardStats is a point-in-time view of beds, people and admissions
type WardStats struct {
	TotalPatients    int64            `json:"totalPatients"`
	TotalDoctors     int64            `json:"totalDoctors"`
	TotalBeds        int64            `json:"totalBeds"`
	OccupiedBeds     int64            `json:"occupiedBeds"`
	ActiveAdmissions int64            `json:"activeAdmissions"`
	RoomsByStatus    map[string]int64 `json:"roomsByStatus"`
}

// OccupancyRate is occupied over total beds, zero for an empty ward
func (s *WardStats) OccupancyRate() float64 {
	if s.TotalBeds == 0 {
		return 0
	}
	return float64(s.OccupiedBeds) / float64(s.TotalBeds)
}

type StatsService struct {
	roomRepo      *repository.RoomRepository
	admissionRepo *repository.AdmissionRepository
	patientRepo   *repository.PatientRepository
	staffRepo     *repository.StaffRepository
}

func NewStatsService(
	roomRepo *repository.RoomRepository,
	admissionRepo *repository.AdmissionRepository,
	patientRepo *repository.PatientRepository,
	staffRepo *repository.StaffRepository,
) *StatsService {
	return &StatsService{
		roomRepo:      roomRepo,
		admissionRepo: admissionRepo,
		patientRepo:   patientRepo,
		staffRepo:     staffRepo,
	}
}

func (s *StatsService) Snapshot(ctx context.Context) (*WardStats, error) {
	stats := &WardStats{}
	var err error

	if stats.TotalPatients, err = s.patientRepo.CountPatients(ctx); err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}
	if stats.TotalDoctors, err = s.staffRepo.CountByRole(ctx, models.StaffRoleDoctor); err != nil {
		return nil, fmt.Errorf("failed to count doctors: %w", err)
	}
	if stats.TotalBeds, stats.OccupiedBeds, err = s.roomRepo.BedTotals(ctx); err != nil {
		return nil, fmt.Errorf("failed to sum beds: %w", err)
	}
	if stats.ActiveAdmissions, err = s.admissionRepo.CountByStatus(ctx, models.AdmissionStatusActive); err != nil {
		return nil, fmt.Errorf("failed to count admissions: %w", err)
	}
	if stats.RoomsByStatus, err = s.roomRepo.CountByStatus(ctx); err != nil {
		return nil, fmt.Errorf("failed to count rooms: %w", err)
	}

	return stats, nil
}
