package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hospital-admissions/internal/events"
	"hospital-admissions/internal/models"
	"hospital-admissions/internal/repository"
	"hospital-admissions/internal/validation"
	"hospital-admissions/pkg/apperrors"
	"hospital-admissions/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdmitRequest carries everything needed to place a patient in a room
type AdmitRequest struct {
	PatientID        string     `json:"patientId" binding:"required"`
	RoomID           string     `json:"roomId" binding:"required"`
	AdmissionDate    *time.Time `json:"admissionDate"`
	AdmissionType    string     `json:"admissionType" binding:"omitempty,oneof=emergency planned"`
	ExpectedDuration int        `json:"expectedDuration" binding:"gte=0"`
	Notes            string     `json:"notes"`
}

type AdmissionService struct {
	tm            *repository.TransactionManager
	roomRepo      *repository.RoomRepository
	admissionRepo *repository.AdmissionRepository
	auditRepo     *repository.AuditRepository
	publisher     events.Publisher
	validator     *validation.Validator
	log           *logger.Logger
	now           func() time.Time
}

func NewAdmissionService(
	tm *repository.TransactionManager,
	roomRepo *repository.RoomRepository,
	admissionRepo *repository.AdmissionRepository,
	auditRepo *repository.AuditRepository,
	publisher events.Publisher,
	validator *validation.Validator,
	log *logger.Logger,
) *AdmissionService {
	return &AdmissionService{
		tm:            tm,
		roomRepo:      roomRepo,
		admissionRepo: admissionRepo,
		auditRepo:     auditRepo,
		publisher:     publisher,
		validator:     validator,
		log:           log,
		now:           time.Now,
	}
}

// Admit takes one bed in the room. The room row stays locked from the
// capacity check until the admission is written.
func (s *AdmissionService) Admit(ctx context.Context, req AdmitRequest, userID *uint) (*models.Admission, error) {
	req.PatientID = strings.TrimSpace(req.PatientID)
	req.RoomID = strings.TrimSpace(req.RoomID)
	if req.PatientID == "" || req.RoomID == "" {
		return nil, apperrors.InvalidInput("patientId and roomId are required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	admission := &models.Admission{
		ID:               uuid.NewString(),
		PatientID:        req.PatientID,
		RoomID:           req.RoomID,
		AdmissionDate:    s.now().UTC(),
		AdmissionType:    req.AdmissionType,
		Status:           models.AdmissionStatusActive,
		ExpectedDuration: req.ExpectedDuration,
		Notes:            req.Notes,
	}
	if req.AdmissionDate != nil {
		admission.AdmissionDate = req.AdmissionDate.UTC()
	}
	if admission.AdmissionType == "" {
		admission.AdmissionType = models.AdmissionTypePlanned
	}

	var room *models.Room
	err := s.tm.ExecuteTransaction(ctx, func(tx *gorm.DB) error {
		rooms := s.roomRepo.WithTx(tx)

		locked, err := rooms.GetRoomForUpdate(ctx, req.RoomID)
		if err != nil {
			return err
		}
		if locked.Status != models.RoomStatusAvailable {
			return apperrors.InvalidInput("room is not available")
		}
		if locked.IsFull() {
			return apperrors.InvalidInput("room is at full capacity")
		}

		locked.CurrentOccupancy++
		locked.RefreshStatus()
		if err := rooms.UpdateRoom(ctx, locked); err != nil {
			return fmt.Errorf("failed to update room occupancy: %w", err)
		}

		if err := s.admissionRepo.WithTx(tx).CreateAdmission(ctx, admission); err != nil {
			return fmt.Errorf("failed to create admission: %w", err)
		}

		details := fmt.Sprintf("Patient %s admitted to room %s", admission.PatientID, locked.Number)
		if err := s.auditRepo.WithTx(tx).CreateAuditLog(ctx, userID, "admission_created", details); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}

		room = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("patient admitted",
		"admission_id", admission.ID,
		"patient_id", admission.PatientID,
		"room_id", room.ID,
		"occupancy", room.CurrentOccupancy,
		"capacity", room.Capacity,
		"room_status", room.Status,
	)
	s.publish(ctx, events.TypeAdmissionCreated, admission, room)

	return admission, nil
}

// Discharge ends an active admission and frees its bed.
// Locks are taken admission first, then room.
func (s *AdmissionService) Discharge(ctx context.Context, id string, userID *uint) (*models.Admission, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.InvalidInput("admission id is required")
	}

	var (
		admission *models.Admission
		room      *models.Room
	)
	err := s.tm.ExecuteTransaction(ctx, func(tx *gorm.DB) error {
		admissions := s.admissionRepo.WithTx(tx)

		locked, err := admissions.GetAdmissionForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !locked.IsActive() {
			return apperrors.Conflict("admission is already discharged")
		}

		rooms := s.roomRepo.WithTx(tx)
		linked, err := rooms.GetRoomForUpdate(ctx, locked.RoomID)
		switch {
		case err == nil:
			if linked.CurrentOccupancy > 0 {
				linked.CurrentOccupancy--
			}
			// a maintenance or reserved override outlives the discharge
			linked.RefreshStatus()
			if err := rooms.UpdateRoom(ctx, linked); err != nil {
				return fmt.Errorf("failed to update room occupancy: %w", err)
			}
			room = linked
		case apperrors.HasCode(err, apperrors.CodeNotFound):
			s.log.Warn("discharging admission whose room no longer exists",
				"admission_id", locked.ID,
				"room_id", locked.RoomID,
			)
		default:
			return err
		}

		dischargedAt := s.now().UTC()
		locked.Status = models.AdmissionStatusDischarged
		locked.DischargedAt = &dischargedAt
		if err := admissions.UpdateAdmission(ctx, locked); err != nil {
			return fmt.Errorf("failed to update admission: %w", err)
		}

		details := fmt.Sprintf("Admission %s discharged from room %s", locked.ID, locked.RoomID)
		if err := s.auditRepo.WithTx(tx).CreateAuditLog(ctx, userID, "admission_discharged", details); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}

		admission = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	args := []any{"admission_id", admission.ID, "patient_id", admission.PatientID, "room_id", admission.RoomID}
	if room != nil {
		args = append(args, "occupancy", room.CurrentOccupancy, "room_status", room.Status)
	}
	s.log.Info("patient discharged", args...)
	s.publish(ctx, events.TypeAdmissionDischarged, admission, room)

	return admission, nil
}

// UpdateAdmissionStatus backs PUT /api/admissions, which only supports discharging
func (s *AdmissionService) UpdateAdmissionStatus(ctx context.Context, id, status string, userID *uint) (*models.Admission, error) {
	if status != models.AdmissionStatusDischarged {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported status transition to %q", status))
	}
	return s.Discharge(ctx, id, userID)
}

func (s *AdmissionService) ListAdmissions(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, error) {
	admissions, err := s.admissionRepo.ListAdmissions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list admissions: %w", err)
	}
	return admissions, nil
}

func (s *AdmissionService) GetAdmission(ctx context.Context, id string) (*models.Admission, error) {
	return s.admissionRepo.GetAdmissionByID(ctx, id)
}

// FindOverstaying returns active admissions past their expected discharge date
func (s *AdmissionService) FindOverstaying(ctx context.Context, now time.Time) ([]models.Admission, error) {
	active, err := s.admissionRepo.ListAdmissions(ctx, models.AdmissionFilter{Status: models.AdmissionStatusActive})
	if err != nil {
		return nil, fmt.Errorf("failed to list active admissions: %w", err)
	}

	overstaying := []models.Admission{}
	for _, admission := range active {
		if admission.IsOverstaying(now) {
			overstaying = append(overstaying, admission)
		}
	}
	return overstaying, nil
}

// publish runs after commit; a broker outage never undoes an admission
func (s *AdmissionService) publish(ctx context.Context, eventType string, admission *models.Admission, room *models.Room) {
	if s.publisher == nil {
		return
	}

	event := events.NewAdmissionEvent(eventType, admission, room)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Error("failed to publish admission event",
			"event_id", event.EventID,
			"type", eventType,
			"admission_id", admission.ID,
			"error", err,
		)
	}
}
