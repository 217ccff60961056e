package service

import (
	"context"
	"fmt"
	"strings"

	"hospital-admissions/internal/models"
	"hospital-admissions/internal/repository"
	"hospital-admissions/internal/validation"
	"hospital-admissions/pkg/apperrors"
	"hospital-admissions/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateRoomRequest struct {
	Number     string   `json:"number" binding:"required"`
	Floor      string   `json:"floor" binding:"required"`
	Type       string   `json:"type" binding:"required,oneof=standard deluxe suite icu"`
	Capacity   int      `json:"capacity" binding:"gt=0"`
	Price      float64  `json:"price" binding:"gt=0"`
	Status     string   `json:"status" binding:"omitempty,roomstatus"`
	Facilities []string `json:"facilities"`
}

// UpdateRoomRequest only touches the fields that are set
type UpdateRoomRequest struct {
	ID         string    `json:"id"`
	Number     *string   `json:"number" binding:"omitempty,min=1"`
	Floor      *string   `json:"floor" binding:"omitempty,min=1"`
	Type       *string   `json:"type" binding:"omitempty,oneof=standard deluxe suite icu"`
	Capacity   *int      `json:"capacity" binding:"omitempty,gt=0"`
	Price      *float64  `json:"price" binding:"omitempty,gt=0"`
	Status     *string   `json:"status" binding:"omitempty,roomstatus"`
	Facilities *[]string `json:"facilities"`
}

type RoomService struct {
	tm            *repository.TransactionManager
	roomRepo      *repository.RoomRepository
	admissionRepo *repository.AdmissionRepository
	auditRepo     *repository.AuditRepository
	validator     *validation.Validator
	log           *logger.Logger
}

func NewRoomService(
	tm *repository.TransactionManager,
	roomRepo *repository.RoomRepository,
	admissionRepo *repository.AdmissionRepository,
	auditRepo *repository.AuditRepository,
	validator *validation.Validator,
	log *logger.Logger,
) *RoomService {
	return &RoomService{
		tm:            tm,
		roomRepo:      roomRepo,
		admissionRepo: admissionRepo,
		auditRepo:     auditRepo,
		validator:     validator,
		log:           log,
	}
}

func (s *RoomService) GetAllRooms(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.roomRepo.GetAllRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) GetRoomByID(ctx context.Context, id string) (*models.Room, error) {
	return s.roomRepo.GetRoomByID(ctx, id)
}

// CreateRoom registers an empty room. Only maintenance and reserved are kept
// from the request; any other status is derived from occupancy.
func (s *RoomService) CreateRoom(ctx context.Context, req CreateRoomRequest, userID *uint) (*models.Room, error) {
	req.Number = strings.TrimSpace(req.Number)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	if err := s.ensureNumberFree(ctx, s.roomRepo, req.Number, ""); err != nil {
		return nil, err
	}

	room := &models.Room{
		ID:         uuid.NewString(),
		Number:     req.Number,
		Floor:      req.Floor,
		Type:       req.Type,
		Capacity:   req.Capacity,
		Status:     req.Status,
		Price:      req.Price,
		Facilities: req.Facilities,
	}
	if room.Facilities == nil {
		room.Facilities = []string{}
	}
	if !room.HasOverride() {
		room.Status = models.RoomStatusAvailable
	}

	if err := s.roomRepo.CreateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	if err := s.auditRepo.CreateAuditLog(ctx, userID, "room_created", fmt.Sprintf("Room %s created on floor %s", room.Number, room.Floor)); err != nil {
		s.log.Warn("failed to write audit log", "action", "room_created", "room_id", room.ID, "error", err)
	}
	s.log.Info("room created", "room_id", room.ID, "number", room.Number, "capacity", room.Capacity)

	return room, nil
}

// UpdateRoom applies a partial update under the room's row lock so it cannot
// race an admission changing occupancy.
func (s *RoomService) UpdateRoom(ctx context.Context, id string, req UpdateRoomRequest, userID *uint) (*models.Room, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.InvalidInput("room id is required")
	}
	if req.Number != nil {
		number := strings.TrimSpace(*req.Number)
		req.Number = &number
	}
	if req.Floor != nil {
		floor := strings.TrimSpace(*req.Floor)
		req.Floor = &floor
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	var updated *models.Room
	err := s.tm.ExecuteTransaction(ctx, func(tx *gorm.DB) error {
		rooms := s.roomRepo.WithTx(tx)

		room, err := rooms.GetRoomForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if req.Number != nil && *req.Number != room.Number {
			if err := s.ensureNumberFree(ctx, rooms, *req.Number, room.ID); err != nil {
				return err
			}
			room.Number = *req.Number
		}
		if req.Floor != nil {
			room.Floor = *req.Floor
		}
		if req.Type != nil {
			room.Type = *req.Type
		}
		if req.Price != nil {
			room.Price = *req.Price
		}
		if req.Facilities != nil {
			room.Facilities = *req.Facilities
		}
		if req.Capacity != nil {
			if *req.Capacity < room.CurrentOccupancy {
				return apperrors.Conflict(fmt.Sprintf("capacity cannot be lower than current occupancy (%d)", room.CurrentOccupancy))
			}
			room.Capacity = *req.Capacity
		}
		if req.Status != nil {
			switch *req.Status {
			case models.RoomStatusMaintenance, models.RoomStatusReserved:
				room.Status = *req.Status
			default:
				// available and occupied clear any override; occupancy decides which applies
				room.Status = models.RoomStatusAvailable
			}
		}
		room.RefreshStatus()

		if err := rooms.UpdateRoom(ctx, room); err != nil {
			return fmt.Errorf("failed to update room: %w", err)
		}
		if err := s.auditRepo.WithTx(tx).CreateAuditLog(ctx, userID, "room_updated", fmt.Sprintf("Room %s updated", room.Number)); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}

		updated = room
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("room updated", "room_id", updated.ID, "status", updated.Status, "capacity", updated.Capacity)
	return updated, nil
}

// DeleteRoom refuses to remove a room that still has patients in it
func (s *RoomService) DeleteRoom(ctx context.Context, id string, userID *uint) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.InvalidInput("room id is required")
	}

	var number string
	err := s.tm.ExecuteTransaction(ctx, func(tx *gorm.DB) error {
		rooms := s.roomRepo.WithTx(tx)

		room, err := rooms.GetRoomForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if room.CurrentOccupancy > 0 {
			return apperrors.Conflict("room still has admitted patients")
		}
		active, err := s.admissionRepo.WithTx(tx).CountActiveByRoom(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count active admissions: %w", err)
		}
		if active > 0 {
			s.log.Warn("room occupancy counter disagrees with active admissions", "room_id", id, "active", active)
			return apperrors.Conflict("room still has admitted patients")
		}

		if err := rooms.DeleteRoom(ctx, id); err != nil {
			return err
		}
		number = room.Number
		return s.auditRepo.WithTx(tx).CreateAuditLog(ctx, userID, "room_deleted", fmt.Sprintf("Room %s deleted", room.Number))
	})
	if err != nil {
		return err
	}

	s.log.Info("room deleted", "room_id", id, "number", number)
	return nil
}

// GetAvailability summarizes free beds per room
func (s *RoomService) GetAvailability(ctx context.Context) ([]models.RoomAvailability, error) {
	rooms, err := s.GetAllRooms(ctx)
	if err != nil {
		return nil, err
	}

	availability := make([]models.RoomAvailability, 0, len(rooms))
	for i := range rooms {
		room := &rooms[i]
		beds := room.AvailableBeds()
		if room.HasOverride() {
			beds = 0
		}
		availability = append(availability, models.RoomAvailability{
			RoomID:        room.ID,
			RoomNumber:    room.Number,
			Floor:         room.Floor,
			Type:          room.Type,
			Status:        room.Status,
			AvailableBeds: beds,
			TotalBeds:     room.Capacity,
			Price:         room.Price,
			Facilities:    room.Facilities,
		})
	}
	return availability, nil
}

func (s *RoomService) ensureNumberFree(ctx context.Context, rooms *repository.RoomRepository, number, selfID string) error {
	existing, err := rooms.GetRoomByNumber(ctx, number)
	switch {
	case err == nil:
		if existing.ID != selfID {
			return apperrors.InvalidInput(fmt.Sprintf("room number %s already exists", number))
		}
		return nil
	case apperrors.HasCode(err, apperrors.CodeNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check room number: %w", err)
	}
}
