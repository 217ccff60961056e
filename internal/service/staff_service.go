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
)

const (
	StaffStatusActive   = "active"
	StaffStatusInactive = "inactive"
	StaffStatusOnLeave  = "on_leave"
)

type CreateStaffRequest struct {
	Role           string `json:"role" binding:"required,oneof=doctor nurse pharmacist receptionist"`
	FirstName      string `json:"firstName" binding:"required,max=100"`
	LastName       string `json:"lastName" binding:"required,max=100"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required,phone"`
	Status         string `json:"status" binding:"omitempty,oneof=active inactive on_leave"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"licenseNumber"`
	Department     string `json:"department"`
	Experience     int    `json:"experience" binding:"gte=0"`
}

type StaffService struct {
	staffRepo *repository.StaffRepository
	auditRepo *repository.AuditRepository
	validator *validation.Validator
	log       *logger.Logger
}

func NewStaffService(
	staffRepo *repository.StaffRepository,
	auditRepo *repository.AuditRepository,
	validator *validation.Validator,
	log *logger.Logger,
) *StaffService {
	return &StaffService{
		staffRepo: staffRepo,
		auditRepo: auditRepo,
		validator: validator,
		log:       log,
	}
}

// GetAllStaff lists staff; an empty role returns everyone
func (s *StaffService) GetAllStaff(ctx context.Context, role string) ([]models.Staff, error) {
	staff, err := s.staffRepo.GetAllStaff(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

func (s *StaffService) GetStaffByID(ctx context.Context, id string) (*models.Staff, error) {
	return s.staffRepo.GetStaffByID(ctx, id)
}

func (s *StaffService) CreateStaff(ctx context.Context, req CreateStaffRequest, userID *uint) (*models.Staff, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Specialization = strings.TrimSpace(req.Specialization)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if req.Role == models.StaffRoleDoctor && req.Specialization == "" {
		return nil, apperrors.Validation("specialization is required for doctors", map[string]any{
			"specialization": "is required",
		})
	}

	_, err := s.staffRepo.GetStaffByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, apperrors.Conflict("a staff member with this email already exists")
	case !apperrors.HasCode(err, apperrors.CodeNotFound):
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	member := &models.Staff{
		ID:             uuid.NewString(),
		Role:           req.Role,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Status:         req.Status,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
		Department:     req.Department,
		Experience:     req.Experience,
	}
	if member.Status == "" {
		member.Status = StaffStatusActive
	}

	if err := s.staffRepo.CreateStaff(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}

	if err := s.auditRepo.CreateAuditLog(ctx, userID, "staff_created", fmt.Sprintf("%s %s %s added", member.Role, member.FirstName, member.LastName)); err != nil {
		s.log.Warn("failed to write audit log", "action", "staff_created", "staff_id", member.ID, "error", err)
	}
	s.log.Info("staff member created", "staff_id", member.ID, "role", member.Role)

	return member, nil
}
