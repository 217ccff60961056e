package repository

import (
	"context"
	"errors"

	"hospital-admissions/internal/models"
	"hospital-admissions/pkg/apperrors"

	"gorm.io/gorm"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepo(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// GetAllStaff lists staff, optionally restricted to one role
func (r *StaffRepository) GetAllStaff(ctx context.Context, role string) ([]models.Staff, error) {
	query := r.db.WithContext(ctx)
	if role != "" {
		query = query.Where("role = ?", role)
	}

	staff := []models.Staff{}
	err := query.Order("last_name ASC, first_name ASC").Find(&staff).Error
	return staff, err
}

func (r *StaffRepository) GetStaffByID(ctx context.Context, id string) (*models.Staff, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *StaffRepository) GetStaffByEmail(ctx context.Context, email string) (*models.Staff, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *StaffRepository) CreateStaff(ctx context.Context, staff *models.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

// CountByRole counts active staff members holding the role
func (r *StaffRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Staff{}).
		Where("role = ? AND status = ?", role, "active").
		Count(&count).Error
	return count, err
}

func (r *StaffRepository) findOne(ctx context.Context, query string, arg any) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).Where(query, arg).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("staff member")
		}
		return nil, err
	}
	return &staff, nil
}
