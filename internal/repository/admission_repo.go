package repository

import (
	"context"
	"errors"

	"hospital-admissions/internal/models"
	"hospital-admissions/pkg/apperrors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdmissionRepository struct {
	db *gorm.DB
}

func NewAdmissionRepo(db *gorm.DB) *AdmissionRepository {
	return &AdmissionRepository{db: db}
}

// WithTx binds the repository to an open transaction
func (r *AdmissionRepository) WithTx(tx *gorm.DB) *AdmissionRepository {
	return &AdmissionRepository{db: tx}
}

// ListAdmissions filters admissions and keeps insertion order
func (r *AdmissionRepository) ListAdmissions(ctx context.Context, filter models.AdmissionFilter) ([]models.Admission, error) {
	query := r.db.WithContext(ctx).Model(&models.Admission{})
	if filter.PatientID != "" {
		query = query.Where("patient_id = ?", filter.PatientID)
	}
	if filter.RoomID != "" {
		query = query.Where("room_id = ?", filter.RoomID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	admissions := []models.Admission{}
	err := query.Order("created_at ASC, id ASC").Find(&admissions).Error
	return admissions, err
}

// GetAdmissionByID retrieves an admission by ID
func (r *AdmissionRepository) GetAdmissionByID(ctx context.Context, id string) (*models.Admission, error) {
	var admission models.Admission
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&admission).Error
	return admissionOrNotFound(&admission, err)
}

// GetAdmissionForUpdate reads an admission under a row lock
func (r *AdmissionRepository) GetAdmissionForUpdate(ctx context.Context, id string) (*models.Admission, error) {
	var admission models.Admission
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&admission).Error
	return admissionOrNotFound(&admission, err)
}

// CreateAdmission creates a new admission
func (r *AdmissionRepository) CreateAdmission(ctx context.Context, admission *models.Admission) error {
	return r.db.WithContext(ctx).Create(admission).Error
}

// UpdateAdmission writes every column of an existing admission
func (r *AdmissionRepository) UpdateAdmission(ctx context.Context, admission *models.Admission) error {
	return r.db.WithContext(ctx).Save(admission).Error
}

// CountActiveByRoom counts admissions still occupying a bed in the room
func (r *AdmissionRepository) CountActiveByRoom(ctx context.Context, roomID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Admission{}).
		Where("room_id = ? AND status = ?", roomID, models.AdmissionStatusActive).
		Count(&count).Error
	return count, err
}

// CountByStatus counts admissions in the given status
func (r *AdmissionRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Admission{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func admissionOrNotFound(admission *models.Admission, err error) (*models.Admission, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("admission")
		}
		return nil, err
	}
	return admission, nil
}
