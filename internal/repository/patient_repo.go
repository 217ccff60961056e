package repository

import (
	"context"
	"errors"

	"hospital-admissions/internal/models"
	"hospital-admissions/pkg/apperrors"

	"gorm.io/gorm"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepo(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) GetAllPatients(ctx context.Context) ([]models.Patient, error) {
	patients := []models.Patient{}
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&patients).Error
	return patients, err
}

func (r *PatientRepository) GetPatientByID(ctx context.Context, id string) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("patient")
		}
		return nil, err
	}
	return &patient, nil
}

func (r *PatientRepository) CreatePatient(ctx context.Context, patient *models.Patient) error {
	return r.db.WithContext(ctx).Create(patient).Error
}

func (r *PatientRepository) CountPatients(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).Count(&count).Error
	return count, err
}
