package service

import (
	"context"
	"fmt"
	"strings"

	"hospital-admissions/internal/models"
	"hospital-admissions/internal/repository"
	"hospital-admissions/internal/validation"
	"hospital-admissions/pkg/logger"

	"github.com/google/uuid"
)

type CreatePatientRequest struct {
	Name    string `json:"name" binding:"required"`
	Age     int    `json:"age" binding:"gte=0,lte=150"`
	Gender  string `json:"gender" binding:"required,oneof=male female other"`
	Contact string `json:"contact"`
}

type PatientService struct {
	patientRepo *repository.PatientRepository
	validator   *validation.Validator
	log         *logger.Logger
}

func NewPatientService(patientRepo *repository.PatientRepository, validator *validation.Validator, log *logger.Logger) *PatientService {
	return &PatientService{
		patientRepo: patientRepo,
		validator:   validator,
		log:         log,
	}
}

func (s *PatientService) GetAllPatients(ctx context.Context) ([]models.Patient, error) {
	patients, err := s.patientRepo.GetAllPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (s *PatientService) GetPatientByID(ctx context.Context, id string) (*models.Patient, error) {
	return s.patientRepo.GetPatientByID(ctx, id)
}

func (s *PatientService) CreatePatient(ctx context.Context, req CreatePatientRequest) (*models.Patient, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	patient := &models.Patient{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Age:     req.Age,
		Gender:  req.Gender,
		Contact: req.Contact,
	}
	if err := s.patientRepo.CreatePatient(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.log.Info("patient registered", "patient_id", patient.ID)
	return patient, nil
}
