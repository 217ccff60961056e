package handler

import (
	"hospital-admissions/internal/service"
	"hospital-admissions/internal/validation"
	"hospital-admissions/pkg/utils"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	patientService *service.PatientService
}

func NewPatientHandler(patientService *service.PatientService) *PatientHandler {
	return &PatientHandler{
		patientService: patientService,
	}
}

// GetPatients lists patients, or returns one when ?id= is given
func (h *PatientHandler) GetPatients(c *gin.Context) {
	if id := resourceID(c); id != "" {
		h.GetPatient(c)
		return
	}

	patients, err := h.patientService.GetAllPatients(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"patients": patients,
		"count":    len(patients),
	})
}

func (h *PatientHandler) GetPatient(c *gin.Context) {
	patient, err := h.patientService.GetPatientByID(c.Request.Context(), resourceID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, patient)
}

func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req service.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, validation.Translate(err))
		return
	}

	patient, err := h.patientService.CreatePatient(c.Request.Context(), req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, patient)
}
