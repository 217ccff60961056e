package handler

import (
	"strings"

	"hospital-admissions/internal/models"
	"hospital-admissions/internal/service"
	"hospital-admissions/internal/validation"
	"hospital-admissions/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AdmissionHandler struct {
	admissionService *service.AdmissionService
}

func NewAdmissionHandler(admissionService *service.AdmissionService) *AdmissionHandler {
	return &AdmissionHandler{
		admissionService: admissionService,
	}
}

type UpdateAdmissionRequest struct {
	ID     string `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// GetAdmissions lists admissions filtered by patientId, roomId and status
func (h *AdmissionHandler) GetAdmissions(c *gin.Context) {
	filter := models.AdmissionFilter{
		PatientID: strings.TrimSpace(c.Query("patientId")),
		RoomID:    strings.TrimSpace(c.Query("roomId")),
		Status:    strings.TrimSpace(c.Query("status")),
	}

	admissions, err := h.admissionService.ListAdmissions(c.Request.Context(), filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"admissions": admissions,
		"count":      len(admissions),
	})
}

func (h *AdmissionHandler) GetAdmission(c *gin.Context) {
	admission, err := h.admissionService.GetAdmission(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, admission)
}

// Admit places a patient into a room
func (h *AdmissionHandler) Admit(c *gin.Context) {
	var req service.AdmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, validation.Translate(err))
		return
	}

	admission, err := h.admissionService.Admit(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, admission)
}

// UpdateAdmission accepts {"id", "status":"discharged"}
func (h *AdmissionHandler) UpdateAdmission(c *gin.Context) {
	var req UpdateAdmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, validation.Translate(err))
		return
	}

	admission, err := h.admissionService.UpdateAdmissionStatus(c.Request.Context(), req.ID, req.Status, currentUserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, admission)
}

func (h *AdmissionHandler) Discharge(c *gin.Context) {
	admission, err := h.admissionService.Discharge(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, admission)
}
