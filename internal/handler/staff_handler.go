package handler

import (
	"strings"

	"hospital-admissions/internal/service"
	"hospital-admissions/internal/validation"
	"hospital-admissions/pkg/utils"

	"github.com/gin-gonic/gin"
)

type StaffHandler struct {
	staffService *service.StaffService
}

func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
	}
}

// GetStaff lists staff, optionally filtered by ?role=
func (h *StaffHandler) GetStaff(c *gin.Context) {
	staff, err := h.staffService.GetAllStaff(c.Request.Context(), strings.TrimSpace(c.Query("role")))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"staff": staff,
		"count": len(staff),
	})
}

func (h *StaffHandler) GetStaffMember(c *gin.Context) {
	member, err := h.staffService.GetStaffByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, member)
}

func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req service.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, validation.Translate(err))
		return
	}

	member, err := h.staffService.CreateStaff(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, member)
}
