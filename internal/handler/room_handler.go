package handler

import (
	"errors"
	"io"
	"strings"

	"hospital-admissions/internal/service"
	"hospital-admissions/internal/validation"
	"hospital-admissions/pkg/apperrors"
	"hospital-admissions/pkg/utils"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	roomService *service.RoomService
}

func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
	}
}

// GetAllRooms lists every room ordered by number
func (h *RoomHandler) GetAllRooms(c *gin.Context) {
	rooms, err := h.roomService.GetAllRooms(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// GetRoom retrieves a specific room by ID
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.roomService.GetRoomByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, room)
}

// GetAvailability reports free beds per room
func (h *RoomHandler) GetAvailability(c *gin.Context) {
	availability, err := h.roomService.GetAvailability(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, availability)
}

// CreateRoom creates a new room
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req service.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, validation.Translate(err))
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, room)
}

// UpdateRoom updates a room named by the path or by "id" in the body
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	var req service.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, validation.Translate(err))
		return
	}

	id := c.Param("id")
	if id == "" {
		id = req.ID
	}

	room, err := h.roomService.UpdateRoom(c.Request.Context(), id, req, currentUserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, room)
}

// DeleteRoom deletes a room named by the path, ?id= or "id" in the body
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id := resourceID(c)
	if id == "" {
		bodyID, err := idFromBody(c)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		id = bodyID
	}

	if err := h.roomService.DeleteRoom(c.Request.Context(), id, currentUserID(c)); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.MessageResponse(c, "Room deleted successfully")
}

// idFromBody reads {"id": "..."}; an empty body yields an empty id
func idFromBody(c *gin.Context) (string, error) {
	var body struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		return "", apperrors.InvalidInput("invalid request body")
	}
	return strings.TrimSpace(body.ID), nil
}
