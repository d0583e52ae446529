package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"

	"github.com/kayceelyoDev/RoomManagement-sub001/models"
	"github.com/kayceelyoDev/RoomManagement-sub001/services"
	"github.com/kayceelyoDev/RoomManagement-sub001/utils"
)

type CreateRoomPayload struct {
	RoomCategoryID uint   `json:"room_category_id" binding:"required"`
	RoomNumber     string `json:"room_number" binding:"required"`
	Floor          string `json:"floor"`
	Description    string `json:"description"`
}

type SetRoomStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

type AvailableRoomsQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

type RoomController struct {
	Svc   *services.RoomService
	Clock services.Clock
}

func NewRoomController(svc *services.RoomService, clock services.Clock) *RoomController {
	if clock == nil {
		clock = services.RealClock{}
	}
	return &RoomController{Svc: svc, Clock: clock}
}

// isDuplicateEntry reports whether err is a MySQL unique-key violation
// (error 1062), so room numbers collide with a 409 instead of a 500.
func isDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

// CreateRoom handles POST /api/rooms
func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var p CreateRoomPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}

	room := models.Room{
		RoomCategoryID: p.RoomCategoryID,
		RoomNumber:     p.RoomNumber,
		Floor:          p.Floor,
		Description:    p.Description,
	}
	if err := ctrl.Svc.Create(c.Request.Context(), &room); err != nil {
		if isDuplicateEntry(err) {
			utils.JSONErrorWithCode(c, http.StatusConflict, "conflict", "room number already exists")
			return
		}
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// GetRooms handles GET /api/rooms
func (ctrl *RoomController) GetRooms(c *gin.Context) {
	rooms, err := ctrl.Svc.GetAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GetRoom handles GET /api/rooms/:id
func (ctrl *RoomController) GetRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	room, err := ctrl.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// UpdateRoom handles PUT /api/rooms/:id
func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}
	room, err := ctrl.Svc.Update(c.Request.Context(), id, updates)
	if err != nil {
		if isDuplicateEntry(err) {
			utils.JSONErrorWithCode(c, http.StatusConflict, "conflict", "room number already exists")
			return
		}
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// SetRoomStatus handles PATCH /api/rooms/:id/status
func (ctrl *RoomController) SetRoomStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var p SetRoomStatusPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}
	room, err := ctrl.Svc.SetStatus(c.Request.Context(), id, models.RoomStatus(p.Status), ctrl.Clock.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// DeleteRoom handles DELETE /api/rooms/:id
func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := ctrl.Svc.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

// GetAvailableRooms handles GET /api/rooms/available?start=&end=
func (ctrl *RoomController) GetAvailableRooms(c *gin.Context) {
	var q AvailableRoomsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "invalid_payload", "start and end are required")
		return
	}
	start, err := parseDateTime(q.Start)
	if err != nil {
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "validation_failed", "invalid start format")
		return
	}
	end, err := parseDateTime(q.End)
	if err != nil {
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "validation_failed", "invalid end format")
		return
	}
	rooms, err := ctrl.Svc.ListAvailable(c.Request.Context(), start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}
