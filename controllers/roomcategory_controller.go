package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kayceelyoDev/RoomManagement-sub001/models"
	"github.com/kayceelyoDev/RoomManagement-sub001/services"
	"github.com/kayceelyoDev/RoomManagement-sub001/utils"
)

type CreateRoomCategoryPayload struct {
	TypeName    string  `json:"type_name" binding:"required"`
	Description string  `json:"description"`
	NightlyRate float64 `json:"nightly_rate" binding:"required"`
	MaxGuests   int     `json:"max_guests" binding:"required"`
}

type RoomCategoryController struct {
	Svc *services.RoomCategoryService
}

func NewRoomCategoryController(svc *services.RoomCategoryService) *RoomCategoryController {
	return &RoomCategoryController{Svc: svc}
}

// CreateCategory handles POST /api/room-categories
func (ctrl *RoomCategoryController) CreateCategory(c *gin.Context) {
	var p CreateRoomCategoryPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}
	cat := models.RoomCategory{
		TypeName:    p.TypeName,
		Description: p.Description,
		NightlyRate: p.NightlyRate,
		MaxGuests:   p.MaxGuests,
	}
	if err := ctrl.Svc.Create(c.Request.Context(), &cat); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, cat)
}

// GetCategories handles GET /api/room-categories
func (ctrl *RoomCategoryController) GetCategories(c *gin.Context) {
	cats, err := ctrl.Svc.GetAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, cats)
}

// GetCategory handles GET /api/room-categories/:id
func (ctrl *RoomCategoryController) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	cat, err := ctrl.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, cat)
}

// DeleteCategory handles DELETE /api/room-categories/:id
func (ctrl *RoomCategoryController) DeleteCategory(c *gin.Context) {
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
