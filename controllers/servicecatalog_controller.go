package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kayceelyoDev/RoomManagement-sub001/models"
	"github.com/kayceelyoDev/RoomManagement-sub001/services"
	"github.com/kayceelyoDev/RoomManagement-sub001/utils"
)

type CreateCatalogServicePayload struct {
	Name      string  `json:"name" binding:"required"`
	UnitPrice float64 `json:"unit_price" binding:"required"`
}

type UpdateCatalogPricePayload struct {
	UnitPrice float64 `json:"unit_price" binding:"required"`
}

type ServiceCatalogController struct {
	Svc *services.ServiceCatalogService
}

func NewServiceCatalogController(svc *services.ServiceCatalogService) *ServiceCatalogController {
	return &ServiceCatalogController{Svc: svc}
}

// CreateService handles POST /api/services
func (ctrl *ServiceCatalogController) CreateService(c *gin.Context) {
	var p CreateCatalogServicePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}
	entry := models.ServiceCatalogEntry{Name: p.Name, UnitPrice: p.UnitPrice}
	if err := ctrl.Svc.Create(c.Request.Context(), &entry); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, entry)
}

// GetServices handles GET /api/services
func (ctrl *ServiceCatalogController) GetServices(c *gin.Context) {
	entries, err := ctrl.Svc.GetAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, entries)
}

// GetService handles GET /api/services/:id
func (ctrl *ServiceCatalogController) GetService(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	entry, err := ctrl.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, entry)
}

// UpdateServicePrice handles PATCH /api/services/:id/price
// Existing line items keep the price they were sold at.
func (ctrl *ServiceCatalogController) UpdateServicePrice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var p UpdateCatalogPricePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}
	entry, err := ctrl.Svc.UpdatePrice(c.Request.Context(), id, p.UnitPrice)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, entry)
}

// DeleteService handles DELETE /api/services/:id
func (ctrl *ServiceCatalogController) DeleteService(c *gin.Context) {
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
