package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kayceelyoDev/RoomManagement-sub001/models"
	"github.com/kayceelyoDev/RoomManagement-sub001/services"
	"github.com/kayceelyoDev/RoomManagement-sub001/utils"
)

type CreateReservationPayload struct {
	RoomID        uint   `json:"room_id" binding:"required"`
	GuestName     string `json:"guest_name" binding:"required"`
	ContactNumber string `json:"contact_number"`
	GuestEmail    string `json:"guest_email"`
	TotalGuests   int    `json:"total_guests" binding:"required"`
	CheckIn       string `json:"check_in" binding:"required"`
	CheckOut      string `json:"check_out" binding:"required"`
	Services      []struct {
		ServiceID uint `json:"service_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required"`
	} `json:"services"`
}

type CheckInPayload struct {
	PaymentAmount float64 `json:"payment_amount" binding:"required"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
}

type CheckOutPayload struct {
	Remarks string `json:"remarks" binding:"required"`
}

type CancelPayload struct {
	Reason string `json:"reason"`
}

type AddServicePayload struct {
	ServiceID uint `json:"service_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type ReservationController struct {
	Svc     *services.ReservationService
	Sweeper *services.SweeperService
}

func NewReservationController(svc *services.ReservationService, sweeper *services.SweeperService) *ReservationController {
	return &ReservationController{Svc: svc, Sweeper: sweeper}
}

// CreateReservation handles POST /api/reservations
func (ctrl *ReservationController) CreateReservation(c *gin.Context) {
	var p CreateReservationPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}

	checkIn, err := parseDateTime(p.CheckIn)
	if err != nil {
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "validation_failed", "invalid check_in format")
		return
	}
	checkOut, err := parseDateTime(p.CheckOut)
	if err != nil {
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "validation_failed", "invalid check_out format")
		return
	}

	in := services.CreateReservationInput{
		RoomID:        p.RoomID,
		GuestName:     p.GuestName,
		ContactNumber: p.ContactNumber,
		GuestEmail:    p.GuestEmail,
		TotalGuests:   p.TotalGuests,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
	}
	for _, s := range p.Services {
		in.Services = append(in.Services, services.LineItemSelection{ServiceID: s.ServiceID, Quantity: s.Quantity})
	}

	res, err := ctrl.Svc.Create(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, res)
}

// ConfirmReservation handles POST /api/reservations/:id/confirm
func (ctrl *ReservationController) ConfirmReservation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	res, err := ctrl.Svc.Confirm(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// CheckIn handles POST /api/reservations/:id/checkin
func (ctrl *ReservationController) CheckIn(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var p CheckInPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}
	res, err := ctrl.Svc.CheckIn(c.Request.Context(), id, p.PaymentAmount, p.PaymentMethod)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// CheckOut handles POST /api/reservations/:id/checkout
func (ctrl *ReservationController) CheckOut(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var p CheckOutPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}
	res, err := ctrl.Svc.CheckOut(c.Request.Context(), id, p.Remarks)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// Cancel handles POST /api/reservations/:id/cancel
// Repeated cancels are reported as a no-op, not an error.
func (ctrl *ReservationController) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var p CancelPayload
	_ = c.ShouldBindJSON(&p) // reason is optional
	if p.Reason == "" {
		p.Reason = "cancelled by staff"
	}
	res, changed, err := ctrl.Svc.Cancel(c.Request.Context(), id, p.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"reservation": res, "changed": changed})
}

// AddService handles POST /api/reservations/:id/services
func (ctrl *ReservationController) AddService(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var p AddServicePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}
	res, err := ctrl.Svc.AddLineItem(c.Request.Context(), id, p.ServiceID, p.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// GetReservation handles GET /api/reservations/:id
func (ctrl *ReservationController) GetReservation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	res, err := ctrl.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// GetReservationByReference handles GET /api/reservations/ref/:code
func (ctrl *ReservationController) GetReservationByReference(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "invalid_payload", "reference code is required")
		return
	}
	res, err := ctrl.Svc.GetByReference(c.Request.Context(), code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// ListReservations handles GET /api/reservations?status=&from=&to=
func (ctrl *ReservationController) ListReservations(c *gin.Context) {
	var f services.ListFilter
	if raw := c.Query("status"); raw != "" {
		st := models.ReservationStatus(raw)
		f.Status = &st
	}
	if raw := c.Query("from"); raw != "" {
		t, err := parseDateTime(raw)
		if err != nil {
			utils.JSONErrorWithCode(c, http.StatusBadRequest, "validation_failed", "invalid from date")
			return
		}
		f.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseDateTime(raw)
		if err != nil {
			utils.JSONErrorWithCode(c, http.StatusBadRequest, "validation_failed", "invalid to date")
			return
		}
		f.To = &t
	}

	list, err := ctrl.Svc.List(c.Request.Context(), f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// TriggerSweep handles POST /api/sweep
// Entry point for an external scheduler; the in-process ticker calls the
// same Sweep.
func (ctrl *ReservationController) TriggerSweep(c *gin.Context) {
	result, err := ctrl.Sweeper.Sweep(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}
