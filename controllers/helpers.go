package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kayceelyoDev/RoomManagement-sub001/services"
	"github.com/kayceelyoDev/RoomManagement-sub001/utils"
)

// respondServiceError maps core error kinds to HTTP statuses. Anything
// unclassified is a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.JSONErrorWithCode(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, services.ErrOverlapConflict):
		utils.JSONErrorWithCode(c, http.StatusConflict, "overlap_conflict",
			"room is not available for the requested interval")
	case errors.Is(err, services.ErrInvalidTransition):
		utils.JSONErrorWithCode(c, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.JSONErrorWithCode(c, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, services.ErrValidation):
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		utils.JSONErrorWithCode(c, http.StatusInternalServerError, "internal", err.Error())
	}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// parseDateTime accepts RFC3339 timestamps and bare dates, the two formats
// front ends actually send.
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
