package availability

import (
	"errors"
	"net/http"

	"gymdesk/internal/api"
	"gymdesk/internal/auth"
	"gymdesk/internal/schedule"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetAvailability godoc
// @Summary      Trainer's weekly availability
// @Tags         availability
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Slot
// @Failure      500  {object}  gin.H
// @Router       /trainer/availability [get]
func (h *Handler) GetAvailability(c *gin.Context) {
	trainerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	slots, err := h.service.GetAvailability(c.Request.Context(), trainerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch availability"})
		return
	}

	c.JSON(http.StatusOK, slots)
}

// SetAvailability godoc
// @Summary      Replace trainer's weekly availability
// @Description  Validates every window and replaces the whole schedule atomically.
// @Tags         availability
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      SetAvailabilityRequest  true  "Weekly windows"
// @Success      200   {object}  gin.H
// @Failure      400   {object}  gin.H
// @Router       /trainer/availability [put]
func (h *Handler) SetAvailability(c *gin.Context) {
	trainerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindingError(c, err)
		return
	}

	slots := make([]Slot, 0, len(req.Slots))
	for _, sr := range req.Slots {
		day, err := schedule.ParseWeekday(sr.Day)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid day: " + sr.Day})
			return
		}
		start, err := schedule.ParseTimeOfDay(sr.StartTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_time: " + sr.StartTime})
			return
		}
		end, err := schedule.ParseTimeOfDay(sr.EndTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_time: " + sr.EndTime})
			return
		}
		slots = append(slots, Slot{TrainerID: trainerID, Day: day, Start: start, End: end})
	}

	if err := h.service.SetAvailability(c.Request.Context(), trainerID, slots); err != nil {
		var vErr *ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
		case errors.Is(err, ErrTrainerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Trainer not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update availability"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Availability updated successfully"})
}

// CheckCovering godoc
// @Summary      Check whether a slot falls inside the trainer's declared windows
// @Tags         availability
// @Security     BearerAuth
// @Produce      json
// @Param        day         query     string  true  "Weekday, e.g. Monday"
// @Param        start_time  query     string  true  "Start time HH:MM"
// @Param        end_time    query     string  true  "End time HH:MM"
// @Success      200  {object}  gin.H
// @Failure      400  {object}  gin.H
// @Router       /trainer/availability/check [get]
func (h *Handler) CheckCovering(c *gin.Context) {
	trainerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	day, err := schedule.ParseWeekday(c.Query("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid day: " + c.Query("day")})
		return
	}
	start, err := schedule.ParseTimeOfDay(c.Query("start_time"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_time: " + c.Query("start_time")})
		return
	}
	end, err := schedule.ParseTimeOfDay(c.Query("end_time"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_time: " + c.Query("end_time")})
		return
	}

	window, err := h.service.CoveringWindow(c.Request.Context(), trainerID, day, schedule.TimeSlot{Start: start, End: end})
	if err != nil {
		if errors.Is(err, schedule.ErrSlotReversed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "End time must be after start time"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check availability"})
		return
	}

	if window == nil {
		c.JSON(http.StatusOK, gin.H{"covered": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"covered": true, "window": window})
}
