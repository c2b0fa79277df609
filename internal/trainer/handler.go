package trainer

import (
	"errors"
	"net/http"
	"strconv"

	"gymdesk/internal/schedule"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListTrainers godoc
// @Summary      List trainers
// @Tags         trainers
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Trainer
// @Failure      500  {object}  gin.H
// @Router       /trainers [get]
func (h *Handler) ListTrainers(c *gin.Context) {
	trainers, err := h.service.GetAllTrainers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trainers"})
		return
	}

	c.JSON(http.StatusOK, trainers)
}

// FindAvailableTrainers godoc
// @Summary      Trainers free for a weekly slot
// @Description  Trainers whose declared availability contains the slot and who have no conflicting booking.
// @Tags         trainers
// @Security     BearerAuth
// @Produce      json
// @Param        day             query     string  true   "Weekday name"
// @Param        startTime       query     string  true   "Start time (HH:MM)"
// @Param        endTime         query     string  true   "End time (HH:MM)"
// @Param        excludeClassId  query     int     false  "Class to ignore (edit flows)"
// @Success      200  {array}   Trainer
// @Failure      400  {object}  gin.H
// @Router       /trainers/available [get]
func (h *Handler) FindAvailableTrainers(c *gin.Context) {
	day, err := schedule.ParseWeekday(c.Query("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid day"})
		return
	}

	start, err := schedule.ParseTimeOfDay(c.Query("startTime"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startTime"})
		return
	}
	end, err := schedule.ParseTimeOfDay(c.Query("endTime"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endTime"})
		return
	}

	var excludeClassID *int
	if raw := c.Query("excludeClassId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid excludeClassId"})
			return
		}
		excludeClassID = &id
	}

	trainers, err := h.service.FindAvailableTrainers(c.Request.Context(), day, schedule.TimeSlot{Start: start, End: end}, excludeClassID)
	if err != nil {
		if errors.Is(err, schedule.ErrSlotReversed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch available trainers"})
		return
	}

	c.JSON(http.StatusOK, trainers)
}
