package room

import (
	"errors"
	"net/http"
	"strconv"

	"gymdesk/internal/api"
	"gymdesk/internal/schedule"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateRoom godoc
// @Summary      Create room
// @Tags         rooms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreateRoomRequest  true  "Room payload"
// @Success      201   {object}  Room
// @Failure      400   {object}  gin.H
// @Router       /admin/rooms [post]
func (h *Handler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindingError(c, err)
		return
	}

	room, err := h.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// ListRooms godoc
// @Summary      List rooms
// @Tags         rooms
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Room
// @Failure      500  {object}  gin.H
// @Router       /rooms [get]
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.service.GetAllRooms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rooms"})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// FindAvailableRooms godoc
// @Summary      Rooms free on a date and time
// @Description  Lists rooms with no conflicting session or recurring class.
// @Tags         rooms
// @Security     BearerAuth
// @Produce      json
// @Param        date              query     string  true   "Date (YYYY-MM-DD)"
// @Param        startTime         query     string  true   "Start time (HH:MM)"
// @Param        endTime           query     string  true   "End time (HH:MM)"
// @Param        excludeSessionId  query     int     false  "Session to ignore (reschedule flows)"
// @Success      200  {array}   Room
// @Failure      400  {object}  gin.H
// @Router       /rooms/available [get]
func (h *Handler) FindAvailableRooms(c *gin.Context) {
	date, err := schedule.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing date"})
		return
	}

	slot, err := parseSlotParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var excludeSessionID *int
	if raw := c.Query("excludeSessionId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid excludeSessionId"})
			return
		}
		excludeSessionID = &id
	}

	rooms, err := h.service.FindAvailableRooms(c.Request.Context(), date, slot, excludeSessionID)
	if err != nil {
		if errors.Is(err, schedule.ErrSlotReversed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch available rooms"})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// CheckAvailability godoc
// @Summary      Check one room for a weekly slot
// @Tags         rooms
// @Security     BearerAuth
// @Produce      json
// @Param        roomId          query     int     true   "Room ID"
// @Param        day             query     string  true   "Weekday name"
// @Param        startTime       query     string  true   "Start time (HH:MM)"
// @Param        endTime         query     string  true   "End time (HH:MM)"
// @Param        excludeClassId  query     int     false  "Class to ignore (edit flows)"
// @Success      200  {object}  gin.H
// @Failure      400  {object}  gin.H
// @Failure      409  {object}  gin.H
// @Router       /admin/rooms/check-availability [get]
func (h *Handler) CheckAvailability(c *gin.Context) {
	roomID, err := strconv.Atoi(c.Query("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	day, err := schedule.ParseWeekday(c.Query("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid day"})
		return
	}

	slot, err := parseSlotParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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

	free, err := h.service.CheckRoomFree(c.Request.Context(), roomID, day, slot, excludeClassID)
	if err != nil {
		switch {
		case errors.Is(err, ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		case errors.Is(err, schedule.ErrSlotReversed):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check availability"})
		}
		return
	}

	if !free {
		c.JSON(http.StatusConflict, gin.H{"error": "Room is already booked during this time"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": true})
}

// DeleteRoom godoc
// @Summary      Delete room
// @Tags         rooms
// @Security     BearerAuth
// @Produce      json
// @Param        roomID  path      int  true  "Room ID"
// @Success      200     {object}  gin.H
// @Failure      404     {object}  gin.H
// @Router       /admin/rooms/{roomID} [delete]
func (h *Handler) DeleteRoom(c *gin.Context) {
	roomID, err := strconv.Atoi(c.Param("roomID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	if err := h.service.DeleteRoom(c.Request.Context(), roomID); err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}

func parseSlotParams(c *gin.Context) (schedule.TimeSlot, error) {
	start, err := schedule.ParseTimeOfDay(c.Query("startTime"))
	if err != nil {
		return schedule.TimeSlot{}, err
	}
	end, err := schedule.ParseTimeOfDay(c.Query("endTime"))
	if err != nil {
		return schedule.TimeSlot{}, err
	}
	slot := schedule.TimeSlot{Start: start, End: end}
	return slot, slot.Validate()
}
