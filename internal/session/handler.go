package session

import (
	"errors"
	"net/http"
	"strconv"

	"gymdesk/internal/api"
	"gymdesk/internal/auth"
	"gymdesk/internal/conflict"
	"gymdesk/internal/schedule"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func respondSessionError(c *gin.Context, err error) {
	var conflictErr *conflict.Error

	switch {
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Error()})
	case errors.Is(err, schedule.ErrSlotReversed),
		errors.Is(err, schedule.ErrInvalidTimeOfDay),
		errors.Is(err, schedule.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrSessionInPast):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session cannot start in the past"})
	case errors.Is(err, ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, ErrTrainerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Trainer not found"})
	case errors.Is(err, ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
	case errors.Is(err, ErrNotSessionOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "Session belongs to another member"})
	case errors.Is(err, ErrSessionNotScheduled):
		c.JSON(http.StatusConflict, gin.H{"error": "Session is not scheduled"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// BookSession godoc
// @Summary      Book a personal training session
// @Description  Books the trainer and room for the slot atomically; rejects past dates and colliding bookings.
// @Tags         sessions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      BookSessionRequest  true  "Session payload"
// @Success      201   {object}  TrainingSession
// @Failure      400   {object}  gin.H
// @Failure      409   {object}  gin.H
// @Router       /sessions [post]
func (h *Handler) BookSession(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req BookSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindingError(c, err)
		return
	}

	ts, err := h.service.BookSession(c.Request.Context(), memberID, req)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ts)
}

// RescheduleSession godoc
// @Summary      Reschedule a session
// @Description  Moves the session to a new slot; the session never conflicts with itself.
// @Tags         sessions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        sessionID  path      int                true  "Session ID"
// @Param        body       body      RescheduleRequest  true  "New slot"
// @Success      200        {object}  TrainingSession
// @Failure      400        {object}  gin.H
// @Failure      403        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /sessions/{sessionID} [put]
func (h *Handler) RescheduleSession(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sessionID, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindingError(c, err)
		return
	}

	ts, err := h.service.RescheduleSession(c.Request.Context(), sessionID, memberID, req)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, ts)
}

// CancelSession godoc
// @Summary      Cancel a session
// @Description  Frees the trainer and room; canceled is terminal.
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {object}  gin.H
// @Failure      403        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Router       /sessions/{sessionID} [delete]
func (h *Handler) CancelSession(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sessionID, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	if err := h.service.CancelSession(c.Request.Context(), sessionID, memberID); err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session canceled successfully"})
}

// ListMySessions godoc
// @Summary      Upcoming sessions for the member
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  SessionWithDetails
// @Router       /sessions [get]
func (h *Handler) ListMySessions(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sessions, err := h.service.ListForMember(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sessions"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// ListTrainerSessions godoc
// @Summary      Upcoming sessions for the trainer
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  SessionWithDetails
// @Router       /trainer/sessions [get]
func (h *Handler) ListTrainerSessions(c *gin.Context) {
	trainerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sessions, err := h.service.ListForTrainer(c.Request.Context(), trainerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sessions"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}
