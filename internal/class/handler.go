package class

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

func respondClassError(c *gin.Context, err error) {
	var conflictErr *conflict.Error

	switch {
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Error()})
	case errors.Is(err, schedule.ErrSlotReversed),
		errors.Is(err, schedule.ErrInvalidTimeOfDay),
		errors.Is(err, schedule.ErrInvalidWeekday):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrClassNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
	case errors.Is(err, ErrTrainerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Trainer not found"})
	case errors.Is(err, ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
	case errors.Is(err, ErrClassFull):
		c.JSON(http.StatusConflict, gin.H{"error": "Class is at full capacity"})
	case errors.Is(err, ErrAlreadyEnrolled):
		c.JSON(http.StatusConflict, gin.H{"error": "Already enrolled in this class"})
	case errors.Is(err, ErrNotEnrolled):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not enrolled in this class"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ListClasses godoc
// @Summary      List group classes
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   ClassWithDetails
// @Failure      500  {object}  gin.H
// @Router       /classes [get]
func (h *Handler) ListClasses(c *gin.Context) {
	classes, err := h.service.ListClasses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch classes"})
		return
	}

	c.JSON(http.StatusOK, classes)
}

// ListMyClasses godoc
// @Summary      Classes the member is enrolled in
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   ClassWithDetails
// @Failure      401  {object}  gin.H
// @Router       /classes/enrolled [get]
func (h *Handler) ListMyClasses(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	classes, err := h.service.ListClassesForMember(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch classes"})
		return
	}

	c.JSON(http.StatusOK, classes)
}

// CreateClass godoc
// @Summary      Create group class
// @Description  Validates the slot and books the trainer and room atomically.
// @Tags         classes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      ClassRequest  true  "Class payload"
// @Success      201   {object}  GroupClass
// @Failure      400   {object}  gin.H
// @Failure      409   {object}  gin.H
// @Router       /admin/classes [post]
func (h *Handler) CreateClass(c *gin.Context) {
	var req ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindingError(c, err)
		return
	}

	gc, err := h.service.CreateClass(c.Request.Context(), req)
	if err != nil {
		respondClassError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gc)
}

// UpdateClass godoc
// @Summary      Update group class
// @Description  Re-validates trainer and room against every other booking; the class never conflicts with itself.
// @Tags         classes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        classID  path      int           true  "Class ID"
// @Param        body     body      ClassRequest  true  "Class payload"
// @Success      200      {object}  GroupClass
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Router       /admin/classes/{classID} [put]
func (h *Handler) UpdateClass(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return
	}

	var req ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindingError(c, err)
		return
	}

	gc, err := h.service.UpdateClass(c.Request.Context(), classID, req)
	if err != nil {
		respondClassError(c, err)
		return
	}

	c.JSON(http.StatusOK, gc)
}

// DeleteClass godoc
// @Summary      Delete group class
// @Description  Removes the class and all of its enrollments.
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        classID  path      int  true  "Class ID"
// @Success      200      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /admin/classes/{classID} [delete]
func (h *Handler) DeleteClass(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return
	}

	if err := h.service.DeleteClass(c.Request.Context(), classID); err != nil {
		respondClassError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Class deleted successfully"})
}

// Enroll godoc
// @Summary      Enroll in a class
// @Description  Admits the member unless the class is full or they already hold a seat.
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        classID  path      int  true  "Class ID"
// @Success      201      {object}  Enrollment
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Router       /classes/{classID}/enroll [post]
func (h *Handler) Enroll(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return
	}

	enrollment, err := h.service.Enroll(c.Request.Context(), classID, memberID)
	if err != nil {
		respondClassError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// Withdraw godoc
// @Summary      Withdraw from a class
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        classID  path      int  true  "Class ID"
// @Success      200      {object}  gin.H
// @Failure      400      {object}  gin.H
// @Router       /classes/{classID}/enroll [delete]
func (h *Handler) Withdraw(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return
	}

	if err := h.service.Withdraw(c.Request.Context(), classID, memberID); err != nil {
		respondClassError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Withdrawn from class successfully"})
}
