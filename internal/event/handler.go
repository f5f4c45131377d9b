package event

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	Svc  *Service
	Repo *Repository
}

func NewHandler(svc *Service, repo *Repository) *Handler {
	return &Handler{Svc: svc, Repo: repo}
}

func eventID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("eventId"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return 0, false
	}
	return uint(id), true
}

// List returns active events; pass userId to attach read flags.
func (h *Handler) List(c *gin.Context) {
	if rawUser := c.Query("userId"); rawUser != "" {
		userID, err := strconv.Atoi(rawUser)
		if err != nil || userID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		rows, err := h.Repo.ListForUser(uint(userID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch events"})
			return
		}
		c.JSON(http.StatusOK, rows)
		return
	}

	includeArchived := c.Query("includeArchived") == "true"
	events, err := h.Repo.ListAll(includeArchived)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *Handler) Create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, startDate, startTime and endTime are required"})
		return
	}

	e, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		h.writeScheduleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Event created successfully", "event": e})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, startDate, startTime and endTime are required"})
		return
	}

	e, err := h.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		h.writeScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event updated successfully", "event": e})
}

func (h *Handler) writeScheduleError(c *gin.Context, err error) {
	var conflict *ConflictError
	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":            conflict.Error(),
			"conflictingEvent": conflict.Conflicting,
		})
	case errors.Is(err, ErrEndBeforeStart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save event"})
	}
}

// Archive retires an event; history stays queryable.
func (h *Handler) Archive(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	if err := h.Repo.Archive(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to archive event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event archived successfully"})
}

func (h *Handler) MarkRead(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	var req struct {
		UserID uint `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	if err := h.Repo.MarkRead(id, req.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark event as read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event marked as read"})
}

func (h *Handler) ListAttendees(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	attendees, err := h.Repo.ListAttendees(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch attendees"})
		return
	}
	c.JSON(http.StatusOK, attendees)
}

func (h *Handler) AddAttendee(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	var req struct {
		CodeID string `json:"codeId" binding:"required"`
		Name   string `json:"name"`
		Email  string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "codeId is required"})
		return
	}

	err := h.Repo.AddAttendee(&Attendee{EventID: id, CodeID: req.CodeID, Name: req.Name, Email: req.Email})
	if err != nil {
		if errors.Is(err, ErrAlreadyAttending) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record attendance"})
		return
	}

	attendees, err := h.Repo.ListAttendees(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch attendees"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Attendance recorded", "attendees": attendees})
}

func (h *Handler) Rate(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	var req struct {
		UserID uint `json:"userId" binding:"required"`
		Rating int  `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and rating are required"})
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
		return
	}
	if err := h.Repo.Rate(id, req.UserID, req.Rating); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save rating"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating saved"})
}

func (h *Handler) ListRatings(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	ratings, err := h.Repo.ListRatings(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch ratings"})
		return
	}
	c.JSON(http.StatusOK, ratings)
}
