package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mswdo/soloparent-backend/middleware"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

// GetInbox returns the merged applicant inbox, newest first.
func (h *Handler) GetInbox(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	// Applicants only read their own inbox. Staff may read any.
	if middleware.RoleFrom(c) == middleware.RoleUser && middleware.ActorIDFrom(c) != uint(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your inbox"})
		return
	}
	items, err := h.Repo.Inbox(uint(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

// GetAdminNotifications returns the caller's barangay-scoped admin inbox.
func (h *Handler) GetAdminNotifications(c *gin.Context) {
	barangay := middleware.BarangayFrom(c)
	if barangay == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "no barangay scope"})
		return
	}
	rows, err := h.Repo.ListAdminNotifications(barangay)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": rows})
}

func (h *Handler) GetSuperadminNotifications(c *gin.Context) {
	rows, err := h.Repo.ListSuperadminNotifications()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": rows})
}

// MarkRead flips one notice to read. Kind names the notice table.
func (h *Handler) MarkRead(c *gin.Context) {
	var req struct {
		Kind string `json:"kind" binding:"required"`
		ID   uint   `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind and id are required"})
		return
	}
	if err := h.Repo.MarkRead(req.Kind, req.ID); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}

// Delete removes one notice from an inbox.
func (h *Handler) Delete(c *gin.Context) {
	kind := c.Param("kind")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	if err := h.Repo.Delete(kind, uint(id)); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification deleted"})
}

func (h *Handler) MarkAllAdminRead(c *gin.Context) {
	barangay := middleware.BarangayFrom(c)
	if barangay == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "no barangay scope"})
		return
	}
	if err := h.Repo.MarkAllAdminRead(barangay); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all notifications marked as read"})
}

func (h *Handler) MarkAllSuperadminRead(c *gin.Context) {
	if err := h.Repo.MarkAllSuperadminRead(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all notifications marked as read"})
}
