package workflow

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mswdo/soloparent-backend/database"
	"github.com/mswdo/soloparent-backend/internal/document"
	"github.com/mswdo/soloparent-backend/middleware"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// statusEvents maps the status an operator asks for to the event that gets
// a case there. The transition table decides whether it is legal.
var statusEvents = map[Status]Event{
	StatusVerified:   EventAccept,
	StatusDeclined:   EventDecline,
	StatusRenewal:    EventRenew,
	StatusTerminated: EventTerminate,
}

// renewalEvents maps the superadmin's renewal verdict to its event.
var renewalEvents = map[Status]Event{
	StatusVerified: EventRenewalApproved,
	StatusDeclined: EventRenewalDeclined,
}

func (h *Handler) apply(c *gin.Context, userID uint, event Event, remarks string) {
	opt := h.optionsFrom(c)
	opt.Remarks = remarks

	res, err := h.Svc.Apply(c.Request.Context(), userID, event, opt)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User status updated successfully",
		"status":  res.To,
	})
}

func (h *Handler) optionsFrom(c *gin.Context) Options {
	opt := Options{IP: c.ClientIP(), ActorType: middleware.RoleFrom(c)}
	id := middleware.ActorIDFrom(c)
	switch opt.ActorType {
	case middleware.RoleAdmin:
		opt.AdminID = &id
	case middleware.RoleSuperadmin:
		opt.SuperadminID = &id
	}
	return opt
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var illegal *ErrIllegalTransition
	switch {
	case errors.As(err, &illegal):
		c.JSON(http.StatusConflict, gin.H{"error": illegal.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, database.ErrRetriesExhausted):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database busy, please try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user status"})
	}
}

// UpdateUserStatus is the barangay admin's accept/decline/renew/terminate
// entry point. The request names the target status.
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	var req struct {
		UserID  uint   `json:"userId" binding:"required"`
		Status  string `json:"status" binding:"required"`
		Remarks string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and status are required"})
		return
	}

	target, err := ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	event, ok := statusEvents[target]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status cannot be set directly"})
		return
	}
	h.apply(c, req.UserID, event, req.Remarks)
}

// SuperadminUpdateStatus resolves a pending renewal.
func (h *Handler) SuperadminUpdateStatus(c *gin.Context) {
	var req struct {
		UserID  uint   `json:"userId" binding:"required"`
		Status  string `json:"status" binding:"required"`
		Remarks string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and status are required"})
		return
	}

	target, err := ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	event, ok := renewalEvents[target]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "renewal verdict must be Verified or Declined"})
		return
	}
	h.apply(c, req.UserID, event, req.Remarks)
}

func (h *Handler) TerminateUser(c *gin.Context) {
	var req struct {
		UserID  uint   `json:"userId" binding:"required"`
		Remarks string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	h.apply(c, req.UserID, EventTerminate, req.Remarks)
}

func (h *Handler) UnTerminateUser(c *gin.Context) {
	var req struct {
		UserID uint `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	h.apply(c, req.UserID, EventReinstate, "")
}

// SaveRemarks flags a verified case for investigation.
func (h *Handler) SaveRemarks(c *gin.Context) {
	var req struct {
		UserID  uint   `json:"userId" binding:"required"`
		Remarks string `json:"remarks" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and remarks are required"})
		return
	}
	h.apply(c, req.UserID, EventFlagRemarks, req.Remarks)
}

func (h *Handler) AcceptRemarks(c *gin.Context) {
	var req struct {
		UserID uint `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	h.apply(c, req.UserID, EventClearRemarks, "")
}

func (h *Handler) DeclineRemarks(c *gin.Context) {
	var req struct {
		UserID  uint   `json:"userId" binding:"required"`
		Remarks string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	h.apply(c, req.UserID, EventRejectRemarks, req.Remarks)
}

// RecomputeDocuments re-derives a case's status from its paperwork.
func (h *Handler) RecomputeDocuments(c *gin.Context) {
	codeID := c.Param("codeId")
	if codeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "codeId is required"})
		return
	}

	outcome, err := h.Svc.Recompute(c.Request.Context(), codeID, h.optionsFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// UpdateDocumentStatus applies an approve/reject verdict to one document.
func (h *Handler) UpdateDocumentStatus(c *gin.Context) {
	var req struct {
		CodeID       string `json:"codeId" binding:"required"`
		DocumentType string `json:"documentType" binding:"required"`
		Status       string `json:"status" binding:"required"`
		Reason       string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "codeId, documentType and status are required"})
		return
	}

	dt, _, err := document.Lookup(req.DocumentType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var approve bool
	switch req.Status {
	case document.StatusApproved:
		approve = true
	case document.StatusRejected:
		if req.Reason == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reason is required when rejecting"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be Approved or Rejected"})
		return
	}

	outcome, err := h.Svc.DecideDocument(c.Request.Context(), dt, req.CodeID, approve, req.Reason, h.optionsFrom(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Document status updated successfully",
		"outcome": outcome,
	})
}
