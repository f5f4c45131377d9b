package childrequest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mswdo/soloparent-backend/internal/workflow"
	"github.com/mswdo/soloparent-backend/middleware"
)

type Handler struct {
	Svc  *Service
	Repo *Repository
}

func NewHandler(svc *Service, repo *Repository) *Handler {
	return &Handler{Svc: svc, Repo: repo}
}

func (h *Handler) optionsFrom(c *gin.Context) workflow.Options {
	opt := workflow.Options{IP: c.ClientIP(), ActorType: middleware.RoleFrom(c)}
	id := middleware.ActorIDFrom(c)
	switch opt.ActorType {
	case middleware.RoleAdmin:
		opt.AdminID = &id
	case middleware.RoleSuperadmin:
		opt.SuperadminID = &id
	}
	return opt
}

func (h *Handler) File(c *gin.Context) {
	var req struct {
		ChildName      string `json:"childName" binding:"required"`
		Age            int    `json:"age"`
		Birthdate      string `json:"birthdate"`
		EducAttainment string `json:"educAttainment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "childName is required"})
		return
	}

	created, err := h.Svc.File(middleware.ActorIDFrom(c), req.ChildName, req.Age, req.Birthdate, req.EducAttainment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to file request"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Child request filed", "request": created})
}

func (h *Handler) ListForBarangay(c *gin.Context) {
	barangay := middleware.BarangayFrom(c)
	reqs, err := h.Repo.ListForBarangay(barangay)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}

func (h *Handler) ListForSuperadmin(c *gin.Context) {
	reqs, err := h.Repo.ListForSuperadmin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}

func (h *Handler) ListMine(c *gin.Context) {
	reqs, err := h.Repo.ListForUser(middleware.ActorIDFrom(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}

func (h *Handler) requestID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) decide(c *gin.Context, fn func() error, message string) {
	err := fn()
	if err != nil {
		var illegal *workflow.ErrIllegalTransition
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		case errors.Is(err, ErrNotEndorsed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.As(err, &illegal):
			c.JSON(http.StatusConflict, gin.H{"error": illegal.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update request"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Endorse forwards a request to the MSWDO.
func (h *Handler) Endorse(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}
	h.decide(c, func() error {
		return h.Svc.Endorse(c.Request.Context(), id, h.optionsFrom(c))
	}, "Request endorsed to MSWDO")
}

func (h *Handler) Approve(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}
	h.decide(c, func() error {
		return h.Svc.Approve(c.Request.Context(), id, h.optionsFrom(c))
	}, "Child request approved")
}

func (h *Handler) Decline(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}
	h.decide(c, func() error {
		return h.Svc.Decline(c.Request.Context(), id, h.optionsFrom(c))
	}, "Child request declined")
}
