package announcement

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mswdo/soloparent-backend/internal/storage"
)

type Handler struct {
	Repo     *Repository
	Uploader *storage.Uploader
}

func NewHandler(repo *Repository, uploader *storage.Uploader) *Handler {
	return &Handler{Repo: repo, Uploader: uploader}
}

type createRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Link        string `json:"link"`
	ImageBase64 string `json:"imageBase64"`
	EndDate     string `json:"endDate"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	a := &Announcement{
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be YYYY-MM-DD"})
			return
		}
		a.EndDate = &end
	}

	if err := h.Repo.Create(a); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save announcement"})
		return
	}

	// Image failures are logged, not fatal; the announcement already exists.
	if req.ImageBase64 != "" && h.Uploader != nil {
		url, err := h.Uploader.Upload(c.Request.Context(), req.ImageBase64, "announcements", fmt.Sprintf("%d", a.ID))
		switch {
		case errors.Is(err, storage.ErrNotConfigured):
			log.Println("⚠️ Announcement image skipped: storage not configured")
		case err != nil:
			log.Printf("❌ Announcement %d image upload failed: %v", a.ID, err)
		default:
			if err := h.Repo.UpdateImageURL(a.ID, url); err != nil {
				log.Printf("❌ Announcement %d image url save failed: %v", a.ID, err)
			} else {
				a.ImageURL = url
			}
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Announcement created successfully", "announcement": a})
}

// List returns currently visible announcements; ?all=true includes scheduled
// and expired ones for the admin screens.
func (h *Handler) List(c *gin.Context) {
	var (
		rows []Announcement
		err  error
	)
	if c.Query("all") == "true" {
		rows, err = h.Repo.ListAll()
	} else {
		rows, err = h.Repo.ListActive()
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch announcements"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"announcements": rows})
}

// Update edits an announcement in place; a new image replaces the stored one
// under the same S3 id.
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid announcement id"})
		return
	}

	a, err := h.Repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "announcement not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch announcement"})
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	updates := map[string]interface{}{
		"title":       req.Title,
		"description": req.Description,
		"link":        req.Link,
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be YYYY-MM-DD"})
			return
		}
		updates["end_date"] = &end
	}
	if err := h.Repo.Update(a.ID, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update announcement"})
		return
	}

	if req.ImageBase64 != "" && h.Uploader != nil {
		url, err := h.Uploader.Upload(c.Request.Context(), req.ImageBase64, "announcements", fmt.Sprintf("%d", a.ID))
		switch {
		case errors.Is(err, storage.ErrNotConfigured):
			log.Println("⚠️ Announcement image skipped: storage not configured")
		case err != nil:
			log.Printf("❌ Announcement %d image upload failed: %v", a.ID, err)
		default:
			if err := h.Repo.UpdateImageURL(a.ID, url); err != nil {
				log.Printf("❌ Announcement %d image url save failed: %v", a.ID, err)
			}
		}
	}

	updated, err := h.Repo.GetByID(a.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch announcement"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Announcement updated successfully", "announcement": updated})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid announcement id"})
		return
	}

	a, err := h.Repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "announcement not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch announcement"})
		return
	}

	if err := h.Repo.Delete(a.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete announcement"})
		return
	}
	if a.ImageURL != "" && h.Uploader != nil {
		if err := h.Uploader.Delete(c.Request.Context(), "announcements", fmt.Sprintf("%d", a.ID), "image/jpeg"); err != nil && !errors.Is(err, storage.ErrNotConfigured) {
			log.Printf("⚠️ Announcement %d image cleanup failed: %v", a.ID, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Announcement deleted successfully"})
}
