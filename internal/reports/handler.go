package reports

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mswdo/soloparent-backend/internal/applicant"
	"github.com/mswdo/soloparent-backend/internal/storage"
	"github.com/mswdo/soloparent-backend/middleware"
)

type Handler struct {
	Exporter MasterlistExporter
	Limiter  *ExportLimiter
	Cards    *IDCardRepository
	Users    *applicant.Repository
	Uploader *storage.Uploader
}

func NewHandler(exporter MasterlistExporter, limiter *ExportLimiter, cards *IDCardRepository, users *applicant.Repository, uploader *storage.Uploader) *Handler {
	return &Handler{Exporter: exporter, Limiter: limiter, Cards: cards, Users: users, Uploader: uploader}
}

// ========== MASTERLIST EXPORT ==========

// ExportMasterlist renders the verified masterlist in ?format= (excel, csv,
// pdf). Each export spends one slot of the admin's monthly quota.
func (h *Handler) ExportMasterlist(c *gin.Context) {
	format := c.DefaultQuery("format", FormatExcel)
	if format != FormatExcel && format != FormatCSV && format != FormatPDF {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be excel, csv or pdf"})
		return
	}

	adminID := middleware.ActorIDFrom(c)
	barangay := middleware.BarangayFrom(c)
	if middleware.RoleFrom(c) == middleware.RoleSuperadmin {
		barangay = c.Query("barangay")
	}

	if err := h.Limiter.Consume(c.Request.Context(), adminID, format); err != nil {
		if errors.Is(err, ErrExportLimitReached) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "monthly export limit reached"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check export limit"})
		return
	}

	rows, err := h.Users.ListVerifiedWithProfile(barangay)
	if err != nil {
		h.Limiter.Release(c.Request.Context(), adminID, format)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch verified users"})
		return
	}

	data, filename, contentType, err := h.Exporter.Export(format, rows)
	if err != nil {
		h.Limiter.Release(c.Request.Context(), adminID, format)
		log.Printf("❌ Masterlist export failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate export"})
		return
	}

	log.Printf("📤 Masterlist exported (%s, %d rows) by admin %d", format, len(rows), adminID)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}

func (h *Handler) GetExportLimit(c *gin.Context) {
	adminID := middleware.ActorIDFrom(c)
	if raw := c.Param("adminId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid admin id"})
			return
		}
		adminID = uint(id)
	}

	status, err := h.Limiter.Status(c.Request.Context(), adminID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch export limit"})
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *Handler) ResetExportLimit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("adminId"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid admin id"})
		return
	}
	if err := h.Limiter.Reset(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset export limit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Export limit reset successfully"})
}

func (h *Handler) ResetAllExportLimits(c *gin.Context) {
	if err := h.Limiter.ResetAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset export limits"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All export limits reset successfully"})
}

// ========== ID CARDS ==========

type uploadIDCardRequest struct {
	UserID     uint   `json:"userId" binding:"required"`
	CodeID     string `json:"codeId" binding:"required"`
	FrontImage string `json:"frontImage" binding:"required"`
	BackImage  string `json:"backImage" binding:"required"`
}

// UploadIDCard stores the front/back scans of a printed card. A second upload
// for the same case returns the stored card instead of overwriting it.
func (h *Handler) UploadIDCard(c *gin.Context) {
	var req uploadIDCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId, codeId, frontImage and backImage are required"})
		return
	}

	existing, err := h.Cards.Get(req.UserID, req.CodeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check existing ID card"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusOK, gin.H{
			"message":    "ID card already exists",
			"frontUrl":   existing.FrontURL,
			"backUrl":    existing.BackURL,
			"isExisting": true,
		})
		return
	}

	if h.Uploader == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "file storage is not configured"})
		return
	}

	folder := "id_cards/" + req.CodeID
	frontURL, err := h.Uploader.Upload(c.Request.Context(), req.FrontImage, folder, "front")
	if err != nil {
		log.Printf("❌ ID card front upload failed for case %s: %v", req.CodeID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload ID card"})
		return
	}
	backURL, err := h.Uploader.Upload(c.Request.Context(), req.BackImage, folder, "back")
	if err != nil {
		log.Printf("❌ ID card back upload failed for case %s: %v", req.CodeID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload ID card"})
		return
	}

	card := &IDCard{UserID: req.UserID, CodeID: req.CodeID, FrontURL: frontURL, BackURL: backURL}
	if err := h.Cards.Create(card); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save ID card"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "ID card uploaded and saved successfully",
		"frontUrl": frontURL,
		"backUrl":  backURL,
		"isNew":    true,
	})
}

// DownloadIDCardPDF renders a printable card for one verified case.
func (h *Handler) DownloadIDCardPDF(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("userId"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	details, err := h.Users.Details(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user details"})
		return
	}
	if details.User.Status != "Verified" {
		c.JSON(http.StatusConflict, gin.H{"error": "only verified solo parents can have an ID card"})
		return
	}

	data, err := RenderIDCard(details)
	if err != nil {
		log.Printf("❌ ID card render failed for case %s: %v", details.User.CodeID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate ID card"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=solo_parent_id_"+details.User.CodeID+".pdf")
	c.Data(http.StatusOK, "application/pdf", data)
}
