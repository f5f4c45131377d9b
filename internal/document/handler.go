package document

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mswdo/soloparent-backend/internal/storage"
)

// Handler serves document upload and checklist endpoints. Recompute is
// injected by the router so an upload can re-derive the case status without
// this package knowing about the workflow service.
type Handler struct {
	Repo      *Repository
	Uploader  *storage.Uploader
	Recompute func(ctx context.Context, codeID string) error
}

func NewHandler(repo *Repository, uploader *storage.Uploader, recompute func(ctx context.Context, codeID string) error) *Handler {
	return &Handler{Repo: repo, Uploader: uploader, Recompute: recompute}
}

type uploadRequest struct {
	CodeID       string `json:"codeId" binding:"required"`
	DocumentType string `json:"documentType" binding:"required"`
	FileBase64   string `json:"fileBase64"`
	FileName     string `json:"fileName"`
	DisplayName  string `json:"displayName"`
}

// Upload stores one document for a case. A resubmission replaces the earlier
// row and resets its status to Pending, which demotes an already verified
// case back to Incomplete until the new file is reviewed.
func (h *Handler) Upload(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "codeId and documentType are required"})
		return
	}

	dt, meta, err := Lookup(req.DocumentType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FileBase64 == "" && req.FileName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fileBase64 or fileName is required"})
		return
	}

	fileName := req.FileName
	if req.FileBase64 != "" {
		if h.Uploader == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "file storage is not configured"})
			return
		}
		url, err := h.Uploader.Upload(c.Request.Context(), req.FileBase64, "documents/"+string(dt), req.CodeID)
		if err != nil {
			if errors.Is(err, storage.ErrNotConfigured) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "file storage is not configured"})
				return
			}
			log.Printf("❌ Document upload to storage failed for case %s: %v", req.CodeID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store document"})
			return
		}
		fileName = url
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = meta.DisplayName
	}

	result, err := h.Repo.Upsert(dt, req.CodeID, fileName, displayName, StatusPending)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save document"})
		return
	}

	if h.Recompute != nil {
		if err := h.Recompute(c.Request.Context(), req.CodeID); err != nil {
			log.Printf("⚠️ Status recompute after upload failed for case %s: %v", req.CodeID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Document " + result.Action,
		"action":   result.Action,
		"document": gin.H{"id": result.ID, "document_type": dt, "file_name": fileName, "status": StatusPending},
	})
}

// GetChecklist returns the submission state of every document type for a case.
func (h *Handler) GetChecklist(c *gin.Context) {
	codeID := strings.TrimSpace(c.Query("code_id"))
	if codeID == "" {
		codeID = strings.TrimSpace(c.Param("codeId"))
	}
	if codeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code_id is required"})
		return
	}

	checklist, err := h.Repo.Checklist(codeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch documents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code_id": codeID, "documents": checklist})
}

// Delete removes a case's document of one type and recomputes the status.
func (h *Handler) Delete(c *gin.Context) {
	var req struct {
		CodeID       string `json:"codeId" binding:"required"`
		DocumentType string `json:"documentType" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "codeId and documentType are required"})
		return
	}

	dt, _, err := Lookup(req.DocumentType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deleted, err := h.Repo.Delete(dt, req.CodeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete document"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}

	if h.Recompute != nil {
		if err := h.Recompute(c.Request.Context(), req.CodeID); err != nil {
			log.Printf("⚠️ Status recompute after delete failed for case %s: %v", req.CodeID, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}
