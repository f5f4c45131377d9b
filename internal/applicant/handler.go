package applicant

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mswdo/soloparent-backend/internal/notification"
	"github.com/mswdo/soloparent-backend/middleware"
)

type Handler struct {
	Svc    *Service
	Repo   *Repository
	Notifs *notification.Repository
}

func NewHandler(svc *Service, repo *Repository, notifs *notification.Repository) *Handler {
	return &Handler{Svc: svc, Repo: repo, Notifs: notifs}
}

func userIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("userId"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return uint(id), true
}

// scopedBarangay resolves the barangay filter for listing endpoints: admins
// are pinned to their own barangay, superadmins may pass ?barangay= or see all.
func scopedBarangay(c *gin.Context) string {
	if middleware.RoleFrom(c) == middleware.RoleAdmin {
		return middleware.BarangayFrom(c)
	}
	return c.Query("barangay")
}

// ========== PROFILE ==========

func (h *Handler) SubmitProfile(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	var in ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile payload"})
		return
	}

	details, err := h.Svc.SubmitProfile(id, in)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, ErrProfileIncomplete):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile saved successfully", "details": details})
}

func (h *Handler) GetDetails(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	details, err := h.Repo.Details(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user details"})
		return
	}
	c.JSON(http.StatusOK, details)
}

// UpdateInformation applies a partial step-1 edit; only the provided fields
// change.
func (h *Handler) UpdateInformation(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	u, err := h.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user"})
		return
	}

	allowed := map[string]string{
		"first_name":     "first_name",
		"middle_name":    "middle_name",
		"last_name":      "last_name",
		"suffix":         "suffix",
		"gender":         "gender",
		"date_of_birth":  "date_of_birth",
		"place_of_birth": "place_of_birth",
		"religion":       "religion",
		"civil_status":   "civil_status",
		"occupation":     "occupation",
		"monthly_income": "monthly_income",
		"contact_number": "contact_number",
	}
	updates := map[string]interface{}{}
	for key, column := range allowed {
		if v, present := req[key]; present && v != nil {
			updates[column] = v
		}
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no updatable fields provided"})
		return
	}

	if err := h.Repo.UpdateIdentifyingFields(u.CodeID, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user information"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User information updated successfully"})
}

func (h *Handler) UpdateProfilePhotos(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	var req struct {
		ProfilePic           string `json:"profilePic"`
		FaceRecognitionPhoto string `json:"faceRecognitionPhoto"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if req.ProfilePic == "" && req.FaceRecognitionPhoto == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	if err := h.Svc.UpdateProfilePhotos(c.Request.Context(), id, req.ProfilePic, req.FaceRecognitionPhoto); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User profile updated successfully"})
}

func (h *Handler) DeleteFamilyMember(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	memberID, err := strconv.Atoi(c.Param("memberId"))
	if err != nil || memberID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid family member id"})
		return
	}

	u, err := h.Repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err := h.Repo.DeleteFamilyMember(uint(memberID), u.CodeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "family member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete family member"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Family member removed"})
}

// ========== LISTINGS ==========

// ListPending returns the pending queue. ?approval=approved narrows it to
// cases the barangay already pre-approved, ?approval=unapproved to the rest.
func (h *Handler) ListPending(c *gin.Context) {
	var (
		users []User
		err   error
	)
	switch c.Query("approval") {
	case "approved":
		users, err = h.Repo.ListPendingByApproval(scopedBarangay(c), true)
	case "unapproved":
		users, err = h.Repo.ListPendingByApproval(scopedBarangay(c), false)
	default:
		users, err = h.Repo.ListByStatus(scopedBarangay(c), "Pending", "Incomplete", "Created")
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch pending users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UpdateApproval records the barangay admin's pre-approval verdict on an
// application and tells the MSWDO when one is ready for document review.
func (h *Handler) UpdateApproval(c *gin.Context) {
	var req struct {
		UserID   uint   `json:"userId" binding:"required"`
		Approval string `json:"approval" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and approval are required"})
		return
	}
	if req.Approval != ApprovalApproved && req.Approval != ApprovalDisapproved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approval must be Approved or Disapproved"})
		return
	}

	u, err := h.Repo.GetByID(req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user"})
		return
	}

	if err := h.Repo.UpdateApproval(h.Repo.DB, u.CodeID, req.Approval); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update approval"})
		return
	}

	// Notice failure never undoes the verdict.
	if req.Approval == ApprovalApproved && h.Notifs != nil {
		msg := fmt.Sprintf("Admin from %s approved an application.", u.Barangay)
		if err := h.Notifs.NotifySuperadmin(nil, u.ID, "admin_approved", msg, nil); err != nil {
			log.Printf("⚠️ Superadmin approval notice failed for case %s: %v", u.CodeID, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Approval updated"})
}

func (h *Handler) ListVerified(c *gin.Context) {
	rows, err := h.Repo.ListVerifiedWithProfile(scopedBarangay(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch verified users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": rows})
}

func (h *Handler) ListRenewal(c *gin.Context) {
	users, err := h.Repo.ListByStatus(scopedBarangay(c), "Renewal")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch renewal users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) ListTerminated(c *gin.Context) {
	users, err := h.Repo.ListByStatus(scopedBarangay(c), "Terminated")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch terminated users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) ListDeclined(c *gin.Context) {
	users, err := h.Repo.ListByStatus(scopedBarangay(c), "Declined")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch declined users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) ListRemarks(c *gin.Context) {
	users, err := h.Repo.ListByStatus(scopedBarangay(c), "Pending Remarks")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users with remarks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ========== BENEFICIARIES / CLASSIFICATION ==========

func (h *Handler) ListBeneficiaries(c *gin.Context) {
	users, err := h.Repo.ListBeneficiaries(scopedBarangay(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch beneficiaries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) UpdateBeneficiaryStatus(c *gin.Context) {
	var req struct {
		UserID            uint   `json:"userId" binding:"required"`
		BeneficiaryStatus string `json:"beneficiaryStatus" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and beneficiaryStatus are required"})
		return
	}
	if req.BeneficiaryStatus != "beneficiary" && req.BeneficiaryStatus != "non-beneficiary" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "beneficiaryStatus must be beneficiary or non-beneficiary"})
		return
	}

	if err := h.Repo.UpdateBeneficiaryStatus(req.UserID, req.BeneficiaryStatus); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update beneficiary status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Beneficiary status updated successfully"})
}

func (h *Handler) RemoveBeneficiary(c *gin.Context) {
	var req struct {
		UserID uint `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	if err := h.Repo.UpdateBeneficiaryStatus(req.UserID, "non-beneficiary"); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove beneficiary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Beneficiary removed successfully"})
}

func (h *Handler) UpdateClassification(c *gin.Context) {
	var req struct {
		CodeID         string `json:"codeId" binding:"required"`
		Classification string `json:"classification" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "codeId and classification are required"})
		return
	}

	if err := h.Repo.UpdateClassification(req.CodeID, req.Classification); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update classification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Classification updated successfully"})
}
