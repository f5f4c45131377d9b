package applicant

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mswdo/soloparent-backend/database"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// ========== CASE CORE ==========

func (r *Repository) Create(u *User) error {
	return r.DB.Create(u).Error
}

func (r *Repository) GetByID(id uint) (*User, error) {
	var u User
	if err := r.DB.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByEmail(email string) (*User, error) {
	var u User
	if err := r.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDForUpdate loads a case inside tx with the row locked, serializing
// concurrent status updates on the same case.
func (r *Repository) GetByIDForUpdate(tx *gorm.DB, id uint) (*User, error) {
	var u User
	err := database.LockForUpdate(tx).First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByCodeIDForUpdate is GetByIDForUpdate keyed by the natural key.
func (r *Repository) GetByCodeIDForUpdate(tx *gorm.DB, codeID string) (*User, error) {
	var u User
	err := database.LockForUpdate(tx).
		Where("code_id = ?", codeID).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) UpdateStatus(tx *gorm.DB, userID uint, status string) error {
	res := tx.Model(&User{}).Where("id = ?", userID).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateApproval records the barangay admin's pre-approval verdict.
func (r *Repository) UpdateApproval(tx *gorm.DB, codeID, approval string) error {
	res := tx.Model(&User{}).Where("code_id = ?", codeID).Update("approval", approval)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) UpdateBeneficiaryStatus(userID uint, status string) error {
	res := r.DB.Model(&User{}).Where("id = ?", userID).Update("beneficiary_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) UpdateClassification(codeID, classification string) error {
	return r.DB.Model(&User{}).Where("code_id = ?", codeID).Update("classification", classification).Error
}

func (r *Repository) UpdateProfilePhotos(userID uint, profilePic, facePhoto string) error {
	updates := map[string]interface{}{}
	if profilePic != "" {
		updates["profile_pic"] = profilePic
	}
	if facePhoto != "" {
		updates["face_recognition_photo"] = facePhoto
	}
	if len(updates) == 0 {
		return nil
	}
	return r.DB.Model(&User{}).Where("id = ?", userID).Updates(updates).Error
}

// ========== PROFILE STEPS ==========

func (r *Repository) GetIdentifying(codeID string) (*IdentifyingInformation, error) {
	var info IdentifyingInformation
	err := r.DB.Where("code_id = ?", codeID).First(&info).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// CivilStatus returns the step-1 civil status for a case; empty when the
// profile has not been filed.
func (r *Repository) CivilStatus(codeID string) (string, error) {
	info, err := r.GetIdentifying(codeID)
	if err != nil {
		return "", err
	}
	if info == nil {
		return "", nil
	}
	return info.CivilStatus, nil
}

func (r *Repository) SaveIdentifying(info *IdentifyingInformation) error {
	var existing IdentifyingInformation
	err := r.DB.Where("code_id = ?", info.CodeID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(info).Error
	}
	if err != nil {
		return err
	}
	info.ID = existing.ID
	return r.DB.Save(info).Error
}

// UpdateIdentifyingFields applies a partial step-1 update; only the columns
// present in updates are touched.
func (r *Repository) UpdateIdentifyingFields(codeID string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.DB.Model(&IdentifyingInformation{}).
		Where("code_id = ?", codeID).
		Updates(updates).Error
}

func (r *Repository) SaveClassification(cls *Classification) error {
	var existing Classification
	err := r.DB.Where("code_id = ?", cls.CodeID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(cls).Error
	}
	if err != nil {
		return err
	}
	cls.ID = existing.ID
	return r.DB.Save(cls).Error
}

func (r *Repository) SaveNeedsProblems(np *NeedsProblems) error {
	var existing NeedsProblems
	err := r.DB.Where("code_id = ?", np.CodeID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(np).Error
	}
	if err != nil {
		return err
	}
	np.ID = existing.ID
	return r.DB.Save(np).Error
}

func (r *Repository) SaveEmergencyContact(ec *EmergencyContact) error {
	var existing EmergencyContact
	err := r.DB.Where("code_id = ?", ec.CodeID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(ec).Error
	}
	if err != nil {
		return err
	}
	ec.ID = existing.ID
	return r.DB.Save(ec).Error
}

func (r *Repository) ListFamilyMembers(codeID string) ([]FamilyMember, error) {
	var members []FamilyMember
	err := r.DB.Where("code_id = ?", codeID).Order("id ASC").Find(&members).Error
	return members, err
}

func (r *Repository) AddFamilyMember(tx *gorm.DB, m *FamilyMember) error {
	return tx.Create(m).Error
}

func (r *Repository) DeleteFamilyMember(id uint, codeID string) error {
	res := r.DB.Where("id = ? AND code_id = ?", id, codeID).Delete(&FamilyMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceFamilyMembers swaps the step-2 rows of a case in one transaction.
func (r *Repository) ReplaceFamilyMembers(codeID string, members []FamilyMember) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("code_id = ?", codeID).Delete(&FamilyMember{}).Error; err != nil {
			return err
		}
		for i := range members {
			members[i].ID = 0
			members[i].CodeID = codeID
			if err := tx.Create(&members[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Details loads the full case aggregate used by profile and review screens.
func (r *Repository) Details(userID uint) (*CaseDetails, error) {
	u, err := r.GetByID(userID)
	if err != nil {
		return nil, err
	}

	details := &CaseDetails{User: *u}

	if details.Identifying, err = r.GetIdentifying(u.CodeID); err != nil {
		return nil, err
	}
	if details.FamilyMembers, err = r.ListFamilyMembers(u.CodeID); err != nil {
		return nil, err
	}

	var cls Classification
	if err := r.DB.Where("code_id = ?", u.CodeID).First(&cls).Error; err == nil {
		details.Classification = &cls
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var needs NeedsProblems
	if err := r.DB.Where("code_id = ?", u.CodeID).First(&needs).Error; err == nil {
		details.NeedsProblems = &needs
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var emergency EmergencyContact
	if err := r.DB.Where("code_id = ?", u.CodeID).First(&emergency).Error; err == nil {
		details.EmergencyContact = &emergency
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var remarks string
	err = r.DB.Table("user_remarks").
		Select("remarks").
		Where("user_id = ?", userID).
		Order("remarks_at DESC").
		Limit(1).
		Scan(&remarks).Error
	if err == nil && remarks != "" {
		details.LatestRemarks = &remarks
	}

	return details, nil
}

// ========== LISTINGS ==========

// ListByStatus returns cases with one of the given statuses, newest first,
// optionally scoped to a barangay (empty string means all).
func (r *Repository) ListByStatus(barangay string, statuses ...string) ([]User, error) {
	q := r.DB.Where("status IN ?", statuses)
	if barangay != "" {
		q = q.Where("barangay = ?", barangay)
	}
	var users []User
	err := q.Order("created_at DESC").Find(&users).Error
	return users, err
}

// ListPendingByApproval splits the pending queue on the barangay
// pre-approval flag: cases the admin marked Approved wait for the MSWDO,
// everything else is still the barangay's to review.
func (r *Repository) ListPendingByApproval(barangay string, approved bool) ([]User, error) {
	q := r.DB.Where("status IN ?", []string{"Pending", "Incomplete", "Created"})
	if approved {
		q = q.Where("approval = ?", ApprovalApproved)
	} else {
		q = q.Where("approval IS NULL OR approval <> ?", ApprovalApproved)
	}
	if barangay != "" {
		q = q.Where("barangay = ?", barangay)
	}
	var users []User
	err := q.Order("created_at DESC").Find(&users).Error
	return users, err
}

// ListVerifiedWithProfile joins verified cases with their step-1 profile for
// listing and export screens.
type VerifiedRow struct {
	UserID         uint   `json:"user_id"`
	CodeID         string `json:"code_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Barangay       string `json:"barangay"`
	CivilStatus    string `json:"civil_status"`
	Gender         string `json:"gender"`
	Occupation     string `json:"occupation"`
	MonthlyIncome  float64 `json:"monthly_income"`
	BeneficiaryStatus string `json:"beneficiary_status"`
}

// ListBeneficiaries returns verified cases currently marked as beneficiaries.
func (r *Repository) ListBeneficiaries(barangay string) ([]User, error) {
	q := r.DB.Where("status = ? AND beneficiary_status = ?", "Verified", "beneficiary")
	if barangay != "" {
		q = q.Where("barangay = ?", barangay)
	}
	var users []User
	err := q.Order("name ASC").Find(&users).Error
	return users, err
}

func (r *Repository) ListVerifiedWithProfile(barangay string) ([]VerifiedRow, error) {
	q := r.DB.Table("users u").
		Select(`u.id AS user_id, u.code_id, u.name, u.email, u.barangay,
			s1.civil_status, s1.gender, s1.occupation, s1.monthly_income,
			u.beneficiary_status`).
		Joins("JOIN step1_identifying_information s1 ON s1.code_id = u.code_id").
		Where("u.status = ?", "Verified")
	if barangay != "" {
		q = q.Where("u.barangay = ?", barangay)
	}
	var rows []VerifiedRow
	err := q.Order("u.name ASC").Scan(&rows).Error
	return rows, err
}
