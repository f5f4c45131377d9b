package childrequest

import "gorm.io/gorm"

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(req *ChildRequest) error {
	return r.DB.Create(req).Error
}

func (r *Repository) GetByID(id uint) (*ChildRequest, error) {
	var req ChildRequest
	if err := r.DB.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListForBarangay returns requests awaiting barangay screening, scoped by
// the admin's barangay through the users table.
func (r *Repository) ListForBarangay(barangay string) ([]ChildRequest, error) {
	var reqs []ChildRequest
	err := r.DB.Table("child_requests cr").
		Joins("JOIN users u ON u.id = cr.user_id").
		Where("cr.status = ? AND u.barangay = ?", StatusPendingBarangay, barangay).
		Order("cr.created_at ASC").
		Select("cr.*").
		Scan(&reqs).Error
	return reqs, err
}

func (r *Repository) ListForSuperadmin() ([]ChildRequest, error) {
	var reqs []ChildRequest
	err := r.DB.Where("status = ?", StatusPendingMSWDO).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *Repository) ListForUser(userID uint) ([]ChildRequest, error) {
	var reqs []ChildRequest
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *Repository) UpdateStatus(tx *gorm.DB, id uint, status string) error {
	db := r.DB
	if tx != nil {
		db = tx
	}
	res := db.Model(&ChildRequest{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a resolved request.
func (r *Repository) Delete(tx *gorm.DB, id uint) error {
	db := r.DB
	if tx != nil {
		db = tx
	}
	return db.Delete(&ChildRequest{}, id).Error
}
