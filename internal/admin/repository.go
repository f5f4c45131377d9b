package admin

import (
	"errors"

	"gorm.io/gorm"
)

// ErrBarangayTaken means a barangay already has its admin account.
var ErrBarangayTaken = errors.New("barangay already has an admin account")

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Create inserts an admin after checking the one-admin-per-barangay rule.
// The pre-check and insert run in one transaction; the unique index backs
// it up under races.
func (r *Repository) Create(a *Admin) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Admin{}).Where("barangay = ?", a.Barangay).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrBarangayTaken
		}
		return tx.Create(a).Error
	})
}

func (r *Repository) GetByID(id uint) (*Admin, error) {
	var a Admin
	if err := r.DB.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) GetByEmail(email string) (*Admin, error) {
	var a Admin
	if err := r.DB.Where("email = ?", email).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) GetByBarangay(barangay string) (*Admin, error) {
	var a Admin
	if err := r.DB.Where("barangay = ?", barangay).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) List() ([]Admin, error) {
	var admins []Admin
	err := r.DB.Order("barangay ASC").Find(&admins).Error
	return admins, err
}

func (r *Repository) UpdatePassword(id uint, hashed string) error {
	return r.DB.Model(&Admin{}).Where("id = ?", id).Update("password", hashed).Error
}

func (r *Repository) Delete(id uint) error {
	res := r.DB.Delete(&Admin{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) GetSuperadminByEmail(email string) (*Superadmin, error) {
	var sa Superadmin
	if err := r.DB.Where("email = ?", email).First(&sa).Error; err != nil {
		return nil, err
	}
	return &sa, nil
}

func (r *Repository) GetSuperadminByID(id uint) (*Superadmin, error) {
	var sa Superadmin
	if err := r.DB.First(&sa, id).Error; err != nil {
		return nil, err
	}
	return &sa, nil
}

func (r *Repository) UpdateSuperadminPassword(id uint, hashed string) error {
	return r.DB.Model(&Superadmin{}).Where("id = ?", id).Update("password", hashed).Error
}
