package announcement

import (
	"errors"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(a *Announcement) error {
	return r.db.Create(a).Error
}

func (r *Repository) GetByID(id uint) (*Announcement, error) {
	var a Announcement
	if err := r.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) UpdateImageURL(id uint, url string) error {
	return r.db.Model(&Announcement{}).Where("id = ?", id).
		Update("image_url", url).Error
}

// ListActive returns announcements already published whose end date has not
// passed, newest first.
func (r *Repository) ListActive() ([]Announcement, error) {
	var out []Announcement
	err := r.db.
		Where("date <= CURRENT_TIMESTAMP AND (end_date IS NULL OR end_date > CURRENT_TIMESTAMP)").
		Order("date DESC").
		Find(&out).Error
	return out, err
}

func (r *Repository) ListAll() ([]Announcement, error) {
	var out []Announcement
	err := r.db.Order("date DESC").Find(&out).Error
	return out, err
}

// Update applies a partial edit. Existence is the caller's concern; a no-op
// edit reports zero affected rows on MySQL and must not read as missing.
func (r *Repository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&Announcement{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) Delete(id uint) error {
	res := r.db.Delete(&Announcement{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("announcement not found")
	}
	return nil
}
