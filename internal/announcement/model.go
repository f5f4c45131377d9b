package announcement

import "time"

// Announcement is a public bulletin shown on the resident dashboard. Date is
// the publish time; EndDate, when set, is the moment it stops showing.
type Announcement struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	ImageURL    string     `gorm:"column:image_url;size:500" json:"image_url"`
	Link        string     `gorm:"size:500" json:"link"`
	Date        time.Time  `gorm:"column:date;autoCreateTime" json:"date"`
	EndDate     *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
}

func (Announcement) TableName() string {
	return "announcements"
}
