package event

import "time"

const (
	StatusActive   = "Active"
	StatusArchived = "Archived"
)

// Event is a scheduled municipal activity. Dates and times are stored the
// way the frontend sends them: "2006-01-02" and "15:04".
type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	StartDate   string    `gorm:"column:startDate;size:10;not null;index" json:"startDate"`
	StartTime   string    `gorm:"column:startTime;size:5;not null" json:"startTime"`
	EndTime     string    `gorm:"column:endTime;size:5;not null" json:"endTime"`
	Location    string    `gorm:"size:255" json:"location"`
	Status      string    `gorm:"size:20;default:'Active';index" json:"status"`
	Visibility  string    `gorm:"size:20;default:'everyone'" json:"visibility"`
	Barangay    string    `gorm:"size:100" json:"barangay"`
	Image       string    `gorm:"size:512" json:"image"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Event) TableName() string { return "events" }

// Attendee records one case's attendance at an event.
type Attendee struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	EventID  uint      `gorm:"not null;index:idx_attendee_event_code,unique" json:"event_id"`
	CodeID   string    `gorm:"column:code_id;size:64;not null;index:idx_attendee_event_code,unique" json:"code_id"`
	Name     string    `gorm:"size:100" json:"name"`
	Email    string    `gorm:"size:255" json:"email"`
	AttendAt time.Time `gorm:"autoCreateTime" json:"attend_at"`
}

func (Attendee) TableName() string { return "attendees" }

// Rating is one user's 1-5 score. Re-rating replaces the previous score.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;index:idx_rating_event_user,unique" json:"event_id"`
	UserID    uint      `gorm:"not null;index:idx_rating_event_user,unique" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Rating) TableName() string { return "event_ratings" }

// Read marks an event as seen by a user.
type Read struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	EventID uint      `gorm:"not null;index:idx_read_event_user,unique" json:"event_id"`
	UserID  uint      `gorm:"not null;index:idx_read_event_user,unique" json:"user_id"`
	ReadAt  time.Time `gorm:"autoCreateTime" json:"read_at"`
}

func (Read) TableName() string { return "event_reads" }

// EventWithRead is an event row joined with the caller's read flag.
type EventWithRead struct {
	Event
	IsRead bool `json:"is_read"`
}
