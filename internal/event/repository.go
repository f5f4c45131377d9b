package event

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(e *Event) error {
	return r.DB.Create(e).Error
}

func (r *Repository) GetByID(id uint) (*Event, error) {
	var e Event
	if err := r.DB.First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) Update(e *Event) error {
	return r.DB.Save(e).Error
}

// ListOnDate returns the active events on one date ordered by start time,
// the order the conflict check depends on.
func (r *Repository) ListOnDate(date string) ([]Event, error) {
	var events []Event
	err := r.DB.Where("startDate = ? AND status <> ?", date, StatusArchived).
		Order("startTime ASC, id ASC").
		Find(&events).Error
	return events, err
}

// ListForUser returns active events with the caller's read flag attached.
func (r *Repository) ListForUser(userID uint) ([]EventWithRead, error) {
	var rows []EventWithRead
	err := r.DB.Table("events e").
		Select("e.*, er.id IS NOT NULL AS is_read").
		Joins("LEFT JOIN event_reads er ON e.id = er.event_id AND er.user_id = ?", userID).
		Where("e.status <> ?", StatusArchived).
		Order("e.startDate DESC, e.startTime ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) ListAll(includeArchived bool) ([]Event, error) {
	var events []Event
	q := r.DB.Order("startDate DESC, startTime ASC")
	if !includeArchived {
		q = q.Where("status <> ?", StatusArchived)
	}
	err := q.Find(&events).Error
	return events, err
}

// Archive retires an event without deleting its attendance history.
func (r *Repository) Archive(id uint) error {
	res := r.DB.Model(&Event{}).Where("id = ?", id).Update("status", StatusArchived)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkRead records that a user has seen an event. Repeat calls refresh the
// timestamp instead of failing on the unique key.
func (r *Repository) MarkRead(eventID, userID uint) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"read_at": gorm.Expr("CURRENT_TIMESTAMP")}),
	}).Create(&Read{EventID: eventID, UserID: userID}).Error
}

// ErrAlreadyAttending means the case is already on the attendance list.
var ErrAlreadyAttending = errors.New("already marked as attending")

// AddAttendee registers attendance once per (event, case).
func (r *Repository) AddAttendee(a *Attendee) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Attendee{}).
			Where("event_id = ? AND code_id = ?", a.EventID, a.CodeID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyAttending
		}
		return tx.Create(a).Error
	})
}

func (r *Repository) ListAttendees(eventID uint) ([]Attendee, error) {
	var attendees []Attendee
	err := r.DB.Where("event_id = ?", eventID).Order("attend_at ASC").Find(&attendees).Error
	return attendees, err
}

// Rate stores or replaces a user's rating for an event.
func (r *Repository) Rate(eventID, userID uint, rating int) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"rating":     rating,
			"created_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&Rating{EventID: eventID, UserID: userID, Rating: rating}).Error
}

func (r *Repository) ListRatings(eventID uint) ([]Rating, error) {
	var ratings []Rating
	err := r.DB.Where("event_id = ?", eventID).Find(&ratings).Error
	return ratings, err
}
