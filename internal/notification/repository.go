package notification

import (
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mswdo/soloparent-backend/database"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// tx returns the transaction handle when one is supplied, else the base DB.
// Workflow transitions pass their own tx so the inbox write commits with the
// status change.
func (r *Repository) tx(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.DB
}

// InsertAcceptedUnlessUnread writes an acceptance notice only when the user
// has no unread one. Re-running a transition never stacks duplicates.
func (r *Repository) InsertAcceptedUnlessUnread(tx *gorm.DB, userID uint, message string) error {
	db := r.tx(tx)
	var count int64
	if err := db.Model(&AcceptedUser{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&AcceptedUser{UserID: userID, Message: message}).Error
}

func (r *Repository) InsertDeclinedUnlessUnread(tx *gorm.DB, userID uint, remarks string) error {
	db := r.tx(tx)
	var count int64
	if err := db.Model(&DeclinedUser{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&DeclinedUser{UserID: userID, Remarks: remarks}).Error
}

func (r *Repository) InsertTerminatedUnlessUnread(tx *gorm.DB, userID uint, message string) error {
	db := r.tx(tx)
	var count int64
	if err := db.Model(&TerminatedUser{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&TerminatedUser{UserID: userID, Message: message}).Error
}

func (r *Repository) InsertRemark(tx *gorm.DB, remark *UserRemark) error {
	return r.tx(tx).Create(remark).Error
}

func (r *Repository) InsertFollowUp(tx *gorm.DB, userID uint, message string) error {
	return r.tx(tx).Create(&FollowUpDocument{UserID: userID, Message: message}).Error
}

func (r *Repository) InsertChildRequestNotice(tx *gorm.DB, userID uint, message string) error {
	return r.tx(tx).Create(&ChildRequestNotice{UserID: userID, Message: message}).Error
}

func (r *Repository) InsertAdminNotification(tx *gorm.DB, n *AdminNotification) error {
	return r.tx(tx).Create(n).Error
}

func (r *Repository) InsertSuperadminNotification(tx *gorm.DB, n *SuperadminNotification) error {
	return r.tx(tx).Create(n).Error
}

// NotifyAdminNewVerified posts the barangay-admin notice emitted when a case
// reaches Verified.
func (r *Repository) NotifyAdminNewVerified(tx *gorm.DB, userID uint, name, barangay string) error {
	return r.InsertAdminNotification(tx, &AdminNotification{
		UserID:    userID,
		NotifType: "new_verified",
		Message:   fmt.Sprintf("%s is a new solo parent in your barangay", name),
		Barangay:  barangay,
	})
}

func (r *Repository) NotifySuperadmin(tx *gorm.DB, userID uint, notifType, message string, payload map[string]any) error {
	n := &SuperadminNotification{UserID: userID, NotifType: notifType, Message: message}
	if payload != nil {
		raw, err := jsonMarshal(payload)
		if err != nil {
			return err
		}
		n.Payload = datatypes.JSON(raw)
	}
	return r.InsertSuperadminNotification(tx, n)
}

// ===================== READ SIDE =====================

// Inbox merges the applicant-facing notice tables, newest first.
func (r *Repository) Inbox(userID uint) ([]InboxItem, error) {
	var items []InboxItem

	var accepted []AcceptedUser
	if err := r.DB.Where("user_id = ?", userID).Find(&accepted).Error; err != nil {
		return nil, err
	}
	for _, a := range accepted {
		items = append(items, InboxItem{ID: a.ID, Type: "accepted", Message: a.Message, IsRead: a.IsRead, CreatedAt: a.AcceptedAt})
	}

	var declined []DeclinedUser
	if err := r.DB.Where("user_id = ?", userID).Find(&declined).Error; err != nil {
		return nil, err
	}
	for _, d := range declined {
		items = append(items, InboxItem{ID: d.ID, Type: "declined", Message: d.Remarks, IsRead: d.IsRead, CreatedAt: d.DeclinedAt})
	}

	var terminated []TerminatedUser
	if err := r.DB.Where("user_id = ?", userID).Find(&terminated).Error; err != nil {
		return nil, err
	}
	for _, t := range terminated {
		items = append(items, InboxItem{ID: t.ID, Type: "terminated", Message: t.Message, IsRead: t.IsRead, CreatedAt: t.TerminatedAt})
	}

	var remarks []UserRemark
	if err := r.DB.Where("user_id = ?", userID).Find(&remarks).Error; err != nil {
		return nil, err
	}
	for _, rm := range remarks {
		items = append(items, InboxItem{ID: rm.ID, Type: "remarks", Message: rm.Remarks, IsRead: rm.IsRead, CreatedAt: rm.RemarksAt})
	}

	var followups []FollowUpDocument
	if err := r.DB.Where("user_id = ?", userID).Find(&followups).Error; err != nil {
		return nil, err
	}
	for _, f := range followups {
		items = append(items, InboxItem{ID: f.ID, Type: "follow_up", Message: f.Message, IsRead: f.IsRead, CreatedAt: f.AcceptedAt})
	}

	var childNotices []ChildRequestNotice
	if err := r.DB.Where("user_id = ?", userID).Find(&childNotices).Error; err != nil {
		return nil, err
	}
	for _, c := range childNotices {
		items = append(items, InboxItem{ID: c.ID, Type: "child_request", Message: c.Message, IsRead: c.IsRead, CreatedAt: c.CreatedAt})
	}

	sortInbox(items)
	return items, nil
}

func (r *Repository) ListAdminNotifications(barangay string) ([]AdminNotification, error) {
	var rows []AdminNotification
	err := r.DB.Where("barangay = ?", barangay).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *Repository) ListSuperadminNotifications() ([]SuperadminNotification, error) {
	var rows []SuperadminNotification
	err := r.DB.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// MarkRead flips a single notice to read. The table is resolved through a
// closed set, the caller never names a table directly.
func (r *Repository) MarkRead(kind string, id uint) error {
	model, ok := inboxModels[kind]
	if !ok {
		return fmt.Errorf("unknown notification kind %q", kind)
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := database.LockForUpdate(tx).Model(model).
			Where("id = ?", id).
			Update("is_read", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// MarkAllAdminRead marks every unread notice for one barangay.
func (r *Repository) MarkAllAdminRead(barangay string) error {
	return r.DB.Model(&AdminNotification{}).
		Where("barangay = ? AND is_read = ?", barangay, false).
		Update("is_read", true).Error
}

func (r *Repository) MarkAllSuperadminRead() error {
	return r.DB.Model(&SuperadminNotification{}).
		Where("is_read = ?", false).
		Update("is_read", true).Error
}

// Delete removes a single notice. Like MarkRead, the table is resolved
// through the closed kind set.
func (r *Repository) Delete(kind string, id uint) error {
	model, ok := inboxModels[kind]
	if !ok {
		return fmt.Errorf("unknown notification kind %q", kind)
	}
	res := r.DB.Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var inboxModels = map[string]any{
	"accepted":      &AcceptedUser{},
	"declined":      &DeclinedUser{},
	"terminated":    &TerminatedUser{},
	"remarks":       &UserRemark{},
	"follow_up":     &FollowUpDocument{},
	"child_request": &ChildRequestNotice{},
	"admin":         &AdminNotification{},
	"superadmin":    &SuperadminNotification{},
}
