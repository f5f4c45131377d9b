package notification

import (
	"time"

	"gorm.io/datatypes"
)

// Inbox rows are append-only: a workflow transition inserts one, the owner
// marks it read. Nothing ever updates the message bodies.

// AcceptedUser is the applicant inbox row for acceptance / renewal /
// reinstatement notices.
type AcceptedUser struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	AcceptedAt time.Time `gorm:"autoCreateTime" json:"accepted_at"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
}

func (AcceptedUser) TableName() string { return "accepted_users" }

// DeclinedUser is the applicant inbox row for a declined application.
type DeclinedUser struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Remarks    string    `gorm:"type:text" json:"remarks"`
	DeclinedAt time.Time `gorm:"autoCreateTime" json:"declined_at"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
}

func (DeclinedUser) TableName() string { return "declined_users" }

// TerminatedUser is the applicant inbox row for a terminated case.
type TerminatedUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Message      string    `gorm:"type:text;not null" json:"message"`
	TerminatedAt time.Time `gorm:"autoCreateTime" json:"terminated_at"`
	IsRead       bool      `gorm:"default:false" json:"is_read"`
}

func (TerminatedUser) TableName() string { return "terminated_users" }

// UserRemark records an investigation remark filed against a case.
type UserRemark struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CodeID       string    `gorm:"column:code_id;size:64;not null;index" json:"code_id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	AdminID      *uint     `json:"admin_id,omitempty"`
	SuperadminID *uint     `json:"superadmin_id,omitempty"`
	Remarks      string    `gorm:"type:text;not null" json:"remarks"`
	RemarksAt    time.Time `gorm:"autoCreateTime" json:"remarks_at"`
	IsRead       bool      `gorm:"default:false" json:"is_read"`
}

func (UserRemark) TableName() string { return "user_remarks" }

// FollowUpDocument is the applicant inbox row for per-document decisions.
type FollowUpDocument struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	AcceptedAt time.Time `gorm:"autoCreateTime" json:"accepted_at"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
}

func (FollowUpDocument) TableName() string { return "follow_up_documents" }

// ChildRequestNotice is the applicant inbox row for child-request decisions.
type ChildRequestNotice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Message   string    `gorm:"column:message_accepted;type:text;not null" json:"message"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ChildRequestNotice) TableName() string { return "user_childrequest" }

// AdminNotification is the barangay-admin inbox; rows are scoped by barangay.
type AdminNotification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	NotifType string    `gorm:"column:notif_type;size:50;not null" json:"notif_type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Barangay  string    `gorm:"size:100;index" json:"barangay"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AdminNotification) TableName() string { return "adminnotifications" }

// SuperadminNotification is the MSWDO-wide inbox. Payload carries freeform
// context (barangay, request ids) for the dashboard.
type SuperadminNotification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	NotifType string         `gorm:"column:notif_type;size:50;not null" json:"notif_type"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Payload   datatypes.JSON `gorm:"type:json" json:"payload,omitempty"`
	IsRead    bool           `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (SuperadminNotification) TableName() string { return "superadminnotifications" }

// InboxItem is the merged applicant-inbox view returned to the client.
type InboxItem struct {
	ID        uint      `json:"id"`
	Type      string    `json:"type"` // accepted, declined, terminated, remarks
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
