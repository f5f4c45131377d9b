package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog represents the audit_logs table. Every workflow transition,
// login attempt, and export writes one row.
type AuditLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorType string         `gorm:"size:20;not null;index" json:"actor_type"` // user/admin/superadmin/system
	ActorID   *uint          `gorm:"index" json:"actor_id"`                    // nullable (e.g. failed login)
	Action    string         `gorm:"size:100;not null;index" json:"action"`
	CaseCode  string         `gorm:"column:code_id;size:64;index" json:"code_id"` // case the action touched, if any
	Details   datatypes.JSON `gorm:"type:json" json:"details"`
	IPAddress string         `gorm:"size:45" json:"ip_address"`
	Status    string         `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	ActorType string     `json:"actor_type"`
	ActorID   *uint      `json:"actor_id"`
	Action    string     `json:"action"`
	CaseCode  string     `json:"code_id"`
	Status    string     `json:"status"`
	FromDate  *time.Time `json:"from_date"`
	ToDate    *time.Time `json:"to_date"`
	Page      int        `json:"page"`
	Limit     int        `json:"limit"`
}

// PaginatedAuditLogs represents a paginated audit log response
type PaginatedAuditLogs struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
