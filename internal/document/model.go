package document

import (
	"time"
)

// Approval states for an uploaded document.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// Document is the shared row shape of every per-type document table
// (psa_documents, itr_documents, ...). The table is selected through the
// registry at query time.
type Document struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CodeID          string    `gorm:"column:code_id;size:64;not null;index" json:"code_id"`
	FileName        string    `gorm:"size:255;not null" json:"file_name"`
	DisplayName     string    `gorm:"size:255" json:"display_name"`
	Status          string    `gorm:"size:20;default:'Pending'" json:"status"`
	RejectionReason *string   `gorm:"type:text" json:"rejection_reason,omitempty"`
	UploadedAt      time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

// UpsertResult reports what the upsert did with the natural key.
type UpsertResult struct {
	Action string `json:"action"` // "inserted" or "updated"
	ID     uint   `json:"id"`
}

// StatusReport is one entry of a per-case document checklist.
type StatusReport struct {
	Type        DocType   `json:"document_type"`
	DisplayName string    `json:"display_name"`
	Submitted   bool      `json:"submitted"`
	Document    *Document `json:"document,omitempty"`
}
