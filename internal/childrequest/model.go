package childrequest

import "time"

const (
	// StatusPendingBarangay means the request waits for barangay screening.
	StatusPendingBarangay = "pending_barangay"
	// StatusPendingMSWDO means the barangay endorsed it to the MSWDO.
	StatusPendingMSWDO = "pending_mswdo"
)

// ChildRequest asks to add a child to a verified case's family record. It is
// screened twice: the barangay admin endorses, the MSWDO decides.
type ChildRequest struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CodeID         string    `gorm:"column:code_id;size:64;not null;index" json:"code_id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	ChildName      string    `gorm:"size:100;not null" json:"child_name"`
	Age            int       `json:"age"`
	Birthdate      string    `gorm:"size:10" json:"birthdate"`
	EducAttainment string    `gorm:"size:100" json:"educ_attainment"`
	Status         string    `gorm:"size:30;not null;default:'pending_barangay';index" json:"status"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ChildRequest) TableName() string { return "child_requests" }
