package reports

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"

	"github.com/mswdo/soloparent-backend/internal/applicant"
)

// IDCard is one uploaded physical ID-card scan pair for a case.
type IDCard struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	CodeID     string    `gorm:"column:code_id;size:64;not null;index" json:"code_id"`
	FrontURL   string    `gorm:"column:front_url;size:500;not null" json:"front_url"`
	BackURL    string    `gorm:"column:back_url;size:500;not null" json:"back_url"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (IDCard) TableName() string {
	return "user_id_cards"
}

type IDCardRepository struct {
	db *gorm.DB
}

func NewIDCardRepository(db *gorm.DB) *IDCardRepository {
	return &IDCardRepository{db: db}
}

// Get returns the stored card for a case, or nil when none has been uploaded.
func (r *IDCardRepository) Get(userID uint, codeID string) (*IDCard, error) {
	var card IDCard
	err := r.db.Where("user_id = ? AND code_id = ?", userID, codeID).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *IDCardRepository) Create(card *IDCard) error {
	return r.db.Create(card).Error
}

// RenderIDCard draws the printable solo-parent ID card for one case.
func RenderIDCard(details *applicant.CaseDetails) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A5", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Republic of the Philippines", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "MSWDO Solo Parent Identification Card", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	fullName := details.User.Name
	civilStatus := ""
	contact := ""
	if details.Identifying != nil {
		fullName = fmt.Sprintf("%s %s %s", details.Identifying.FirstName, details.Identifying.MiddleName, details.Identifying.LastName)
		civilStatus = details.Identifying.CivilStatus
		contact = details.Identifying.ContactNumber
	}

	validUntil := "N/A"
	if details.User.ValidUntil != nil {
		validUntil = details.User.ValidUntil.Format("January 2, 2006")
	}

	fields := [][2]string{
		{"Case Code", details.User.CodeID},
		{"Name", fullName},
		{"Barangay", details.User.Barangay},
		{"Civil Status", civilStatus},
		{"Contact Number", contact},
		{"Dependents", fmt.Sprintf("%d", len(details.FamilyMembers))},
		{"Valid Until", validUntil},
	}

	pdf.SetFont("Arial", "", 10)
	for _, f := range fields {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 8, f[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 8, f[1], "", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 6, "This card certifies that the bearer is a registered solo parent under RA 11861.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
