package applicant

import (
	"time"
)

// Approval values set by the barangay admin before the MSWDO reviews an
// application's documents. Anything other than Approved counts as not yet
// pre-approved.
const (
	ApprovalApproved    = "Approved"
	ApprovalDisapproved = "Disapproved"
)

// User is one solo-parent case. All application data (profile steps, family
// members, documents) hangs off CodeID; Status is the workflow column.
type User struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	Name                 string     `gorm:"size:150;not null" json:"name"`
	Email                string     `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password             string     `gorm:"size:100;not null" json:"-"`
	CodeID               string     `gorm:"column:code_id;size:64;uniqueIndex;not null" json:"code_id"`
	Barangay             string     `gorm:"size:100;index" json:"barangay"`
	Status               string     `gorm:"size:30;default:'Pending';index" json:"status"`
	Approval             string     `gorm:"size:30" json:"approval"`
	BeneficiaryStatus    string     `gorm:"size:30;default:'non-beneficiary'" json:"beneficiary_status"`
	Classification       string     `gorm:"size:50" json:"classification"`
	ProfilePic           string     `gorm:"size:500" json:"profile_pic"`
	FaceRecognitionPhoto string     `gorm:"column:face_recognition_photo;size:500" json:"face_recognition_photo"`
	ValidUntil           *time.Time `json:"valid_until,omitempty"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IdentifyingInformation is the step-1 profile, one-to-one with a case.
// CivilStatus drives the required-document set.
type IdentifyingInformation struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CodeID         string    `gorm:"column:code_id;size:64;uniqueIndex;not null" json:"code_id"`
	FirstName      string    `gorm:"size:100;not null" json:"first_name"`
	MiddleName     string    `gorm:"size:100" json:"middle_name"`
	LastName       string    `gorm:"size:100;not null" json:"last_name"`
	Suffix         string    `gorm:"size:20" json:"suffix"`
	Gender         string    `gorm:"size:20" json:"gender"`
	DateOfBirth    time.Time `json:"date_of_birth"`
	PlaceOfBirth   string    `gorm:"size:150" json:"place_of_birth"`
	CivilStatus    string    `gorm:"size:30" json:"civil_status"`
	Barangay       string    `gorm:"size:100;index" json:"barangay"`
	Religion       string    `gorm:"size:100" json:"religion"`
	Occupation     string    `gorm:"size:150" json:"occupation"`
	MonthlyIncome  float64   `json:"monthly_income"`
	EducAttainment string    `gorm:"column:educational_attainment;size:100" json:"educational_attainment"`
	ContactNumber  string    `gorm:"size:30" json:"contact_number"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (IdentifyingInformation) TableName() string {
	return "step1_identifying_information"
}

// FamilyMember is one dependent of a case (step 2); zero or more per code_id.
type FamilyMember struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	CodeID           string     `gorm:"column:code_id;size:64;not null;index" json:"code_id"`
	FamilyMemberName string     `gorm:"size:200;not null" json:"family_member_name"`
	Age              int        `json:"age"`
	EducAttainment   string     `gorm:"column:educational_attainment;size:100" json:"educational_attainment"`
	Birthdate        *time.Time `json:"birthdate,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (FamilyMember) TableName() string {
	return "step2_family_occupation"
}

// Classification is the step-3 eligibility classification of a case.
type Classification struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	CodeID         string `gorm:"column:code_id;size:64;uniqueIndex;not null" json:"code_id"`
	Classification string `gorm:"type:text" json:"classification"`
	NeedsOfSupport string `gorm:"type:text" json:"needs_of_support"`
}

func (Classification) TableName() string {
	return "step3_classification"
}

// NeedsProblems is the step-4 sheet of declared needs and problems.
type NeedsProblems struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	CodeID       string `gorm:"column:code_id;size:64;uniqueIndex;not null" json:"code_id"`
	NeedsProblem string `gorm:"column:needs_problem;type:text" json:"needs_problem"`
}

func (NeedsProblems) TableName() string {
	return "step4_needs_problems"
}

// EmergencyContact is the step-5 in-case-of-emergency sheet.
type EmergencyContact struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	CodeID        string `gorm:"column:code_id;size:64;uniqueIndex;not null" json:"code_id"`
	ContactName   string `gorm:"column:emergency_name;size:200" json:"emergency_name"`
	Relationship  string `gorm:"size:100" json:"relationship"`
	Address       string `gorm:"size:255" json:"address"`
	ContactNumber string `gorm:"size:30" json:"contact_number"`
}

func (EmergencyContact) TableName() string {
	return "step5_in_case_of_emergency"
}

// CaseDetails aggregates everything the profile screens need for one case.
type CaseDetails struct {
	User             User                    `json:"user"`
	Identifying      *IdentifyingInformation `json:"identifying_information,omitempty"`
	FamilyMembers    []FamilyMember          `json:"family_members"`
	Classification   *Classification         `json:"classification,omitempty"`
	NeedsProblems    *NeedsProblems          `json:"needs_problems,omitempty"`
	EmergencyContact *EmergencyContact       `json:"emergency_contact,omitempty"`
	LatestRemarks    *string                 `json:"latest_remarks,omitempty"`
}
