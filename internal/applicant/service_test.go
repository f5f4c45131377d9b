package applicant

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mswdo/soloparent-backend/internal/notification"
)

func newTestProfileService(t *testing.T) (*Service, *Repository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&User{},
		&IdentifyingInformation{},
		&FamilyMember{},
		&Classification{},
		&NeedsProblems{},
		&EmergencyContact{},
		&notification.UserRemark{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo := NewRepository(db)
	return NewService(db, repo, nil), repo
}

func seedCase(t *testing.T, repo *Repository) *User {
	t.Helper()
	u := &User{
		Name:     "Ana Reyes",
		Email:    "ana@example.com",
		Password: "x",
		CodeID:   "SP-AB12CD34",
		Barangay: "Poblacion",
		Status:   "Pending",
	}
	if err := repo.Create(u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestSubmitProfileWritesAllSteps(t *testing.T) {
	svc, _ := newTestProfileService(t)
	u := seedCase(t, svc.repo)

	details, err := svc.SubmitProfile(u.ID, ProfileInput{
		Identifying: IdentifyingInformation{
			FirstName:     "Ana",
			LastName:      "Reyes",
			Barangay:      "Poblacion",
			CivilStatus:   "Widowed",
			MonthlyIncome: 8500,
		},
		FamilyMembers: []FamilyMemberInput{
			{Name: "Juan Reyes", Age: 7, Birthdate: "2019-03-14"},
			{Name: "Lea Reyes", Age: 4},
		},
		Classification: &Classification{Classification: "Death of spouse"},
		Emergency:      &EmergencyContact{ContactName: "Rosa Reyes", Relationship: "Mother"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if details.Identifying == nil || details.Identifying.FirstName != "Ana" {
		t.Fatalf("identifying not saved: %+v", details.Identifying)
	}
	if len(details.FamilyMembers) != 2 {
		t.Fatalf("family members = %d, want 2", len(details.FamilyMembers))
	}
	if details.FamilyMembers[0].Birthdate == nil {
		t.Fatalf("birthdate not parsed")
	}
	if details.Classification == nil || details.EmergencyContact == nil {
		t.Fatalf("optional steps not saved")
	}
	if details.NeedsProblems != nil {
		t.Fatalf("step 4 appeared without being submitted")
	}
}

func TestSubmitProfileResubmissionReplaces(t *testing.T) {
	svc, repo := newTestProfileService(t)
	u := seedCase(t, repo)

	first := ProfileInput{
		Identifying: IdentifyingInformation{FirstName: "Ana", LastName: "Reyes", Barangay: "Poblacion"},
		FamilyMembers: []FamilyMemberInput{
			{Name: "Juan Reyes", Age: 7},
			{Name: "Lea Reyes", Age: 4},
		},
	}
	if _, err := svc.SubmitProfile(u.ID, first); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// The applicant moved and dropped one dependent.
	second := ProfileInput{
		Identifying:   IdentifyingInformation{FirstName: "Ana", LastName: "Reyes", Barangay: "San Isidro"},
		FamilyMembers: []FamilyMemberInput{{Name: "Juan Reyes", Age: 8}},
	}
	details, err := svc.SubmitProfile(u.ID, second)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}

	if len(details.FamilyMembers) != 1 || details.FamilyMembers[0].Age != 8 {
		t.Fatalf("family members not replaced: %+v", details.FamilyMembers)
	}
	if details.User.Barangay != "San Isidro" {
		t.Fatalf("user barangay = %q, want San Isidro", details.User.Barangay)
	}
	if details.Identifying.Barangay != "San Isidro" {
		t.Fatalf("identifying barangay = %q, want San Isidro", details.Identifying.Barangay)
	}
}

func TestSubmitProfileValidation(t *testing.T) {
	svc, repo := newTestProfileService(t)
	u := seedCase(t, repo)

	_, err := svc.SubmitProfile(u.ID, ProfileInput{
		Identifying: IdentifyingInformation{FirstName: "Ana", Barangay: "Poblacion"},
	})
	if !errors.Is(err, ErrProfileIncomplete) {
		t.Fatalf("missing last name: err = %v, want ErrProfileIncomplete", err)
	}

	_, err = svc.SubmitProfile(u.ID, ProfileInput{
		Identifying:   IdentifyingInformation{FirstName: "Ana", LastName: "Reyes", Barangay: "Poblacion"},
		FamilyMembers: []FamilyMemberInput{{Name: "Juan Reyes", Birthdate: "14-03-2019"}},
	})
	if err == nil {
		t.Fatalf("malformed birthdate accepted")
	}
	// The failed transaction must not leave partial rows behind.
	members, listErr := repo.ListFamilyMembers(u.CodeID)
	if listErr != nil {
		t.Fatalf("list members: %v", listErr)
	}
	if len(members) != 0 {
		t.Fatalf("partial family rows survived a rollback: %+v", members)
	}
}

func TestApprovalSplitsPendingQueue(t *testing.T) {
	_, repo := newTestProfileService(t)
	a := seedCase(t, repo)
	b := &User{
		Name:     "Mario Cruz",
		Email:    "mario@example.com",
		Password: "x",
		CodeID:   "SP-EF56GH78",
		Barangay: "Poblacion",
		Status:   "Pending",
	}
	if err := repo.Create(b); err != nil {
		t.Fatalf("create second case: %v", err)
	}

	if err := repo.UpdateApproval(repo.DB, a.CodeID, ApprovalApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}

	approved, err := repo.ListPendingByApproval("Poblacion", true)
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if len(approved) != 1 || approved[0].CodeID != a.CodeID {
		t.Fatalf("approved queue = %+v, want only %s", approved, a.CodeID)
	}

	waiting, err := repo.ListPendingByApproval("Poblacion", false)
	if err != nil {
		t.Fatalf("list waiting: %v", err)
	}
	if len(waiting) != 1 || waiting[0].CodeID != b.CodeID {
		t.Fatalf("waiting queue = %+v, want only %s", waiting, b.CodeID)
	}

	// A disapproved case stays on the barangay's side of the split.
	if err := repo.UpdateApproval(repo.DB, a.CodeID, ApprovalDisapproved); err != nil {
		t.Fatalf("disapprove: %v", err)
	}
	approved, err = repo.ListPendingByApproval("Poblacion", true)
	if err != nil {
		t.Fatalf("relist approved: %v", err)
	}
	if len(approved) != 0 {
		t.Fatalf("disapproved case still in approved queue: %+v", approved)
	}

	if err := repo.UpdateApproval(repo.DB, "SP-MISSING", ApprovalApproved); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("missing case: err = %v, want ErrRecordNotFound", err)
	}
}

func TestDeleteFamilyMemberScopedToCase(t *testing.T) {
	svc, repo := newTestProfileService(t)
	u := seedCase(t, repo)

	if _, err := svc.SubmitProfile(u.ID, ProfileInput{
		Identifying:   IdentifyingInformation{FirstName: "Ana", LastName: "Reyes", Barangay: "Poblacion"},
		FamilyMembers: []FamilyMemberInput{{Name: "Juan Reyes", Age: 7}},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	members, err := repo.ListFamilyMembers(u.CodeID)
	if err != nil || len(members) != 1 {
		t.Fatalf("seed members: %v (%d rows)", err, len(members))
	}

	if err := repo.DeleteFamilyMember(members[0].ID, "SP-SOMEONE-ELSE"); err == nil {
		t.Fatalf("delete crossed case boundary")
	}
	if err := repo.DeleteFamilyMember(members[0].ID, u.CodeID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
