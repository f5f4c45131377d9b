package childrequest

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mswdo/soloparent-backend/config"
	"github.com/mswdo/soloparent-backend/internal/applicant"
	"github.com/mswdo/soloparent-backend/internal/auditlog"
	"github.com/mswdo/soloparent-backend/internal/document"
	"github.com/mswdo/soloparent-backend/internal/notification"
	"github.com/mswdo/soloparent-backend/internal/workflow"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	models := []any{
		&applicant.User{},
		&applicant.FamilyMember{},
		&ChildRequest{},
		&notification.AcceptedUser{},
		&notification.DeclinedUser{},
		&notification.TerminatedUser{},
		&notification.UserRemark{},
		&notification.FollowUpDocument{},
		&notification.ChildRequestNotice{},
		&notification.AdminNotification{},
		&notification.SuperadminNotification{},
		&auditlog.AuditLog{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, dt := range document.AllTypes() {
		if err := db.Table(document.Meta(dt).Table).AutoMigrate(&document.Document{}); err != nil {
			t.Fatalf("migrate %s: %v", document.Meta(dt).Table, err)
		}
	}

	cfg := &config.Config{}
	users := applicant.NewRepository(db)
	wf := workflow.NewService(
		db,
		users,
		notification.NewRepository(db),
		notification.NewEmailQueue(cfg, notification.NewEmailSender(cfg)),
		auditlog.NewService(auditlog.NewRepository(db)),
	)
	return NewService(NewRepository(db), users, wf), db
}

func seedVerifiedUser(t *testing.T, db *gorm.DB, codeID string) *applicant.User {
	t.Helper()
	u := &applicant.User{
		Name:     "Ana Reyes",
		Email:    "ana@example.com",
		CodeID:   codeID,
		Barangay: "San Isidro",
		Status:   "Verified",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestFullApprovalFlow(t *testing.T) {
	svc, db := newTestService(t)
	u := seedVerifiedUser(t, db, "SP-5001")

	req, err := svc.File(u.ID, "Juan Reyes", 7, "2018-03-14", "Elementary")
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if req.Status != StatusPendingBarangay {
		t.Fatalf("status = %s, want pending_barangay", req.Status)
	}

	if err := svc.Endorse(context.Background(), req.ID, workflow.Options{}); err != nil {
		t.Fatalf("endorse: %v", err)
	}

	var user applicant.User
	if err := db.First(&user, u.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if user.Status != "Pending Request" {
		t.Fatalf("user status = %s, want Pending Request", user.Status)
	}
	var reloaded ChildRequest
	if err := db.First(&reloaded, req.ID).Error; err != nil {
		t.Fatalf("reload request: %v", err)
	}
	if reloaded.Status != StatusPendingMSWDO {
		t.Fatalf("request status = %s, want pending_mswdo", reloaded.Status)
	}

	if err := svc.Approve(context.Background(), req.ID, workflow.Options{}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if err := db.First(&user, u.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if user.Status != "Verified" {
		t.Fatalf("user status = %s, want Verified", user.Status)
	}

	var members []applicant.FamilyMember
	if err := db.Where("code_id = ?", u.CodeID).Find(&members).Error; err != nil {
		t.Fatalf("family members: %v", err)
	}
	if len(members) != 1 || members[0].FamilyMemberName != "Juan Reyes" {
		t.Fatalf("members = %+v, want Juan Reyes", members)
	}

	if err := db.First(&reloaded, req.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("request should be deleted, got err %v", err)
	}
}

func TestDeclineLeavesFamilyUntouched(t *testing.T) {
	svc, db := newTestService(t)
	u := seedVerifiedUser(t, db, "SP-5002")

	req, err := svc.File(u.ID, "Pedro Reyes", 5, "", "")
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if err := svc.Endorse(context.Background(), req.ID, workflow.Options{}); err != nil {
		t.Fatalf("endorse: %v", err)
	}
	if err := svc.Decline(context.Background(), req.ID, workflow.Options{}); err != nil {
		t.Fatalf("decline: %v", err)
	}

	var count int64
	db.Model(&applicant.FamilyMember{}).Where("code_id = ?", u.CodeID).Count(&count)
	if count != 0 {
		t.Fatalf("family members = %d, want 0", count)
	}

	var user applicant.User
	if err := db.First(&user, u.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if user.Status != "Verified" {
		t.Fatalf("user status = %s, want Verified", user.Status)
	}
}

func TestApproveRequiresEndorsement(t *testing.T) {
	svc, db := newTestService(t)
	u := seedVerifiedUser(t, db, "SP-5003")

	req, err := svc.File(u.ID, "Liza Reyes", 3, "", "")
	if err != nil {
		t.Fatalf("file: %v", err)
	}

	if err := svc.Approve(context.Background(), req.ID, workflow.Options{}); !errors.Is(err, ErrNotEndorsed) {
		t.Fatalf("err = %v, want ErrNotEndorsed", err)
	}
}
