package notification

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *Repository {
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
		&AcceptedUser{},
		&DeclinedUser{},
		&TerminatedUser{},
		&UserRemark{},
		&FollowUpDocument{},
		&ChildRequestNotice{},
		&AdminNotification{},
		&SuperadminNotification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(db)
}

func TestInsertAcceptedUnlessUnread(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.InsertAcceptedUnlessUnread(nil, 7, "Your application has been verified"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	// A second insert while the first is unread is a no-op.
	if err := repo.InsertAcceptedUnlessUnread(nil, 7, "Your application has been verified"); err != nil {
		t.Fatalf("second insert: %v", err)
	}

	var count int64
	if err := repo.DB.Model(&AcceptedUser{}).Where("user_id = ?", 7).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	var first AcceptedUser
	if err := repo.DB.Where("user_id = ?", 7).First(&first).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := repo.MarkRead("accepted", first.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	// Once the notice is read a new one may land.
	if err := repo.InsertAcceptedUnlessUnread(nil, 7, "Your renewal has been verified"); err != nil {
		t.Fatalf("insert after read: %v", err)
	}
	if err := repo.DB.Model(&AcceptedUser{}).Where("user_id = ?", 7).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
}

func TestMarkRead(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.InsertDeclinedUnlessUnread(nil, 3, "missing documents"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var d DeclinedUser
	if err := repo.DB.Where("user_id = ?", 3).First(&d).Error; err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := repo.MarkRead("declined", d.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if err := repo.DB.First(&d, d.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !d.IsRead {
		t.Fatalf("notice still unread after MarkRead")
	}

	if err := repo.MarkRead("declined", 9999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("missing id: err = %v, want ErrRecordNotFound", err)
	}
	if err := repo.MarkRead("bogus", d.ID); err == nil {
		t.Fatalf("unknown kind accepted")
	}
}

func TestInboxMergesAllKinds(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.InsertAcceptedUnlessUnread(nil, 5, "verified"); err != nil {
		t.Fatalf("accepted: %v", err)
	}
	if err := repo.InsertFollowUp(nil, 5, "please upload your barangay certificate"); err != nil {
		t.Fatalf("follow up: %v", err)
	}
	if err := repo.InsertChildRequestNotice(nil, 5, "child request approved"); err != nil {
		t.Fatalf("child notice: %v", err)
	}
	// Another user's notice must not leak in.
	if err := repo.InsertAcceptedUnlessUnread(nil, 6, "verified"); err != nil {
		t.Fatalf("other user: %v", err)
	}

	items, err := repo.Inbox(5)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	kinds := map[string]bool{}
	for _, it := range items {
		kinds[it.Type] = true
	}
	for _, want := range []string{"accepted", "follow_up", "child_request"} {
		if !kinds[want] {
			t.Fatalf("inbox missing %q notice", want)
		}
	}
}

func TestMarkAllAdminReadScopedToBarangay(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.NotifyAdminNewVerified(nil, 1, "Ana Reyes", "Poblacion"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := repo.NotifyAdminNewVerified(nil, 2, "Mario Cruz", "San Isidro"); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if err := repo.MarkAllAdminRead("Poblacion"); err != nil {
		t.Fatalf("mark all: %v", err)
	}

	rows, err := repo.ListAdminNotifications("San Isidro")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].IsRead {
		t.Fatalf("other barangay affected: %+v", rows)
	}
	rows, err = repo.ListAdminNotifications("Poblacion")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || !rows[0].IsRead {
		t.Fatalf("scoped notices not marked read: %+v", rows)
	}
}
