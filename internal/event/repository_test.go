package event

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestEventRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Event{}, &Attendee{}, &Rating{}, &Read{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(db)
}

func seedEvent(t *testing.T, repo *Repository) *Event {
	t.Helper()
	e := &Event{
		Title:     "Livelihood Seminar",
		StartDate: "2026-09-15",
		StartTime: "09:00",
		EndTime:   "11:00",
		Location:  "Municipal Hall",
		Status:    StatusActive,
	}
	if err := repo.Create(e); err != nil {
		t.Fatalf("create event: %v", err)
	}
	return e
}

func TestArchiveHidesFromActiveListings(t *testing.T) {
	repo := newTestEventRepo(t)
	e := seedEvent(t, repo)

	if err := repo.Archive(e.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	active, err := repo.ListAll(false)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("archived event still listed: %+v", active)
	}

	all, err := repo.ListAll(true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 || all[0].Status != StatusArchived {
		t.Fatalf("archived event missing from full listing: %+v", all)
	}

	if err := repo.Archive(9999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("missing id: err = %v, want ErrRecordNotFound", err)
	}
}

func TestAddAttendeeOncePerCase(t *testing.T) {
	repo := newTestEventRepo(t)
	e := seedEvent(t, repo)

	first := &Attendee{EventID: e.ID, CodeID: "SP-AB12CD34", Name: "Ana Reyes"}
	if err := repo.AddAttendee(first); err != nil {
		t.Fatalf("first attendance: %v", err)
	}

	dup := &Attendee{EventID: e.ID, CodeID: "SP-AB12CD34", Name: "Ana Reyes"}
	if err := repo.AddAttendee(dup); !errors.Is(err, ErrAlreadyAttending) {
		t.Fatalf("duplicate attendance: err = %v, want ErrAlreadyAttending", err)
	}

	// Same case at a different event is fine.
	other := seedEvent(t, repo)
	if err := repo.AddAttendee(&Attendee{EventID: other.ID, CodeID: "SP-AB12CD34"}); err != nil {
		t.Fatalf("attendance at other event: %v", err)
	}

	attendees, err := repo.ListAttendees(e.ID)
	if err != nil {
		t.Fatalf("list attendees: %v", err)
	}
	if len(attendees) != 1 {
		t.Fatalf("len = %d, want 1", len(attendees))
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	repo := newTestEventRepo(t)
	e := seedEvent(t, repo)

	if err := repo.MarkRead(e.ID, 4); err != nil {
		t.Fatalf("first read: %v", err)
	}
	if err := repo.MarkRead(e.ID, 4); err != nil {
		t.Fatalf("repeat read: %v", err)
	}

	rows, err := repo.ListForUser(4)
	if err != nil {
		t.Fatalf("list for user: %v", err)
	}
	if len(rows) != 1 || !rows[0].IsRead {
		t.Fatalf("read flag not set: %+v", rows)
	}

	rows, err = repo.ListForUser(5)
	if err != nil {
		t.Fatalf("list for other user: %v", err)
	}
	if len(rows) != 1 || rows[0].IsRead {
		t.Fatalf("read flag leaked to other user: %+v", rows)
	}
}

func TestRateReplacesPreviousScore(t *testing.T) {
	repo := newTestEventRepo(t)
	e := seedEvent(t, repo)

	if err := repo.Rate(e.ID, 4, 3); err != nil {
		t.Fatalf("first rating: %v", err)
	}
	if err := repo.Rate(e.ID, 4, 5); err != nil {
		t.Fatalf("re-rating: %v", err)
	}

	ratings, err := repo.ListRatings(e.ID)
	if err != nil {
		t.Fatalf("list ratings: %v", err)
	}
	if len(ratings) != 1 || ratings[0].Rating != 5 {
		t.Fatalf("ratings = %+v, want single score of 5", ratings)
	}
}
