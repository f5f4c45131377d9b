package database

import (
	"errors"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	return db
}

func lockErr(code uint16) error {
	return &mysql.MySQLError{Number: code, Message: "simulated"}
}

func TestIsLockConflict(t *testing.T) {
	if !IsLockConflict(lockErr(1205)) {
		t.Fatalf("lock wait timeout should be a lock conflict")
	}
	if !IsLockConflict(lockErr(1213)) {
		t.Fatalf("deadlock should be a lock conflict")
	}
	if IsLockConflict(lockErr(1062)) {
		t.Fatalf("duplicate key is not a lock conflict")
	}
	if IsLockConflict(errors.New("plain error")) {
		t.Fatalf("non-mysql error is not a lock conflict")
	}
	if IsLockConflict(nil) {
		t.Fatalf("nil is not a lock conflict")
	}
}

func TestWithTxRetrySucceedsOnThirdAttempt(t *testing.T) {
	db := newTestDB(t)

	calls := 0
	err := WithTxRetry(db, 3, time.Millisecond, func(tx *gorm.DB) error {
		calls++
		if calls < 3 {
			return lockErr(1205)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTxRetry: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestWithTxRetryGivesUpAfterAttempts(t *testing.T) {
	db := newTestDB(t)

	calls := 0
	err := WithTxRetry(db, 3, time.Millisecond, func(tx *gorm.DB) error {
		calls++
		return lockErr(1213)
	})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("err = %v, want ErrRetriesExhausted", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestWithTxRetryDoesNotRetryOtherErrors(t *testing.T) {
	db := newTestDB(t)

	boom := errors.New("boom")
	calls := 0
	err := WithTxRetry(db, 3, time.Millisecond, func(tx *gorm.DB) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestWithTxRetryRollsBackFailedAttempts(t *testing.T) {
	db := newTestDB(t)

	type row struct {
		ID    uint `gorm:"primaryKey"`
		Value string
	}
	if err := db.AutoMigrate(&row{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	calls := 0
	err := WithTxRetry(db, 3, time.Millisecond, func(tx *gorm.DB) error {
		calls++
		if err := tx.Create(&row{Value: "attempt"}).Error; err != nil {
			return err
		}
		if calls < 3 {
			return lockErr(1205)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTxRetry: %v", err)
	}

	var count int64
	if err := db.Model(&row{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("rows = %d, want exactly one committed effect", count)
	}
}
