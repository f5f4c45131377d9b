package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MySQL server error codes for transient lock contention.
const (
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
)

// ErrRetriesExhausted is returned when a transactional unit kept hitting lock
// contention for every allowed attempt. Handlers surface it as a
// "please try again" 500.
var ErrRetriesExhausted = errors.New("database busy, please try again")

// IsLockConflict reports whether err is a lock-wait timeout or deadlock.
func IsLockConflict(err error) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	return myErr.Number == errLockWaitTimeout || myErr.Number == errDeadlock
}

// WithTxRetry runs fn inside a transaction and retries the whole unit when the
// commit or any statement fails with a lock-wait timeout or deadlock. The
// transaction is rolled back before every retry, so fn must be safe to
// re-execute from scratch. Any non-transient error aborts immediately.
func WithTxRetry(db *gorm.DB, attempts int, delay time.Duration, fn func(tx *gorm.DB) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		err := db.Transaction(fn)
		if err == nil {
			return nil
		}
		if !IsLockConflict(err) {
			return err
		}

		lastErr = err
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}

	return fmt.Errorf("%w: %v", ErrRetriesExhausted, lastErr)
}

// LockForUpdate adds a FOR UPDATE clause on backends that support row locks.
// The sqlite backend used in tests locks the whole file anyway.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
