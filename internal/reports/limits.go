package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrExportLimitReached = errors.New("monthly export limit reached")

// ExportLimiter tracks per-admin export counters in redis, one counter per
// format per calendar month. Keys expire on their own after the month closes.
type ExportLimiter struct {
	rdb   *redis.Client
	limit int
}

func NewExportLimiter(rdb *redis.Client, limit int) *ExportLimiter {
	return &ExportLimiter{rdb: rdb, limit: limit}
}

// LimitStatus reports how much of the monthly quota an admin has used.
type LimitStatus struct {
	AdminID    uint   `json:"admin_id"`
	Month      string `json:"month"`
	ExcelCount int    `json:"excel_count"`
	PDFCount   int    `json:"pdf_count"`
	CSVCount   int    `json:"csv_count"`
	Limit      int    `json:"limit"`
	CanExport  bool   `json:"can_export"`
}

func (l *ExportLimiter) key(adminID uint, format, month string) string {
	return fmt.Sprintf("export:%d:%s:%s", adminID, format, month)
}

func currentMonth() string {
	return time.Now().Format("2006-01")
}

func (l *ExportLimiter) count(ctx context.Context, adminID uint, format, month string) (int, error) {
	n, err := l.rdb.Get(ctx, l.key(adminID, format, month)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (l *ExportLimiter) Status(ctx context.Context, adminID uint) (LimitStatus, error) {
	month := currentMonth()
	st := LimitStatus{AdminID: adminID, Month: month, Limit: l.limit}

	var err error
	if st.ExcelCount, err = l.count(ctx, adminID, FormatExcel, month); err != nil {
		return st, err
	}
	if st.PDFCount, err = l.count(ctx, adminID, FormatPDF, month); err != nil {
		return st, err
	}
	if st.CSVCount, err = l.count(ctx, adminID, FormatCSV, month); err != nil {
		return st, err
	}
	st.CanExport = st.ExcelCount < l.limit || st.PDFCount < l.limit || st.CSVCount < l.limit
	return st, nil
}

// Consume takes one export slot for the given format, or reports
// ErrExportLimitReached when the month's quota is spent. The increment and
// the check run as one INCR so concurrent exports cannot overshoot.
func (l *ExportLimiter) Consume(ctx context.Context, adminID uint, format string) error {
	key := l.key(adminID, format, currentMonth())

	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		// Counter keys outlive their month by a few days, then expire.
		l.rdb.Expire(ctx, key, 35*24*time.Hour)
	}
	if int(n) > l.limit {
		l.rdb.Decr(ctx, key)
		return ErrExportLimitReached
	}
	return nil
}

// Release gives an export slot back after a failed render.
func (l *ExportLimiter) Release(ctx context.Context, adminID uint, format string) {
	l.rdb.Decr(ctx, l.key(adminID, format, currentMonth()))
}

// Reset clears one admin's counters for the current month.
func (l *ExportLimiter) Reset(ctx context.Context, adminID uint) error {
	month := currentMonth()
	keys := []string{
		l.key(adminID, FormatExcel, month),
		l.key(adminID, FormatPDF, month),
		l.key(adminID, FormatCSV, month),
	}
	return l.rdb.Del(ctx, keys...).Err()
}

// ResetAll clears every admin's counters.
func (l *ExportLimiter) ResetAll(ctx context.Context) error {
	iter := l.rdb.Scan(ctx, 0, "export:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := l.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
