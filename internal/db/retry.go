package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/ember/internal/apperr"
)

const (
	txAttempts       = 3
	txInitialBackoff = 50 * time.Millisecond
)

// Transact runs fn in a transaction, retrying transient storage failures with
// doubling backoff. Business errors pass through on the first attempt; an
// error that is still transient after the last attempt surfaces as
// apperr.ErrUnavailable.
func Transact(ctx context.Context, database *gorm.DB, fn func(tx *gorm.DB) error) error {
	backoff := txInitialBackoff
	var err error
	for attempt := 1; ; attempt++ {
		err = database.WithContext(ctx).Transaction(fn)
		if err == nil || !IsTransient(err) {
			return err
		}
		if attempt == txAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	if errors.Is(err, apperr.ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
}

// IsTransient reports whether err is a recoverable driver failure rather
// than a business error: a dropped connection, or SQLite lock contention
// under concurrent writers.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, apperr.ErrUnavailable) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}
