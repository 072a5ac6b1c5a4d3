package errors

// SQLite-specific helpers for mapping modernc.org/sqlite errors to project
// ErrorCode and for retry semantics around busy/locked contention

import (
	"context"
	stderrs "errors"
	"strings"

	sqlite "modernc.org/sqlite"
)

// Primary and extended SQLite result codes we care about.
// The driver reports extended codes; the low byte is the primary code.
const (
	liteBusy       = 5  // SQLITE_BUSY: another connection holds the write lock
	liteLocked     = 6  // SQLITE_LOCKED: a table is locked within this connection
	liteConstraint = 19 // SQLITE_CONSTRAINT

	liteConstraintPrimaryKey = 1555 // SQLITE_CONSTRAINT_PRIMARYKEY
	liteConstraintUnique     = 2067 // SQLITE_CONSTRAINT_UNIQUE
	liteConstraintForeignKey = 787  // SQLITE_CONSTRAINT_FOREIGNKEY
	liteConstraintNotNull    = 1299 // SQLITE_CONSTRAINT_NOTNULL
	liteConstraintCheck      = 275  // SQLITE_CONSTRAINT_CHECK
)

// ExtractLiteError returns (*sqlite.Error, true) if the root cause is a driver error
func ExtractLiteError(err error) (*sqlite.Error, bool) {
	var se *sqlite.Error
	if stderrs.As(Root(err), &se) {
		return se, true
	}
	return nil, false
}

// LiteCode returns the (possibly extended) SQLite result code with an ok flag
func LiteCode(err error) (int, bool) {
	se, ok := ExtractLiteError(err)
	if !ok {
		return 0, false
	}
	return se.Code(), true
}

// IsLiteCode reports whether the error carries the given primary SQLite result code
func IsLiteCode(err error, primary int) bool {
	code, ok := LiteCode(err)
	return ok && code&0xff == primary
}

// Human-friendly predicates for common result classes.

// IsBusy reports whether the error is busy/locked write contention
func IsBusy(err error) bool { return IsLiteCode(err, liteBusy) || IsLiteCode(err, liteLocked) }

// IsDuplicateKey reports whether the error is a unique or primary key constraint violation
func IsDuplicateKey(err error) bool {
	code, ok := LiteCode(err)
	if !ok {
		return false
	}
	return code == liteConstraintUnique || code == liteConstraintPrimaryKey
}

// IsForeignKeyViolation reports whether the error is a foreign key constraint violation
func IsForeignKeyViolation(err error) bool {
	code, ok := LiteCode(err)
	return ok && code == liteConstraintForeignKey
}

// IsConstraint reports whether the error is any constraint violation
func IsConstraint(err error) bool { return IsLiteCode(err, liteConstraint) }

// DBErrorCode maps a SQLite driver error to an ErrorCode with an ok flag
// !ok means err wasn't a driver error; caller may fall back to generic handling
func DBErrorCode(err error) (ErrorCode, bool) {
	code, ok := LiteCode(err)
	if !ok {
		return ErrorCodeUnknown, false
	}

	switch {
	case code == liteConstraintUnique, code == liteConstraintPrimaryKey:
		return ErrorCodeDuplicateKey, true

	case code == liteConstraintForeignKey:
		// Input referenced a missing row: classify as invalid input
		return ErrorCodeInvalidArgument, true

	case code == liteConstraintNotNull, code == liteConstraintCheck:
		return ErrorCodeValidation, true

	case code&0xff == liteBusy, code&0xff == liteLocked:
		// Retryable write contention
		return ErrorCodeUnavailable, true
	}

	// Default: still a DB error
	return ErrorCodeDB, true
}

// FromLite wraps a SQLite error with a mapped ErrorCode and message.
// If err is nil, returns nil
func FromLite(err error, msg string) error {
	if err == nil {
		return nil
	}
	if code, ok := DBErrorCode(err); ok {
		return Wrap(err, code, msg)
	}
	return Wrap(err, ErrorCodeDB, msg)
}

// IsRetryable reports whether a database error represents short-lived write
// contention worth retrying. An embedded single-writer engine legitimately
// rejects a write while another transaction holds the write lock; bounded
// retry with backoff converts that into success
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Do not retry local cancellations/timeouts; let the caller decide higher-level retries
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}

	if IsBusy(err) {
		return true
	}

	// Fallback: text patterns the driver emits when the result code is unavailable
	s := strings.ToLower(Root(err).Error())
	switch {
	case strings.Contains(s, "database is locked"),
		strings.Contains(s, "database table is locked"),
		strings.Contains(s, "database is busy"):
		return true
	default:
		return false
	}
}
