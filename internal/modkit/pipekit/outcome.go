package pipekit

import (
	perr "quill/internal/platform/errors"
)

// OutcomeKind is the typed classification of a pipeline result, replacing
// any need to probe response shapes at runtime
type OutcomeKind int

const (
	// OutcomeOK means the operation executed and succeeded
	OutcomeOK OutcomeKind = iota

	// OutcomeDuplicate means an identical request id was already registered;
	// the operation was NOT executed a second time
	OutcomeDuplicate

	// OutcomeValidationFailed means the request never reached the operation
	OutcomeValidationFailed

	// OutcomeConflict means an optimistic concurrency check failed
	OutcomeConflict

	// OutcomeNotFound means a referenced resource does not exist
	OutcomeNotFound

	// OutcomeUnexpected covers everything else
	OutcomeUnexpected
)

// String implements fmt.Stringer
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeValidationFailed:
		return "validation_failed"
	case OutcomeConflict:
		return "conflict"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "unexpected"
	}
}

// KindOf classifies an error returned by a pipeline
func KindOf(err error) OutcomeKind {
	if err == nil {
		return OutcomeOK
	}
	switch perr.CodeOf(err) {
	case perr.ErrorCodeDuplicateKey:
		return OutcomeDuplicate
	case perr.ErrorCodeValidation, perr.ErrorCodeInvalidArgument:
		return OutcomeValidationFailed
	case perr.ErrorCodeConflict:
		return OutcomeConflict
	case perr.ErrorCodeNotFound:
		return OutcomeNotFound
	default:
		return OutcomeUnexpected
	}
}

// IsDuplicate reports whether err represents the already-processed outcome
func IsDuplicate(err error) bool { return KindOf(err) == OutcomeDuplicate }
