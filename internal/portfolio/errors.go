// Package portfolio holds the share-link, section-ordering, and read
// projection logic, behind small gateway interfaces so handlers and tests
// can supply their own stores.
package portfolio

import (
	"errors"
	"regexp"
)

// ValidationError reports input rejected locally, before any gateway call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

var (
	// ErrSlugTaken is returned when a custom slug is held by any user,
	// whether detected by the pre-check or by the unique constraint at
	// write time. Both paths surface identically.
	ErrSlugTaken = errors.New("this address is already taken")

	// ErrNotFound covers malformed, unknown, and deactivated share tokens
	// alike, so a caller cannot probe which tokens exist.
	ErrNotFound = errors.New("portfolio not found")

	// ErrLastSection guards the invariant that an account keeps at least
	// one section once provisioned.
	ErrLastSection = errors.New("cannot delete the last remaining section")

	// ErrReorderFailed marks a reorder where at least one timestamp write
	// failed. Rows already written are not rolled back.
	ErrReorderFailed = errors.New("failed to save the new section order")
)

// sensitivePattern matches backend error text that must never reach users.
var sensitivePattern = regexp.MustCompile(`(?i)password|token|secret|key|database|connection|internal|stack`)

const genericMessage = "Something went wrong. Please try again."

// SafeMessage maps an error to a user-facing message. Known domain errors
// keep their text; everything else collapses to a generic message, and any
// message carrying sensitive backend detail is scrubbed regardless of source.
func SafeMessage(err error) string {
	if err == nil {
		return ""
	}

	var msg string
	switch {
	case errors.Is(err, ErrSlugTaken):
		msg = ErrSlugTaken.Error()
	case errors.Is(err, ErrNotFound):
		msg = ErrNotFound.Error()
	case errors.Is(err, ErrLastSection):
		msg = ErrLastSection.Error()
	case errors.Is(err, ErrReorderFailed):
		msg = ErrReorderFailed.Error()
	default:
		var ve *ValidationError
		if errors.As(err, &ve) {
			msg = ve.Reason
		} else {
			return genericMessage
		}
	}

	if sensitivePattern.MatchString(msg) {
		return genericMessage
	}
	return msg
}
