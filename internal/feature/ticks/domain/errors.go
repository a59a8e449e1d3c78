// Package domain defines domain-level errors for the ticks feature.
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// FetchError is a transient failure talking to the quote source:
// a transport error, a timeout or a non-2xx status.
type FetchError struct {
	ISIN       string
	StatusCode int // 0 when the request never produced a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: http %d %s", e.ISIN, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("fetch %s: %v", e.ISIN, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MalformedRecordError reports an upstream record (or whole response) that
// could not be normalized into a tick.
type MalformedRecordError struct {
	ISIN   string
	TickID int64  // 0 when the id itself was unreadable or the response did not decode
	Field  string // e.g. "price"; empty for a response-level failure
	Value  string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	switch {
	case e.Field == "":
		return fmt.Sprintf("malformed response for %s: %v", e.ISIN, e.Err)
	case e.TickID == 0:
		return fmt.Sprintf("malformed record for %s: %s %q: %v", e.ISIN, e.Field, e.Value, e.Err)
	default:
		return fmt.Sprintf("malformed record %s/%d: %s %q: %v", e.ISIN, e.TickID, e.Field, e.Value, e.Err)
	}
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// PersistenceError is a failed write to the tick store.
type PersistenceError struct {
	Op        string // "upsert", "find", ...
	Count     int    // number of ticks in the failed write
	Transient bool   // connection loss, serialization failure, shutdown
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s (%d ticks): %v", e.Op, e.Count, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsMalformed reports whether err is, or wraps, a MalformedRecordError.
func IsMalformed(err error) bool {
	var me *MalformedRecordError
	return errors.As(err, &me)
}

// IsPersistence reports whether err is, or wraps, a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
