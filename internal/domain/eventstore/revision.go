// Package eventstore holds the optimistic-concurrency vocabulary shared by
// every event stream backend.
package eventstore

import (
	"errors"
	"fmt"
	"strconv"
)

// Revision is the 0-based position of an event within its stream.
type Revision uint64

// ExpectedRevision is the precondition of an append: either the stream must
// not exist yet, or its last event must sit at an exact revision.
type ExpectedRevision struct {
	exists   bool
	revision Revision
}

func NoStream() ExpectedRevision {
	return ExpectedRevision{}
}

func Exact(r Revision) ExpectedRevision {
	return ExpectedRevision{exists: true, revision: r}
}

// FromLoaded turns the revision returned by a read into the precondition for
// the following append.
func FromLoaded(r *Revision) ExpectedRevision {
	if r == nil {
		return NoStream()
	}
	return Exact(*r)
}

func (e ExpectedRevision) IsNoStream() bool { return !e.exists }

// Revision reports the expected last revision; ok is false for NoStream.
func (e ExpectedRevision) Revision() (Revision, bool) {
	return e.revision, e.exists
}

// Next is the revision the first appended event will get.
func (e ExpectedRevision) Next() Revision {
	if !e.exists {
		return 0
	}
	return e.revision + 1
}

func (e ExpectedRevision) String() string {
	if !e.exists {
		return "no-stream"
	}
	return strconv.FormatUint(uint64(e.revision), 10)
}

var ErrWrongExpectedRevision = errors.New("wrong expected revision")

// ConflictError means another writer appended to the stream between this
// writer's read and its append. The decision was valid but was not committed.
type ConflictError struct {
	StreamID string
	Expected ExpectedRevision
	// Actual is nil when the stream does not exist.
	Actual *Revision
}

func (e *ConflictError) Error() string {
	actual := "no-stream"
	if e.Actual != nil {
		actual = strconv.FormatUint(uint64(*e.Actual), 10)
	}
	return fmt.Sprintf("stream %q: %s: expected %s, actual %s",
		e.StreamID, ErrWrongExpectedRevision, e.Expected, actual)
}

func (e *ConflictError) Unwrap() error { return ErrWrongExpectedRevision }

func IsConflict(err error) bool {
	return errors.Is(err, ErrWrongExpectedRevision)
}
