package model

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a history entry does not exist.
var ErrNotFound = errors.New("history entry not found")

// Entry is one recorded invocation: what was asked and what came back.
type Entry struct {
	ID          int64
	CreatedAt   time.Time
	Provider    string
	Model       string
	PromptName  string // empty when no named prompt was used
	PromptChars int    // size of the assembled prompt
	Response    string // empty on failure
	ErrorKind   string // empty on success
	Error       string
	Elapsed     time.Duration
}

// Failed reports whether the invocation ended in an error.
func (e Entry) Failed() bool {
	return e.ErrorKind != "" || e.Error != ""
}

// HistoryStore records invocations. It is a log only; entries are never used
// to answer a request.
type HistoryStore interface {
	Record(e Entry) (int64, error)
	Recent(limit int) ([]Entry, error)
	Get(id int64) (Entry, error)
	Cleanup(olderThan time.Duration) (int64, error)
	Close() error
}
