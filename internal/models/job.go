package models

import (
	"encoding/json"
	"time"
)

// Op is the kind of mutation a queued job carries.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Job is one durable outbox entry: the intent to apply a mutation to the
// remote store. Payload is the JSON encoding of the record at enqueue time and
// is opaque to the queue itself.
//
// Jobs for the same (Table, LocalID) key are delivered in enqueue order, so an
// insert is always applied before a later update for the same record. A job
// whose delivery keeps failing is retried with backoff until Attempts reaches
// the configured limit, after which it is parked as Dead (dead-letter) instead
// of retrying forever.
type Job struct {
	ID            int64
	Table         Table
	LocalID       string
	Op            Op
	Payload       json.RawMessage
	Attempts      int
	NextAttemptAt time.Time
	Dead          bool
	LastError     string
	CreatedAt     time.Time
}
