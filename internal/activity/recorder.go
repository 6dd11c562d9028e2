package activity

import (
	"sync"
	"time"

	"github.com/libreshelf/libreshelf-backend/pkg/enums"
)

// Capacity bounds the feed: only the most recent entries are retained.
const Capacity = 20

// Record is one entry in the recent-activity feed.
type Record struct {
	Type      enums.ActivityType `json:"type"`
	UserID    int64              `json:"userId"`
	Username  string             `json:"username"`
	BookID    *int64             `json:"bookId,omitempty"`
	BookTitle *string            `json:"bookTitle,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// Recorder keeps a bounded in-memory feed of recent mutations, newest first.
// It is not persisted; a restart starts the feed empty.
type Recorder struct {
	mu      sync.Mutex
	entries []Record
}

// NewRecorder builds an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{entries: make([]Record, 0, Capacity)}
}

// Record prepends the entry, evicting the oldest once the feed is full.
// A zero timestamp is filled with the current time.
func (r *Recorder) Record(rec Record) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append([]Record{rec}, r.entries...)
	if len(r.entries) > Capacity {
		r.entries = r.entries[:Capacity]
	}
}

// Recent returns a copy of the feed, newest first.
func (r *Recorder) Recent() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Record, len(r.entries))
	copy(out, r.entries)
	return out
}
