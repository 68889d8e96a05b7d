// Package presence records when users were last seen and counts who is online.
package presence

import (
	"context"
	"sync"
	"time"
)

// Tracker records activity and answers "how many users were active since t".
type Tracker interface {
	Touch(ctx context.Context, userID string, at time.Time) error
	CountOnline(ctx context.Context, since time.Time) (int64, error)
}

// MemoryTracker keeps last-seen times in process memory
type MemoryTracker struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

// NewMemoryTracker creates an empty MemoryTracker
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{seen: make(map[string]time.Time)}
}

// Touch implements Tracker
func (t *MemoryTracker) Touch(_ context.Context, userID string, at time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen[userID] = at
	return nil
}

// CountOnline implements Tracker
func (t *MemoryTracker) CountOnline(_ context.Context, since time.Time) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var n int64
	for _, at := range t.seen {
		if !at.Before(since) {
			n++
		}
	}
	return n, nil
}

// LastSeen returns the recorded time for userID
func (t *MemoryTracker) LastSeen(userID string) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	at, ok := t.seen[userID]
	return at, ok
}
