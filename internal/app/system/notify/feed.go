// internal/app/system/notify/feed.go
package notify

import (
	"sync"

	"github.com/dalemusser/aftershift/internal/domain/models"
)

// FeedCap is the maximum number of notifications kept in memory.
const FeedCap = 50

// Feed is the newest-first notification list shown in the admin UI.
type Feed struct {
	mu     sync.RWMutex
	items  []models.Notification
	unread int
}

// NewFeed returns an empty Feed.
func NewFeed() *Feed { return &Feed{} }

// Replace sets the feed contents, keeping at most FeedCap entries.
// unread < 0 means count unread entries locally.
func (f *Feed) Replace(items []models.Notification, unread int) {
	if len(items) > FeedCap {
		items = items[:FeedCap]
	}
	cp := make([]models.Notification, len(items))
	copy(cp, items)

	if unread < 0 {
		unread = 0
		for _, n := range cp {
			if !n.Read {
				unread++
			}
		}
	}

	f.mu.Lock()
	f.items = cp
	f.unread = unread
	f.mu.Unlock()
}

// Add prepends n unless an entry with the same hash is present.
func (f *Feed) Add(n models.Notification) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.Hash == n.Hash {
			return false
		}
	}

	keep := f.items
	if len(keep) >= FeedCap {
		keep = keep[:FeedCap-1]
	}
	next := make([]models.Notification, 0, len(keep)+1)
	next = append(next, n)
	next = append(next, keep...)
	f.items = next
	if !n.Read {
		f.unread++
	}
	return true
}

// Get returns the entry with id.
func (f *Feed) Get(id string) (models.Notification, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, n := range f.items {
		if n.ID == id {
			return n, true
		}
	}
	return models.Notification{}, false
}

// MarkRead marks the entry with id read. It reports whether the entry
// was found and previously unread.
func (f *Feed) MarkRead(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			if f.items[i].Read {
				return false
			}
			f.items[i].Read = true
			if f.unread > 0 {
				f.unread--
			}
			return true
		}
	}
	return false
}

// MarkAllRead marks every entry read and zeroes the unread count.
func (f *Feed) MarkAllRead() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		f.items[i].Read = true
	}
	f.unread = 0
}

// Remove deletes the entry with id and reports whether it existed.
func (f *Feed) Remove(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.items {
		if n.ID == id {
			f.items = append(f.items[:i:i], f.items[i+1:]...)
			if !n.Read && f.unread > 0 {
				f.unread--
			}
			return true
		}
	}
	return false
}

// Items returns a copy of the feed, newest first.
func (f *Feed) Items() []models.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.Notification, len(f.items))
	copy(out, f.items)
	return out
}

// Unread returns the unread count.
func (f *Feed) Unread() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.unread
}

// Len returns the number of entries.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.items)
}
