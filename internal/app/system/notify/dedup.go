// internal/app/system/notify/dedup.go
package notify

import (
	"sync"
	"time"

	"github.com/dalemusser/aftershift/internal/domain/models"
)

const (
	// ExpiryCooldown applies to coupon_expiry notifications.
	ExpiryCooldown = 5 * time.Minute
	// DefaultCooldown applies to every other type.
	DefaultCooldown = 3 * time.Minute
	// CooldownRetention is how long a cooldown entry survives a Sweep.
	CooldownRetention = 10 * time.Minute

	seenLimit = 100
	seenKeep  = 50
)

// CooldownFor returns the suppression window for a notification type.
func CooldownFor(typ string) time.Duration {
	if typ == models.NotifyCouponExpiry {
		return ExpiryCooldown
	}
	return DefaultCooldown
}

// Deduper suppresses notifications whose hash was already seen or was
// shown within its type's cooldown window.
type Deduper struct {
	mu       sync.Mutex
	now      func() time.Time
	seen     map[string]struct{}
	order    []string // insertion order of seen, oldest first
	cooldown map[string]time.Time
}

// NewDeduper returns an empty Deduper using the wall clock.
func NewDeduper() *Deduper {
	return NewDeduperWithClock(time.Now)
}

// NewDeduperWithClock is NewDeduper with an injectable clock.
func NewDeduperWithClock(now func() time.Time) *Deduper {
	return &Deduper{
		now:      now,
		seen:     make(map[string]struct{}),
		cooldown: make(map[string]time.Time),
	}
}

func cooldownKey(typ, hash string) string { return typ + "_" + hash }

// ShouldShow reports whether hash may be shown now. It does not record anything.
func (d *Deduper) ShouldShow(hash, typ string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shouldShowLocked(hash, typ)
}

func (d *Deduper) shouldShowLocked(hash, typ string) bool {
	if last, ok := d.cooldown[cooldownKey(typ, hash)]; ok && d.now().Sub(last) < CooldownFor(typ) {
		return false
	}
	_, seen := d.seen[hash]
	return !seen
}

// Accept checks and records hash in one step. It returns true when the
// notification should be shown; the hash is then marked seen and its
// cooldown starts.
func (d *Deduper) Accept(hash, typ string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.shouldShowLocked(hash, typ) {
		return false
	}
	d.markSeenLocked(hash)
	d.cooldown[cooldownKey(typ, hash)] = d.now()
	return true
}

// Prime marks hash as seen without starting a cooldown. Used for the
// notifications already present when the feed is first loaded.
func (d *Deduper) Prime(hash string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.markSeenLocked(hash)
}

func (d *Deduper) markSeenLocked(hash string) {
	if _, ok := d.seen[hash]; ok {
		return
	}
	d.seen[hash] = struct{}{}
	d.order = append(d.order, hash)

	if len(d.order) > seenLimit {
		drop := d.order[:len(d.order)-seenKeep]
		for _, h := range drop {
			delete(d.seen, h)
		}
		keep := make([]string, seenKeep)
		copy(keep, d.order[len(d.order)-seenKeep:])
		d.order = keep
	}
}

// Sweep drops cooldown entries older than CooldownRetention and returns
// how many were removed.
func (d *Deduper) Sweep() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	n := 0
	for k, t := range d.cooldown {
		if now.Sub(t) > CooldownRetention {
			delete(d.cooldown, k)
			n++
		}
	}
	return n
}

// SeenCount returns the size of the seen set.
func (d *Deduper) SeenCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// CooldownCount returns the number of live cooldown entries.
func (d *Deduper) CooldownCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cooldown)
}
