// internal/app/system/notify/center.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/aftershift/internal/app/system/apiclient"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"go.uber.org/zap"
)

// Source is the subset of the backend client the Center needs.
type Source interface {
	Notifications(ctx context.Context) (models.NotificationList, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
	ExpiringSoon(ctx context.Context) (models.ExpiringSoon, error)
	UsageAlerts(ctx context.Context) (models.UsageAlerts, error)
}

// Publisher receives every newly accepted notification.
type Publisher interface {
	Publish(n models.Notification)
}

// Center owns the shared admin notification state.
type Center struct {
	src   Source
	pub   Publisher
	dedup *Deduper
	feed  *Feed
	log   *zap.Logger
	now   func() time.Time

	initMu      sync.Mutex
	initialized bool
}

// NewCenter wires a Center. pub may be nil.
func NewCenter(src Source, pub Publisher, logger *zap.Logger) *Center {
	return newCenter(src, pub, logger, time.Now)
}

// NewCenterWithClock is NewCenter with an injectable clock.
func NewCenterWithClock(src Source, pub Publisher, logger *zap.Logger, now func() time.Time) *Center {
	return newCenter(src, pub, logger, now)
}

func newCenter(src Source, pub Publisher, logger *zap.Logger, now func() time.Time) *Center {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Center{
		src:   src,
		pub:   pub,
		dedup: NewDeduperWithClock(now),
		feed:  NewFeed(),
		log:   logger,
		now:   now,
	}
}

// Init loads the backend's current list once. Existing entries are
// marked seen so later polls do not re-announce them.
func (c *Center) Init(ctx context.Context) error {
	c.initMu.Lock()
	defer c.initMu.Unlock()
	if c.initialized {
		return nil
	}

	list, err := c.src.Notifications(ctx)
	if err != nil {
		return fmt.Errorf("initial notifications: %w", err)
	}

	now := c.now()
	items := make([]models.Notification, 0, len(list.Notifications))
	for _, raw := range list.Notifications {
		n, ok := Normalize(raw, now)
		if !ok {
			continue
		}
		c.dedup.Prime(n.Hash)
		items = append(items, n)
	}

	unread := list.UnreadCount
	if unread == 0 {
		unread = -1
	}
	c.feed.Replace(items, unread)
	c.initialized = true

	c.log.Info("notification feed initialized",
		zap.Int("count", c.feed.Len()),
		zap.Int("unread", c.feed.Unread()))
	return nil
}

// Initialized reports whether Init has completed.
func (c *Center) Initialized() bool {
	c.initMu.Lock()
	defer c.initMu.Unlock()
	return c.initialized
}

// Poll fetches the backend list and the derived alerts, accepting any
// notification that passes deduplication. It returns how many were added.
// The first call performs Init instead.
func (c *Center) Poll(ctx context.Context) (int, error) {
	if !c.Initialized() {
		return 0, c.Init(ctx)
	}

	list, err := c.src.Notifications(ctx)
	if err != nil {
		return 0, fmt.Errorf("poll notifications: %w", err)
	}

	added := 0
	for _, raw := range list.Notifications {
		if c.Accept(raw) {
			added++
		}
	}
	added += c.pollAlerts(ctx)
	return added, nil
}

// pollAlerts turns the expiring-soon count and usage alerts into
// notifications. Failures are logged; the main feed still updates.
func (c *Center) pollAlerts(ctx context.Context) int {
	added := 0

	if exp, err := c.src.ExpiringSoon(ctx); err != nil {
		c.log.Debug("expiring-soon check failed", zap.Error(err))
	} else if exp.ExpiringCount > 0 {
		data, _ := json.Marshal(map[string]int{"count": exp.ExpiringCount})
		if c.Accept(models.Notification{
			Type:     models.NotifyCouponExpiry,
			Title:    "Coupons Expiring Soon",
			Message:  fmt.Sprintf("%d coupons will expire in the next 24 hours", exp.ExpiringCount),
			Priority: models.PriorityHigh,
			Data:     data,
			Local:    true,
		}) {
			added++
		}
	}

	if alerts, err := c.src.UsageAlerts(ctx); err != nil {
		c.log.Debug("usage-alerts check failed", zap.Error(err))
	} else {
		for _, a := range alerts.Alerts {
			if c.Accept(models.Notification{
				Type:       models.NotifyUsageAlert,
				Title:      a.Title,
				Message:    a.Message,
				Priority:   a.Priority,
				Department: a.Department,
				EmployeeID: a.EmployeeID,
				Local:      true,
			}) {
				added++
			}
		}
	}
	return added
}

// Accept runs one incoming notification through normalization and
// deduplication, adding and publishing it when it is new.
func (c *Center) Accept(raw models.Notification) bool {
	n, ok := Normalize(raw, c.now())
	if !ok {
		return false
	}
	n.Read = false
	if !c.dedup.Accept(n.Hash, n.Type) {
		return false
	}
	if !c.feed.Add(n) {
		return false
	}
	if c.pub != nil {
		c.pub.Publish(n)
	}
	return true
}

// MarkRead marks one notification read in the backend, then locally.
// Local alerts and entries the backend no longer knows skip straight to
// the feed.
func (c *Center) MarkRead(ctx context.Context, id string) error {
	if err := c.backend(id, func() error { return c.src.MarkNotificationRead(ctx, id) }); err != nil {
		return err
	}
	c.feed.MarkRead(id)
	return nil
}

// MarkAllRead marks every notification read in the backend, then locally.
func (c *Center) MarkAllRead(ctx context.Context) error {
	if err := c.src.MarkAllNotificationsRead(ctx); err != nil {
		return err
	}
	c.feed.MarkAllRead()
	return nil
}

// Remove deletes a notification in the backend, then locally.
func (c *Center) Remove(ctx context.Context, id string) error {
	if err := c.backend(id, func() error { return c.src.DeleteNotification(ctx, id) }); err != nil {
		return err
	}
	c.feed.Remove(id)
	return nil
}

// backend runs call unless id belongs to a local alert. A 404 means the
// backend has already forgotten the entry.
func (c *Center) backend(id string, call func() error) error {
	if n, ok := c.feed.Get(id); ok && n.Local {
		return nil
	}
	err := call()
	if apiclient.IsNotFound(err) {
		c.log.Debug("notification unknown to backend", zap.String("id", id))
		return nil
	}
	return err
}

// Sweep expires old cooldown entries.
func (c *Center) Sweep() int { return c.dedup.Sweep() }

// Items returns the current feed, newest first.
func (c *Center) Items() []models.Notification { return c.feed.Items() }

// Unread returns the unread count.
func (c *Center) Unread() int { return c.feed.Unread() }
