// Package notify carries transient user-facing notifications from the
// store to whatever surface displays them. Notifications are
// fire-and-forget: the store never waits for acknowledgment.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity classifies a notification for display.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// DefaultDuration is how long a notification stays active when the caller
// passes no explicit duration.
const DefaultDuration = 2500 * time.Millisecond

// Notification is one transient message.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Notifier is the sink the store emits to.
type Notifier interface {
	Notify(message string, severity Severity, duration time.Duration)
}

// Center is an in-memory Notifier holding a bounded feed of recent
// notifications. The HTTP layer polls Active and dismisses by id.
type Center struct {
	mu    sync.Mutex
	items []Notification
	max   int
	now   func() time.Time
}

// NewCenter creates a Center keeping at most 50 notifications.
func NewCenter() *Center {
	return &Center{max: 50, now: time.Now}
}

// Notify appends a notification to the feed. A duration of 0 uses
// DefaultDuration.
func (c *Center) Notify(message string, severity Severity, duration time.Duration) {
	if duration <= 0 {
		duration = DefaultDuration
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.items = append(c.items, Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: now,
		ExpiresAt: now.Add(duration),
	})
	if len(c.items) > c.max {
		c.items = c.items[len(c.items)-c.max:]
	}
}

// Active returns all notifications that have not yet expired, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var active []Notification
	for _, n := range c.items {
		if n.ExpiresAt.After(now) {
			active = append(active, n)
		}
	}
	return active
}

// Dismiss removes the notification with the given id.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	for _, n := range c.items {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	c.items = kept
}

var _ Notifier = (*Center)(nil)
