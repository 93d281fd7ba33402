package notify

import (
	"testing"
	"time"
)

func fixedCenter(t0 time.Time) *Center {
	c := NewCenter()
	c.now = func() time.Time { return t0 }
	return c
}

// TestNotifyAndActive verifies notifications appear in the active feed
// with the severity and message passed in.
func TestNotifyAndActive(t *testing.T) {
	t0 := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	c := fixedCenter(t0)

	c.Notify("saved locally — sync failed", SeverityError, 0)
	c.Notify("3 workouts pending cloud sync", SeverityInfo, 10*time.Second)

	active := c.Active()
	if len(active) != 2 {
		t.Fatalf("active = %d, want 2", len(active))
	}
	if active[0].Severity != SeverityError {
		t.Errorf("severity = %s, want error", active[0].Severity)
	}
	if active[1].Message != "3 workouts pending cloud sync" {
		t.Errorf("message = %q", active[1].Message)
	}
}

// TestExpiry verifies expired notifications drop out of the active feed.
func TestExpiry(t *testing.T) {
	t0 := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	c := fixedCenter(t0)

	c.Notify("short", SeverityInfo, time.Second)
	c.Notify("long", SeverityInfo, time.Minute)

	c.now = func() time.Time { return t0.Add(5 * time.Second) }
	active := c.Active()
	if len(active) != 1 || active[0].Message != "long" {
		t.Errorf("active = %v, want only the long-lived notification", active)
	}
}

// TestDismiss verifies dismissal by id.
func TestDismiss(t *testing.T) {
	c := fixedCenter(time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC))
	c.Notify("a", SeverityInfo, time.Minute)
	c.Notify("b", SeverityInfo, time.Minute)

	active := c.Active()
	if len(active) != 2 {
		t.Fatalf("active = %d, want 2", len(active))
	}
	c.Dismiss(active[0].ID)

	active = c.Active()
	if len(active) != 1 || active[0].Message != "b" {
		t.Errorf("after dismiss, active = %v, want only b", active)
	}
}

// TestBoundedFeed verifies the feed never grows past its cap.
func TestBoundedFeed(t *testing.T) {
	c := fixedCenter(time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC))
	for range 80 {
		c.Notify("x", SeverityInfo, time.Hour)
	}
	if got := len(c.Active()); got != 50 {
		t.Errorf("active = %d, want cap of 50", got)
	}
}
