package domain_test

import (
	"testing"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

func TestExtractEventNumber(t *testing.T) {
	cases := []struct {
		name    string
		display string
		want    string
		wantOK  bool
	}{
		{"core event", "Demo 123456 Thing", "123456", true},
		{"supervisor event", "Supervisor 123456 Check", "123456", true},
		{"no number", "Weekly Refresh", "", false},
		{"short number", "Demo 1234 Thing", "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := domain.ExtractEventNumber(c.display)
			if ok != c.wantOK || got != c.want {
				t.Fatalf("ExtractEventNumber(%q) = (%q, %v), want (%q, %v)", c.display, got, ok, c.want, c.wantOK)
			}
		})
	}
}

func TestEvent_ValidForDatetime(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	event := domain.Event{StartDatetime: start, DueDatetime: due}

	if !event.ValidForDatetime(start) {
		t.Fatal("start instant should be valid (inclusive)")
	}
	if event.ValidForDatetime(due) {
		t.Fatal("due instant should not be valid (exclusive)")
	}
	if !event.ValidForDatetime(due.Add(-time.Minute)) {
		t.Fatal("just before due should be valid")
	}
	if event.ValidForDatetime(start.Add(-time.Minute)) {
		t.Fatal("before start should not be valid")
	}
}

func TestEvent_DaysUntilDue_FloorsTowardNegativeInfinity(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	event := domain.Event{DueDatetime: now.Add(36 * time.Hour)}
	if got := event.DaysUntilDue(now); got != 1 {
		t.Fatalf("DaysUntilDue = %d, want 1", got)
	}

	pastDue := domain.Event{DueDatetime: now.Add(-36 * time.Hour)}
	if got := pastDue.DaysUntilDue(now); got != -2 {
		t.Fatalf("DaysUntilDue (past) = %d, want -2 (floors toward -inf, like Python timedelta.days)", got)
	}
}

func TestDetectDigitalSubtype(t *testing.T) {
	cases := map[string]domain.DigitalSubtype{
		"Digitals Setup 100788":    domain.DigitalSetup,
		"Digital REFRESH banner":   domain.DigitalRefresh,
		"End of promo teardown":    domain.DigitalTeardown,
		"Generic digital asset":    domain.DigitalUnknown,
	}
	for name, want := range cases {
		if got := domain.DetectDigitalSubtype(name); got != want {
			t.Errorf("DetectDigitalSubtype(%q) = %q, want %q", name, got, want)
		}
	}
}
