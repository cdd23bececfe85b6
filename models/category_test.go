package models

import "testing"

func TestParseCategory(t *testing.T) {
	for _, cat := range AllCategories {
		got, ok := ParseCategory(string(cat))
		if !ok || got != cat {
			t.Fatalf("ParseCategory(%q) = %q, %v", cat, got, ok)
		}
	}
	if _, ok := ParseCategory("tummy-time"); ok {
		t.Fatalf("unknown categories must not parse")
	}
}

func TestNotificationIDStable(t *testing.T) {
	if got := CategoryFeeding.NotificationID(); got != "reminder_feeding" {
		t.Fatalf("identifier drifted: %q", got)
	}
	if CategoryDiaper.NotificationID() != CategoryDiaper.NotificationID() {
		t.Fatalf("identifier must be deterministic")
	}
}

func TestNotificationBodyHourFormatting(t *testing.T) {
	// Whole-number thresholds read "3 hours", fractional ones "2.5 hours".
	whole := CategoryFeeding.NotificationBody(3)
	if whole != "It's been over 3 hours since the last feeding." {
		t.Fatalf("unexpected body: %q", whole)
	}
	fractional := CategoryFeeding.NotificationBody(2.5)
	if fractional != "It's been over 2.5 hours since the last feeding." {
		t.Fatalf("unexpected body: %q", fractional)
	}
}

func TestDefaultIntervalExcludesSleep(t *testing.T) {
	if got := CategorySleep.DefaultIntervalHours(); got != 0 {
		t.Fatalf("sleep has no interval, got %v", got)
	}
	if got := CategoryPumping.DefaultIntervalHours(); got != 4 {
		t.Fatalf("expected 4 for pumping, got %v", got)
	}
}
