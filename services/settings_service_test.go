package services

import (
	"testing"

	"babysteps/models"
)

func TestSnapshotFromAppliesDefaults(t *testing.T) {
	snap := SnapshotFrom(&models.CareSettings{})

	if snap.TargetAmount != models.DefaultFeedingTargetAmount {
		t.Fatalf("expected default target amount, got %v", snap.TargetAmount)
	}
	if snap.TargetTime != models.DefaultFeedingTargetTime || snap.WakeTime != models.DefaultFeedingWakeTime {
		t.Fatalf("expected default times, got %q / %q", snap.TargetTime, snap.WakeTime)
	}
	if snap.AverageDays != models.DefaultFeedingAverageDays {
		t.Fatalf("expected default average days, got %d", snap.AverageDays)
	}
	for _, cat := range models.AllCategories {
		if got := snap.Reminders[cat].ThresholdHours; got != cat.DefaultThresholdHours() {
			t.Fatalf("%s: expected default threshold %v, got %v", cat, cat.DefaultThresholdHours(), got)
		}
	}
}

func TestSnapshotFromKeepsStoredValues(t *testing.T) {
	snap := SnapshotFrom(&models.CareSettings{
		FeedingTargetAmount:    30,
		FeedingTargetTime:      "21:30",
		FeedingWakeTime:        "06:30",
		FeedingAverageDays:     7,
		FeedingReminderEnabled: true,
		FeedingThresholdHours:  2.5,
	})

	if snap.TargetAmount != 30 || snap.TargetTime != "21:30" || snap.WakeTime != "06:30" || snap.AverageDays != 7 {
		t.Fatalf("stored values must pass through: %+v", snap)
	}
	cfg := snap.Reminders[models.CategoryFeeding]
	if !cfg.Enabled || cfg.ThresholdHours != 2.5 {
		t.Fatalf("stored reminder config must pass through: %+v", cfg)
	}
}

func TestSnapshotFromAlwaysDisablesSleepInterval(t *testing.T) {
	snap := SnapshotFrom(&models.CareSettings{FeedingIntervalEnabled: true, FeedingIntervalHours: 3})

	if snap.Intervals[models.CategorySleep].Enabled {
		t.Fatalf("sleep interval must always be disabled")
	}
	if !snap.Intervals[models.CategoryFeeding].Enabled {
		t.Fatalf("other intervals must pass through")
	}
}

func TestSnapshotFromZeroIntervalFallsBackToDefault(t *testing.T) {
	snap := SnapshotFrom(&models.CareSettings{PumpingIntervalEnabled: true})
	if got := snap.Intervals[models.CategoryPumping].IntervalHours; got != models.CategoryPumping.DefaultIntervalHours() {
		t.Fatalf("expected default pumping interval, got %v", got)
	}
}
