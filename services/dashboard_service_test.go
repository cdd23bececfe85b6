package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"babysteps/models"
)

func TestNextExpectedTime(t *testing.T) {
	last := testNow.Add(-time.Hour)
	enabled := models.IntervalConfig{Enabled: true, IntervalHours: 3}

	if got := NextExpectedTime(models.CategorySleep, last, enabled); got != nil {
		t.Fatalf("sleep never projects a next-expected time, got %v", got)
	}
	if got := NextExpectedTime(models.CategoryFeeding, last, models.IntervalConfig{Enabled: false, IntervalHours: 3}); got != nil {
		t.Fatalf("disabled interval must project nothing, got %v", got)
	}
	if got := NextExpectedTime(models.CategoryFeeding, time.Time{}, enabled); got != nil {
		t.Fatalf("zero last-end must project nothing, got %v", got)
	}

	got := NextExpectedTime(models.CategoryFeeding, last, enabled)
	if got == nil || !got.Equal(last.Add(3*time.Hour)) {
		t.Fatalf("expected %v, got %v", last.Add(3*time.Hour), got)
	}
}

func TestUrgencyBands(t *testing.T) {
	cases := []struct {
		at   time.Time
		want models.Urgency
	}{
		{testNow.Add(-time.Minute), models.UrgencyOverdue},
		{testNow, models.UrgencyOverdue}, // due exactly now
		{testNow.Add(time.Minute), models.UrgencySoon},
		{testNow.Add(30 * time.Minute), models.UrgencySoon}, // band edge
		{testNow.Add(30*time.Minute + time.Second), models.UrgencyOK},
	}
	for _, tc := range cases {
		if got := UrgencyFor(tc.at, testNow); got != tc.want {
			t.Fatalf("at %v: expected %s, got %s", tc.at, tc.want, got)
		}
	}
}

func TestRefreshComputesSnapshot(t *testing.T) {
	store := newFakeEventSource()
	feedEnd := atClock(testDay, "08:00")
	pumpEnd := atClock(testDay, "10:00")
	diaperAt := atClock(testDay, "09:00")
	sleepStart := atClock(testDay, "09:30")

	store.lists[models.CategoryFeeding] = []models.ActivityEvent{
		{Category: models.CategoryFeeding, Start: feedEnd.Add(-10 * time.Minute), End: feedEnd,
			Method: models.FeedingMethodBottle, Amount: oz(4)},
	}
	store.lists[models.CategoryPumping] = []models.ActivityEvent{
		{Category: models.CategoryPumping, Start: pumpEnd.Add(-15 * time.Minute), End: pumpEnd, Amount: oz(6)},
	}
	store.lists[models.CategorySleep] = []models.ActivityEvent{
		{Category: models.CategorySleep, Start: sleepStart, End: sleepStart.Add(time.Hour)},
	}
	store.latest[models.CategoryDiaper] = &models.ActivityEvent{
		Category: models.CategoryDiaper, Start: diaperAt, End: diaperAt,
	}

	svc := NewDashboardService(store, fakeSettings{allRemindersSnapshot()}, nil)
	snap, err := svc.Refresh(context.Background(), testUser, testNow)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if snap.TodayConsumedOz != 4 {
		t.Fatalf("expected 4 oz consumed, got %v", snap.TodayConsumedOz)
	}
	if snap.TodayPumpedOz != 6 {
		t.Fatalf("expected 6 oz pumped, got %v", snap.TodayPumpedOz)
	}
	if snap.DailySurplusOz != 2 {
		t.Fatalf("expected surplus 2 oz, got %v", snap.DailySurplusOz)
	}
	if snap.TodaySleepMinutes != 60 {
		t.Fatalf("expected 60 sleep minutes, got %d", snap.TodaySleepMinutes)
	}
	if snap.LastFeedingEnd == nil || !snap.LastFeedingEnd.Equal(feedEnd) {
		t.Fatalf("expected last feeding end %v, got %v", feedEnd, snap.LastFeedingEnd)
	}
	if snap.LastDiaperTime == nil || !snap.LastDiaperTime.Equal(diaperAt) {
		t.Fatalf("expected last diaper %v, got %v", diaperAt, snap.LastDiaperTime)
	}

	if len(snap.NextExpected) != 3 {
		t.Fatalf("expected next-expected entries for feeding, pumping, diaper; got %v", snap.NextExpected)
	}
	byCat := map[models.ActivityCategory]models.NextExpected{}
	for _, ne := range snap.NextExpected {
		byCat[ne.Category] = ne
	}
	if ne := byCat[models.CategoryFeeding]; !ne.At.Equal(feedEnd.Add(3*time.Hour)) || ne.Urgency != models.UrgencyOverdue {
		t.Fatalf("feeding next-expected wrong: %+v", ne)
	}
	if ne := byCat[models.CategoryPumping]; !ne.At.Equal(pumpEnd.Add(3*time.Hour)) || ne.Urgency != models.UrgencyOK {
		t.Fatalf("pumping next-expected wrong: %+v", ne)
	}

	if got := svc.LastSnapshot(testUser); got != snap {
		t.Fatalf("refresh must cache the snapshot it returns")
	}
}

func TestRefreshCountsOnlyTodayEvents(t *testing.T) {
	store := newFakeEventSource()
	yesterday := testDay.AddDate(0, 0, -1)
	store.lists[models.CategoryFeeding] = []models.ActivityEvent{
		bottleAt(t, testDay, "08:00", 4),
		bottleAt(t, yesterday, "08:00", 10),
	}

	svc := NewDashboardService(store, fakeSettings{allRemindersSnapshot()}, nil)
	snap, err := svc.Refresh(context.Background(), testUser, testNow)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if snap.TodayConsumedOz != 4 {
		t.Fatalf("yesterday's feedings must not count toward today, got %v", snap.TodayConsumedOz)
	}
}

func TestRefreshIsAllOrNothing(t *testing.T) {
	store := newFakeEventSource()
	store.lists[models.CategoryFeeding] = []models.ActivityEvent{bottleAt(t, testDay, "08:00", 4)}

	svc := NewDashboardService(store, fakeSettings{allRemindersSnapshot()}, nil)
	first, err := svc.Refresh(context.Background(), testUser, testNow)
	if err != nil {
		t.Fatalf("seed refresh failed: %v", err)
	}

	store.mu.Lock()
	store.errs[models.CategorySleep] = errors.New("store unavailable")
	store.mu.Unlock()

	if _, err := svc.Refresh(context.Background(), testUser, testNow.Add(time.Minute)); err == nil {
		t.Fatalf("one failed fetch must fail the whole refresh")
	}
	if got := svc.LastSnapshot(testUser); got != first {
		t.Fatalf("a failed refresh must keep serving the previous snapshot")
	}
}

func TestLastSnapshotEmptyBeforeFirstRefresh(t *testing.T) {
	svc := NewDashboardService(newFakeEventSource(), fakeSettings{allRemindersSnapshot()}, nil)
	if got := svc.LastSnapshot(testUser); got != nil {
		t.Fatalf("expected no snapshot before the first refresh, got %v", got)
	}
}

func TestLastSnapshotIsPerUser(t *testing.T) {
	store := newFakeEventSource()
	svc := NewDashboardService(store, fakeSettings{allRemindersSnapshot()}, nil)

	if _, err := svc.Refresh(context.Background(), testUser, testNow); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if got := svc.LastSnapshot(testUser + 1); got != nil {
		t.Fatalf("snapshots must not leak across users, got %v", got)
	}
}
