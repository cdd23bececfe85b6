package services

import (
	"context"
	"sync"
	"time"

	"babysteps/models"
)

// DashboardService joins the per-category fetches into one snapshot for the
// dashboard, widget, live activity, and watch surfaces. A refresh is
// all-or-nothing: one failed fetch fails the cycle and the previous snapshot
// keeps being served.
type DashboardService struct {
	store    EventSource
	settings SettingsSource
	hub      *RealtimeHub

	mu   sync.RWMutex
	last map[uint]*models.DashboardSnapshot
}

func NewDashboardService(store EventSource, settings SettingsSource, hub *RealtimeHub) *DashboardService {
	return &DashboardService{
		store:    store,
		settings: settings,
		hub:      hub,
		last:     map[uint]*models.DashboardSnapshot{},
	}
}

const fetchLimit = 1000

// Refresh fetches today's and the trailing week's events in parallel,
// computes the derived values, caches the snapshot, and broadcasts it.
func (d *DashboardService) Refresh(ctx context.Context, userID uint, now time.Time) (*models.DashboardSnapshot, error) {
	snap := d.settings.Snapshot(userID)

	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)
	weekAgo := now.AddDate(0, 0, -7)

	var (
		wg           sync.WaitGroup
		todayFeed    []models.ActivityEvent
		weekFeed     []models.ActivityEvent
		todayPump    []models.ActivityEvent
		todaySleep   []models.ActivityEvent
		latestDiaper *models.ActivityEvent

		errMu    sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}

	wg.Add(5)
	go func() {
		defer wg.Done()
		evs, err := d.store.ListEvents(ctx, models.CategoryFeeding, yesterday, tomorrow, fetchLimit)
		if err != nil {
			fail(err)
			return
		}
		todayFeed = filterToday(evs, now)
	}()
	go func() {
		defer wg.Done()
		evs, err := d.store.ListEvents(ctx, models.CategoryFeeding, weekAgo, tomorrow, fetchLimit)
		if err != nil {
			fail(err)
			return
		}
		weekFeed = evs
	}()
	go func() {
		defer wg.Done()
		evs, err := d.store.ListEvents(ctx, models.CategoryPumping, yesterday, tomorrow, fetchLimit)
		if err != nil {
			fail(err)
			return
		}
		todayPump = filterToday(evs, now)
	}()
	go func() {
		defer wg.Done()
		evs, err := d.store.ListEvents(ctx, models.CategorySleep, yesterday, tomorrow, fetchLimit)
		if err != nil {
			fail(err)
			return
		}
		todaySleep = filterToday(evs, now)
	}()
	go func() {
		defer wg.Done()
		ev, err := d.store.LatestEvent(ctx, models.CategoryDiaper)
		if err != nil {
			fail(err)
			return
		}
		latestDiaper = ev
	}()
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	out := &models.DashboardSnapshot{
		FeedingProgress:   CalculateFeedingProgress(todayFeed, snap.TargetAmount, snap.TargetTime, now),
		Chart:             ComputeCumulativeChartData(todayFeed, weekFeed, snap, now),
		TodayConsumedOz:   TotalConsumed(todayFeed),
		TodayPumpedOz:     TotalPumped(todayPump),
		TodaySleepMinutes: TotalSleepMinutes(todaySleep),
		GeneratedAt:       now,
	}
	out.DailySurplusOz = out.TodayPumpedOz - out.TodayConsumedOz

	out.LastFeedingEnd = latestEnd(todayFeed)
	out.LastPumpingEnd = latestEnd(todayPump)
	if latestDiaper != nil {
		t := latestDiaper.End
		out.LastDiaperTime = &t
	}

	lastByCategory := map[models.ActivityCategory]*time.Time{
		models.CategoryFeeding: out.LastFeedingEnd,
		models.CategoryPumping: out.LastPumpingEnd,
		models.CategoryDiaper:  out.LastDiaperTime,
	}
	for _, cat := range []models.ActivityCategory{models.CategoryFeeding, models.CategoryPumping, models.CategoryDiaper} {
		last := lastByCategory[cat]
		if last == nil {
			continue
		}
		if at := NextExpectedTime(cat, *last, snap.Intervals[cat]); at != nil {
			out.NextExpected = append(out.NextExpected, models.NextExpected{
				Category: cat,
				At:       *at,
				Urgency:  UrgencyFor(*at, now),
			})
		}
	}

	d.mu.Lock()
	d.last[userID] = out
	d.mu.Unlock()

	if d.hub != nil {
		d.hub.BroadcastSnapshot(userID, out)
	}
	return out, nil
}

// LastSnapshot returns the previous successful refresh, if any. Served when
// a refresh fails so transport errors never blank the surfaces.
func (d *DashboardService) LastSnapshot(userID uint) *models.DashboardSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.last[userID]
}

// NextExpectedTime projects "last event end + configured interval". Sleep
// never participates, and a disabled interval yields nothing.
func NextExpectedTime(cat models.ActivityCategory, lastEnd time.Time, iv models.IntervalConfig) *time.Time {
	if cat == models.CategorySleep || !iv.Enabled || lastEnd.IsZero() {
		return nil
	}
	t := lastEnd.Add(hoursToDuration(iv.IntervalHours))
	return &t
}

// UrgencyFor is the countdown band shared by all surfaces: overdue at or
// past the instant, soon within 30 minutes, ok beyond that.
func UrgencyFor(at, now time.Time) models.Urgency {
	remaining := at.Sub(now)
	switch {
	case remaining <= 0:
		return models.UrgencyOverdue
	case remaining <= 30*time.Minute:
		return models.UrgencySoon
	default:
		return models.UrgencyOK
	}
}

// ---------- internals ----------

func filterToday(events []models.ActivityEvent, now time.Time) []models.ActivityEvent {
	start := dayStart(now)
	end := start.AddDate(0, 0, 1)

	var out []models.ActivityEvent
	for _, ev := range events {
		if !ev.Start.Before(start) && ev.Start.Before(end) {
			out = append(out, ev)
		}
	}
	return out
}

func latestEnd(events []models.ActivityEvent) *time.Time {
	var latest *time.Time
	for i := range events {
		end := events[i].End
		if latest == nil || end.After(*latest) {
			latest = &end
		}
	}
	return latest
}
