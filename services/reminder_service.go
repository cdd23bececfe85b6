package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"babysteps/models"
)

// ReminderService runs one cancel-then-schedule state machine per
// (user, category): idle means no pending notification, scheduled means
// exactly one with a known fire time. Every transition cancels first, so a
// category can never hold two live notifications.
type ReminderService struct {
	store    EventSource
	settings SettingsSource
	notifier Notifier
	alerts   *AlertService

	mu    sync.Mutex
	locks map[reminderKey]*sync.Mutex
	state map[reminderKey]models.ScheduledReminder
}

type reminderKey struct {
	userID   uint
	category models.ActivityCategory
}

func NewReminderService(store EventSource, settings SettingsSource, notifier Notifier, alerts *AlertService) *ReminderService {
	return &ReminderService{
		store:    store,
		settings: settings,
		notifier: notifier,
		alerts:   alerts,
		locks:    map[reminderKey]*sync.Mutex{},
		state:    map[reminderKey]models.ScheduledReminder{},
	}
}

// reminderIdentifier is stable for the life of the process so rescheduling
// supersedes instead of duplicating.
func reminderIdentifier(userID uint, category models.ActivityCategory) string {
	return fmt.Sprintf("%s_%d", category.NotificationID(), userID)
}

// lockFor serializes transitions for one (user, category). Different
// categories stay independent.
func (r *ReminderService) lockFor(key reminderKey) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.locks[key] == nil {
		r.locks[key] = &sync.Mutex{}
	}
	return r.locks[key]
}

func (r *ReminderService) setState(key reminderKey, rem models.ScheduledReminder) {
	r.mu.Lock()
	r.state[key] = rem
	r.mu.Unlock()
}

func (r *ReminderService) clearState(key reminderKey) {
	r.mu.Lock()
	delete(r.state, key)
	r.mu.Unlock()
}

// RescheduleAll is the full reschedule: permission grant, app foreground, or
// a settings change. Every category is cancelled unconditionally; without
// permission that cancel is the whole effect. Categories run concurrently
// and a failed fetch degrades only its own category.
func (r *ReminderService) RescheduleAll(ctx context.Context, userID uint, now time.Time) {
	for _, cat := range models.AllCategories {
		key := reminderKey{userID, cat}
		lock := r.lockFor(key)
		lock.Lock()
		r.notifier.Cancel([]string{reminderIdentifier(userID, cat)})
		r.clearState(key)
		lock.Unlock()
	}

	if !r.notifier.PermissionGranted(userID) {
		return
	}

	snap := r.settings.Snapshot(userID)

	var wg sync.WaitGroup
	for _, cat := range models.AllCategories {
		wg.Add(1)
		go func(cat models.ActivityCategory) {
			defer wg.Done()
			r.rescheduleFromStore(ctx, userID, cat, snap, now)
		}(cat)
	}
	wg.Wait()
}

func (r *ReminderService) rescheduleFromStore(ctx context.Context, userID uint, cat models.ActivityCategory, snap models.SettingsSnapshot, now time.Time) {
	cfg := snap.Reminders[cat]
	if !cfg.Enabled {
		return
	}

	key := reminderKey{userID, cat}
	lock := r.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	ev, err := r.store.LatestEvent(ctx, cat)
	if err != nil {
		// Skip just this category for the cycle; it was already cancelled,
		// never left half-scheduled.
		log.Printf("reminder fetch for %s failed: %v", cat, err)
		return
	}

	fireAt := now.Add(time.Second)
	switch {
	case ev == nil:
		// Nothing logged yet. Notify immediately rather than staying silent.
		r.alerts.Emit(userID, cat, "overdue", fmt.Sprintf("No %s logged yet.", cat.DisplayName()))
	default:
		deadline := ev.End.Add(hoursToDuration(cfg.ThresholdHours))
		if deadline.After(now) {
			fireAt = deadline
		} else {
			r.alerts.Emit(userID, cat, "overdue",
				fmt.Sprintf("%s is overdue: last entry ended %s.", cat.DisplayName(), ev.End.Format(time.RFC3339)))
		}
	}

	id := reminderIdentifier(userID, cat)
	r.notifier.ScheduleOneShot(userID, id, fireAt, cat.NotificationTitle(), cat.NotificationBody(cfg.ThresholdHours))
	r.setState(key, models.ScheduledReminder{Category: cat, Identifier: id, FireAt: fireAt})
}

// RescheduleCategory is the quick reschedule used right after a local
// create/update, with no round-trip fetch. An already-overdue deadline
// schedules nothing; the next full reschedule catches real gaps.
func (r *ReminderService) RescheduleCategory(userID uint, cat models.ActivityCategory, lastEntryEnd time.Time, now time.Time) {
	key := reminderKey{userID, cat}
	lock := r.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	id := reminderIdentifier(userID, cat)
	r.notifier.Cancel([]string{id})
	r.clearState(key)

	snap := r.settings.Snapshot(userID)
	cfg := snap.Reminders[cat]
	if !cfg.Enabled || !r.notifier.PermissionGranted(userID) {
		return
	}

	deadline := lastEntryEnd.Add(hoursToDuration(cfg.ThresholdHours))
	if !deadline.After(now) {
		return
	}

	r.notifier.ScheduleOneShot(userID, id, deadline, cat.NotificationTitle(), cat.NotificationBody(cfg.ThresholdHours))
	r.setState(key, models.ScheduledReminder{Category: cat, Identifier: id, FireAt: deadline})
}

// CancelAll drops every pending reminder for the user.
func (r *ReminderService) CancelAll(userID uint) {
	for _, cat := range models.AllCategories {
		key := reminderKey{userID, cat}
		lock := r.lockFor(key)
		lock.Lock()
		r.notifier.Cancel([]string{reminderIdentifier(userID, cat)})
		r.clearState(key)
		lock.Unlock()
	}
}

// Pending lists the user's scheduled reminders, ordered by fire time.
func (r *ReminderService) Pending(userID uint) []models.ScheduledReminder {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.ScheduledReminder
	for key, rem := range r.state {
		if key.userID == userID {
			out = append(out, rem)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
