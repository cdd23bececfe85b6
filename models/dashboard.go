package models

import "time"

// Urgency bands consumers use when rendering a countdown. Shared by the
// dashboard, widget, live activity, and watch surfaces.
type Urgency string

const (
	UrgencyOverdue Urgency = "overdue"
	UrgencySoon    Urgency = "soon" // due within 30 minutes
	UrgencyOK      Urgency = "ok"
)

// NextExpected is a fixed "last event + interval" instant. Consumers compare
// it to their own clock on their own refresh cadence; the engine does not
// tick.
type NextExpected struct {
	Category ActivityCategory `json:"category"`
	At       time.Time        `json:"at"`
	Urgency  Urgency          `json:"urgency"`
}

// ScheduledReminder records the one live notification a category may have.
type ScheduledReminder struct {
	Category   ActivityCategory `json:"category"`
	Identifier string           `json:"identifier"`
	FireAt     time.Time        `json:"fire_at"`
}

// DashboardSnapshot is the aggregate the display surfaces consume. It is
// recomputed per refresh; a failed refresh leaves the previous snapshot in
// place.
type DashboardSnapshot struct {
	FeedingProgress   FeedingProgress     `json:"feeding_progress"`
	Chart             CumulativeChartData `json:"chart"`
	TodayConsumedOz   float64             `json:"today_consumed_oz"`
	TodayPumpedOz     float64             `json:"today_pumped_oz"`
	DailySurplusOz    float64             `json:"daily_surplus_oz"`
	TodaySleepMinutes int                 `json:"today_sleep_minutes"`
	LastFeedingEnd    *time.Time          `json:"last_feeding_end,omitempty"`
	LastPumpingEnd    *time.Time          `json:"last_pumping_end,omitempty"`
	LastDiaperTime    *time.Time          `json:"last_diaper_time,omitempty"`
	NextExpected      []NextExpected      `json:"next_expected"`
	GeneratedAt       time.Time           `json:"generated_at"`
}
