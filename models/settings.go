package models

import (
	"gorm.io/gorm"
)

// Defaults applied when a stored value is missing or out of range.
const (
	DefaultFeedingTargetAmount = 24.0
	DefaultFeedingTargetTime   = "22:00"
	DefaultFeedingWakeTime     = "07:00"
	DefaultFeedingAverageDays  = 3
)

// CareSettings holds each user's feeding targets and per-category reminder
// and interval configuration.
type CareSettings struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null"`

	FeedingTargetAmount float64 // oz, e.g. 24
	FeedingTargetTime   string  `gorm:"size:5"` // "HH:MM"
	FeedingWakeTime     string  `gorm:"size:5"` // "HH:MM"
	FeedingAverageDays  int     // baseline window, e.g. 3

	FeedingReminderEnabled bool
	FeedingThresholdHours  float64
	DiaperReminderEnabled  bool
	DiaperThresholdHours   float64
	SleepReminderEnabled   bool
	SleepThresholdHours    float64
	PumpingReminderEnabled bool
	PumpingThresholdHours  float64

	FeedingIntervalEnabled bool
	FeedingIntervalHours   float64
	DiaperIntervalEnabled  bool
	DiaperIntervalHours    float64
	PumpingIntervalEnabled bool
	PumpingIntervalHours   float64
}

// ReminderConfig is the per-category overdue-notification setting.
type ReminderConfig struct {
	Enabled        bool    `json:"enabled"`
	ThresholdHours float64 `json:"threshold_hours"`
}

// IntervalConfig drives the per-category "next expected" countdown.
type IntervalConfig struct {
	Enabled       bool    `json:"enabled"`
	IntervalHours float64 `json:"interval_hours"`
}

// SettingsSnapshot is an immutable read of CareSettings taken once per
// computation, with defaults already applied. The engine never reads the
// mutable row directly.
type SettingsSnapshot struct {
	TargetAmount float64 `json:"target_amount"`
	TargetTime   string  `json:"target_time"`
	WakeTime     string  `json:"wake_time"`
	AverageDays  int     `json:"average_days"`

	Reminders map[ActivityCategory]ReminderConfig `json:"reminders"`
	Intervals map[ActivityCategory]IntervalConfig `json:"intervals"`
}
