package services

import (
	"errors"

	"babysteps/models"

	"gorm.io/gorm"
)

// SettingsSource supplies the immutable configuration snapshot the engines
// read once per computation.
type SettingsSource interface {
	Snapshot(userID uint) models.SettingsSnapshot
}

type SettingsService struct{ db *gorm.DB }

func NewSettingsService(db *gorm.DB) *SettingsService { return &SettingsService{db: db} }

// Get returns the stored row, or a defaults-populated unsaved row when the
// user has never edited settings.
func (s *SettingsService) Get(userID uint) (*models.CareSettings, error) {
	var cs models.CareSettings
	if err := s.db.Where("user_id = ?", userID).First(&cs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return defaultSettings(userID), nil
		}
		return nil, err
	}
	return &cs, nil
}

// Upsert replaces the user's settings row.
func (s *SettingsService) Upsert(userID uint, updated models.CareSettings) error {
	var cs models.CareSettings
	err := s.db.Where("user_id = ?", userID).First(&cs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		updated.UserID = userID
		return s.db.Create(&updated).Error
	}
	if err != nil {
		return err
	}

	updated.ID = cs.ID
	updated.UserID = userID
	updated.CreatedAt = cs.CreatedAt
	return s.db.Save(&updated).Error
}

// Snapshot reads settings fresh and applies defaults to anything missing or
// out of range. Configuration problems never surface as errors; they fall
// back.
func (s *SettingsService) Snapshot(userID uint) models.SettingsSnapshot {
	cs, err := s.Get(userID)
	if err != nil {
		cs = defaultSettings(userID)
	}
	return SnapshotFrom(cs)
}

// SnapshotFrom converts a settings row to an immutable snapshot with
// fallbacks applied. The sleep interval is always disabled; intervals don't
// apply to intermittent sleep sessions.
func SnapshotFrom(cs *models.CareSettings) models.SettingsSnapshot {
	snap := models.SettingsSnapshot{
		TargetAmount: cs.FeedingTargetAmount,
		TargetTime:   cs.FeedingTargetTime,
		WakeTime:     cs.FeedingWakeTime,
		AverageDays:  cs.FeedingAverageDays,
		Reminders:    map[models.ActivityCategory]models.ReminderConfig{},
		Intervals:    map[models.ActivityCategory]models.IntervalConfig{},
	}
	if snap.TargetAmount <= 0 {
		snap.TargetAmount = models.DefaultFeedingTargetAmount
	}
	if snap.TargetTime == "" {
		snap.TargetTime = models.DefaultFeedingTargetTime
	}
	if snap.WakeTime == "" {
		snap.WakeTime = models.DefaultFeedingWakeTime
	}
	if snap.AverageDays < 1 {
		snap.AverageDays = models.DefaultFeedingAverageDays
	}

	reminders := map[models.ActivityCategory]models.ReminderConfig{
		models.CategoryFeeding: {Enabled: cs.FeedingReminderEnabled, ThresholdHours: cs.FeedingThresholdHours},
		models.CategoryDiaper:  {Enabled: cs.DiaperReminderEnabled, ThresholdHours: cs.DiaperThresholdHours},
		models.CategorySleep:   {Enabled: cs.SleepReminderEnabled, ThresholdHours: cs.SleepThresholdHours},
		models.CategoryPumping: {Enabled: cs.PumpingReminderEnabled, ThresholdHours: cs.PumpingThresholdHours},
	}
	for cat, cfg := range reminders {
		if cfg.ThresholdHours <= 0 {
			cfg.ThresholdHours = cat.DefaultThresholdHours()
		}
		snap.Reminders[cat] = cfg
	}

	intervals := map[models.ActivityCategory]models.IntervalConfig{
		models.CategoryFeeding: {Enabled: cs.FeedingIntervalEnabled, IntervalHours: cs.FeedingIntervalHours},
		models.CategoryDiaper:  {Enabled: cs.DiaperIntervalEnabled, IntervalHours: cs.DiaperIntervalHours},
		models.CategoryPumping: {Enabled: cs.PumpingIntervalEnabled, IntervalHours: cs.PumpingIntervalHours},
	}
	for cat, cfg := range intervals {
		if cfg.IntervalHours <= 0 {
			cfg.IntervalHours = cat.DefaultIntervalHours()
		}
		snap.Intervals[cat] = cfg
	}
	snap.Intervals[models.CategorySleep] = models.IntervalConfig{Enabled: false}

	return snap
}

func defaultSettings(userID uint) *models.CareSettings {
	return &models.CareSettings{
		UserID:              userID,
		FeedingTargetAmount: models.DefaultFeedingTargetAmount,
		FeedingTargetTime:   models.DefaultFeedingTargetTime,
		FeedingWakeTime:     models.DefaultFeedingWakeTime,
		FeedingAverageDays:  models.DefaultFeedingAverageDays,

		FeedingReminderEnabled: true,
		FeedingThresholdHours:  models.CategoryFeeding.DefaultThresholdHours(),
		DiaperReminderEnabled:  true,
		DiaperThresholdHours:   models.CategoryDiaper.DefaultThresholdHours(),
		SleepReminderEnabled:   false,
		SleepThresholdHours:    models.CategorySleep.DefaultThresholdHours(),
		PumpingReminderEnabled: false,
		PumpingThresholdHours:  models.CategoryPumping.DefaultThresholdHours(),

		FeedingIntervalEnabled: true,
		FeedingIntervalHours:   models.CategoryFeeding.DefaultIntervalHours(),
		DiaperIntervalEnabled:  true,
		DiaperIntervalHours:    models.CategoryDiaper.DefaultIntervalHours(),
		PumpingIntervalEnabled: false,
		PumpingIntervalHours:   models.CategoryPumping.DefaultIntervalHours(),
	}
}
