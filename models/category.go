package models

import "fmt"

// ActivityCategory identifies one trackable care-activity stream.
type ActivityCategory string

const (
	CategoryFeeding ActivityCategory = "feeding"
	CategoryDiaper  ActivityCategory = "diaper"
	CategorySleep   ActivityCategory = "sleep"
	CategoryPumping ActivityCategory = "pumping"
)

// AllCategories lists every stream the reminder engine manages.
var AllCategories = []ActivityCategory{CategoryFeeding, CategoryDiaper, CategorySleep, CategoryPumping}

func ParseCategory(s string) (ActivityCategory, bool) {
	switch ActivityCategory(s) {
	case CategoryFeeding, CategoryDiaper, CategorySleep, CategoryPumping:
		return ActivityCategory(s), true
	}
	return "", false
}

func (c ActivityCategory) DisplayName() string {
	switch c {
	case CategoryFeeding:
		return "Feeding"
	case CategoryDiaper:
		return "Diaper"
	case CategorySleep:
		return "Sleep"
	case CategoryPumping:
		return "Pumping"
	}
	return string(c)
}

// DefaultThresholdHours is the reminder deadline used until the user sets one.
func (c ActivityCategory) DefaultThresholdHours() float64 {
	switch c {
	case CategorySleep, CategoryPumping:
		return 4.0
	default:
		return 3.0
	}
}

// DefaultIntervalHours drives the "next expected" countdown. Sleep sessions
// are intermittent so the interval concept does not apply to them.
func (c ActivityCategory) DefaultIntervalHours() float64 {
	switch c {
	case CategorySleep:
		return 0
	case CategoryPumping:
		return 4.0
	default:
		return 3.0
	}
}

// NotificationID is stable across the process lifetime so rescheduling always
// supersedes instead of duplicating.
func (c ActivityCategory) NotificationID() string {
	return "reminder_" + string(c)
}

func (c ActivityCategory) NotificationTitle() string {
	return c.DisplayName() + " Reminder"
}

func (c ActivityCategory) NotificationBody(thresholdHours float64) string {
	hoursText := fmt.Sprintf("%.1f", thresholdHours)
	if thresholdHours == float64(int(thresholdHours)) {
		hoursText = fmt.Sprintf("%d", int(thresholdHours))
	}

	switch c {
	case CategoryFeeding:
		return fmt.Sprintf("It's been over %s hours since the last feeding.", hoursText)
	case CategoryDiaper:
		return fmt.Sprintf("It's been over %s hours since the last diaper change.", hoursText)
	case CategorySleep:
		return fmt.Sprintf("It's been over %s hours since the last sleep session ended.", hoursText)
	case CategoryPumping:
		return fmt.Sprintf("It's been over %s hours since the last pumping session.", hoursText)
	}
	return fmt.Sprintf("It's been over %s hours since the last entry.", hoursText)
}
