package models

import "time"

// Feeding delivery methods as stored by the record service.
const (
	FeedingMethodBottle      = "bottle"
	FeedingMethodLeftBreast  = "left breast"
	FeedingMethodRightBreast = "right breast"
	FeedingMethodBothBreasts = "both breasts"
)

// ActivityEvent is an immutable snapshot of one record fetched from the
// remote record-keeping service. Diaper changes are instantaneous, so their
// End equals Start. Amount is nil for records that don't carry one
// (breast feedings, sleep, diapers).
type ActivityEvent struct {
	ID       int              `json:"id"`
	Category ActivityCategory `json:"category"`
	Start    time.Time        `json:"start"`
	End      time.Time        `json:"end"`
	Amount   *float64         `json:"amount,omitempty"` // fluid ounces
	Method   string           `json:"method,omitempty"`
	Type     string           `json:"type,omitempty"`
	Notes    string           `json:"notes,omitempty"`
}
