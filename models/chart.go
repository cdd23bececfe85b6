package models

// CumulativePoint is one vertex of a right-continuous step (or piecewise
// linear) series over the 24-hour domain. Minutes is minutes since midnight,
// 0..1440.
type CumulativePoint struct {
	Minutes float64 `json:"x"`
	Amount  float64 `json:"y"`
}

// FeedingStatus classifies today's consumption against the expected pace.
type FeedingStatus string

const (
	StatusOnTrack  FeedingStatus = "On Track"
	StatusBehind   FeedingStatus = "Behind"
	StatusCritical FeedingStatus = "Critical"
	StatusComplete FeedingStatus = "Complete"
)

// FeedingProgress is recomputed on demand and never persisted.
type FeedingProgress struct {
	Consumed      float64       `json:"consumed"`
	Target        float64       `json:"target"`
	Percentage    int           `json:"percentage"`
	ExpectedByNow float64       `json:"expected_by_now"`
	Status        FeedingStatus `json:"status"`
}

// CumulativeChartData bundles the three comparative series the chart
// consumers draw: today's step function, the expected trajectory, and the
// N-day historical average.
type CumulativeChartData struct {
	TodaySeries    []CumulativePoint `json:"today_series"`
	ExpectedSeries []CumulativePoint `json:"expected_series"`
	AverageSeries  []CumulativePoint `json:"average_series"`
	TargetAmount   float64           `json:"target_amount"`
	CurrentOz      float64           `json:"current_oz"`
	Status         FeedingStatus     `json:"status"`
	ExpectedNow    float64           `json:"expected_now"`
	AverageNow     float64           `json:"average_now"`
	AverageDays    int               `json:"average_days"`
}
