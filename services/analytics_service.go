package services

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"babysteps/models"
)

// Pure, clock-explicit analytics over fetched activity events. Everything in
// this file is safe to call from any goroutine.

// ---------- Totals ----------

// TotalConsumed sums bottle-delivered feeding amounts. Breast feedings carry
// no amount and never count toward cumulative consumption.
func TotalConsumed(feedings []models.ActivityEvent) float64 {
	var total float64
	for _, f := range feedings {
		if f.Method == models.FeedingMethodBottle && f.Amount != nil {
			total += *f.Amount
		}
	}
	return total
}

func TotalPumped(pumpings []models.ActivityEvent) float64 {
	var total float64
	for _, p := range pumpings {
		if p.Amount != nil {
			total += *p.Amount
		}
	}
	return total
}

func TotalSleepMinutes(sleeps []models.ActivityEvent) int {
	var total int
	for _, s := range sleeps {
		if s.End.Before(s.Start) {
			continue
		}
		total += int(s.End.Sub(s.Start).Minutes())
	}
	return total
}

// ---------- Time helpers ----------

// MinutesSinceMidnight converts a wall-clock instant to 0..1440 minutes.
func MinutesSinceMidnight(t time.Time) float64 {
	return float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60.0
}

// ParseTimeToMinutes parses "HH:MM" into minutes since midnight. Malformed
// strings fail closed to 0 (midnight) for chart geometry.
func ParseTimeToMinutes(s string) float64 {
	nums := clockParts(s)
	if len(nums) < 2 {
		return 0
	}
	return float64(nums[0]*60 + nums[1])
}

// clockParts keeps only the numeric segments of an "HH:MM" string.
func clockParts(s string) []int {
	var nums []int
	for _, p := range strings.Split(s, ":") {
		if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			nums = append(nums, n)
		}
	}
	return nums
}

// ---------- Cumulative step series ----------

// BuildCumulativeSteps turns one day's feedings into a cumulative step
// function: (0,0), then two points per bottle feeding at its end-of-day
// minute (before and after the jump). When upToMinutes is set, later events
// are excluded and a flat point at the cutoff is appended so the line
// reaches "now"; with no qualifying events the result is exactly
// [(0,0),(cutoff,0)]. Sums stay unrounded here; rounding happens at the
// display and classification boundaries.
func BuildCumulativeSteps(feedings []models.ActivityEvent, upToMinutes *float64, now time.Time) []models.CumulativePoint {
	type jump struct{ minutes, amount float64 }
	var jumps []jump
	for _, f := range feedings {
		if f.Method != models.FeedingMethodBottle || f.Amount == nil || *f.Amount <= 0 {
			continue
		}
		if f.End.IsZero() {
			continue
		}
		m := MinutesSinceMidnight(f.End)
		if upToMinutes != nil && m > *upToMinutes {
			continue
		}
		jumps = append(jumps, jump{m, *f.Amount})
	}
	sort.Slice(jumps, func(i, j int) bool { return jumps[i].minutes < jumps[j].minutes })

	points := []models.CumulativePoint{{Minutes: 0, Amount: 0}}
	var cumulative float64
	for _, j := range jumps {
		points = append(points, models.CumulativePoint{Minutes: j.minutes, Amount: cumulative})
		cumulative += j.amount
		points = append(points, models.CumulativePoint{Minutes: j.minutes, Amount: cumulative})
	}

	endX := MinutesSinceMidnight(now)
	if upToMinutes != nil {
		endX = *upToMinutes
	}
	if points[len(points)-1].Minutes < endX {
		points = append(points, models.CumulativePoint{Minutes: endX, Amount: cumulative})
	}
	return points
}

// ---------- Expected trajectory ----------

// BuildExpectedLine is the flat-rising-flat expected trajectory: zero until
// wake time, linear to the target amount at target time, flat to midnight.
// Wake later than target is the caller's problem; no clamping here.
func BuildExpectedLine(wakeTime, targetTime string, targetAmount float64) []models.CumulativePoint {
	wakeMinutes := ParseTimeToMinutes(wakeTime)
	targetMinutes := ParseTimeToMinutes(targetTime)

	return []models.CumulativePoint{
		{Minutes: 0, Amount: 0},
		{Minutes: wakeMinutes, Amount: 0},
		{Minutes: targetMinutes, Amount: targetAmount},
		{Minutes: 1440, Amount: targetAmount},
	}
}

// ---------- Historical baseline ----------

// BuildAverageLine averages the cumulative curves of the `days` calendar
// days before reference, sampled every 15 minutes (97 points). Lookup is
// hold-last-value, not linear: a day with no feedings contributes 0 at every
// sample. days <= 0 means no baseline and returns nil.
func BuildAverageLine(historical []models.ActivityEvent, days int, reference time.Time) []models.CumulativePoint {
	if days <= 0 {
		return nil
	}

	daySeries := make([][]models.CumulativePoint, 0, days)
	for offset := 1; offset <= days; offset++ {
		start := dayStart(reference.AddDate(0, 0, -offset))
		end := start.AddDate(0, 0, 1)

		var dayEvents []models.ActivityEvent
		for _, ev := range historical {
			if !ev.End.Before(start) && ev.End.Before(end) {
				dayEvents = append(dayEvents, ev)
			}
		}
		daySeries = append(daySeries, BuildCumulativeSteps(dayEvents, nil, reference))
	}

	out := make([]models.CumulativePoint, 0, 97)
	for minute := 0.0; minute <= 1440.0; minute += 15.0 {
		var sum float64
		for _, series := range daySeries {
			sum += StepValueAt(series, minute)
		}
		out = append(out, models.CumulativePoint{Minutes: minute, Amount: sum / float64(len(daySeries))})
	}
	return out
}

// StepValueAt evaluates a step series as "last point at or before x". Both
// points of a jump share the same x, so the jump minute itself resolves to
// the post-jump value.
func StepValueAt(series []models.CumulativePoint, x float64) float64 {
	var result float64
	for _, p := range series {
		if p.Minutes > x {
			break
		}
		result = p.Amount
	}
	return result
}

// ---------- Progress classification ----------

// CalculateFeedingProgress classifies today's consumption against the pace
// needed to hit targetAmount by targetTime. Malformed target times fall back
// to 22:00.
//
// The expected pace here ramps linearly from midnight, while the chart's
// expected line ramps from wake time. The two anchors intentionally match
// the shipped behavior; unify them only as a flagged behavioral change.
func CalculateFeedingProgress(feedings []models.ActivityEvent, targetAmount float64, targetTime string, now time.Time) models.FeedingProgress {
	consumed := TotalConsumed(feedings)
	today := dayStart(now)

	nums := clockParts(targetTime)
	targetHours, targetMinutes := 22, 0
	if len(nums) > 0 {
		targetHours = nums[0]
	}
	if len(nums) > 1 {
		targetMinutes = nums[1]
	}
	targetDate := time.Date(today.Year(), today.Month(), today.Day(), targetHours, targetMinutes, 0, 0, now.Location())

	minutesToTarget := targetDate.Sub(today).Minutes()
	minutesSinceStart := now.Sub(today).Minutes()

	var expectedByNow float64
	if !now.Before(targetDate) {
		expectedByNow = targetAmount
	} else if minutesSinceStart > 0 && minutesToTarget > 0 {
		expectedByNow = targetAmount * (minutesSinceStart / minutesToTarget)
	}

	percentage := 0
	if targetAmount > 0 {
		percentage = int(math.Round(consumed / targetAmount * 100))
	}
	if percentage > 100 {
		percentage = 100
	}

	// Ordered branches: with expectedByNow == 0 the on-track check already
	// holds for consumed == 0, so an empty morning reads On Track, not
	// Critical.
	var status models.FeedingStatus
	switch {
	case consumed >= targetAmount:
		status = models.StatusComplete
	case consumed >= expectedByNow*0.9:
		status = models.StatusOnTrack
	case consumed >= expectedByNow*0.7:
		status = models.StatusBehind
	default:
		status = models.StatusCritical
	}

	return models.FeedingProgress{
		Consumed:      consumed,
		Target:        targetAmount,
		Percentage:    percentage,
		ExpectedByNow: round1(expectedByNow), // rounded after classification
		Status:        status,
	}
}

// ---------- Chart aggregation ----------

// ComputeCumulativeChartData assembles everything the cumulative chart
// consumers need from today's and the trailing week's feedings.
func ComputeCumulativeChartData(todayFeedings, weekFeedings []models.ActivityEvent, snap models.SettingsSnapshot, now time.Time) models.CumulativeChartData {
	nowMinutes := MinutesSinceMidnight(now)

	todaySeries := BuildCumulativeSteps(todayFeedings, &nowMinutes, now)

	expectedSeries := BuildExpectedLine(snap.WakeTime, snap.TargetTime, snap.TargetAmount)

	todayStart := dayStart(now)
	var historical []models.ActivityEvent
	for _, f := range weekFeedings {
		if f.End.Before(todayStart) {
			historical = append(historical, f)
		}
	}
	averageSeries := BuildAverageLine(historical, snap.AverageDays, now)

	progress := CalculateFeedingProgress(todayFeedings, snap.TargetAmount, snap.TargetTime, now)

	return models.CumulativeChartData{
		TodaySeries:    todaySeries,
		ExpectedSeries: expectedSeries,
		AverageSeries:  averageSeries,
		TargetAmount:   snap.TargetAmount,
		CurrentOz:      todaySeries[len(todaySeries)-1].Amount,
		Status:         progress.Status,
		ExpectedNow:    StepValueAt(expectedSeries, nowMinutes),
		AverageNow:     StepValueAt(averageSeries, nowMinutes),
		AverageDays:    snap.AverageDays,
	}
}

// ---------- internals ----------

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
