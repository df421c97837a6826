// Package progress derives carbon-tracking figures from a user's waste
// uploads. Nothing here is ever stored: totals and streaks are recomputed
// from the full record set on every request.
package progress

import (
	"time"

	"ecoai/models"
)

// CarbonTotal sums the CO2e grams of the given records.
func CarbonTotal(items []models.WasteHistoryItem) int {
	total := 0
	for _, item := range items {
		total += item.CO2e
	}
	return total
}

// DayKey truncates t to midnight of its calendar day in loc. Two
// timestamps on the same local calendar day map to the same key regardless
// of time of day.
func DayKey(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Streak returns the number of consecutive calendar days, ending at today
// or yesterday, on which at least one upload occurred. Multiple uploads on
// one day count once. A missed day resets the streak to zero; a streak
// whose latest upload was yesterday is still alive (the user can extend it
// today). Days are bounded at local midnight in loc.
func Streak(uploadTimes []time.Time, now time.Time, loc *time.Location) int {
	if len(uploadTimes) == 0 {
		return 0
	}

	days := make(map[time.Time]bool, len(uploadTimes))
	var latest time.Time
	for _, t := range uploadTimes {
		day := DayKey(t, loc)
		days[day] = true
		if day.After(latest) {
			latest = day
		}
	}

	today := DayKey(now, loc)
	yesterday := today.AddDate(0, 0, -1)

	var start time.Time
	switch {
	case latest.Equal(today):
		start = today
	case latest.Equal(yesterday):
		start = yesterday
	default:
		// Latest upload is older than yesterday: a day was missed.
		return 0
	}

	streak := 0
	for day := start; days[day]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}
