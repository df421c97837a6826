package progress

import (
	"testing"
	"time"

	"ecoai/models"

	"github.com/stretchr/testify/assert"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

// now is fixed mid-afternoon so day arithmetic is unambiguous.
var now = time.Date(2025, 3, 14, 15, 30, 0, 0, jakarta)

func daysAgo(n int, hour int) time.Time {
	return time.Date(2025, 3, 14-n, hour, 0, 0, 0, jakarta)
}

func TestCarbonTotal(t *testing.T) {
	assert.Equal(t, 0, CarbonTotal(nil))
	assert.Equal(t, 0, CarbonTotal([]models.WasteHistoryItem{}))

	items := []models.WasteHistoryItem{
		{Name: "Plastic Bottle", CO2e: 10},
		{Name: "Aluminum Can", CO2e: 25},
	}
	assert.Equal(t, 35, CarbonTotal(items))

	// Records without a co2e value contribute nothing.
	items = append(items, models.WasteHistoryItem{Name: "Unknown"})
	assert.Equal(t, 35, CarbonTotal(items))
}

func TestDayKeyNormalization(t *testing.T) {
	morning := time.Date(2025, 3, 14, 0, 1, 0, 0, jakarta)
	night := time.Date(2025, 3, 14, 23, 59, 0, 0, jakarta)
	assert.Equal(t, DayKey(morning, jakarta), DayKey(night, jakarta))

	// 23:59 and 00:01 the next day are different streak days even though
	// only minutes apart.
	nextMorning := time.Date(2025, 3, 15, 0, 1, 0, 0, jakarta)
	assert.NotEqual(t, DayKey(night, jakarta), DayKey(nextMorning, jakarta))
	assert.Equal(t, 24*time.Hour, DayKey(nextMorning, jakarta).Sub(DayKey(night, jakarta)))
}

func TestDayKeyCrossZone(t *testing.T) {
	// The same instant falls on different calendar days depending on zone.
	utc := time.Date(2025, 3, 13, 20, 0, 0, 0, time.UTC) // 03:00 Mar 14 WIB
	assert.Equal(t, 14, DayKey(utc, jakarta).Day())
	assert.Equal(t, 13, DayKey(utc, time.UTC).Day())
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name    string
		uploads []time.Time
		want    int
	}{
		{"empty", nil, 0},
		{"three consecutive days ending today", []time.Time{daysAgo(0, 9), daysAgo(1, 18), daysAgo(2, 7)}, 3},
		{"only two days ago", []time.Time{daysAgo(2, 12)}, 0},
		{"yesterday and the day before, today missing", []time.Time{daysAgo(1, 8), daysAgo(2, 20)}, 2},
		{"gap at yesterday", []time.Time{daysAgo(0, 10), daysAgo(2, 10)}, 1},
		{"today only", []time.Time{daysAgo(0, 16)}, 1},
		{"yesterday only", []time.Time{daysAgo(1, 16)}, 1},
		{"long run with old gap", []time.Time{daysAgo(0, 8), daysAgo(1, 8), daysAgo(2, 8), daysAgo(3, 8), daysAgo(5, 8)}, 4},
		{"week old upload", []time.Time{daysAgo(7, 8)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Streak(tt.uploads, now, jakarta))
		})
	}
}

func TestStreakSameDayCountsOnce(t *testing.T) {
	uploads := []time.Time{
		daysAgo(0, 8),
		daysAgo(0, 13),
		daysAgo(0, 22),
		daysAgo(1, 10),
	}
	assert.Equal(t, 2, Streak(uploads, now, jakarta))
}

func TestStreakMidnightBoundary(t *testing.T) {
	// 23:59 yesterday and 00:01 today are two distinct streak days.
	uploads := []time.Time{
		time.Date(2025, 3, 13, 23, 59, 0, 0, jakarta),
		time.Date(2025, 3, 14, 0, 1, 0, 0, jakarta),
	}
	assert.Equal(t, 2, Streak(uploads, now, jakarta))
}
