package service

import (
	"math"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/daykey"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
)

// DefaultStreakLookback bounds how many days before the reference day a
// streak walk examines. Longer streaks are undercounted.
const DefaultStreakLookback = 30

// LogLookup returns the log for day, or nil when there is none.
type LogLookup func(day string) *model.DailyLog

// IsActiveDay reports whether log has at least one active food entry or a
// positive water intake.
func IsActiveDay(log *model.DailyLog) bool {
	if log == nil {
		return false
	}
	if !math.IsNaN(log.WaterIntake) && !math.IsInf(log.WaterIntake, 0) && log.WaterIntake > 0 {
		return true
	}
	for _, e := range log.FoodEntries {
		if IsActiveEntry(e) {
			return true
		}
	}
	return false
}

// ComputeStreak counts consecutive active days ending at referenceDay,
// walking back at most maxLookback days. A negative lookback examines only
// referenceDay. An invalid reference day yields 0.
func ComputeStreak(referenceDay string, lookup LogLookup, maxLookback int) int {
	if lookup == nil || !daykey.IsValid(referenceDay) {
		return 0
	}
	if maxLookback < 0 {
		maxLookback = 0
	}
	count := 0
	for offset := 0; offset <= maxLookback; offset++ {
		day, err := daykey.AddDays(referenceDay, -offset)
		if err != nil {
			break
		}
		if !IsActiveDay(lookup(day)) {
			break
		}
		count++
	}
	return count
}

// LongestStreak returns the longest run of consecutive active days in days,
// which must be ordered and contiguous.
func LongestStreak(days []string, lookup LogLookup) int {
	if lookup == nil {
		return 0
	}
	best, run := 0, 0
	for _, day := range days {
		if IsActiveDay(lookup(day)) {
			run++
			if run > best {
				best = run
			}
			continue
		}
		run = 0
	}
	return best
}

// LookupFromLogs indexes logs by date for use with ComputeStreak.
func LookupFromLogs(logs []model.DailyLog) LogLookup {
	byDay := make(map[string]*model.DailyLog, len(logs))
	for i := range logs {
		byDay[logs[i].Date] = &logs[i]
	}
	return func(day string) *model.DailyLog {
		return byDay[day]
	}
}
