package service_test

import (
	"math"
	"testing"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/daykey"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/service"
)

func activeLog(day string) model.DailyLog {
	l := model.NewDailyLog(day)
	l.FoodEntries = []model.FoodEntry{food(model.Float(250), model.Float(100))}
	return l
}

func waterLog(day string, ml float64) model.DailyLog {
	l := model.NewDailyLog(day)
	l.WaterIntake = ml
	return l
}

func TestComputeStreakStopsAtFirstMissingDay(t *testing.T) {
	t.Parallel()
	lookup := service.LookupFromLogs([]model.DailyLog{
		activeLog("2024-03-10"),
		waterLog("2024-03-09", 250),
		activeLog("2024-03-08"),
		activeLog("2024-03-06"),
	})
	if got := service.ComputeStreak("2024-03-10", lookup, 30); got != 3 {
		t.Fatalf("expected streak 3, got %d", got)
	}
}

func TestComputeStreakZeroWhenReferenceDayInactive(t *testing.T) {
	t.Parallel()
	lookup := service.LookupFromLogs([]model.DailyLog{
		model.NewDailyLog("2024-03-10"),
		activeLog("2024-03-09"),
	})
	if got := service.ComputeStreak("2024-03-10", lookup, 30); got != 0 {
		t.Fatalf("expected streak 0, got %d", got)
	}
}

func TestComputeStreakIgnoresZeroAndInvalidCalories(t *testing.T) {
	t.Parallel()
	zero := model.NewDailyLog("2024-03-10")
	zero.FoodEntries = []model.FoodEntry{food(model.Float(0), model.Float(100))}
	nan := math.NaN()
	bad := model.NewDailyLog("2024-03-10")
	bad.FoodEntries = []model.FoodEntry{food(&nan, model.Float(100)), food(nil, model.Float(100))}
	nanWater := waterLog("2024-03-10", math.NaN())

	for name, l := range map[string]model.DailyLog{"zero": zero, "invalid": bad, "nan water": nanWater} {
		lookup := service.LookupFromLogs([]model.DailyLog{l})
		if got := service.ComputeStreak("2024-03-10", lookup, 30); got != 0 {
			t.Fatalf("%s: expected streak 0, got %d", name, got)
		}
	}
}

func TestComputeStreakRespectsLookbackBound(t *testing.T) {
	t.Parallel()
	days, err := daykey.Range("2024-01-01", "2024-03-10")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	logs := make([]model.DailyLog, 0, len(days))
	for _, d := range days {
		logs = append(logs, activeLog(d))
	}
	lookup := service.LookupFromLogs(logs)
	if got := service.ComputeStreak("2024-03-10", lookup, service.DefaultStreakLookback); got != 31 {
		t.Fatalf("expected bounded streak 31, got %d", got)
	}
	if got := service.ComputeStreak("2024-03-10", lookup, 5); got != 6 {
		t.Fatalf("expected streak 6 with lookback 5, got %d", got)
	}
	if got := service.ComputeStreak("2024-03-10", lookup, -3); got != 1 {
		t.Fatalf("expected negative lookback to examine only the reference day, got %d", got)
	}
}

func TestComputeStreakAcrossDSTAndMonthEnd(t *testing.T) {
	t.Parallel()
	lookup := service.LookupFromLogs([]model.DailyLog{
		activeLog("2024-03-11"),
		activeLog("2024-03-10"),
		activeLog("2024-03-09"),
	})
	if got := service.ComputeStreak("2024-03-11", lookup, 30); got != 3 {
		t.Fatalf("expected DST-spanning streak 3, got %d", got)
	}
	lookup = service.LookupFromLogs([]model.DailyLog{
		activeLog("2024-03-01"),
		activeLog("2024-02-29"),
		activeLog("2024-02-28"),
	})
	if got := service.ComputeStreak("2024-03-01", lookup, 30); got != 3 {
		t.Fatalf("expected leap-day streak 3, got %d", got)
	}
}

func TestComputeStreakInvalidInputs(t *testing.T) {
	t.Parallel()
	if got := service.ComputeStreak("2024-03-10", nil, 30); got != 0 {
		t.Fatalf("expected 0 for nil lookup, got %d", got)
	}
	lookup := service.LookupFromLogs([]model.DailyLog{activeLog("2024-03-10")})
	if got := service.ComputeStreak("10.03.2024", lookup, 30); got != 0 {
		t.Fatalf("expected 0 for malformed reference day, got %d", got)
	}
}

func TestLongestStreak(t *testing.T) {
	t.Parallel()
	days, _ := daykey.Range("2024-03-01", "2024-03-08")
	lookup := service.LookupFromLogs([]model.DailyLog{
		activeLog("2024-03-01"),
		activeLog("2024-03-02"),
		activeLog("2024-03-04"),
		activeLog("2024-03-05"),
		waterLog("2024-03-06", 100),
		activeLog("2024-03-08"),
	})
	if got := service.LongestStreak(days, lookup); got != 3 {
		t.Fatalf("expected longest streak 3, got %d", got)
	}
}
