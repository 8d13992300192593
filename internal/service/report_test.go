package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/service"
)

func TestBuildReportAggregatesRange(t *testing.T) {
	t.Parallel()
	d1 := model.NewDailyLog("2024-03-01")
	d1.FoodEntries = []model.FoodEntry{macroFood("a", model.MealLunch, 1500, 100, 150, 50, 100)}
	d2 := model.NewDailyLog("2024-03-02")
	d2.FoodEntries = []model.FoodEntry{macroFood("b", model.MealLunch, 2500, 80, 300, 90, 100)}
	d2.IsCheatDay = true
	d3 := waterLog("2024-03-03", 2000)
	d5 := model.NewDailyLog("2024-03-05")
	d5.FoodEntries = []model.FoodEntry{macroFood("c", model.MealDinner, 1000, 40, 100, 30, 100)}

	goals := model.UserGoals{DailyCalories: 2000, DailyProtein: model.Float(100)}
	report, err := service.BuildReport("2024-03-01", "2024-03-05", []model.DailyLog{d1, d2, d3, d5}, goals, service.DefaultAdherenceTolerance)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.TotalCalories != 5000 || report.DaysWithEntries != 3 {
		t.Fatalf("unexpected totals: %+v", report)
	}
	if report.AverageCaloriesPerDay != 5000.0/3 {
		t.Fatalf("unexpected average: %v", report.AverageCaloriesPerDay)
	}
	if report.HighestDay == nil || report.HighestDay.Date != "2024-03-02" || report.LowestDay.Date != "2024-03-05" {
		t.Fatalf("unexpected extremes: %+v %+v", report.HighestDay, report.LowestDay)
	}
	if report.ActiveDays != 4 || report.TotalWater != 2000 {
		t.Fatalf("unexpected activity: %+v", report)
	}
	if report.CurrentStreak != 1 || report.LongestStreak != 3 {
		t.Fatalf("unexpected streaks: current %d longest %d", report.CurrentStreak, report.LongestStreak)
	}
	if len(report.CheatDays) != 1 || report.CheatDays[0] != "2024-03-02" {
		t.Fatalf("unexpected cheat days: %v", report.CheatDays)
	}
	if report.Adherence.EvaluatedDays != 2 || report.Adherence.WithinGoalDays != 1 {
		t.Fatalf("unexpected adherence: %+v", report.Adherence)
	}
	if len(report.Days) != 4 {
		t.Fatalf("expected 4 day rows, got %d", len(report.Days))
	}
}

func TestBuildReportEmptyRange(t *testing.T) {
	t.Parallel()
	report, err := service.BuildReport("2024-03-01", "2024-03-03", nil, model.UserGoals{DailyCalories: 2000}, 0.1)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.DaysWithEntries != 0 || report.HighestDay != nil || report.CurrentStreak != 0 || len(report.Days) != 0 {
		t.Fatalf("unexpected empty report: %+v", report)
	}
	if _, err := service.BuildReport("2024-03-03", "2024-03-01", nil, model.UserGoals{}, 0.1); err == nil {
		t.Fatalf("expected reversed range to fail")
	}
}

func TestSynchronizerReportOverlaysLocalDays(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newMemRepo()
	repo.put("u1", activeLog("2024-03-01"))
	s := newSync(t, repo)
	repo.setFailSaves(true)
	entry := macroFood("x", model.MealLunch, 500, 0, 0, 0, 100)
	entry.TimeConsumed = time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)
	_, p, err := s.AddEntry(ctx, "2024-03-02", entry)
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}
	_ = p.Wait()

	report, err := s.Report(ctx, "2024-03-01", "2024-03-02")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.TotalCalories != 750 || report.CurrentStreak != 2 {
		t.Fatalf("expected local day included, got %+v", report)
	}
	if _, err := s.Report(ctx, "2024-03-02", "2024-03-01"); err == nil {
		t.Fatalf("expected reversed range to fail")
	}
}
