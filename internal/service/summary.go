package service

import (
	"context"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
)

type DaySummary struct {
	Date              string                             `json:"date"`
	Totals            NutritionTotals                    `json:"totals"`
	ByMeal            map[model.MealType]NutritionTotals `json:"by_meal"`
	EntryCount        int                                `json:"entry_count"`
	SkippedEntries    int                                `json:"skipped_entries"`
	Weight            *float64                           `json:"weight_kg,omitempty"`
	Goals             model.UserGoals                    `json:"goals"`
	RemainingCalories float64                            `json:"remaining_calories"`
	RemainingProtein  *float64                           `json:"remaining_protein_g,omitempty"`
	RemainingCarbs    *float64                           `json:"remaining_carbs_g,omitempty"`
	RemainingFat      *float64                           `json:"remaining_fat_g,omitempty"`
	WaterProgress     float64                            `json:"water_progress_pct"`
	IsCheatDay        bool                               `json:"is_cheat_day"`
	DailyNotes        string                             `json:"daily_notes,omitempty"`
	Streak            int                                `json:"streak"`
	Pending           bool                               `json:"pending"`
}

// Summarize builds the day view from a log and the already resolved inputs.
func Summarize(log model.DailyLog, goals model.UserGoals, weight *float64, streak int, onGap func(model.FoodEntry)) DaySummary {
	skipped := 0
	totals := AggregateReporting(log.FoodEntries, log.WaterIntake, func(e model.FoodEntry) {
		skipped++
		if onGap != nil {
			onGap(e)
		}
	})
	out := DaySummary{
		Date:              log.Date,
		Totals:            totals,
		ByMeal:            AggregateByMeal(log.FoodEntries),
		EntryCount:        len(log.FoodEntries),
		SkippedEntries:    skipped,
		Weight:            weight,
		Goals:             goals,
		RemainingCalories: goals.DailyCalories - totals.Calories,
		RemainingProtein:  remaining(goals.DailyProtein, totals.Protein),
		RemainingCarbs:    remaining(goals.DailyCarbs, totals.Carbs),
		RemainingFat:      remaining(goals.DailyFat, totals.Fat),
		IsCheatDay:        log.IsCheatDay,
		DailyNotes:        log.DailyNotes,
		Streak:            streak,
	}
	if goals.DailyWater != nil && *goals.DailyWater > 0 {
		out.WaterProgress = totals.Water / *goals.DailyWater * 100
	}
	return out
}

func remaining(goal *float64, actual float64) *float64 {
	if goal == nil {
		return nil
	}
	return model.Float(*goal - actual)
}

// Summary loads day if needed and summarizes the local view of it.
func (s *Synchronizer) Summary(ctx context.Context, day string) (*DaySummary, error) {
	day = s.Day(day)
	if err := s.ensureLoaded(ctx, day); err != nil {
		return nil, err
	}
	current := s.Current(day)

	profile, err := s.profile(ctx)
	if err != nil {
		return nil, err
	}
	w, hasWeight := s.resolveWeight(ctx, day, profile)
	streak, err := s.Streak(ctx, day)
	if err != nil {
		return nil, err
	}

	var weight *float64
	if hasWeight {
		weight = model.Float(w)
	}
	out := Summarize(current.Value, ResolveGoals(profile, w, hasWeight), weight, streak, s.reportGap(day))
	out.Pending = current.Pending
	return &out, nil
}
