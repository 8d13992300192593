package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/daykey"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/store"
)

// DefaultAdherenceTolerance is the accepted deviation from macro goals.
const DefaultAdherenceTolerance = 0.10

type DayTotals struct {
	Date       string  `json:"date"`
	Calories   float64 `json:"calories"`
	Protein    float64 `json:"protein_g"`
	Carbs      float64 `json:"carbs_g"`
	Fat        float64 `json:"fat_g"`
	Water      float64 `json:"water_ml"`
	Entries    int     `json:"entries"`
	Active     bool    `json:"active"`
	IsCheatDay bool    `json:"is_cheat_day"`
}

type AdherenceSummary struct {
	EvaluatedDays  int     `json:"evaluated_days"`
	WithinGoalDays int     `json:"within_goal_days"`
	PercentWithin  float64 `json:"percent_within_goal"`
}

type RangeReport struct {
	FromDate              string           `json:"from_date"`
	ToDate                string           `json:"to_date"`
	TotalCalories         float64          `json:"total_calories"`
	TotalProtein          float64          `json:"total_protein_g"`
	TotalCarbs            float64          `json:"total_carbs_g"`
	TotalFat              float64          `json:"total_fat_g"`
	TotalWater            float64          `json:"total_water_ml"`
	DaysWithEntries       int              `json:"days_with_entries"`
	ActiveDays            int              `json:"active_days"`
	AverageCaloriesPerDay float64          `json:"avg_calories_per_day"`
	AverageProteinPerDay  float64          `json:"avg_protein_per_day"`
	AverageCarbsPerDay    float64          `json:"avg_carbs_per_day"`
	AverageFatPerDay      float64          `json:"avg_fat_per_day"`
	HighestDay            *DayTotals       `json:"highest_day,omitempty"`
	LowestDay             *DayTotals       `json:"lowest_day,omitempty"`
	CurrentStreak         int              `json:"current_streak"`
	LongestStreak         int              `json:"longest_streak"`
	CheatDays             []string         `json:"cheat_days"`
	Adherence             AdherenceSummary `json:"adherence"`
	Days                  []DayTotals      `json:"days"`
}

// BuildReport summarizes logs over from..to. Days in the range without a
// log count as inactive and have no totals entry. Averages are over days
// with at least one food entry.
func BuildReport(from, to string, logs []model.DailyLog, goals model.UserGoals, tolerance float64) (*RangeReport, error) {
	days, err := daykey.Range(from, to)
	if err != nil {
		return nil, err
	}
	report := &RangeReport{
		FromDate:  from,
		ToDate:    to,
		CheatDays: []string{},
		Days:      []DayTotals{},
	}
	lookup := LookupFromLogs(logs)
	withEntries := make([]DayTotals, 0)
	for _, day := range days {
		log := lookup(day)
		if log == nil {
			continue
		}
		totals := AggregateDay(*log)
		d := DayTotals{
			Date:       day,
			Calories:   totals.Calories,
			Protein:    totals.Protein,
			Carbs:      totals.Carbs,
			Fat:        totals.Fat,
			Water:      totals.Water,
			Entries:    len(log.FoodEntries),
			Active:     IsActiveDay(log),
			IsCheatDay: log.IsCheatDay,
		}
		report.Days = append(report.Days, d)
		report.TotalCalories += d.Calories
		report.TotalProtein += d.Protein
		report.TotalCarbs += d.Carbs
		report.TotalFat += d.Fat
		report.TotalWater += d.Water
		if d.Active {
			report.ActiveDays++
		}
		if d.IsCheatDay {
			report.CheatDays = append(report.CheatDays, day)
		}
		if d.Entries > 0 {
			withEntries = append(withEntries, d)
		}
	}

	report.DaysWithEntries = len(withEntries)
	if report.DaysWithEntries > 0 {
		div := float64(report.DaysWithEntries)
		report.AverageCaloriesPerDay = report.TotalCalories / div
		report.AverageProteinPerDay = report.TotalProtein / div
		report.AverageCarbsPerDay = report.TotalCarbs / div
		report.AverageFatPerDay = report.TotalFat / div
		report.HighestDay, report.LowestDay = extremeDays(withEntries)
	}
	report.CurrentStreak = ComputeStreak(to, lookup, len(days)-1)
	report.LongestStreak = LongestStreak(days, lookup)
	report.Adherence = calculateAdherence(withEntries, goals, tolerance)
	return report, nil
}

// calculateAdherence counts days at or under the calorie goal whose macros
// are within tolerance of each macro goal that is set. Cheat days are not
// evaluated.
func calculateAdherence(days []DayTotals, goals model.UserGoals, tolerance float64) AdherenceSummary {
	out := AdherenceSummary{}
	for _, d := range days {
		if d.IsCheatDay {
			continue
		}
		out.EvaluatedDays++
		if d.Calories <= goals.DailyCalories &&
			macroWithin(d.Protein, goals.DailyProtein, tolerance) &&
			macroWithin(d.Carbs, goals.DailyCarbs, tolerance) &&
			macroWithin(d.Fat, goals.DailyFat, tolerance) {
			out.WithinGoalDays++
		}
	}
	if out.EvaluatedDays > 0 {
		out.PercentWithin = (float64(out.WithinGoalDays) / float64(out.EvaluatedDays)) * 100
	}
	return out
}

func macroWithin(actual float64, goal *float64, tolerance float64) bool {
	if goal == nil {
		return true
	}
	return AdherenceWithin(actual, *goal, tolerance)
}

func extremeDays(days []DayTotals) (*DayTotals, *DayTotals) {
	if len(days) == 0 {
		return nil, nil
	}
	copied := make([]DayTotals, len(days))
	copy(copied, days)
	sort.SliceStable(copied, func(i, j int) bool {
		return copied[i].Calories < copied[j].Calories
	})
	low := copied[0]
	high := copied[len(copied)-1]
	return &high, &low
}

// Report builds a range report from the repository, with local values of
// held days taking precedence.
func (s *Synchronizer) Report(ctx context.Context, from, to string) (*RangeReport, error) {
	if !daykey.IsValid(from) || !daykey.IsValid(to) {
		return nil, fmt.Errorf("invalid range %q..%q, expected YYYY-MM-DD", from, to)
	}
	if from > to {
		return nil, fmt.Errorf("from date must be <= to date")
	}
	logs, err := s.logs.ListRange(ctx, s.userID, from, to)
	if err != nil {
		return nil, store.Transient("list daily logs", err)
	}
	var profile *model.Profile
	if s.profiles != nil {
		p, err := s.profiles.GetProfile(ctx, s.userID)
		if err == nil {
			profile = &p
		} else if !store.IsNotFound(err) {
			return nil, store.Transient("get profile", err)
		}
	}
	var weight float64
	var hasWeight bool
	if profile != nil {
		weight, hasWeight = positiveWeight(profile.Weight)
	}
	return BuildReport(from, to, s.overlay(logs, from, to), ResolveGoals(profile, weight, hasWeight), DefaultAdherenceTolerance)
}
