package service

import (
	"math"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
)

// NutritionTotals is always complete: every field defaults to 0.
type NutritionTotals struct {
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein_g"`
	Carbs     float64 `json:"carbs_g"`
	Fat       float64 `json:"fat_g"`
	Sugar     float64 `json:"sugar_g"`
	Fiber     float64 `json:"fiber_g"`
	Sodium    float64 `json:"sodium_mg"`
	Potassium float64 `json:"potassium_mg"`
	Water     float64 `json:"water_ml"`
}

func (t *NutritionTotals) add(o NutritionTotals) {
	t.Calories += o.Calories
	t.Protein += o.Protein
	t.Carbs += o.Carbs
	t.Fat += o.Fat
	t.Sugar += o.Sugar
	t.Fiber += o.Fiber
	t.Sodium += o.Sodium
	t.Potassium += o.Potassium
}

// IsValidEntry reports whether entry can contribute to totals: it needs a
// food item with nutrition, finite calories and a finite serving amount.
func IsValidEntry(entry model.FoodEntry) bool {
	if entry.FoodItem == nil || entry.FoodItem.Nutrition == nil {
		return false
	}
	if !finite(entry.FoodItem.Nutrition.Calories) {
		return false
	}
	return finite(entry.ServingAmount)
}

// IsActiveEntry reports whether entry counts as logged food for streaks.
// It must be valid, so an entry without a serving amount never counts even
// when its calories are positive.
func IsActiveEntry(entry model.FoodEntry) bool {
	return IsValidEntry(entry) && *entry.FoodItem.Nutrition.Calories > 0
}

// Aggregate sums the nutrients of entries. Invalid entries contribute zero.
// water is passed through unchanged.
func Aggregate(entries []model.FoodEntry, water float64) NutritionTotals {
	return AggregateReporting(entries, water, nil)
}

// AggregateReporting is Aggregate with a hook called once per skipped entry.
func AggregateReporting(entries []model.FoodEntry, water float64, onGap func(model.FoodEntry)) NutritionTotals {
	out := NutritionTotals{Water: water}
	for _, e := range entries {
		contrib, ok := entryContribution(e)
		if !ok {
			if onGap != nil {
				onGap(e)
			}
			continue
		}
		out.add(contrib)
	}
	return out
}

func AggregateDay(log model.DailyLog) NutritionTotals {
	return Aggregate(log.FoodEntries, log.WaterIntake)
}

// AggregateByMeal partitions totals by meal type. All four meals are always
// present; unknown meal types count as snack. Water is not split per meal.
func AggregateByMeal(entries []model.FoodEntry) map[model.MealType]NutritionTotals {
	out := make(map[model.MealType]NutritionTotals, len(model.MealTypes))
	for _, m := range model.MealTypes {
		out[m] = NutritionTotals{}
	}
	for _, e := range entries {
		contrib, ok := entryContribution(e)
		if !ok {
			continue
		}
		meal, err := model.ParseMealType(string(e.MealType))
		if err != nil {
			meal = model.MealSnack
		}
		t := out[meal]
		t.add(contrib)
		out[meal] = t
	}
	return out
}

func entryContribution(e model.FoodEntry) (NutritionTotals, bool) {
	if !IsValidEntry(e) {
		return NutritionTotals{}, false
	}
	n := e.FoodItem.Nutrition
	factor := *e.ServingAmount / 100
	return NutritionTotals{
		Calories:  *n.Calories * factor,
		Protein:   valueOrZero(n.Protein) * factor,
		Carbs:     valueOrZero(n.Carbs) * factor,
		Fat:       valueOrZero(n.Fat) * factor,
		Sugar:     valueOrZero(n.Sugar) * factor,
		Fiber:     valueOrZero(n.Fiber) * factor,
		Sodium:    valueOrZero(n.Sodium) * factor,
		Potassium: valueOrZero(n.Potassium) * factor,
	}, true
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

func valueOrZero(v *float64) float64 {
	if !finite(v) {
		return 0
	}
	return *v
}
