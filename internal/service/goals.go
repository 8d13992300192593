package service

import (
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
)

const (
	DefaultDailyCalories = 2000.0
	DefaultDailyWater    = 2500.0
	// WaterMlPerKg derives a water goal from body weight when none is set.
	WaterMlPerKg = 35.0
)

// ResolveGoals fills the user's goals through ordered fallbacks: the goal
// set on the profile, then a value derived from weight (water only), then
// the defaults. Macro goals without an explicit value stay unset.
func ResolveGoals(profile *model.Profile, weight float64, hasWeight bool) model.UserGoals {
	var explicit model.UserGoals
	if profile != nil {
		explicit = profile.Goals
	}
	calories, _ := FirstDefined[float64](
		positive(&explicit.DailyCalories),
		constant(DefaultDailyCalories),
	)
	water, _ := FirstDefined[float64](
		positive(explicit.DailyWater),
		func() (float64, bool) {
			if !hasWeight || weight <= 0 {
				return 0, false
			}
			return weight * WaterMlPerKg, true
		},
		constant(DefaultDailyWater),
	)
	return model.UserGoals{
		DailyCalories: calories,
		DailyProtein:  copyPositive(explicit.DailyProtein),
		DailyCarbs:    copyPositive(explicit.DailyCarbs),
		DailyFat:      copyPositive(explicit.DailyFat),
		DailyWater:    model.Float(water),
	}
}

func positive(v *float64) Resolver[float64] {
	return func() (float64, bool) {
		if !finite(v) || *v <= 0 {
			return 0, false
		}
		return *v, true
	}
}

func constant(v float64) Resolver[float64] {
	return func() (float64, bool) { return v, true }
}

func copyPositive(v *float64) *float64 {
	if w, ok := positive(v)(); ok {
		return model.Float(w)
	}
	return nil
}

// AdherenceWithin reports whether actual is within tolerance (a fraction) of
// target. A zero target only accepts zero.
func AdherenceWithin(actual float64, target float64, tolerance float64) bool {
	if target == 0 {
		return actual == 0
	}
	lower := target * (1 - tolerance)
	upper := target * (1 + tolerance)
	return actual >= lower && actual <= upper
}
