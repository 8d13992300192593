package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
)

// Resolver yields a value and whether it is defined.
type Resolver[T any] func() (T, bool)

// FirstDefined tries resolvers in order and returns the first defined value.
func FirstDefined[T any](resolvers ...Resolver[T]) (T, bool) {
	for _, r := range resolvers {
		if r == nil {
			continue
		}
		if v, ok := r(); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// PriorWeightLookup returns the most recent weight recorded strictly before
// day.
type PriorWeightLookup func(day string) (float64, bool)

// ResolveCurrentWeight resolves the user's weight for day: the day's own
// weight, then the most recent prior day with a weight (when prior is
// non-nil), then the profile weight. ok is false when none is known.
func ResolveCurrentWeight(day string, dayLog *model.DailyLog, profile *model.Profile, prior PriorWeightLookup) (float64, bool) {
	return FirstDefined[float64](
		func() (float64, bool) {
			if dayLog == nil {
				return 0, false
			}
			return positiveWeight(dayLog.Weight)
		},
		func() (float64, bool) {
			if prior == nil {
				return 0, false
			}
			w, ok := prior(day)
			if !ok {
				return 0, false
			}
			return positiveWeight(&w)
		},
		func() (float64, bool) {
			if profile == nil {
				return 0, false
			}
			return positiveWeight(profile.Weight)
		},
	)
}

func positiveWeight(w *float64) (float64, bool) {
	if !finite(w) || *w <= 0 {
		return 0, false
	}
	return *w, true
}

func ToKg(weight float64, unit string) (float64, error) {
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return 0, fmt.Errorf("weight must be > 0")
	}
	switch normalizeWeightUnit(unit) {
	case "kg":
		return weight, nil
	case "lb":
		return weight * 0.45359237, nil
	default:
		return 0, fmt.Errorf("invalid weight unit %q (use kg or lb)", unit)
	}
}

func WeightFromKg(weightKg float64, unit string) (float64, error) {
	switch normalizeWeightUnit(unit) {
	case "kg":
		return weightKg, nil
	case "lb":
		return weightKg / 0.45359237, nil
	default:
		return 0, fmt.Errorf("invalid weight unit %q (use kg or lb)", unit)
	}
}

func normalizeWeightUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	switch u {
	case "", "kg", "kgs":
		return "kg"
	case "lb", "lbs":
		return "lb"
	default:
		return u
	}
}
