package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/daykey"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/store"
)

// LoadProfile returns the stored profile, or an empty one for userID when
// none exists yet.
func LoadProfile(ctx context.Context, profiles store.ProfileStore, userID string) (model.Profile, error) {
	p, err := profiles.GetProfile(ctx, userID)
	if store.IsNotFound(err) {
		return model.Profile{UserID: userID}, nil
	}
	if err != nil {
		return model.Profile{}, err
	}
	p.UserID = userID
	return p, nil
}

// UpdateProfile reads the whole profile, applies fn and writes every field
// back. Fields fn does not touch, like the birth date, survive unchanged.
func UpdateProfile(ctx context.Context, profiles store.ProfileStore, userID string, fn func(*model.Profile) error) (model.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return model.Profile{}, fmt.Errorf("user id is required")
	}
	p, err := LoadProfile(ctx, profiles, userID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("read profile: %w", err)
	}
	if err := fn(&p); err != nil {
		return model.Profile{}, err
	}
	if err := validateProfile(p); err != nil {
		return model.Profile{}, err
	}
	if err := profiles.SaveProfile(ctx, p); err != nil {
		return model.Profile{}, fmt.Errorf("write profile: %w", err)
	}
	return p, nil
}

func validateProfile(p model.Profile) error {
	if p.Weight != nil && *p.Weight <= 0 {
		return fmt.Errorf("weight must be > 0")
	}
	if p.Height != nil && *p.Height <= 0 {
		return fmt.Errorf("height must be > 0")
	}
	if p.BirthDate != nil && !daykey.IsValid(*p.BirthDate) {
		return fmt.Errorf("invalid birth date %q, expected YYYY-MM-DD", *p.BirthDate)
	}
	if err := validateNonNegativeFloat("daily calories", p.Goals.DailyCalories); err != nil {
		return err
	}
	for name, v := range map[string]*float64{
		"daily protein": p.Goals.DailyProtein,
		"daily carbs":   p.Goals.DailyCarbs,
		"daily fat":     p.Goals.DailyFat,
		"daily water":   p.Goals.DailyWater,
	} {
		if v != nil {
			if err := validateNonNegativeFloat(name, *v); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateNonNegativeFloat(name string, value float64) error {
	if value < 0 {
		return fmt.Errorf("%s must be >= 0", name)
	}
	return nil
}
