package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
)

func (s *SQLite) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	var rec ProfileRecord
	err := s.db.QueryRowContext(ctx, `
SELECT user_id, name, weight, height, birth_date, gender, activity_level,
       daily_calories, daily_protein, daily_carbs, daily_fat, daily_water
FROM user_profiles
WHERE user_id = ?
`, userID).Scan(
		&rec.UserID, &rec.Name, &rec.Weight, &rec.Height, &rec.BirthDate, &rec.Gender, &rec.ActivityLevel,
		&rec.DailyCalories, &rec.DailyProtein, &rec.DailyCarbs, &rec.DailyFat, &rec.DailyWater,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, ErrNotFound
	}
	if err != nil {
		return model.Profile{}, Transient("get profile", err)
	}
	return ProfileFromRecord(rec), nil
}

// SaveProfile writes every column. A field left nil in profile is stored as
// NULL, so callers updating one field must read the profile first.
func (s *SQLite) SaveProfile(ctx context.Context, profile model.Profile) error {
	if strings.TrimSpace(profile.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	rec := ProfileToRecord(profile)
	if _, err := s.db.ExecContext(ctx, `
INSERT INTO user_profiles(user_id, name, weight, height, birth_date, gender, activity_level,
                          daily_calories, daily_protein, daily_carbs, daily_fat, daily_water)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
  name = excluded.name,
  weight = excluded.weight,
  height = excluded.height,
  birth_date = excluded.birth_date,
  gender = excluded.gender,
  activity_level = excluded.activity_level,
  daily_calories = excluded.daily_calories,
  daily_protein = excluded.daily_protein,
  daily_carbs = excluded.daily_carbs,
  daily_fat = excluded.daily_fat,
  daily_water = excluded.daily_water,
  updated_at = CURRENT_TIMESTAMP
`, rec.UserID, rec.Name, rec.Weight, rec.Height, rec.BirthDate, rec.Gender, rec.ActivityLevel,
		rec.DailyCalories, rec.DailyProtein, rec.DailyCarbs, rec.DailyFat, rec.DailyWater); err != nil {
		return Transient("save profile", err)
	}
	return nil
}
