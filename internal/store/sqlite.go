package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/daykey"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
)

// SQLite implements LogRepository, WeightHistory and ProfileStore on the
// schema from internal/db. Any database failure other than a missing row is
// reported as a *TransientError.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) FetchByDay(ctx context.Context, userID, day string) (model.DailyLog, error) {
	var rec DailyLogRecord
	err := s.db.QueryRowContext(ctx, `
SELECT id, user_id, date, water_intake, weight, daily_notes, is_cheat_day
FROM daily_logs
WHERE user_id = ? AND date = ?
`, userID, day).Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.WaterIntake, &rec.Weight, &rec.DailyNotes, &rec.IsCheatDay)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DailyLog{}, ErrNotFound
	}
	if err != nil {
		return model.DailyLog{}, Transient("fetch daily log", err)
	}
	entries, err := s.entriesForLogs(ctx, `WHERE f.daily_log_id = ?`, rec.ID)
	if err != nil {
		return model.DailyLog{}, err
	}
	rec.FoodEntries = entries[rec.ID]
	return DailyLogFromRecord(rec), nil
}

func (s *SQLite) Save(ctx context.Context, userID string, log model.DailyLog) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}
	if !daykey.IsValid(log.Date) {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", log.Date)
	}
	if log.WaterIntake < 0 {
		return fmt.Errorf("water intake must be >= 0")
	}
	rec := DailyLogToRecord(userID, log)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Transient("save daily log", fmt.Errorf("begin tx: %w", err))
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO daily_logs(user_id, date, water_intake, weight, daily_notes, is_cheat_day)
VALUES(?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, date) DO UPDATE SET
  water_intake = excluded.water_intake,
  weight = excluded.weight,
  daily_notes = excluded.daily_notes,
  is_cheat_day = excluded.is_cheat_day,
  updated_at = CURRENT_TIMESTAMP
`, rec.UserID, rec.Date, rec.WaterIntake, rec.Weight, rec.DailyNotes, boolToInt(rec.IsCheatDay)); err != nil {
		_ = tx.Rollback()
		return Transient("save daily log", fmt.Errorf("upsert daily log: %w", err))
	}
	var logID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM daily_logs WHERE user_id = ? AND date = ?`, rec.UserID, rec.Date).Scan(&logID); err != nil {
		_ = tx.Rollback()
		return Transient("save daily log", fmt.Errorf("lookup daily log id: %w", err))
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM food_entries WHERE daily_log_id = ?`, logID); err != nil {
		_ = tx.Rollback()
		return Transient("save daily log", fmt.Errorf("clear food entries: %w", err))
	}
	for _, e := range rec.FoodEntries {
		item := ""
		if e.FoodItem != nil {
			b, err := json.Marshal(e.FoodItem)
			if err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("encode food item for entry %s: %w", e.ID, err)
			}
			item = string(b)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO food_entries(id, daily_log_id, position, food_item, serving_amount, meal_type, time_consumed)
VALUES(?, ?, ?, ?, ?, ?, ?)
`, e.ID, logID, e.Position, item, e.ServingAmount, e.MealType, e.TimeConsumed); err != nil {
			_ = tx.Rollback()
			return Transient("save daily log", fmt.Errorf("insert food entry %s: %w", e.ID, err))
		}
	}
	if err := tx.Commit(); err != nil {
		return Transient("save daily log", fmt.Errorf("commit: %w", err))
	}
	return nil
}

func (s *SQLite) ListRange(ctx context.Context, userID, start, end string) ([]model.DailyLog, error) {
	if !daykey.IsValid(start) || !daykey.IsValid(end) {
		return nil, fmt.Errorf("invalid range %q..%q, expected YYYY-MM-DD", start, end)
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, date, water_intake, weight, daily_notes, is_cheat_day
FROM daily_logs
WHERE user_id = ? AND date >= ? AND date <= ?
ORDER BY date ASC
`, userID, start, end)
	if err != nil {
		return nil, Transient("list daily logs", err)
	}
	recs := make([]DailyLogRecord, 0)
	for rows.Next() {
		var rec DailyLogRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.WaterIntake, &rec.Weight, &rec.DailyNotes, &rec.IsCheatDay); err != nil {
			_ = rows.Close()
			return nil, Transient("list daily logs", fmt.Errorf("scan daily log: %w", err))
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, Transient("list daily logs", err)
	}
	_ = rows.Close()

	entries, err := s.entriesForLogs(ctx, `JOIN daily_logs l ON l.id = f.daily_log_id WHERE l.user_id = ? AND l.date >= ? AND l.date <= ?`, userID, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]model.DailyLog, 0, len(recs))
	for _, rec := range recs {
		rec.FoodEntries = entries[rec.ID]
		out = append(out, DailyLogFromRecord(rec))
	}
	return out, nil
}

func (s *SQLite) LatestWeightBefore(ctx context.Context, userID, day string) (float64, string, error) {
	var weight float64
	var date string
	err := s.db.QueryRowContext(ctx, `
SELECT weight, date
FROM daily_logs
WHERE user_id = ? AND date < ? AND weight IS NOT NULL
ORDER BY date DESC
LIMIT 1
`, userID, day).Scan(&weight, &date)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", ErrNotFound
	}
	if err != nil {
		return 0, "", Transient("latest weight", err)
	}
	return weight, date, nil
}

// entriesForLogs loads food entries selected by clause, grouped by daily log
// id and ordered by stored position.
func (s *SQLite) entriesForLogs(ctx context.Context, clause string, args ...any) (map[uint][]FoodEntryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT f.id, f.daily_log_id, f.position, f.food_item, f.serving_amount, f.meal_type, f.time_consumed
FROM food_entries f
`+clause+`
ORDER BY f.daily_log_id ASC, f.position ASC
`, args...)
	if err != nil {
		return nil, Transient("list food entries", err)
	}
	defer rows.Close()

	out := map[uint][]FoodEntryRecord{}
	for rows.Next() {
		var e FoodEntryRecord
		var item string
		if err := rows.Scan(&e.ID, &e.DailyLogID, &e.Position, &item, &e.ServingAmount, &e.MealType, &e.TimeConsumed); err != nil {
			return nil, Transient("list food entries", fmt.Errorf("scan food entry: %w", err))
		}
		if strings.TrimSpace(item) != "" {
			var fi FoodItemRecord
			// A corrupt payload leaves the entry without a food item, which
			// aggregation treats as a validation gap. `daylog doctor` reports it.
			if err := json.Unmarshal([]byte(item), &fi); err == nil {
				e.FoodItem = &fi
			}
		}
		out[e.DailyLogID] = append(out[e.DailyLogID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, Transient("list food entries", err)
	}
	return out, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
