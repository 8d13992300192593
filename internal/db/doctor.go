package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/daykey"
)

type DoctorReport struct {
	OrphanEntries      int `json:"orphan_entries"`
	InvalidFoodItems   int `json:"invalid_food_items"`
	InvalidDayKeys     int `json:"invalid_day_keys"`
	MissingServings    int `json:"missing_servings"`
	FixedOrphanEntries int `json:"fixed_orphan_entries,omitempty"`
	FixedFoodItemRows  int `json:"fixed_food_item_rows,omitempty"`
}

// Healthy reports whether nothing needs attention. Entries without a serving
// amount are only informational: aggregation already treats them as zero.
func (r DoctorReport) Healthy() bool {
	return r.OrphanEntries == 0 && r.InvalidFoodItems == 0 && r.InvalidDayKeys == 0
}

// RunDoctor inspects the log tables. With fix it deletes orphaned food
// entries and clears food_item payloads that are not valid JSON. Invalid day
// keys are reported but never rewritten since the right day is unknowable.
func RunDoctor(db *sql.DB, fix bool) (DoctorReport, error) {
	report := DoctorReport{}
	if err := db.QueryRow(`SELECT COUNT(1) FROM food_entries f LEFT JOIN daily_logs l ON l.id = f.daily_log_id WHERE l.id IS NULL`).Scan(&report.OrphanEntries); err != nil {
		return report, fmt.Errorf("doctor orphan check: %w", err)
	}
	if err := db.QueryRow(`SELECT COUNT(1) FROM food_entries WHERE serving_amount IS NULL`).Scan(&report.MissingServings); err != nil {
		return report, fmt.Errorf("doctor serving check: %w", err)
	}

	rows, err := db.Query(`SELECT rowid, food_item FROM food_entries`)
	if err != nil {
		return report, fmt.Errorf("doctor food item query: %w", err)
	}
	invalidIDs := make([]int64, 0)
	for rows.Next() {
		var id int64
		var item string
		if err := rows.Scan(&id, &item); err != nil {
			_ = rows.Close()
			return report, fmt.Errorf("doctor food item scan: %w", err)
		}
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if !json.Valid([]byte(item)) {
			report.InvalidFoodItems++
			invalidIDs = append(invalidIDs, id)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return report, fmt.Errorf("doctor food item rows: %w", err)
	}
	_ = rows.Close()

	dayRows, err := db.Query(`SELECT date FROM daily_logs`)
	if err != nil {
		return report, fmt.Errorf("doctor day key query: %w", err)
	}
	for dayRows.Next() {
		var day string
		if err := dayRows.Scan(&day); err != nil {
			_ = dayRows.Close()
			return report, fmt.Errorf("doctor day key scan: %w", err)
		}
		if !daykey.IsValid(day) {
			report.InvalidDayKeys++
		}
	}
	_ = dayRows.Close()

	if !fix || (report.OrphanEntries == 0 && len(invalidIDs) == 0) {
		return report, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return report, fmt.Errorf("doctor fix begin tx: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM food_entries WHERE daily_log_id NOT IN (SELECT id FROM daily_logs)`)
	if err != nil {
		_ = tx.Rollback()
		return report, fmt.Errorf("doctor fix orphans: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		report.FixedOrphanEntries = int(n)
	}
	for _, id := range invalidIDs {
		if _, err := tx.Exec(`UPDATE food_entries SET food_item = '' WHERE rowid = ?`, id); err != nil {
			_ = tx.Rollback()
			return report, fmt.Errorf("doctor fix food item row %d: %w", id, err)
		}
		report.FixedFoodItemRows++
	}
	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("doctor fix commit: %w", err)
	}
	return report, nil
}
