package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS daily_logs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  date TEXT NOT NULL,
  water_intake REAL NOT NULL DEFAULT 0 CHECK(water_intake >= 0),
  weight REAL,
  daily_notes TEXT NOT NULL DEFAULT '',
  is_cheat_day INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(user_id, date)
);

CREATE TABLE IF NOT EXISTS food_entries (
  id TEXT NOT NULL,
  daily_log_id INTEGER NOT NULL,
  position INTEGER NOT NULL,
  food_item TEXT NOT NULL DEFAULT '',
  serving_amount REAL,
  meal_type TEXT NOT NULL CHECK(meal_type IN ('breakfast', 'lunch', 'dinner', 'snack')),
  time_consumed TEXT NOT NULL,
  PRIMARY KEY(daily_log_id, id),
  FOREIGN KEY(daily_log_id) REFERENCES daily_logs(id) ON DELETE CASCADE
);
`,
	},
	{
		version: 2,
		name:    "user_profiles",
		sql: `
CREATE TABLE IF NOT EXISTS user_profiles (
  user_id TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  weight REAL CHECK(weight > 0),
  height REAL CHECK(height > 0),
  birth_date TEXT,
  gender TEXT NOT NULL DEFAULT '',
  activity_level TEXT NOT NULL DEFAULT '',
  daily_calories REAL NOT NULL DEFAULT 0 CHECK(daily_calories >= 0),
  daily_protein REAL CHECK(daily_protein >= 0),
  daily_carbs REAL CHECK(daily_carbs >= 0),
  daily_fat REAL CHECK(daily_fat >= 0),
  daily_water REAL CHECK(daily_water >= 0),
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 3,
		name:    "daily_log_weight_index",
		sql: `
CREATE INDEX IF NOT EXISTS idx_daily_logs_user_weight ON daily_logs(user_id, date) WHERE weight IS NOT NULL;
`,
	},
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}
	return nil
}
