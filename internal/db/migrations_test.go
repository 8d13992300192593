package db_test

import (
	"path/filepath"
	"testing"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/db"
)

func TestApplyMigrationsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "daylog.db")
	sqldb, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("first apply migrations: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("second apply migrations: %v", err)
	}

	var migrationCount int
	if err := sqldb.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&migrationCount); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if migrationCount != 3 {
		t.Fatalf("expected 3 migration versions, got %d", migrationCount)
	}

	for _, table := range []string{"daily_logs", "food_entries", "user_profiles"} {
		var count int
		if err := sqldb.QueryRow(`SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&count); err != nil {
			t.Fatalf("check %s table: %v", table, err)
		}
		if count != 1 {
			t.Fatalf("expected %s table to exist", table)
		}
	}

	var birthDateCol int
	if err := sqldb.QueryRow(`SELECT COUNT(1) FROM pragma_table_info('user_profiles') WHERE name = 'birth_date'`).Scan(&birthDateCol); err != nil {
		t.Fatalf("check birth_date column: %v", err)
	}
	if birthDateCol != 1 {
		t.Fatalf("expected birth_date column in user_profiles")
	}
}

func TestDailyLogsUniquePerUserAndDay(t *testing.T) {
	t.Parallel()
	sqldb, err := db.OpenMigrated(filepath.Join(t.TempDir(), "daylog.db"))
	if err != nil {
		t.Fatalf("open migrated db: %v", err)
	}
	defer sqldb.Close()

	if _, err := sqldb.Exec(`INSERT INTO daily_logs(user_id, date) VALUES('u1', '2024-03-01')`); err != nil {
		t.Fatalf("insert first log: %v", err)
	}
	if _, err := sqldb.Exec(`INSERT INTO daily_logs(user_id, date) VALUES('u1', '2024-03-01')`); err == nil {
		t.Fatalf("expected duplicate (user, date) to be rejected")
	}
	if _, err := sqldb.Exec(`INSERT INTO daily_logs(user_id, date) VALUES('u2', '2024-03-01')`); err != nil {
		t.Fatalf("insert other user's log: %v", err)
	}
}

func TestDeletingDailyLogCascadesToEntries(t *testing.T) {
	t.Parallel()
	sqldb, err := db.OpenMigrated(filepath.Join(t.TempDir(), "daylog.db"))
	if err != nil {
		t.Fatalf("open migrated db: %v", err)
	}
	defer sqldb.Close()

	res, err := sqldb.Exec(`INSERT INTO daily_logs(user_id, date) VALUES('u1', '2024-03-01')`)
	if err != nil {
		t.Fatalf("insert log: %v", err)
	}
	logID, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("log id: %v", err)
	}
	if _, err := sqldb.Exec(`INSERT INTO food_entries(id, daily_log_id, position, meal_type, time_consumed) VALUES('e1', ?, 0, 'lunch', '2024-03-01T12:00:00Z')`, logID); err != nil {
		t.Fatalf("insert entry: %v", err)
	}
	if _, err := sqldb.Exec(`DELETE FROM daily_logs WHERE id = ?`, logID); err != nil {
		t.Fatalf("delete log: %v", err)
	}
	var remaining int
	if err := sqldb.QueryRow(`SELECT COUNT(1) FROM food_entries`).Scan(&remaining); err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected cascade delete, %d entries remain", remaining)
	}
}
