// Package pgstore is the Postgres-backed store, for deployments where
// several devices share one database behind the remote API.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/daykey"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/store"
)

type Store struct {
	db *gorm.DB
}

// Open connects to dsn and migrates the log tables.
func Open(dsn string) (*Store, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return New(gdb)
}

// New wraps an existing connection and runs AutoMigrate.
func New(gdb *gorm.DB) (*Store, error) {
	if err := gdb.AutoMigrate(&store.DailyLogRecord{}, &store.FoodEntryRecord{}, &store.ProfileRecord{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &Store{db: gdb}, nil
}

func (s *Store) Close() error {
	sqldb, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqldb.Close()
}

func (s *Store) FetchByDay(ctx context.Context, userID, day string) (model.DailyLog, error) {
	var rec store.DailyLogRecord
	err := s.db.WithContext(ctx).
		Preload("FoodEntries", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Where("user_id = ? AND date = ?", userID, day).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DailyLog{}, store.ErrNotFound
	}
	if err != nil {
		return model.DailyLog{}, store.Transient("fetch daily log", err)
	}
	return store.DailyLogFromRecord(rec), nil
}

func (s *Store) Save(ctx context.Context, userID string, log model.DailyLog) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if !daykey.IsValid(log.Date) {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", log.Date)
	}
	if log.WaterIntake < 0 {
		return fmt.Errorf("water intake must be >= 0")
	}
	rec := store.DailyLogToRecord(userID, log)
	entries := rec.FoodEntries
	rec.FoodEntries = nil

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"water_intake", "weight", "daily_notes", "is_cheat_day", "updated_at"}),
		}).Create(&rec).Error; err != nil {
			return fmt.Errorf("upsert daily log: %w", err)
		}
		if rec.ID == 0 {
			if err := tx.Model(&store.DailyLogRecord{}).
				Select("id").
				Where("user_id = ? AND date = ?", userID, log.Date).
				Scan(&rec.ID).Error; err != nil {
				return fmt.Errorf("lookup daily log id: %w", err)
			}
		}
		if err := tx.Where("daily_log_id = ?", rec.ID).Delete(&store.FoodEntryRecord{}).Error; err != nil {
			return fmt.Errorf("clear food entries: %w", err)
		}
		if len(entries) == 0 {
			return nil
		}
		for i := range entries {
			entries[i].DailyLogID = rec.ID
		}
		if err := tx.CreateInBatches(entries, 100).Error; err != nil {
			return fmt.Errorf("insert food entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return store.Transient("save daily log", err)
	}
	return nil
}

func (s *Store) ListRange(ctx context.Context, userID, start, end string) ([]model.DailyLog, error) {
	if !daykey.IsValid(start) || !daykey.IsValid(end) {
		return nil, fmt.Errorf("invalid range %q..%q, expected YYYY-MM-DD", start, end)
	}
	var recs []store.DailyLogRecord
	err := s.db.WithContext(ctx).
		Preload("FoodEntries", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date ASC").
		Find(&recs).Error
	if err != nil {
		return nil, store.Transient("list daily logs", err)
	}
	out := make([]model.DailyLog, 0, len(recs))
	for _, rec := range recs {
		out = append(out, store.DailyLogFromRecord(rec))
	}
	return out, nil
}

func (s *Store) LatestWeightBefore(ctx context.Context, userID, day string) (float64, string, error) {
	var rec store.DailyLogRecord
	err := s.db.WithContext(ctx).
		Select("date", "weight").
		Where("user_id = ? AND date < ? AND weight IS NOT NULL", userID, day).
		Order("date DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, "", store.ErrNotFound
	}
	if err != nil {
		return 0, "", store.Transient("latest weight", err)
	}
	if rec.Weight == nil {
		return 0, "", store.ErrNotFound
	}
	return *rec.Weight, rec.Date, nil
}

func (s *Store) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	var rec store.ProfileRecord
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Profile{}, store.ErrNotFound
	}
	if err != nil {
		return model.Profile{}, store.Transient("get profile", err)
	}
	return store.ProfileFromRecord(rec), nil
}

// SaveProfile overwrites every column, including those that are nil.
func (s *Store) SaveProfile(ctx context.Context, profile model.Profile) error {
	if profile.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	rec := store.ProfileToRecord(profile)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&rec).Error
	if err != nil {
		return store.Transient("save profile", err)
	}
	return nil
}
