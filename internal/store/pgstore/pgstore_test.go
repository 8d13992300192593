package pgstore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/store"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/store/pgstore"
)

func newTestStore(t *testing.T) *pgstore.Store {
	t.Helper()
	dsn := os.Getenv("DAYLOG_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("DAYLOG_TEST_POSTGRES_DSN not set")
	}
	s, err := pgstore.Open(dsn)
	if err != nil {
		t.Fatalf("open postgres store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPostgresSaveFetchAndReplace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := fmt.Sprintf("test-%s", uuid.NewString())
	at := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	if _, err := s.FetchByDay(ctx, user, "2024-03-01"); !store.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	log := model.NewDailyLog("2024-03-01")
	log.WaterIntake = 500
	log.Weight = model.Float(80.5)
	log.FoodEntries = []model.FoodEntry{
		{ID: "a", MealType: model.MealBreakfast, ServingAmount: model.Float(100), TimeConsumed: at,
			FoodItem: &model.FoodItem{Name: "Bread", Nutrition: &model.Nutrition{Calories: model.Float(250)}}},
		{ID: "b", MealType: model.MealLunch, ServingAmount: model.Float(50), TimeConsumed: at.Add(4 * time.Hour)},
	}
	if err := s.Save(ctx, user, log); err != nil {
		t.Fatalf("save: %v", err)
	}
	log.FoodEntries = log.FoodEntries[1:]
	log.Weight = nil
	if err := s.Save(ctx, user, log); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := s.FetchByDay(ctx, user, "2024-03-01")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.Weight != nil || got.WaterIntake != 500 {
		t.Fatalf("unexpected scalars: %+v", got)
	}
	if len(got.FoodEntries) != 1 || got.FoodEntries[0].ID != "b" {
		t.Fatalf("expected entries replaced, got %+v", got.FoodEntries)
	}

	if _, _, err := s.LatestWeightBefore(ctx, user, "2024-03-02"); !store.IsNotFound(err) {
		t.Fatalf("expected no prior weight, got %v", err)
	}
}

func TestPostgresProfileOverwrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := fmt.Sprintf("test-%s", uuid.NewString())

	p := model.Profile{UserID: user, Weight: model.Float(70), BirthDate: model.String("1988-01-02")}
	if err := s.SaveProfile(ctx, p); err != nil {
		t.Fatalf("save profile: %v", err)
	}
	p.Weight = model.Float(69)
	if err := s.SaveProfile(ctx, p); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	got, err := s.GetProfile(ctx, user)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if *got.Weight != 69 || got.BirthDate == nil || *got.BirthDate != "1988-01-02" {
		t.Fatalf("unexpected profile: %+v", got)
	}
}
