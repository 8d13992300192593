package service_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/db"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/logging"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/store"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "daylog.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })
	return sqldb
}

func quietLogger() *logrus.Logger {
	return logging.Discard()
}

var errStoreDown = errors.New("store unavailable")

// memRepo is an in-memory LogRepository, WeightHistory and ProfileStore.
// failSaves makes Save fail without recording; gate, when set, blocks each
// Save until a value is received.
type memRepo struct {
	mu           sync.Mutex
	logs         map[string]model.DailyLog
	profiles     map[string]model.Profile
	failSaves    bool
	failFetch    bool
	gate         chan struct{}
	saveCount    int
	profileReads int
}

func newMemRepo() *memRepo {
	return &memRepo{
		logs:     map[string]model.DailyLog{},
		profiles: map[string]model.Profile{},
	}
}

func memKey(userID, day string) string { return userID + "|" + day }

func (r *memRepo) put(userID string, log model.DailyLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[memKey(userID, log.Date)] = log.Clone()
}

func (r *memRepo) get(userID, day string) (model.DailyLog, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[memKey(userID, day)]
	return l.Clone(), ok
}

func (r *memRepo) setFailSaves(v bool) {
	r.mu.Lock()
	r.failSaves = v
	r.mu.Unlock()
}

func (r *memRepo) setFailFetch(v bool) {
	r.mu.Lock()
	r.failFetch = v
	r.mu.Unlock()
}

func (r *memRepo) profileGets() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profileReads
}

func (r *memRepo) saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveCount
}

func (r *memRepo) FetchByDay(ctx context.Context, userID, day string) (model.DailyLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFetch {
		return model.DailyLog{}, errStoreDown
	}
	l, ok := r.logs[memKey(userID, day)]
	if !ok {
		return model.DailyLog{}, store.ErrNotFound
	}
	return l.Clone(), nil
}

func (r *memRepo) Save(ctx context.Context, userID string, log model.DailyLog) error {
	r.mu.Lock()
	gate := r.gate
	r.mu.Unlock()
	if gate != nil {
		<-gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCount++
	if r.failSaves {
		return errStoreDown
	}
	r.logs[memKey(userID, log.Date)] = log.Clone()
	return nil
}

func (r *memRepo) ListRange(ctx context.Context, userID, start, end string) ([]model.DailyLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.DailyLog, 0)
	for key, l := range r.logs {
		if key != memKey(userID, l.Date) {
			continue
		}
		if l.Date >= start && l.Date <= end {
			out = append(out, l.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *memRepo) LatestWeightBefore(ctx context.Context, userID, day string) (float64, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	best := ""
	var w float64
	for key, l := range r.logs {
		if key != memKey(userID, l.Date) || l.Weight == nil || l.Date >= day || l.Date <= best {
			continue
		}
		best, w = l.Date, *l.Weight
	}
	if best == "" {
		return 0, "", store.ErrNotFound
	}
	return w, best, nil
}

func (r *memRepo) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profileReads++
	p, ok := r.profiles[userID]
	if !ok {
		return model.Profile{}, store.ErrNotFound
	}
	return p, nil
}

func (r *memRepo) SaveProfile(ctx context.Context, p model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID] = p
	return nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func food(calories *float64, amount *float64) model.FoodEntry {
	return model.FoodEntry{
		FoodItem: &model.FoodItem{
			Name:      "food",
			Nutrition: &model.Nutrition{Calories: calories},
		},
		ServingAmount: amount,
		MealType:      model.MealLunch,
	}
}

func macroFood(id string, meal model.MealType, calories, protein, carbs, fat, amount float64) model.FoodEntry {
	return model.FoodEntry{
		ID: id,
		FoodItem: &model.FoodItem{
			Name: id,
			Nutrition: &model.Nutrition{
				Calories: model.Float(calories),
				Protein:  model.Float(protein),
				Carbs:    model.Float(carbs),
				Fat:      model.Float(fat),
			},
		},
		ServingAmount: model.Float(amount),
		MealType:      meal,
	}
}
