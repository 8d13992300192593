package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/daykey"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/logging"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/store"
)

// DefaultWaterDebounce is the minimum spacing between accepted SetWater
// calls for the same day.
const DefaultWaterDebounce = 500 * time.Millisecond

var (
	// ErrDebounced is returned by SetWater when the call arrived too soon
	// after the previous accepted one for the same day. Nothing is changed.
	ErrDebounced     = errors.New("set water debounced")
	ErrEntryNotFound = errors.New("food entry not found")
)

type DayState int

const (
	StateUnloaded DayState = iota
	StateLoaded
	StateMutated
)

func (s DayState) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateMutated:
		return "mutated"
	default:
		return "unloaded"
	}
}

type dayEntry struct {
	log      model.DailyLog
	state    DayState
	inflight int
	version  uint64
	lastErr  error
	// lastSave is closed when the most recently started save of the day
	// finishes.
	lastSave chan struct{}
}

// Synchronizer owns the in-memory daily logs of one user. Mutations are
// applied to memory immediately, in call order, and persisted in the
// background. Saves for the same day are written one at a time in mutation
// order, so the store never ends up with an older snapshot than the last
// one this synchronizer wrote.
type Synchronizer struct {
	userID   string
	logs     store.LogRepository
	profiles store.ProfileStore

	logger               logrus.FieldLogger
	now                  func() time.Time
	location             *time.Location
	waterDebounce        time.Duration
	reconcileAfterWeight bool
	session              *Session
	lookback             int

	mu         sync.Mutex
	days       map[string]*dayEntry
	waterSetAt map[string]time.Time
	saves      sync.WaitGroup
}

type Option func(*Synchronizer)

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Synchronizer) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the timezone day keys are resolved in.
func WithLocation(loc *time.Location) Option {
	return func(s *Synchronizer) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithWaterDebounce(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d >= 0 {
			s.waterDebounce = d
		}
	}
}

// WithReconcileAfterWeight re-fetches the day after a weight save succeeds.
func WithReconcileAfterWeight(enabled bool) Option {
	return func(s *Synchronizer) { s.reconcileAfterWeight = enabled }
}

func WithSession(session *Session) Option {
	return func(s *Synchronizer) {
		if session != nil {
			s.session = session
		}
	}
}

func WithStreakLookback(days int) Option {
	return func(s *Synchronizer) { s.lookback = days }
}

func NewSynchronizer(userID string, logs store.LogRepository, profiles store.ProfileStore, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		userID:        userID,
		logs:          logs,
		profiles:      profiles,
		logger:        logging.Discard(),
		now:           time.Now,
		location:      time.Local,
		waterDebounce: DefaultWaterDebounce,
		session:       NewSession(),
		lookback:      DefaultStreakLookback,
		days:          map[string]*dayEntry{},
		waterSetAt:    map[string]time.Time{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Synchronizer) UserID() string { return s.userID }

func (s *Synchronizer) Location() *time.Location { return s.location }

// Day normalizes input to a day key in the synchronizer's timezone.
func (s *Synchronizer) Day(input any) string {
	return daykey.Normalizer{Location: s.location, Now: s.now}.Normalize(input)
}

func (s *Synchronizer) log(day, op string) logrus.FieldLogger {
	return s.logger.WithFields(logrus.Fields{
		"user_id": s.userID,
		"day":     day,
		"op":      op,
	})
}

// Load fetches day from the repository. A missing log becomes an empty one.
// While saves for the day are outstanding, or when the day was mutated after
// the fetch started, the local value is kept since the fetched one is stale.
// Otherwise the fetched value replaces the local one.
func (s *Synchronizer) Load(ctx context.Context, day string) (model.DailyLog, error) {
	day = s.Day(day)

	s.mu.Lock()
	var startVersion uint64
	if e, ok := s.days[day]; ok {
		startVersion = e.version
	}
	s.mu.Unlock()

	fetched, err := s.logs.FetchByDay(ctx, s.userID, day)
	if store.IsNotFound(err) {
		fetched, err = model.NewDailyLog(day), nil
	}
	if err != nil {
		s.log(day, "load").WithError(err).Warn("load daily log failed")
		return model.DailyLog{}, store.Transient("load daily log", err)
	}
	fetched.Date = day
	if fetched.FoodEntries == nil {
		fetched.FoodEntries = []model.FoodEntry{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.days[day]
	if !ok {
		e = &dayEntry{}
		s.days[day] = e
	}
	if e.state != StateUnloaded && (e.inflight > 0 || e.version != startVersion) {
		return e.log.Clone(), nil
	}
	e.log = fetched
	e.state = StateLoaded
	return e.log.Clone(), nil
}

// Current returns the local view of day without touching the repository.
func (s *Synchronizer) Current(day string) Optimistic[model.DailyLog] {
	day = s.Day(day)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.days[day]
	if !ok || e.state == StateUnloaded {
		return Optimistic[model.DailyLog]{Value: model.NewDailyLog(day)}
	}
	return Optimistic[model.DailyLog]{
		Value:     e.log.Clone(),
		Pending:   e.inflight > 0,
		LastError: e.lastErr,
	}
}

func (s *Synchronizer) State(day string) DayState {
	day = s.Day(day)
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.days[day]; ok {
		return e.state
	}
	return StateUnloaded
}

// Flush blocks until every save started so far has finished.
func (s *Synchronizer) Flush() {
	s.saves.Wait()
}

func (s *Synchronizer) ensureLoaded(ctx context.Context, day string) error {
	s.mu.Lock()
	e, ok := s.days[day]
	loaded := ok && e.state != StateUnloaded
	s.mu.Unlock()
	if loaded {
		return nil
	}
	_, err := s.Load(ctx, day)
	return err
}

type saveFollowUp func(ctx context.Context) error

// mutate applies fn to the local log of day and starts persisting the
// result. If fn fails nothing changes and no save is started.
func (s *Synchronizer) mutate(ctx context.Context, day, op string, fn func(*model.DailyLog) error, after saveFollowUp) (*PendingSave, error) {
	if err := s.ensureLoaded(ctx, day); err != nil {
		return nil, err
	}
	s.mu.Lock()
	e := s.days[day]
	next := e.log.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	e.log = next
	e.state = StateMutated
	e.inflight++
	e.version++
	snapshot := next.Clone()
	prev, done := e.lastSave, make(chan struct{})
	e.lastSave = done
	s.saves.Add(1)
	s.mu.Unlock()

	return s.persist(ctx, day, op, snapshot, after, prev, done), nil
}

// persist saves snapshot once the previous save of the day (prev) is done,
// then closes done.
func (s *Synchronizer) persist(ctx context.Context, day, op string, snapshot model.DailyLog, after saveFollowUp, prev <-chan struct{}, done chan struct{}) *PendingSave {
	pending := newPendingSave()
	// Saves outlive the caller's context.
	saveCtx := context.WithoutCancel(ctx)
	go func() {
		defer s.saves.Done()
		defer close(done)
		if prev != nil {
			<-prev
		}
		err := s.logs.Save(saveCtx, s.userID, snapshot)
		if err == nil && after != nil {
			err = after(saveCtx)
		}
		if err != nil {
			err = store.Transient(op, err)
		}
		s.finishSave(day, op, err)
		if err == nil && op == "set_weight" && s.reconcileAfterWeight {
			if _, rerr := s.Load(saveCtx, day); rerr != nil {
				s.log(day, op).WithError(rerr).Warn("reconcile after weight save failed")
			}
		}
		pending.complete(err)
	}()
	return pending
}

func (s *Synchronizer) finishSave(day, op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.days[day]
	e.inflight--
	e.lastErr = err
	if e.inflight == 0 {
		e.state = StateLoaded
	}
	if err != nil {
		s.log(day, op).WithError(err).Warn("save failed, keeping local value")
		return
	}
	s.log(day, op).Debug("saved daily log")
}

// AddWater adds delta ml to the day's water intake, flooring at zero.
func (s *Synchronizer) AddWater(ctx context.Context, day string, delta float64) (*PendingSave, error) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return nil, fmt.Errorf("water delta must be a finite number")
	}
	day = s.Day(day)
	return s.mutate(ctx, day, "add_water", func(l *model.DailyLog) error {
		l.WaterIntake = math.Max(0, l.WaterIntake+delta)
		return nil
	}, nil)
}

// SetWater replaces the day's water intake. Calls for the same day closer
// together than the debounce interval return ErrDebounced and change
// nothing. Negative amounts are stored as zero.
func (s *Synchronizer) SetWater(ctx context.Context, day string, amount float64) (*PendingSave, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("water amount must be a finite number")
	}
	day = s.Day(day)
	now := s.now()
	s.mu.Lock()
	if last, ok := s.waterSetAt[day]; ok && now.Sub(last) < s.waterDebounce {
		s.mu.Unlock()
		s.log(day, "set_water").Debug("set water debounced")
		return nil, ErrDebounced
	}
	prev, hadPrev := s.waterSetAt[day]
	s.waterSetAt[day] = now
	s.mu.Unlock()

	pending, err := s.mutate(ctx, day, "set_water", func(l *model.DailyLog) error {
		l.WaterIntake = math.Max(0, amount)
		return nil
	}, nil)
	if err != nil {
		// A rejected call does not start a debounce interval.
		s.mu.Lock()
		if s.waterSetAt[day].Equal(now) {
			if hadPrev {
				s.waterSetAt[day] = prev
			} else {
				delete(s.waterSetAt, day)
			}
		}
		s.mu.Unlock()
		return nil, err
	}
	return pending, nil
}

// SetWeight records kg on the day's log and as the profile weight. The
// profile is read and written back whole so every other field is kept.
func (s *Synchronizer) SetWeight(ctx context.Context, day string, kg float64) (*PendingSave, error) {
	if math.IsNaN(kg) || math.IsInf(kg, 0) || kg <= 0 {
		return nil, fmt.Errorf("weight must be > 0")
	}
	day = s.Day(day)
	var updateProfile saveFollowUp
	if s.profiles != nil {
		updateProfile = func(ctx context.Context) error {
			_, err := UpdateProfile(ctx, s.profiles, s.userID, func(p *model.Profile) error {
				p.Weight = model.Float(kg)
				return nil
			})
			return err
		}
	}
	return s.mutate(ctx, day, "set_weight", func(l *model.DailyLog) error {
		l.Weight = model.Float(kg)
		return nil
	}, updateProfile)
}

func (s *Synchronizer) ToggleCheatDay(ctx context.Context, day string) (*PendingSave, error) {
	day = s.Day(day)
	return s.mutate(ctx, day, "toggle_cheat_day", func(l *model.DailyLog) error {
		l.IsCheatDay = !l.IsCheatDay
		return nil
	}, nil)
}

func (s *Synchronizer) SetNotes(ctx context.Context, day, notes string) (*PendingSave, error) {
	day = s.Day(day)
	return s.mutate(ctx, day, "set_notes", func(l *model.DailyLog) error {
		l.DailyNotes = notes
		return nil
	}, nil)
}

// AddEntry inserts entry after any entries consumed at or before the same
// time. An empty id gets a new UUID and a zero time becomes now. It returns
// the entry id.
func (s *Synchronizer) AddEntry(ctx context.Context, day string, entry model.FoodEntry) (string, *PendingSave, error) {
	day = s.Day(day)
	entry = s.prepareEntry(entry)
	pending, err := s.mutate(ctx, day, "add_entry", func(l *model.DailyLog) error {
		for _, existing := range l.FoodEntries {
			if existing.ID == entry.ID {
				return fmt.Errorf("food entry %s already exists", entry.ID)
			}
		}
		i := sort.Search(len(l.FoodEntries), func(i int) bool {
			return l.FoodEntries[i].TimeConsumed.After(entry.TimeConsumed)
		})
		l.FoodEntries = append(l.FoodEntries, model.FoodEntry{})
		copy(l.FoodEntries[i+1:], l.FoodEntries[i:])
		l.FoodEntries[i] = entry.Clone()
		return nil
	}, nil)
	if err != nil {
		return "", nil, err
	}
	return entry.ID, pending, nil
}

func (s *Synchronizer) RemoveEntry(ctx context.Context, day, entryID string) (*PendingSave, error) {
	day = s.Day(day)
	return s.mutate(ctx, day, "remove_entry", func(l *model.DailyLog) error {
		for i, e := range l.FoodEntries {
			if e.ID == entryID {
				l.FoodEntries = append(l.FoodEntries[:i], l.FoodEntries[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}, nil)
}

// ReplaceEntries overwrites the day's entries with entries, ordered by time.
func (s *Synchronizer) ReplaceEntries(ctx context.Context, day string, entries []model.FoodEntry) (*PendingSave, error) {
	day = s.Day(day)
	next := make([]model.FoodEntry, 0, len(entries))
	seen := map[string]struct{}{}
	for _, e := range entries {
		e = s.prepareEntry(e)
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("duplicate food entry id %s", e.ID)
		}
		seen[e.ID] = struct{}{}
		next = append(next, e.Clone())
	}
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].TimeConsumed.Before(next[j].TimeConsumed)
	})
	return s.mutate(ctx, day, "replace_entries", func(l *model.DailyLog) error {
		l.FoodEntries = next
		return nil
	}, nil)
}

func (s *Synchronizer) prepareEntry(e model.FoodEntry) model.FoodEntry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.TimeConsumed.IsZero() {
		e.TimeConsumed = s.now()
	}
	if meal, err := model.ParseMealType(string(e.MealType)); err == nil {
		e.MealType = meal
	} else {
		e.MealType = model.MealSnack
	}
	return e
}

// overlay returns logs with every locally held day in [start, end] taking
// precedence over its fetched copy.
func (s *Synchronizer) overlay(logs []model.DailyLog, start, end string) []model.DailyLog {
	byDay := make(map[string]model.DailyLog, len(logs))
	for _, l := range logs {
		byDay[l.Date] = l
	}
	s.mu.Lock()
	for day, e := range s.days {
		if e.state == StateUnloaded || day < start || day > end {
			continue
		}
		byDay[day] = e.log.Clone()
	}
	s.mu.Unlock()
	out := make([]model.DailyLog, 0, len(byDay))
	for _, l := range byDay {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Streak computes the active-day streak ending at day over the repository
// and any newer local values.
func (s *Synchronizer) Streak(ctx context.Context, day string) (int, error) {
	return s.StreakWithin(ctx, day, s.lookback)
}

// StreakWithin is Streak with an explicit lookback in days. A negative
// lookback counts only day itself.
func (s *Synchronizer) StreakWithin(ctx context.Context, day string, lookback int) (int, error) {
	day = s.Day(day)
	if lookback < 0 {
		lookback = 0
	}
	start, err := daykey.AddDays(day, -lookback)
	if err != nil {
		return 0, err
	}
	logs, err := s.logs.ListRange(ctx, s.userID, start, day)
	if err != nil {
		return 0, store.Transient("list daily logs", err)
	}
	return ComputeStreak(day, LookupFromLogs(s.overlay(logs, start, day)), lookback), nil
}

// CurrentWeight resolves the weight for day: the day's own, the latest
// earlier one when the repository can look it up, then the profile's.
func (s *Synchronizer) CurrentWeight(ctx context.Context, day string) (float64, bool, error) {
	day = s.Day(day)
	if err := s.ensureLoaded(ctx, day); err != nil {
		return 0, false, err
	}
	profile, err := s.profile(ctx)
	if err != nil {
		return 0, false, err
	}
	w, ok := s.resolveWeight(ctx, day, profile)
	return w, ok, nil
}

// profile fetches the user's profile, nil when there is none.
func (s *Synchronizer) profile(ctx context.Context) (*model.Profile, error) {
	if s.profiles == nil {
		return nil, nil
	}
	p, err := s.profiles.GetProfile(ctx, s.userID)
	switch {
	case err == nil:
		return &p, nil
	case store.IsNotFound(err):
		return nil, nil
	default:
		return nil, store.Transient("get profile", err)
	}
}

func (s *Synchronizer) resolveWeight(ctx context.Context, day string, profile *model.Profile) (float64, bool) {
	current := s.Current(day).Value
	return ResolveCurrentWeight(day, &current, profile, s.priorWeightLookup(ctx))
}

func (s *Synchronizer) priorWeightLookup(ctx context.Context) PriorWeightLookup {
	history, ok := s.logs.(store.WeightHistory)
	if !ok {
		return nil
	}
	return func(day string) (float64, bool) {
		w, _, err := history.LatestWeightBefore(ctx, s.userID, day)
		if err != nil {
			if !store.IsNotFound(err) {
				s.log(day, "latest_weight").WithError(err).Warn("prior weight lookup failed")
			}
			return 0, false
		}
		return w, true
	}
}

// reportGap logs a skipped food entry once per session.
func (s *Synchronizer) reportGap(day string) func(model.FoodEntry) {
	return func(e model.FoodEntry) {
		if s.session.Once("gap:" + s.userID + "/" + day + "/" + e.ID) {
			s.log(day, "aggregate").WithField("entry_id", e.ID).Info("food entry has no usable nutrition data, counted as zero")
		}
	}
}
