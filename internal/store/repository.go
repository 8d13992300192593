// Package store defines the persistence boundary for daily logs and user
// profiles and provides a SQLite implementation of it.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
)

// ErrNotFound means no record exists for the requested key. Callers treat it
// as "empty", never as a failure.
var ErrNotFound = errors.New("record not found")

// TransientError wraps a failure of the backing store that may succeed on a
// later attempt (network, locked database, 5xx).
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a *TransientError unless it is nil, NotFound or
// already transient.
func Transient(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	var te *TransientError
	if errors.As(err, &te) {
		return err
	}
	return &TransientError{Op: op, Err: err}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// LogRepository persists one DailyLog per (user, day). Save is a full
// overwrite of the day: scalars and the entire entry list.
type LogRepository interface {
	FetchByDay(ctx context.Context, userID, day string) (model.DailyLog, error)
	Save(ctx context.Context, userID string, log model.DailyLog) error
	// ListRange returns stored logs with start <= date <= end, ordered by
	// date. Days without a record are absent.
	ListRange(ctx context.Context, userID, start, end string) ([]model.DailyLog, error)
}

// WeightHistory is implemented by repositories that can answer "most recent
// recorded weight strictly before day" without scanning every log.
type WeightHistory interface {
	LatestWeightBefore(ctx context.Context, userID, day string) (weight float64, date string, err error)
}

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (model.Profile, error)
	// SaveProfile overwrites every profile column.
	SaveProfile(ctx context.Context, profile model.Profile) error
}
