package daykey_test

import (
	"math"
	"testing"
	"time"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/daykey"
)

func fixedNormalizer(t *testing.T, zone string) daykey.Normalizer {
	t.Helper()
	loc, err := time.LoadLocation(zone)
	if err != nil {
		t.Fatalf("load location %s: %v", zone, err)
	}
	return daykey.Normalizer{
		Location: loc,
		Now: func() time.Time {
			return time.Date(2024, 3, 10, 12, 0, 0, 0, loc)
		},
	}
}

func TestNormalizeAcceptedInputs(t *testing.T) {
	t.Parallel()
	n := fixedNormalizer(t, "Europe/Berlin")
	berlin := n.Location

	cases := []struct {
		name  string
		input any
		want  string
	}{
		{"day key unchanged", "2024-03-01", "2024-03-01"},
		{"iso timestamp truncated", "2024-03-01T23:30:00.000Z", "2024-03-01"},
		{"iso with offset truncated", "2024-02-29T00:15:00+01:00", "2024-02-29"},
		{"german locale string", "1.3.2024", "2024-03-01"},
		{"padded german locale string", "01.03.2024", "2024-03-01"},
		{"slash date", "2024/03/01", "2024-03-01"},
		{"us date", "03/01/2024", "2024-03-01"},
		{"long month", "March 1, 2024", "2024-03-01"},
		{"js date string", "Fri Mar 01 2024 23:30:00 GMT+0100 (Central European Standard Time)", "2024-03-01"},
		{"time value", time.Date(2024, 3, 1, 8, 0, 0, 0, berlin), "2024-03-01"},
		{"time pointer", ptrTime(time.Date(2024, 3, 1, 8, 0, 0, 0, berlin)), "2024-03-01"},
		{"unix millis", time.Date(2024, 3, 1, 8, 0, 0, 0, berlin).UnixMilli(), "2024-03-01"},
		{"nil falls back to today", nil, "2024-03-10"},
		{"nil time pointer", (*time.Time)(nil), "2024-03-10"},
		{"zero time", time.Time{}, "2024-03-10"},
		{"empty string", "   ", "2024-03-10"},
		{"garbage string", "not a date", "2024-03-10"},
		{"impossible day key", "2024-02-30", "2024-03-10"},
		{"impossible iso head", "2024-13-01T10:00:00Z", "2024-03-10"},
		{"unsupported type", 3.5, "2024-03-10"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := n.Normalize(tc.input); got != tc.want {
				t.Fatalf("Normalize(%v) = %s, want %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()
	n := fixedNormalizer(t, "America/Los_Angeles")
	inputs := []any{
		"2024-03-01",
		"2024-03-01T23:30:00Z",
		"March 1, 2024",
		time.Date(2024, 11, 3, 1, 30, 0, 0, n.Location),
		nil,
		"garbage",
		time.Date(10000, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(-5, 1, 1, 12, 0, 0, 0, time.UTC),
		int64(math.MaxInt64),
		int64(17280000000000000),
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		if once != twice {
			t.Fatalf("normalize not idempotent for %v: %s then %s", in, once, twice)
		}
		if !daykey.IsValid(once) {
			t.Fatalf("normalize returned invalid key %q for %v", once, in)
		}
	}
	if got := n.Normalize(time.Date(10000, 1, 1, 12, 0, 0, 0, time.UTC)); got != "2024-03-10" {
		t.Fatalf("expected out-of-range year to fall back to today, got %s", got)
	}
}

func TestNormalizeUsesLocalDayNotUTCDay(t *testing.T) {
	t.Parallel()
	n := fixedNormalizer(t, "America/New_York")
	evening := time.Date(2024, 3, 1, 23, 30, 0, 0, n.Location)
	if utcDay := evening.UTC().Format(daykey.Layout); utcDay != "2024-03-02" {
		t.Fatalf("test premise broken: UTC day is %s", utcDay)
	}
	if got := n.Normalize(evening); got != "2024-03-01" {
		t.Fatalf("expected local day 2024-03-01, got %s", got)
	}
	if got := n.Normalize(evening.UTC()); got != "2024-03-01" {
		t.Fatalf("expected UTC instant to resolve to local day 2024-03-01, got %s", got)
	}
}

func TestAddDaysAcrossDST(t *testing.T) {
	t.Parallel()
	cases := []struct {
		day  string
		n    int
		want string
	}{
		{"2024-03-11", -1, "2024-03-10"},
		{"2024-03-10", -1, "2024-03-09"},
		{"2024-11-04", -1, "2024-11-03"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2024-12-31", 1, "2025-01-01"},
	}
	for _, tc := range cases {
		got, err := daykey.AddDays(tc.day, tc.n)
		if err != nil {
			t.Fatalf("add days %s %d: %v", tc.day, tc.n, err)
		}
		if got != tc.want {
			t.Fatalf("AddDays(%s, %d) = %s, want %s", tc.day, tc.n, got, tc.want)
		}
	}
	if _, err := daykey.AddDays("2024-3-1", 1); err == nil {
		t.Fatalf("expected malformed day to fail")
	}
}

func TestRange(t *testing.T) {
	t.Parallel()
	days, err := daykey.Range("2024-02-28", "2024-03-02")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	want := []string{"2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}
	if len(days) != len(want) {
		t.Fatalf("expected %d days, got %v", len(want), days)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("day %d = %s, want %s", i, days[i], want[i])
		}
	}
	if _, err := daykey.Range("2024-03-02", "2024-03-01"); err == nil {
		t.Fatalf("expected reversed range to fail")
	}
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
