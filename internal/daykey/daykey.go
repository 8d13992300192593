// Package daykey turns arbitrary date inputs into calendar-day keys
// (YYYY-MM-DD) resolved in a user's local timezone.
package daykey

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the wire format of a calendar-day key.
const Layout = "2006-01-02"

// fallbackLayouts are tried, in order, for strings that are neither a bare
// day key nor an ISO timestamp.
var fallbackLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 02 2006",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02.01.2006",
	"2.1.2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// Normalizer resolves day keys in Location. Now is the clock used for the
// "today" fallback; both default when nil.
type Normalizer struct {
	Location *time.Location
	Now      func() time.Time
}

// New returns a Normalizer for loc.
func New(loc *time.Location) Normalizer {
	return Normalizer{Location: loc}
}

// Normalize converts input to a day key. It never panics and always returns
// a valid key; unusable input resolves to today.
func Normalize(input any) string {
	return Normalizer{}.Normalize(input)
}

// Today returns today's key in the local timezone.
func Today() string {
	return Normalizer{}.Today()
}

func (n Normalizer) location() *time.Location {
	if n.Location == nil {
		return time.Local
	}
	return n.Location
}

func (n Normalizer) now() time.Time {
	if n.Now == nil {
		return time.Now()
	}
	return n.Now()
}

// Today returns the current day key in the normalizer's location.
func (n Normalizer) Today() string {
	return Format(n.now().In(n.location()))
}

// Normalize converts input to a day key in the normalizer's location.
func (n Normalizer) Normalize(input any) string {
	switch v := input.(type) {
	case nil:
		return n.Today()
	case string:
		return n.normalizeString(v)
	case *string:
		if v == nil {
			return n.Today()
		}
		return n.normalizeString(*v)
	case time.Time:
		return n.fromTime(v)
	case *time.Time:
		if v == nil {
			return n.Today()
		}
		return n.fromTime(*v)
	case int64:
		return n.fromTime(time.UnixMilli(v))
	case int:
		return n.fromTime(time.UnixMilli(int64(v)))
	case fmt.Stringer:
		return n.normalizeString(v.String())
	default:
		return n.Today()
	}
}

func (n Normalizer) normalizeString(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return n.Today()
	}
	if IsValid(s) {
		return s
	}
	if i := strings.IndexByte(s, 'T'); i > 0 && IsValid(s[:i]) {
		return s[:i]
	}
	// JS Date.toString() appends the zone name: "... GMT+0100 (Central European Standard Time)".
	if i := strings.Index(s, " ("); i > 0 {
		s = s[:i]
	}
	loc := n.location()
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return n.fromTime(t)
		}
	}
	return n.Today()
}

func (n Normalizer) fromTime(t time.Time) string {
	if t.IsZero() {
		return n.Today()
	}
	local := t.In(n.location())
	// Keys are exactly four-digit years.
	if y := local.Year(); y < 0 || y > 9999 {
		return n.Today()
	}
	return Format(local)
}

// Format renders t's own year, month and day, zero-padded. Callers convert t
// to the wanted location first; this never switches to UTC.
func Format(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// IsValid reports whether day is a real calendar date in YYYY-MM-DD form.
func IsValid(day string) bool {
	if len(day) != len(Layout) {
		return false
	}
	_, err := time.Parse(Layout, day)
	return err == nil
}

// Parse returns midnight of day in loc (time.Local when nil).
func Parse(day string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(Layout, strings.TrimSpace(day), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", day)
	}
	return t, nil
}

// AddDays shifts day by n calendar days. Arithmetic happens on the calendar
// (UTC midnight) so DST transitions never skip or repeat a day.
func AddDays(day string, n int) (string, error) {
	t, err := time.Parse(Layout, day)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", day)
	}
	return t.AddDate(0, 0, n).Format(Layout), nil
}

// Range lists every day key from start to end inclusive.
func Range(start, end string) ([]string, error) {
	from, err := time.Parse(Layout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q, expected YYYY-MM-DD", start)
	}
	to, err := time.Parse(Layout, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q, expected YYYY-MM-DD", end)
	}
	if from.After(to) {
		return nil, fmt.Errorf("start date must be <= end date")
	}
	days := make([]string, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(Layout))
	}
	return days, nil
}
