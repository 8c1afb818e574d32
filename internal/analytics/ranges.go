package analytics

import (
	"fmt"
	"strings"
	"time"
)

// Dashboard range presets.
const (
	RangeAll         = "ALL"
	RangeOneYear     = "1Y"
	RangeSixMonths   = "6M"
	RangeThreeMonths = "3M"
)

// ResolveRange turns a dashboard preset into date bounds relative to now.
// Besides the named presets a "YYYY-MM" value selects that whole calendar month.
// Relative presets are open-ended on the right. "Today" is taken in loc,
// UTC when nil.
func ResolveRange(preset string, now time.Time, loc *time.Location) (start, end *time.Time, err error) {
	if loc != nil {
		now = now.In(loc)
	}
	today := Day(now)
	back := func(years, months int) (*time.Time, *time.Time, error) {
		s := today.AddDate(-years, -months, 0)
		return &s, nil, nil
	}

	switch p := strings.ToUpper(strings.TrimSpace(preset)); p {
	case "", RangeAll:
		return nil, nil, nil
	case RangeOneYear:
		return back(1, 0)
	case RangeSixMonths:
		return back(0, 6)
	case RangeThreeMonths:
		return back(0, 3)
	default:
		month, perr := time.Parse(MonthLayout, p)
		if perr != nil {
			return nil, nil, fmt.Errorf("%w: unknown range %q, expected ALL, 1Y, 6M, 3M or YYYY-MM", ErrInvalidArgument, preset)
		}
		first := month
		last := first.AddDate(0, 1, -1)
		return &first, &last, nil
	}
}

// WithRange fills the date bounds of f from a range preset. Explicit dates
// already on f take precedence and the preset is ignored.
func (f Filter) WithRange(preset string, now time.Time, loc *time.Location) (Filter, error) {
	if f.HasDateBounds() {
		return f, nil
	}
	start, end, err := ResolveRange(preset, now, loc)
	if err != nil {
		return Filter{}, err
	}
	f.StartDate, f.EndDate = start, end
	return f, nil
}
